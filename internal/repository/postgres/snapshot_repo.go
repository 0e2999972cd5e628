package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/repository"
)

type SnapshotRepository struct {
	db *DB
}

func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

var _ repository.SnapshotRepository = (*SnapshotRepository)(nil)

// SaveSnapshot writes the whole dataset under a fresh snapshot id in one
// transaction.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, ds *domain.Dataset) (string, error) {
	id := uuid.NewString()

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshots (id, fetched_at, created_at)
			VALUES ($1, $2, NOW())
		`, id, ds.FetchedAt); err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}

		if err := insertOrders(ctx, tx, id, ds.Orders); err != nil {
			return err
		}
		if err := insertCatalog(ctx, tx, id, ds.Catalog); err != nil {
			return err
		}
		if err := insertTracking(ctx, tx, id, ds.Tracking); err != nil {
			return err
		}
		if err := insertAccounts(ctx, tx, id, ds.Accounts); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func insertOrders(ctx context.Context, tx *sql.Tx, snapshotID string, orders []domain.OrderRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_orders (
			snapshot_id, status, original_status, order_date, stuffing_month,
			forwarding_month, order_no, customer_name, country, product_code,
			product, category, segment, qty, export_value, logo_url, image_link,
			unit_price, fob_price, moq, fy, stuffing_date, etd, eta
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare order insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range orders {
		if _, err := stmt.ExecContext(ctx, snapshotID,
			o.Status, o.OriginalStatus, o.OrderDate, o.StuffingMonth,
			o.ForwardingMonth, o.OrderNo, o.CustomerName, o.Country, o.ProductCode,
			o.Product, o.Category, o.Segment, o.Qty, o.ExportValue, o.LogoURL,
			o.ImageLink, o.UnitPrice, o.FobPrice, o.MOQ, o.FY, o.StuffingDate,
			o.ETD, o.ETA,
		); err != nil {
			return fmt.Errorf("failed to insert order row: %w", err)
		}
	}
	return nil
}

func insertCatalog(ctx context.Context, tx *sql.Tx, snapshotID string, catalog []domain.CatalogEntry) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_catalog (
			snapshot_id, category, segment, product, product_code, image_link,
			customer_name, country, fob_price, moq
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare catalog insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range catalog {
		if _, err := stmt.ExecContext(ctx, snapshotID,
			c.Category, c.Segment, c.Product, c.ProductCode, c.ImageLink,
			c.CustomerName, c.Country, c.FobPrice, c.MOQ,
		); err != nil {
			return fmt.Errorf("failed to insert catalog row: %w", err)
		}
	}
	return nil
}

func insertTracking(ctx context.Context, tx *sql.Tx, snapshotID string, tracking []domain.TrackingRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_tracking (
			snapshot_id, order_no, production_date, production_status, sob_date,
			sob_status, payment_planned_date, payment_status,
			quality_check_planned_date, quality_check_status, quality_check_urls
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare tracking insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tracking {
		if _, err := stmt.ExecContext(ctx, snapshotID,
			t.OrderNo, t.ProductionDate, t.ProductionStatus, t.SOBDate,
			t.SOBStatus, t.PaymentPlannedDate, t.PaymentStatus,
			t.QualityCheckPlannedDate, t.QualityCheckStatus,
			pq.Array(t.QualityCheckURLs),
		); err != nil {
			return fmt.Errorf("failed to insert tracking row: %w", err)
		}
	}
	return nil
}

func insertAccounts(ctx context.Context, tx *sql.Tx, snapshotID string, accounts []domain.AccountRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_accounts (
			snapshot_id, s_no, order_date, country, company, order_no, product,
			product_code, port, shipping_month, sob, total_order_value,
			credit_note, market_budget, payment_received, balance_payment, eta,
			payment_due_date, status, comment
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare account insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range accounts {
		if _, err := stmt.ExecContext(ctx, snapshotID,
			a.SNo, a.OrderDate, a.Country, a.Company, a.OrderNo, a.Product,
			a.ProductCode, a.Port, a.ShippingMonth, a.SOB, a.TotalOrderValue,
			a.CreditNote, a.MarketBudget, a.PaymentReceived, a.BalancePayment,
			a.ETA, a.PaymentDueDate, a.Status, a.Comment,
		); err != nil {
			return fmt.Errorf("failed to insert account row: %w", err)
		}
	}
	return nil
}

type trackingRow struct {
	OrderNo                 string         `db:"order_no"`
	ProductionDate          string         `db:"production_date"`
	ProductionStatus        string         `db:"production_status"`
	SOBDate                 string         `db:"sob_date"`
	SOBStatus               string         `db:"sob_status"`
	PaymentPlannedDate      string         `db:"payment_planned_date"`
	PaymentStatus           string         `db:"payment_status"`
	QualityCheckPlannedDate string         `db:"quality_check_planned_date"`
	QualityCheckStatus      string         `db:"quality_check_status"`
	QualityCheckURLs        pq.StringArray `db:"quality_check_urls"`
}

// LatestSnapshot loads the most recent snapshot, or nil when none exists.
func (r *SnapshotRepository) LatestSnapshot(ctx context.Context) (*domain.Dataset, error) {
	var meta struct {
		ID        string    `db:"id"`
		FetchedAt time.Time `db:"fetched_at"`
	}
	err := r.db.GetContext(ctx, &meta, `
		SELECT id, fetched_at FROM snapshots ORDER BY created_at DESC LIMIT 1
	`)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}

	ds := &domain.Dataset{FetchedAt: meta.FetchedAt}

	if err := r.db.SelectContext(ctx, &ds.Orders, `
		SELECT status, original_status, order_date, stuffing_month,
			forwarding_month, order_no, customer_name, country, product_code,
			product, category, segment, qty, export_value, logo_url, image_link,
			unit_price, fob_price, moq, fy, stuffing_date, etd, eta
		FROM snapshot_orders WHERE snapshot_id = $1
	`, meta.ID); err != nil {
		return nil, fmt.Errorf("failed to load snapshot orders: %w", err)
	}

	if err := r.db.SelectContext(ctx, &ds.Catalog, `
		SELECT category, segment, product, product_code, image_link,
			customer_name, country, fob_price, moq
		FROM snapshot_catalog WHERE snapshot_id = $1
	`, meta.ID); err != nil {
		return nil, fmt.Errorf("failed to load snapshot catalog: %w", err)
	}

	var tracking []trackingRow
	if err := r.db.SelectContext(ctx, &tracking, `
		SELECT order_no, production_date, production_status, sob_date,
			sob_status, payment_planned_date, payment_status,
			quality_check_planned_date, quality_check_status, quality_check_urls
		FROM snapshot_tracking WHERE snapshot_id = $1
	`, meta.ID); err != nil {
		return nil, fmt.Errorf("failed to load snapshot tracking: %w", err)
	}
	for _, t := range tracking {
		ds.Tracking = append(ds.Tracking, domain.TrackingRecord{
			OrderNo:                 t.OrderNo,
			ProductionDate:          t.ProductionDate,
			ProductionStatus:        t.ProductionStatus,
			SOBDate:                 t.SOBDate,
			SOBStatus:               t.SOBStatus,
			PaymentPlannedDate:      t.PaymentPlannedDate,
			PaymentStatus:           t.PaymentStatus,
			QualityCheckPlannedDate: t.QualityCheckPlannedDate,
			QualityCheckStatus:      t.QualityCheckStatus,
			QualityCheckURLs:        t.QualityCheckURLs,
		})
	}

	if err := r.db.SelectContext(ctx, &ds.Accounts, `
		SELECT s_no, order_date, country, company, order_no, product,
			product_code, port, shipping_month, sob, total_order_value,
			credit_note, market_budget, payment_received, balance_payment, eta,
			payment_due_date, status, comment
		FROM snapshot_accounts WHERE snapshot_id = $1
	`, meta.ID); err != nil {
		return nil, fmt.Errorf("failed to load snapshot accounts: %w", err)
	}

	return ds, nil
}

// PruneSnapshots deletes all but the newest keep snapshots. Row tables
// cascade on the snapshot id.
func (r *SnapshotRepository) PruneSnapshots(ctx context.Context, keep int) error {
	if keep < 1 {
		keep = 1
	}
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY created_at DESC LIMIT $1
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return nil
}

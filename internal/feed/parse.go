// backend-go/internal/feed/parse.go
package feed

import (
	"strings"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/dates"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/gviz"
)

// required reports whether a required cell survived parsing. The sheets
// use "#N/A" as their missing-value sentinel.
func required(v string) bool {
	return v != "" && !strings.EqualFold(v, "#n/a")
}

// rowReader wraps one gviz row with label-based accessors, mirroring how
// the sheets are read column-by-name.
type rowReader struct {
	row gviz.Row
	idx map[string]int
}

func (r rowReader) value(label string) any {
	i, ok := r.idx[label]
	if !ok {
		return nil
	}
	return r.row.Value(i)
}

func (r rowReader) str(label string) string     { return gviz.String(r.value(label)) }
func (r rowReader) intVal(label string) int     { return gviz.Int(r.value(label)) }
func (r rowReader) floatVal(label string) float64 { return gviz.Float(r.value(label)) }

// ParseOrders converts the Live sheet table into order records. Rows
// without an order number are dropped; an empty or #N/A FY cell falls back
// to the pinned fiscal year.
func ParseOrders(t *gviz.Table) []domain.OrderRecord {
	idx := t.LabelIndex()
	out := make([]domain.OrderRecord, 0, len(t.Rows))

	for _, row := range t.Rows {
		r := rowReader{row: row, idx: idx}

		rec := domain.OrderRecord{
			Status:          r.str("Status"),
			OrderDate:       r.str("ORDER FORWARDING DATE"),
			StuffingMonth:   r.str("Stuffing Month"),
			ForwardingMonth: r.str("Month"),
			OrderNo:         r.str("Order Number"),
			CustomerName:    r.str("Client"),
			Country:         r.str("Country"),
			ProductCode:     r.str("Products Code"),
			Product:         r.str("Product"),
			Category:        r.str("Category"),
			Segment:         r.str("Segment"),
			Qty:             r.intVal("Qty"),
			ExportValue:     r.floatVal("Export Value"),
			LogoURL:         r.str("Logo Image"),
			ImageLink:       r.str("Image Link"),
			UnitPrice:       r.floatVal("Unit Price"),
			FobPrice:        r.floatVal("Fob Price"),
			MOQ:             r.intVal("MOQ"),
			FY:              r.str("FY"),
			StuffingDate:    r.str("Stuffing Date"),
			ETD:             r.str("ETD/ SOB"),
			ETA:             r.str("ETA"),
		}

		if !required(rec.OrderNo) {
			continue
		}
		if !required(rec.FY) {
			rec.FY = dates.FallbackFiscalYear
		}

		out = append(out, rec)
	}

	return out
}

// ParseCatalog converts the MASTER sheet table into catalog entries, keyed
// by product code.
func ParseCatalog(t *gviz.Table) []domain.CatalogEntry {
	idx := t.LabelIndex()
	out := make([]domain.CatalogEntry, 0, len(t.Rows))

	for _, row := range t.Rows {
		r := rowReader{row: row, idx: idx}

		entry := domain.CatalogEntry{
			Category:     r.str("Category"),
			Segment:      r.str("Segment"),
			Product:      r.str("Product"),
			ProductCode:  r.str("Products Code"),
			ImageLink:    r.str("Image Link"),
			CustomerName: r.str("Customer Name"),
			Country:      r.str("Country"),
			FobPrice:     r.floatVal("Fob Price"),
			MOQ:          r.intVal("Moq Qty"),
		}

		if !required(entry.ProductCode) {
			continue
		}

		out = append(out, entry)
	}

	return out
}

// ParseAccounts converts the account sheet table into settlement rows.
func ParseAccounts(t *gviz.Table) []domain.AccountRecord {
	idx := t.LabelIndex()
	out := make([]domain.AccountRecord, 0, len(t.Rows))

	for _, row := range t.Rows {
		r := rowReader{row: row, idx: idx}

		rec := domain.AccountRecord{
			SNo:             r.str("S.NO"),
			OrderDate:       r.str("fecha de envo del pedido"),
			Country:         r.str("COUNTRY"),
			Company:         r.str("COMPANY"),
			OrderNo:         r.str("ORDER NO"),
			Product:         r.str("PRODUCT"),
			ProductCode:     r.str("PRODUCT CODE"),
			Port:            r.str("PORT"),
			ShippingMonth:   r.str("SHIPPING MONTH/ PRODUCTION FINISH DATE"),
			SOB:             r.str("SOB"),
			TotalOrderValue: r.floatVal("TOTAL ORDER VALUE"),
			CreditNote:      r.str("CREDIT NOTE"),
			MarketBudget:    r.str("MARKET BUDGET"),
			PaymentReceived: r.floatVal("PAYMENT RECEIVED"),
			BalancePayment:  r.floatVal("BALANCE PAYMENT"),
			ETA:             r.str("ETA"),
			PaymentDueDate:  r.str("PAYMENT DUE DATE"),
			Status:          r.str("STATUS"),
			Comment:         r.str("COMMENT"),
		}

		if !required(rec.OrderNo) {
			continue
		}

		out = append(out, rec)
	}

	return out
}

// ParseTracking converts the Step sheet into tracking records. This sheet
// has no reliable header labels, so columns are read by position:
// order no, production date/status, SOB date/status, payment planned
// date/status, QC planned date, four QC photo links, QC status.
func ParseTracking(t *gviz.Table) []domain.TrackingRecord {
	out := make([]domain.TrackingRecord, 0, len(t.Rows))

	for _, row := range t.Rows {
		cell := func(i int) string { return gviz.String(row.Value(i)) }

		rec := domain.TrackingRecord{
			OrderNo:                 cell(0),
			ProductionDate:          cell(1),
			ProductionStatus:        cell(2),
			SOBDate:                 cell(3),
			SOBStatus:               cell(4),
			PaymentPlannedDate:      cell(5),
			PaymentStatus:           cell(6),
			QualityCheckPlannedDate: cell(7),
			QualityCheckStatus:      cell(12),
		}
		for i := 8; i <= 11; i++ {
			if url := cell(i); url != "" {
				rec.QualityCheckURLs = append(rec.QualityCheckURLs, url)
			}
		}

		if !required(rec.OrderNo) {
			continue
		}

		out = append(out, rec)
	}

	return out
}

// ParseCredentials reads (name, key) pairs from the credentials sheet.
// Rows with an empty name or key are skipped.
func ParseCredentials(t *gviz.Table) []domain.Credential {
	out := make([]domain.Credential, 0, len(t.Rows))

	for _, row := range t.Rows {
		name := gviz.String(row.Value(0))
		key := gviz.String(row.Value(1))
		if name == "" || key == "" {
			continue
		}
		out = append(out, domain.Credential{Name: name, Key: key})
	}

	return out
}

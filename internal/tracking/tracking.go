// backend-go/internal/tracking/tracking.go
package tracking

import (
	"strings"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
)

// StepState derives a milestone's display state: a yes/done status marks it
// completed, otherwise a usable planned date marks it pending, otherwise it
// is upcoming.
func StepState(status, date string) domain.StepState {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "yes", "done":
		return domain.StepCompleted
	}
	d := strings.TrimSpace(date)
	if d != "" && !strings.EqualFold(d, "#n/a") {
		return domain.StepPending
	}
	return domain.StepUpcoming
}

// photoURLs keeps only usable links: non-empty, not #N/A and http(s).
func photoURLs(urls []string) []string {
	var out []string
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || strings.EqualFold(u, "#n/a") {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(u), "http") {
			continue
		}
		out = append(out, u)
	}
	return out
}

// Timeline builds the four-milestone timeline for one order number, plus an
// initial Order Received step when the order date is known. A missing
// tracking record yields a timeline with empty Steps so the caller can
// distinguish "no tracking" from "not started".
func Timeline(orderNo string, rec *domain.TrackingRecord, orderDate string, fin *domain.FinancialSummary) domain.TrackingTimeline {
	tl := domain.TrackingTimeline{
		OrderNo:   orderNo,
		OrderDate: orderDate,
		Financial: fin,
	}
	if rec == nil {
		return tl
	}

	if orderDate != "" {
		tl.Steps = append(tl.Steps, domain.TimelineStep{
			Name:  "Order Received",
			Date:  orderDate,
			State: domain.StepCompleted,
		})
	}

	tl.Steps = append(tl.Steps,
		domain.TimelineStep{
			Name:  "Production",
			Date:  rec.ProductionDate,
			State: StepState(rec.ProductionStatus, rec.ProductionDate),
		},
		domain.TimelineStep{
			Name:      "Quality Check",
			Date:      rec.QualityCheckPlannedDate,
			State:     StepState(rec.QualityCheckStatus, rec.QualityCheckPlannedDate),
			PhotoURLs: photoURLs(rec.QualityCheckURLs),
		},
		domain.TimelineStep{
			Name:  "Final SOB",
			Date:  rec.SOBDate,
			State: StepState(rec.SOBStatus, rec.SOBDate),
		},
		domain.TimelineStep{
			Name:  "Payment",
			Date:  rec.PaymentPlannedDate,
			State: StepState(rec.PaymentStatus, rec.PaymentPlannedDate),
		},
	)
	return tl
}

// FinancialFor joins an order's settlement numbers. The account sheet may
// merge several order numbers in one cell, so the match is a substring
// lookup; quantities come from exact live-row matches to keep sibling
// sub-orders apart. Without an account row the value falls back to the live
// rows' export value and the payment figures to zero.
func FinancialFor(orderNo string, orders []domain.OrderRecord, accounts []domain.AccountRecord) *domain.FinancialSummary {
	if orderNo == "" {
		return nil
	}

	var accountRow *domain.AccountRecord
	for i := range accounts {
		if strings.Contains(accounts[i].OrderNo, orderNo) {
			accountRow = &accounts[i]
			break
		}
	}

	var qty int
	var liveValue float64
	for _, r := range orders {
		if r.OrderNo == orderNo {
			qty += r.Qty
			liveValue += r.ExportValue
		}
	}

	fin := &domain.FinancialSummary{OrderQty: qty}
	if accountRow != nil {
		fin.OrderValue = accountRow.TotalOrderValue
		fin.Received = accountRow.PaymentReceived
		fin.Balance = accountRow.BalancePayment
	} else {
		fin.OrderValue = liveValue
	}
	return fin
}

// Lookup resolves the full tracking view for one order number against a
// snapshot. The order date comes from the order's first live row.
func Lookup(ds *domain.Dataset, orderNo string) domain.TrackingTimeline {
	var rec *domain.TrackingRecord
	for i := range ds.Tracking {
		if ds.Tracking[i].OrderNo == orderNo {
			rec = &ds.Tracking[i]
			break
		}
	}

	orderDate := ""
	for _, r := range ds.Orders {
		if r.OrderNo == orderNo {
			orderDate = r.OrderDate
			break
		}
	}

	return Timeline(orderNo, rec, orderDate, FinancialFor(orderNo, ds.Orders, ds.Accounts))
}

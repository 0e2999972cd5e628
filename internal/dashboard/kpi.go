// backend-go/internal/dashboard/kpi.go
package dashboard

import (
	"sort"
	"strings"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/dates"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
)

// kpiBase is the row scope every KPI counts over: the active client's rows
// narrowed by the country filter only. Year and date-range selections gate
// individual KPIs per-row instead of shrinking the base, so ActiveClients
// and Countries stay stable across year switches.
func kpiBase(records []domain.OrderRecord, st domain.ViewState) []domain.OrderRecord {
	out := make([]domain.OrderRecord, 0, len(records))
	for _, r := range records {
		if !st.AdminView && r.CustomerName != st.User {
			continue
		}
		out = append(out, r)
	}

	if country, ok := st.Filters.FirstOfType(domain.FilterCountry); ok {
		kept := out[:0]
		for _, r := range out {
			if strings.EqualFold(strings.TrimSpace(r.Country), strings.TrimSpace(country.Value)) {
				kept = append(kept, r)
			}
		}
		out = kept
	}

	return out
}

// KPIs computes the headline cards for one view state.
//
// Received and In-Process gate each order on the calendar year of its order
// date matching the start of the selected fiscal year; Shipped gates on the
// stuffing month the same way. Total value and bought products gate on the
// row's FY label instead. An active date range replaces all of that with a
// plain order-date (or stuffing-month, for Shipped) window test. Order
// counts are distinct order numbers, one order spanning the year boundary
// counts in both years' Received.
func KPIs(records []domain.OrderRecord, neverBoughtCount int, st domain.ViewState) domain.KPISet {
	base := kpiBase(records, st)

	rng := dates.NewRange(st.StartDate, st.EndDate)

	targetYY := ""
	targetFY := ""
	if !rng.Active() && st.Year != "" && st.Year != "All" {
		targetYY = dates.FiscalStartYY(st.Year)
		targetFY = st.Year
	}

	inYear := func(dateStr string) bool {
		if rng.Active() {
			return rng.ContainsString(dateStr)
		}
		return targetYY == "" || dates.TwoDigitYear(dateStr) == targetYY
	}

	received := make(map[string]bool)
	inProcess := make(map[string]bool)
	shipped := make(map[string]bool)
	boughtProducts := make(map[string]bool)
	clients := make(map[string]bool)
	countries := make(map[string]bool)
	var totalValue float64

	for _, r := range base {
		clients[r.CustomerName] = true
		if c := strings.ToLower(strings.TrimSpace(r.Country)); c != "" {
			countries[c] = true
		}

		isPlan := r.StatusCode == domain.StatusPlanned
		isShipped := r.StatusCode.ShippedOrComplete()

		if isPlan || isShipped {
			if inYear(r.OrderDate) {
				received[r.OrderNo] = true
			}

			includeValue := false
			if rng.Active() {
				includeValue = rng.ContainsString(r.OrderDate)
			} else {
				includeValue = targetFY == "" || r.FY == targetFY
			}
			if includeValue {
				totalValue += r.ExportValue
				boughtProducts[r.ProductCode] = true
			}
		}

		if isPlan && inYear(r.OrderDate) {
			inProcess[r.OrderNo] = true
		}

		if isShipped && inYear(r.StuffingMonth) {
			shipped[r.OrderNo] = true
		}
	}

	return domain.KPISet{
		TotalValue:       totalValue,
		TotalOrders:      len(received),
		TotalInProcess:   len(inProcess),
		TotalShipped:     len(shipped),
		BoughtProducts:   len(boughtProducts),
		ActiveClients:    len(clients),
		Countries:        len(countries),
		NeverBoughtCount: neverBoughtCount,
	}
}

// ChartRows is the row scope the charts share with the KPI cards: client
// scope, fiscal year only when no date range is active, country filter, and
// an order-date range test. Search, month and status filters deliberately do
// not apply here.
func ChartRows(records []domain.OrderRecord, st domain.ViewState) []domain.OrderRecord {
	out := make([]domain.OrderRecord, 0, len(records))
	for _, r := range records {
		if !st.AdminView && r.CustomerName != st.User {
			continue
		}
		out = append(out, r)
	}

	rng := dates.NewRange(st.StartDate, st.EndDate)

	if !rng.Active() && st.Year != "" && st.Year != "All" {
		kept := out[:0]
		for _, r := range out {
			if r.FY == st.Year {
				kept = append(kept, r)
			}
		}
		out = kept
	}

	if country, ok := st.Filters.FirstOfType(domain.FilterCountry); ok {
		kept := out[:0]
		for _, r := range out {
			if strings.EqualFold(strings.TrimSpace(r.Country), strings.TrimSpace(country.Value)) {
				kept = append(kept, r)
			}
		}
		out = kept
	}

	if rng.Active() {
		kept := out[:0]
		for _, r := range out {
			if rng.ContainsString(r.OrderDate) {
				kept = append(kept, r)
			}
		}
		out = kept
	}

	return out
}

// CountryChart sums export value and quantity per country over the chart
// rows, descending by value. Countries differing only in case or whitespace
// collapse into one bucket labelled by the first spelling seen.
func CountryChart(records []domain.OrderRecord) []domain.CountryBucket {
	idx := make(map[string]int)
	var buckets []domain.CountryBucket
	for _, r := range records {
		if strings.TrimSpace(r.Country) == "" {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(r.Country))
		i, ok := idx[key]
		if !ok {
			i = len(buckets)
			idx[key] = i
			buckets = append(buckets, domain.CountryBucket{Name: strings.TrimSpace(r.Country)})
		}
		buckets[i].Value += r.ExportValue
		buckets[i].Qty += r.Qty
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Value > buckets[j].Value
	})
	return buckets
}

// MonthlyChart buckets the chart rows into the twelve calendar months of
// their order date: distinct order counts, export value and quantity. Rows
// that are neither planned nor shipped, and rows without a parseable order
// date, are skipped.
func MonthlyChart(records []domain.OrderRecord) []domain.MonthBucket {
	type bucket struct {
		orders map[string]bool
		value  float64
		qty    int
	}
	months := make([]bucket, 12)
	for i := range months {
		months[i].orders = make(map[string]bool)
	}

	for _, r := range records {
		if !r.StatusCode.Active() {
			continue
		}
		t := dates.Parse(r.OrderDate)
		if t == nil {
			continue
		}
		m := int(t.Month()) - 1
		months[m].value += r.ExportValue
		months[m].qty += r.Qty
		if r.OrderNo != "" {
			months[m].orders[r.OrderNo] = true
		}
	}

	out := make([]domain.MonthBucket, 12)
	for i, name := range dates.MonthNames {
		out[i] = domain.MonthBucket{
			Name:   name,
			Orders: len(months[i].orders),
			Value:  months[i].value,
			Qty:    months[i].qty,
		}
	}
	return out
}

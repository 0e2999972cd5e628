// backend-go/internal/dashboard/filter.go
package dashboard

import (
	"sort"
	"strings"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/dates"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
)

// ClientScoped narrows the snapshot to the rows the table pipeline starts
// from: the active client's rows, the selected fiscal year, and the optional
// date range. Shipped and complete rows are ranged on the stuffing month,
// everything else on the order forwarding date; rows whose relevant date
// does not parse fall outside any active range.
func ClientScoped(records []domain.OrderRecord, st domain.ViewState) []domain.OrderRecord {
	out := make([]domain.OrderRecord, 0, len(records))
	for _, r := range records {
		if !st.AdminView && r.CustomerName != st.User {
			continue
		}
		out = append(out, r)
	}

	if st.Year != "" && st.Year != "All" {
		kept := out[:0]
		for _, r := range out {
			if r.FY == st.Year {
				kept = append(kept, r)
			}
		}
		out = kept
	}

	rng := dates.NewRange(st.StartDate, st.EndDate)
	if rng.Active() {
		kept := out[:0]
		for _, r := range out {
			relevant := r.OrderDate
			if r.StatusCode.ShippedOrComplete() {
				relevant = r.StuffingMonth
			}
			if rng.ContainsString(relevant) {
				kept = append(kept, r)
			}
		}
		out = kept
	}

	return out
}

// Searched keeps the rows matching a free-text query: case-insensitive
// substring over status, order number, product, product code, category and
// the formatted stuffing month. Admin views additionally match client name
// and country. An empty query keeps everything.
func Searched(records []domain.OrderRecord, query string, admin bool) []domain.OrderRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}

	contains := func(s string) bool {
		return s != "" && strings.Contains(strings.ToLower(s), q)
	}

	out := make([]domain.OrderRecord, 0, len(records))
	for _, r := range records {
		match := contains(r.Status) ||
			contains(r.OriginalStatus) ||
			contains(dates.FormatDDMMMYY(r.StuffingMonth)) ||
			contains(r.OrderNo) ||
			contains(r.Product) ||
			contains(r.ProductCode) ||
			contains(r.Category)
		if admin {
			match = match || contains(r.CustomerName) || contains(r.Country)
		}
		if match {
			out = append(out, r)
		}
	}
	return out
}

// Filtered applies the active chart/KPI filters: filters of different types
// AND together, filters of the same type OR together. A status filter from a
// KPI card for PLAN or SHIPPED matches the immutable original status
// exactly; any other status filter is an uppercase prefix match on the
// display label. Country matches on trimmed lowercase equality, month on the
// order date's three-letter month name.
func Filtered(records []domain.OrderRecord, filters domain.FilterSet) []domain.OrderRecord {
	if len(filters) == 0 {
		return records
	}

	byType := make(map[domain.FilterType][]domain.Filter)
	for _, f := range filters {
		byType[f.Type] = append(byType[f.Type], f)
	}

	out := make([]domain.OrderRecord, 0, len(records))
	for _, r := range records {
		keep := true
		for _, group := range byType {
			if !matchesAny(r, group) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

func matchesAny(r domain.OrderRecord, group []domain.Filter) bool {
	for _, f := range group {
		if matchesFilter(r, f) {
			return true
		}
	}
	return false
}

func matchesFilter(r domain.OrderRecord, f domain.Filter) bool {
	switch f.Type {
	case domain.FilterStatus:
		if f.Source == "kpi" && (f.Value == "PLAN" || f.Value == "SHIPPED") {
			return strings.ToUpper(r.OriginalStatus) == f.Value
		}
		return strings.HasPrefix(strings.ToUpper(r.Status), f.Value)
	case domain.FilterCountry:
		return strings.EqualFold(strings.TrimSpace(r.Country), strings.TrimSpace(f.Value))
	case domain.FilterMonth:
		t := dates.Parse(r.OrderDate)
		if t == nil {
			return false
		}
		return dates.MonthAbbrev(*t) == f.Value
	default:
		return true
	}
}

// TableRows runs the full table pipeline for one view state: client scope,
// then search, then active filters. The result feeds the drill-down
// grouping.
func TableRows(records []domain.OrderRecord, st domain.ViewState) []domain.OrderRecord {
	return Filtered(Searched(ClientScoped(records, st), st.Search, st.AdminView), st.Filters)
}

// NeverBought lists catalog products the active client has never ordered,
// deduplicated by product code in catalog order. The bought set comes from
// the client-scoped rows, so year and date-range selections shrink it. Admin
// views get the whole catalog deduplicated instead.
func NeverBought(catalog []domain.CatalogEntry, clientScoped []domain.OrderRecord, st domain.ViewState) []domain.NeverBoughtProduct {
	if len(catalog) == 0 {
		return nil
	}

	if st.AdminView {
		return dedupeCatalog(catalog, nil)
	}

	bought := make(map[string]bool, len(clientScoped))
	for _, r := range clientScoped {
		bought[r.ProductCode] = true
	}

	scoped := make([]domain.CatalogEntry, 0, len(catalog))
	for _, c := range catalog {
		if c.CustomerName == st.User {
			scoped = append(scoped, c)
		}
	}
	return dedupeCatalog(scoped, bought)
}

func dedupeCatalog(catalog []domain.CatalogEntry, exclude map[string]bool) []domain.NeverBoughtProduct {
	seen := make(map[string]bool, len(catalog))
	var out []domain.NeverBoughtProduct
	for _, c := range catalog {
		if c.ProductCode == "" || seen[c.ProductCode] || exclude[c.ProductCode] {
			continue
		}
		seen[c.ProductCode] = true
		out = append(out, domain.NeverBoughtProduct{CatalogEntry: c})
	}
	return out
}

// FiscalYears lists the distinct fiscal-year labels present in the orders,
// newest first, prefixed with "All".
func FiscalYears(records []domain.OrderRecord) []string {
	seen := make(map[string]bool)
	var years []string
	for _, r := range records {
		if r.FY == "" || seen[r.FY] {
			continue
		}
		seen[r.FY] = true
		years = append(years, r.FY)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return append([]string{"All"}, years...)
}

// FiscalYearLabel is the header caption for the selected year.
func FiscalYearLabel(year string) string {
	if year == "" || year == "All" {
		return "FY:- 18-19 to " + dates.FallbackFiscalYear
	}
	return "FY:- " + year
}

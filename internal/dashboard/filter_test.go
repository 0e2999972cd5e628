package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
)

func order(orderNo, customer, status, orderDate, stuffingMonth, fy string, value float64) domain.OrderRecord {
	return domain.OrderRecord{
		OrderNo:        orderNo,
		CustomerName:   customer,
		Status:         status,
		OriginalStatus: status,
		StatusCode:     domain.ParseStatus(status),
		OrderDate:      orderDate,
		StuffingMonth:  stuffingMonth,
		FY:             fy,
		ExportValue:    value,
		ProductCode:    "P-" + orderNo,
		Country:        "India",
	}
}

func TestClientScopedByCustomer(t *testing.T) {
	records := []domain.OrderRecord{
		order("BM-0001", "Acme", "PLAN", "2024-06-10", "", "24-25", 100),
		order("BM-0002", "Globex", "PLAN", "2024-06-11", "", "24-25", 200),
	}

	got := ClientScoped(records, domain.ViewState{User: "Acme", Year: "All"})
	require.Len(t, got, 1)
	assert.Equal(t, "BM-0001", got[0].OrderNo)

	got = ClientScoped(records, domain.ViewState{User: "admin", AdminView: true, Year: "All"})
	assert.Len(t, got, 2)
}

func TestClientScopedFiscalYear(t *testing.T) {
	records := []domain.OrderRecord{
		order("BM-0001", "Acme", "PLAN", "2024-06-10", "", "24-25", 100),
		order("BM-0002", "Acme", "PLAN", "2023-06-10", "", "23-24", 200),
	}

	got := ClientScoped(records, domain.ViewState{User: "Acme", Year: "24-25"})
	require.Len(t, got, 1)
	assert.Equal(t, "BM-0001", got[0].OrderNo)
}

func TestClientScopedDateRangePicksFieldByStatus(t *testing.T) {
	// A shipped row is ranged on its stuffing month, a planned row on its
	// order date.
	records := []domain.OrderRecord{
		order("BM-0001", "Acme", "SHIPPED", "2024-01-05", "2024-06-20", "24-25", 100),
		order("BM-0002", "Acme", "PLAN", "2024-06-10", "", "24-25", 200),
		order("BM-0003", "Acme", "PLAN", "2024-01-10", "", "23-24", 300),
	}

	st := domain.ViewState{
		User:      "Acme",
		Year:      "All",
		StartDate: "2024-06-01",
		EndDate:   "2024-06-30",
	}
	got := ClientScoped(records, st)
	require.Len(t, got, 2)
	assert.Equal(t, "BM-0001", got[0].OrderNo)
	assert.Equal(t, "BM-0002", got[1].OrderNo)
}

func TestClientScopedUnparseableDateExcludedFromRange(t *testing.T) {
	records := []domain.OrderRecord{
		order("BM-0001", "Acme", "PLAN", "#N/A", "", "24-25", 100),
	}

	st := domain.ViewState{User: "Acme", Year: "All", StartDate: "2024-01-01"}
	assert.Empty(t, ClientScoped(records, st))
}

func TestClientScopedYearAppliesEvenWithRange(t *testing.T) {
	// Unlike the KPI engine, the table keeps the fiscal-year filter active
	// alongside a date range.
	records := []domain.OrderRecord{
		order("BM-0001", "Acme", "PLAN", "2024-06-10", "", "24-25", 100),
		order("BM-0002", "Acme", "PLAN", "2024-06-11", "", "23-24", 200),
	}

	st := domain.ViewState{
		User:      "Acme",
		Year:      "24-25",
		StartDate: "2024-06-01",
		EndDate:   "2024-06-30",
	}
	got := ClientScoped(records, st)
	require.Len(t, got, 1)
	assert.Equal(t, "BM-0001", got[0].OrderNo)
}

func TestSearchedMatchesOrderPrefix(t *testing.T) {
	records := []domain.OrderRecord{
		order("BM-0071", "Acme", "PLAN", "2024-06-10", "", "24-25", 100),
		order("XY-0002", "Acme", "PLAN", "2024-06-11", "", "24-25", 200),
	}

	got := Searched(records, "BM-", false)
	require.Len(t, got, 1)
	assert.Equal(t, "BM-0071", got[0].OrderNo)
}

func TestSearchedMatchesFormattedStuffingMonth(t *testing.T) {
	records := []domain.OrderRecord{
		order("BM-0001", "Acme", "SHIPPED", "2024-01-05", "2024-06-20", "24-25", 100),
		order("BM-0002", "Acme", "PLAN", "2024-06-10", "", "24-25", 200),
	}

	got := Searched(records, "20-jun-24", false)
	require.Len(t, got, 1)
	assert.Equal(t, "BM-0001", got[0].OrderNo)
}

func TestSearchedClientFieldsAdminOnly(t *testing.T) {
	records := []domain.OrderRecord{
		order("BM-0001", "Acme", "PLAN", "2024-06-10", "", "24-25", 100),
	}

	assert.Len(t, Searched(records, "acme", true), 1)
	assert.Empty(t, Searched(records, "acme", false))
}

func TestFilteredStatusPrefixMatch(t *testing.T) {
	shipped := order("BM-0001", "Acme", "SHIPPED", "2024-01-05", "2024-06-20", "24-25", 100)
	shipped.Status = "Shipped (2024-06-20)"
	records := []domain.OrderRecord{
		shipped,
		order("BM-0002", "Acme", "PLAN", "2024-06-10", "", "24-25", 200),
	}

	filters := domain.FilterSet{{Type: domain.FilterStatus, Value: "SHIPPED", Source: "chart"}}
	got := Filtered(records, filters)
	require.Len(t, got, 1)
	assert.Equal(t, "BM-0001", got[0].OrderNo)
}

func TestFilteredKPIStatusMatchesOriginalExactly(t *testing.T) {
	// The enriched label may say "Shipped (...)" while the raw status is
	// still PLAN. A KPI-sourced PLAN filter must follow the raw status.
	r := order("BM-0001", "Acme", "PLAN", "2024-06-10", "", "24-25", 100)
	r.Status = "Shipped (2024-06-20)"
	records := []domain.OrderRecord{r}

	kpiPlan := domain.FilterSet{{Type: domain.FilterStatus, Value: "PLAN", Source: "kpi"}}
	require.Len(t, Filtered(records, kpiPlan), 1)

	chartPlan := domain.FilterSet{{Type: domain.FilterStatus, Value: "PLAN", Source: "chart"}}
	assert.Empty(t, Filtered(records, chartPlan))
}

func TestFilteredTypesANDValuesOR(t *testing.T) {
	records := []domain.OrderRecord{
		order("BM-0001", "Acme", "PLAN", "2024-06-10", "", "24-25", 100),
		order("BM-0002", "Acme", "PLAN", "2024-07-10", "", "24-25", 200),
		order("BM-0003", "Acme", "SHIPPED", "2024-06-15", "2024-08-01", "24-25", 300),
	}

	filters := domain.FilterSet{
		{Type: domain.FilterMonth, Value: "Jun"},
		{Type: domain.FilterMonth, Value: "Jul"},
		{Type: domain.FilterStatus, Value: "PLAN", Source: "kpi"},
	}
	got := Filtered(records, filters)
	require.Len(t, got, 2)
	assert.Equal(t, "BM-0001", got[0].OrderNo)
	assert.Equal(t, "BM-0002", got[1].OrderNo)
}

func TestFilteredCountryIgnoresCaseAndSpace(t *testing.T) {
	r := order("BM-0001", "Acme", "PLAN", "2024-06-10", "", "24-25", 100)
	r.Country = "  INDIA "
	records := []domain.OrderRecord{r}

	filters := domain.FilterSet{{Type: domain.FilterCountry, Value: "india"}}
	assert.Len(t, Filtered(records, filters), 1)
}

func TestNeverBoughtClientScope(t *testing.T) {
	catalog := []domain.CatalogEntry{
		{ProductCode: "P1", CustomerName: "Acme"},
		{ProductCode: "P2", CustomerName: "Acme"},
		{ProductCode: "P2", CustomerName: "Acme"},
		{ProductCode: "P3", CustomerName: "Globex"},
	}
	bought := []domain.OrderRecord{
		order("BM-0001", "Acme", "PLAN", "2024-06-10", "", "24-25", 100),
	}
	bought[0].ProductCode = "P1"

	got := NeverBought(catalog, bought, domain.ViewState{User: "Acme"})
	require.Len(t, got, 1)
	assert.Equal(t, "P2", got[0].ProductCode)
}

func TestNeverBoughtAdminDedupesWholeCatalog(t *testing.T) {
	catalog := []domain.CatalogEntry{
		{ProductCode: "P1", CustomerName: "Acme"},
		{ProductCode: "P1", CustomerName: "Globex"},
		{ProductCode: "P2", CustomerName: "Globex"},
	}

	got := NeverBought(catalog, nil, domain.ViewState{User: "admin", AdminView: true})
	assert.Len(t, got, 2)
}

func TestFiscalYearsNewestFirst(t *testing.T) {
	records := []domain.OrderRecord{
		order("A", "Acme", "PLAN", "", "", "23-24", 0),
		order("B", "Acme", "PLAN", "", "", "25-26", 0),
		order("C", "Acme", "PLAN", "", "", "24-25", 0),
		order("D", "Acme", "PLAN", "", "", "24-25", 0),
	}

	assert.Equal(t, []string{"All", "25-26", "24-25", "23-24"}, FiscalYears(records))
}

func TestFiscalYearLabel(t *testing.T) {
	assert.Equal(t, "FY:- 18-19 to 25-26", FiscalYearLabel("All"))
	assert.Equal(t, "FY:- 24-25", FiscalYearLabel("24-25"))
}

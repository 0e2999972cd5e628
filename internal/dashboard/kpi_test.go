package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
)

func TestKPIsSelectedFiscalYear(t *testing.T) {
	records := []domain.OrderRecord{
		order("XY-0001", "Acme", "PLAN", "2024-06-10", "", "24-25", 1000),
		order("XY-0002", "Acme", "SHIPPED", "2024-07-01", "2024-09-15", "24-25", 500),
		order("XY-0003", "Acme", "PLAN", "2023-06-10", "", "23-24", 9000),
	}

	st := domain.ViewState{User: "Acme", Year: "24-25"}
	got := KPIs(records, 0, st)

	assert.Equal(t, 2, got.TotalOrders)
	assert.Equal(t, 1, got.TotalInProcess)
	assert.Equal(t, 1, got.TotalShipped)
	assert.InDelta(t, 1500, got.TotalValue, 0.001)
	assert.Equal(t, 2, got.BoughtProducts)
	assert.Equal(t, 1, got.ActiveClients)
	assert.Equal(t, 1, got.Countries)
}

func TestKPIsReceivedCoversInProcessAndShipped(t *testing.T) {
	records := []domain.OrderRecord{
		order("XY-0001", "Acme", "PLAN", "2024-06-10", "", "24-25", 100),
		order("XY-0002", "Acme", "SHIPPED", "2024-07-01", "2024-09-15", "24-25", 200),
		order("XY-0003", "Acme", "COMPLETE", "2024-08-01", "2024-10-15", "24-25", 300),
	}

	got := KPIs(records, 0, domain.ViewState{User: "Acme", Year: "All"})
	assert.Equal(t, 3, got.TotalOrders)
	assert.Equal(t, 1, got.TotalInProcess)
	assert.Equal(t, 2, got.TotalShipped)
	assert.GreaterOrEqual(t, got.TotalOrders, got.TotalShipped)
}

func TestKPIsOrderCountsAreDistinctOrderNos(t *testing.T) {
	// Two product lines of one order count once.
	records := []domain.OrderRecord{
		order("XY-0001", "Acme", "PLAN", "2024-06-10", "", "24-25", 100),
		order("XY-0001", "Acme", "PLAN", "2024-06-10", "", "24-25", 150),
	}

	got := KPIs(records, 0, domain.ViewState{User: "Acme", Year: "All"})
	assert.Equal(t, 1, got.TotalOrders)
	assert.InDelta(t, 250, got.TotalValue, 0.001)
}

func TestKPIsYearGateUsesCalendarYearOfDate(t *testing.T) {
	// Order forwarded in Feb 2025 belongs to FY 24-25 but its calendar year
	// is 25, so the 24-25 Received gate excludes it while its value, gated
	// on the FY label, still counts.
	records := []domain.OrderRecord{
		order("XY-0001", "Acme", "PLAN", "2025-02-10", "", "24-25", 400),
	}

	got := KPIs(records, 0, domain.ViewState{User: "Acme", Year: "24-25"})
	assert.Equal(t, 0, got.TotalOrders)
	assert.InDelta(t, 400, got.TotalValue, 0.001)
}

func TestKPIsDateRangeBypassesYear(t *testing.T) {
	records := []domain.OrderRecord{
		order("XY-0001", "Acme", "PLAN", "2024-06-10", "", "24-25", 100),
		order("XY-0002", "Acme", "PLAN", "2023-06-10", "", "23-24", 200),
	}

	st := domain.ViewState{
		User:      "Acme",
		Year:      "24-25",
		StartDate: "2023-01-01",
		EndDate:   "2023-12-31",
	}
	got := KPIs(records, 0, st)
	assert.Equal(t, 1, got.TotalOrders)
	assert.InDelta(t, 200, got.TotalValue, 0.001)
}

func TestKPIsShippedGatesOnStuffingMonth(t *testing.T) {
	// Ordered in 2024, stuffed in 2025: Received counts it in 2024's view,
	// Shipped in 2025's.
	records := []domain.OrderRecord{
		order("XY-0001", "Acme", "SHIPPED", "2024-12-10", "2025-01-20", "24-25", 100),
	}

	got := KPIs(records, 0, domain.ViewState{User: "Acme", Year: "24-25"})
	assert.Equal(t, 1, got.TotalOrders)
	assert.Equal(t, 0, got.TotalShipped)

	got = KPIs(records, 0, domain.ViewState{User: "Acme", Year: "25-26"})
	assert.Equal(t, 0, got.TotalOrders)
	assert.Equal(t, 1, got.TotalShipped)
}

func TestKPIsCountryFilterNarrowsBase(t *testing.T) {
	india := order("XY-0001", "Acme", "PLAN", "2024-06-10", "", "24-25", 100)
	spain := order("XY-0002", "Globex", "PLAN", "2024-06-10", "", "24-25", 200)
	spain.Country = "Spain"
	records := []domain.OrderRecord{india, spain}

	st := domain.ViewState{
		User:      "admin",
		AdminView: true,
		Year:      "All",
		Filters:   domain.FilterSet{{Type: domain.FilterCountry, Value: "spain"}},
	}
	got := KPIs(records, 0, st)
	assert.Equal(t, 1, got.TotalOrders)
	assert.Equal(t, 1, got.ActiveClients)
	assert.Equal(t, 1, got.Countries)
	assert.InDelta(t, 200, got.TotalValue, 0.001)
}

func TestKPIsIgnoresUnknownStatus(t *testing.T) {
	records := []domain.OrderRecord{
		order("XY-0001", "Acme", "CANCELLED", "2024-06-10", "", "24-25", 100),
	}

	got := KPIs(records, 0, domain.ViewState{User: "Acme", Year: "All"})
	assert.Equal(t, 0, got.TotalOrders)
	assert.Zero(t, got.TotalValue)
	// Cancelled rows still count toward the client and country cards.
	assert.Equal(t, 1, got.ActiveClients)
}

func TestChartRowsYearSkippedWhenRangeActive(t *testing.T) {
	records := []domain.OrderRecord{
		order("XY-0001", "Acme", "PLAN", "2024-06-10", "", "24-25", 100),
		order("XY-0002", "Acme", "PLAN", "2023-06-10", "", "23-24", 200),
	}

	st := domain.ViewState{
		User:      "Acme",
		Year:      "24-25",
		StartDate: "2023-01-01",
		EndDate:   "2023-12-31",
	}
	got := ChartRows(records, st)
	require.Len(t, got, 1)
	assert.Equal(t, "XY-0002", got[0].OrderNo)
}

func TestChartRowsRangeOnOrderDateOnly(t *testing.T) {
	// Unlike the table scope, chart rows always range on the order date,
	// even for shipped rows.
	shipped := order("XY-0001", "Acme", "SHIPPED", "2024-01-05", "2024-06-20", "24-25", 100)
	records := []domain.OrderRecord{shipped}

	st := domain.ViewState{
		User:      "Acme",
		Year:      "All",
		StartDate: "2024-06-01",
		EndDate:   "2024-06-30",
	}
	assert.Empty(t, ChartRows(records, st))
}

func TestCountryChartMergesAndSorts(t *testing.T) {
	a := order("XY-0001", "Acme", "PLAN", "2024-06-10", "", "24-25", 100)
	a.Country = "India"
	a.Qty = 5
	b := order("XY-0002", "Acme", "PLAN", "2024-06-11", "", "24-25", 50)
	b.Country = " india "
	b.Qty = 3
	c := order("XY-0003", "Acme", "PLAN", "2024-06-12", "", "24-25", 400)
	c.Country = "Spain"
	blank := order("XY-0004", "Acme", "PLAN", "2024-06-13", "", "24-25", 999)
	blank.Country = ""

	got := CountryChart([]domain.OrderRecord{a, b, c, blank})
	require.Len(t, got, 2)
	assert.Equal(t, "Spain", got[0].Name)
	assert.Equal(t, "India", got[1].Name)
	assert.InDelta(t, 150, got[1].Value, 0.001)
	assert.Equal(t, 8, got[1].Qty)
}

func TestMonthlyChartBucketsByOrderDate(t *testing.T) {
	records := []domain.OrderRecord{
		order("XY-0001", "Acme", "PLAN", "2024-06-10", "", "24-25", 100),
		order("XY-0001", "Acme", "PLAN", "2024-06-15", "", "24-25", 50),
		order("XY-0002", "Acme", "SHIPPED", "2024-06-20", "2024-08-01", "24-25", 200),
		order("XY-0003", "Acme", "CANCELLED", "2024-06-25", "", "24-25", 900),
		order("XY-0004", "Acme", "PLAN", "bad date", "", "24-25", 900),
	}

	got := MonthlyChart(records)
	require.Len(t, got, 12)

	jun := got[5]
	assert.Equal(t, "Jun", jun.Name)
	assert.Equal(t, 2, jun.Orders)
	assert.InDelta(t, 350, jun.Value, 0.001)

	for i, m := range got {
		if i == 5 {
			continue
		}
		assert.Zero(t, m.Orders, m.Name)
	}
}

package orders

import (
	"fmt"
	"testing"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planRow(orderNo string, qty int, value float64) domain.OrderRecord {
	return domain.OrderRecord{
		OrderNo:        orderNo,
		Status:         "PLAN",
		OriginalStatus: "PLAN",
		StatusCode:     domain.StatusPlanned,
		CustomerName:   "Acme",
		Country:        "Mexico",
		Qty:            qty,
		ExportValue:    value,
		FY:             "24-25",
	}
}

func shippedRow(orderNo, stuffingMonth string, qty int, value float64) domain.OrderRecord {
	return domain.OrderRecord{
		OrderNo:        orderNo,
		Status:         "SHIPPED",
		OriginalStatus: "SHIPPED",
		StatusCode:     domain.StatusShipped,
		CustomerName:   "Acme",
		Country:        "Mexico",
		StuffingMonth:  stuffingMonth,
		Qty:            qty,
		ExportValue:    value,
		FY:             "24-25",
	}
}

func TestLevel1GroupsSubOrders(t *testing.T) {
	records := []domain.OrderRecord{
		planRow("BM-0071-I", 10, 100),
		planRow("BM-0071-I", 5, 50),
		planRow("BM-0071-II", 3, 30),
	}

	groups := Level1Groups(records, nil)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "BM-0071", g.BaseOrderNo)
	assert.True(t, g.HasSubOrders)
	assert.Equal(t, 18, g.TotalQty)
	assert.Equal(t, "PLAN", g.Status)
	assert.InDelta(t, 180, g.TotalValue, 0.001)
	assert.Equal(t, 18, g.BalanceQty, "nothing shipped yet")
}

func TestLevel1SingleOrderWithSuffixHasSubOrders(t *testing.T) {
	groups := Level1Groups([]domain.OrderRecord{planRow("BM-0071-I", 1, 10)}, nil)
	require.Len(t, groups, 1)
	assert.True(t, groups[0].HasSubOrders, "a lone suffixed order still differs from its base")
	assert.Equal(t, "BM-0071-I", groups[0].SingleOrderNo)
}

func TestLevel1MixedStatusSplits(t *testing.T) {
	records := []domain.OrderRecord{
		shippedRow("XY-0001-I", "2024-06-15", 4, 400),
		planRow("XY-0001-II", 6, 600),
	}

	groups := Level1Groups(records, nil)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "SHIPPED", g.Status, "any shipped member flips the group")
	assert.Equal(t, 4, g.ShippedQty)
	assert.Equal(t, 6, g.BalanceQty)
	assert.InDelta(t, 400, g.ShippedValue, 0.001)
	assert.InDelta(t, 600, g.BalanceValue, 0.001)
	assert.Equal(t, "2024-06-15", g.StuffingMonth, "latest shipped date represents the group")
}

func TestGroupTotalsMatchProductRows(t *testing.T) {
	records := []domain.OrderRecord{
		shippedRow("BM-0071-I", "2024-06-15", 4, 400),
		planRow("BM-0071-I", 6, 600),
		planRow("BM-0071-II", 2, 200),
	}

	groups := Level1Groups(records, nil)
	require.Len(t, groups, 1)

	var sum float64
	for _, sub := range []string{"BM-0071-I", "BM-0071-II"} {
		for _, row := range Level3Rows(records, sub, nil) {
			sum += row.ExportValue
		}
	}
	assert.InDelta(t, sum, groups[0].TotalValue, 0.001)
}

func TestLevel2Groups(t *testing.T) {
	records := []domain.OrderRecord{
		planRow("BM-0071-I", 1, 10),
		planRow("BM-0071-II", 2, 20),
		planRow("OTHER-1", 9, 90),
	}

	groups := Level2Groups(records, "BM-0071", nil)
	require.Len(t, groups, 2)
	assert.ElementsMatch(t,
		[]string{"BM-0071-I", "BM-0071-II"},
		[]string{groups[0].OrderNo, groups[1].OrderNo})
}

func TestSortUndatedAfterDated(t *testing.T) {
	records := []domain.OrderRecord{
		planRow("A-01", 1, 10),
		shippedRow("B-01", "2024-01-01", 1, 10),
		shippedRow("C-01", "2024-12-01", 1, 10),
	}

	groups := Level1Groups(records, nil)
	require.Len(t, groups, 3)
	assert.Equal(t, "C-01", groups[0].BaseOrderNo)
	assert.Equal(t, "B-01", groups[1].BaseOrderNo)
	assert.Equal(t, "A-01", groups[2].BaseOrderNo)
}

func TestBuildPagePagination(t *testing.T) {
	var records []domain.OrderRecord
	for i := 0; i < 25; i++ {
		records = append(records, planRow(fmt.Sprintf("ORD-%04d", i), 1, 1))
	}

	page := BuildPage(records, nil, domain.AllOrders(), 1)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Groups, 10)

	last := BuildPage(records, nil, domain.AllOrders(), 99)
	assert.Equal(t, 3, last.Page, "page clamps to the last valid page")
	assert.Len(t, last.Groups, 5)

	empty := BuildPage(nil, nil, domain.AllOrders(), 4)
	assert.Equal(t, 1, empty.Page)
	assert.Zero(t, empty.TotalItems)
}

func TestDescendTransitions(t *testing.T) {
	multi := domain.OrderGroup{BaseOrderNo: "BM-0071", HasSubOrders: true}
	next, ok := Descend(domain.AllOrders(), multi)
	require.True(t, ok)
	assert.Equal(t, domain.LevelSubOrders, next.Level())
	assert.Equal(t, "BM-0071", next.BaseOrder())

	single := domain.OrderGroup{BaseOrderNo: "AX-9000", SingleOrderNo: "AX-9000"}
	next, ok = Descend(domain.AllOrders(), single)
	require.True(t, ok)
	assert.Equal(t, domain.LevelProducts, next.Level())
	assert.False(t, next.HasSubOrders())

	sub := domain.OrderGroup{OrderNo: "BM-0071-I", Status: "SHIPPED"}
	next, ok = Descend(domain.SubOrders("BM-0071"), sub)
	require.True(t, ok)
	assert.Equal(t, domain.LevelProducts, next.Level())
	assert.True(t, next.HasSubOrders())

	up := next.Up()
	assert.Equal(t, domain.LevelSubOrders, up.Level())
	assert.Equal(t, domain.LevelAllOrders, up.Up().Level())

	noSubs := domain.Products("AX-9000", "AX-9000", false)
	assert.Equal(t, domain.LevelAllOrders, noSubs.Up().Level(), "drill up skips level 2 without sub-orders")
}

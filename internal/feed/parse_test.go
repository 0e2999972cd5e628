package feed

import (
	"testing"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/gviz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cell(v any) *gviz.Cell { return &gviz.Cell{V: v} }

func tableOf(labels []string, rows ...[]*gviz.Cell) *gviz.Table {
	t := &gviz.Table{}
	for _, l := range labels {
		t.Cols = append(t.Cols, gviz.Column{Label: l})
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, gviz.Row{C: r})
	}
	return t
}

func TestParseOrders(t *testing.T) {
	table := tableOf(
		[]string{"Status", "ORDER FORWARDING DATE", "Order Number", "Client", "Country", "Products Code", "Qty", "Export Value", "FY"},
		[]*gviz.Cell{cell("PLAN"), cell("2024-06-15"), cell("BM-0071-I"), cell("Acme"), cell("Mexico"), cell("GP-100"), cell("1,200"), cell("$10,500.75"), cell("24-25")},
		[]*gviz.Cell{cell("SHIPPED"), cell("2024-05-01"), cell("#N/A"), cell("Acme"), cell("Mexico"), cell("GP-101"), cell(float64(5)), cell(float64(99)), cell("24-25")},
		[]*gviz.Cell{cell("PLAN"), cell("2024-07-01"), cell("BM-0072"), cell("Beta"), cell("Peru"), cell("GP-102"), nil, nil, cell("#N/A")},
	)

	orders := ParseOrders(table)
	require.Len(t, orders, 2, "row with #N/A order number must be dropped")

	assert.Equal(t, "BM-0071-I", orders[0].OrderNo)
	assert.Equal(t, 1200, orders[0].Qty)
	assert.InDelta(t, 10500.75, orders[0].ExportValue, 0.001)
	assert.Equal(t, "24-25", orders[0].FY)

	assert.Equal(t, "BM-0072", orders[1].OrderNo)
	assert.Equal(t, 0, orders[1].Qty)
	assert.Equal(t, "25-26", orders[1].FY, "missing FY falls back to the pinned fiscal year")
}

func TestParseCatalogDropsRowsWithoutCode(t *testing.T) {
	table := tableOf(
		[]string{"Category", "Product", "Products Code", "Customer Name", "Moq Qty"},
		[]*gviz.Cell{cell("Garden"), cell("Chainsaw"), cell("GP-100"), cell("Acme"), cell("10")},
		[]*gviz.Cell{cell("Garden"), cell("Trimmer"), cell(""), cell("Acme"), cell("5")},
	)

	catalog := ParseCatalog(table)
	require.Len(t, catalog, 1)
	assert.Equal(t, "GP-100", catalog[0].ProductCode)
	assert.Equal(t, 10, catalog[0].MOQ)
}

func TestParseTrackingPositional(t *testing.T) {
	table := tableOf(nil,
		[]*gviz.Cell{
			cell("Z-01"), cell("2024-04-01"), cell("yes"), cell("2024-05-01"), cell("yes"),
			cell("2024-05-15"), cell("no"), cell("2024-04-20"),
			cell("http://a"), cell(""), nil, cell("http://d"), cell("done"),
		},
		[]*gviz.Cell{cell("#N/A")},
	)

	tracking := ParseTracking(table)
	require.Len(t, tracking, 1)

	rec := tracking[0]
	assert.Equal(t, "Z-01", rec.OrderNo)
	assert.Equal(t, "yes", rec.SOBStatus)
	assert.Equal(t, "2024-05-01", rec.SOBDate)
	assert.Equal(t, "done", rec.QualityCheckStatus)
	assert.Equal(t, []string{"http://a", "http://d"}, rec.QualityCheckURLs)
}

func TestParseAccounts(t *testing.T) {
	table := tableOf(
		[]string{"ORDER NO", "COMPANY", "TOTAL ORDER VALUE", "PAYMENT RECEIVED", "BALANCE PAYMENT"},
		[]*gviz.Cell{cell("BN-0010-II + BN-0013-II"), cell("Acme"), cell("$25,000"), cell("$10,000"), cell("$15,000")},
	)

	accounts := ParseAccounts(table)
	require.Len(t, accounts, 1)
	assert.InDelta(t, 25000, accounts[0].TotalOrderValue, 0.001)
	assert.InDelta(t, 15000, accounts[0].BalancePayment, 0.001)
}

func TestParseCredentials(t *testing.T) {
	table := tableOf(nil,
		[]*gviz.Cell{cell("admin"), cell("secret")},
		[]*gviz.Cell{cell("Acme"), cell("")},
	)

	creds := ParseCredentials(table)
	require.Len(t, creds, 1)
	assert.Equal(t, "admin", creds[0].Name)
}

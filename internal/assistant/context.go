// backend-go/internal/assistant/context.go
package assistant

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/dates"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
)

const (
	maxContextOrders  = 5000
	maxContextCatalog = 300
)

// orderNoRe spots order numbers like BM-0071 or BM-0071-I in a question so
// their rows can be promoted ahead of the truncation cut.
var orderNoRe = regexp.MustCompile(`\b[A-Za-z0-9]+-[0-9]+(?:-[A-Za-z0-9]+)?\b`)

// ContextInput is everything the prompt builder needs for one question.
type ContextInput struct {
	Orders       []domain.OrderRecord
	Catalog      []domain.CatalogEntry
	Tracking     map[string]domain.TrackingRecord
	KPIs         domain.KPISet
	CountryChart []domain.CountryBucket
	MonthlyChart []domain.MonthBucket
	ClientName   string
	Admin        bool
}

var orderHeaders = []string{
	"Status", "FY", "OrderNo", "Client", "Country", "Product", "Code",
	"Category", "Segment", "Qty", "Value", "UnitPrice", "OrderDate",
	"StuffingMonth", "StuffingDate", "ETD", "ETA",
	"ProductionDate", "ProductionStatus", "SOBDate", "SOBStatus",
	"PaymentDate", "PaymentStatus", "QCDate", "QCStatus",
}

var catalogHeaders = []string{
	"Code", "Category", "Product", "Client", "Country", "MOQ", "FobPrice",
}

func orderRow(r domain.OrderRecord, tracking map[string]domain.TrackingRecord) []string {
	step := tracking[r.OrderNo]
	return []string{
		r.Status, r.FY, r.OrderNo, r.CustomerName, r.Country, r.Product,
		r.ProductCode, r.Category, r.Segment,
		strconv.Itoa(r.Qty), formatFloat(r.ExportValue), formatFloat(r.UnitPrice),
		r.OrderDate, r.StuffingMonth, r.StuffingDate, r.ETD, r.ETA,
		step.ProductionDate, step.ProductionStatus, step.SOBDate, step.SOBStatus,
		step.PaymentPlannedDate, step.PaymentStatus,
		step.QualityCheckPlannedDate, step.QualityCheckStatus,
	}
}

func catalogRow(c domain.CatalogEntry) []string {
	return []string{
		c.ProductCode, c.Category, c.Product, c.CustomerName, c.Country,
		strconv.Itoa(c.MOQ), formatFloat(c.FobPrice),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

func toCSV(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return "No Data"
	}
	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	for _, row := range rows {
		b.WriteByte('\n')
		for i, f := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvField(f))
		}
	}
	return b.String()
}

// contextOrders sorts the rows newest first by order date and promotes rows
// whose order number a mentioned id appears in, so truncation never drops
// the order the user asked about.
func contextOrders(records []domain.OrderRecord, question string) []domain.OrderRecord {
	out := append([]domain.OrderRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		var ti, tj int64
		if t := dates.Parse(out[i].OrderDate); t != nil {
			ti = t.Unix()
		}
		if t := dates.Parse(out[j].OrderDate); t != nil {
			tj = t.Unix()
		}
		return ti > tj
	})

	mentioned := orderNoRe.FindAllString(question, -1)
	if len(mentioned) == 0 {
		return out
	}
	for i := range mentioned {
		mentioned[i] = strings.ToUpper(mentioned[i])
	}

	priority := make([]domain.OrderRecord, 0, len(out))
	others := make([]domain.OrderRecord, 0, len(out))
	for _, r := range out {
		upperNo := strings.ToUpper(r.OrderNo)
		hit := false
		for _, id := range mentioned {
			if strings.Contains(upperNo, id) {
				hit = true
				break
			}
		}
		if hit {
			priority = append(priority, r)
		} else {
			others = append(others, r)
		}
	}
	return append(priority, others...)
}

// SystemInstruction renders the analyst persona with the dashboard
// structure, privacy rule and current aggregates baked in.
func SystemInstruction(in ContextInput) string {
	role := "User is ADMIN. Access to ALL data."
	if !in.Admin {
		role = fmt.Sprintf("User is CLIENT: %q. ONLY discuss data where Client column matches %q. Do NOT reveal other clients' info.", in.ClientName, in.ClientName)
	}

	var country []string
	for _, c := range in.CountryChart {
		country = append(country, fmt.Sprintf("%s: Total Value $%.0f (Total Qty %d units)", c.Name, c.Value, c.Qty))
	}
	var monthly []string
	for _, m := range in.MonthlyChart {
		monthly = append(monthly, fmt.Sprintf("%s: %d orders (Total Value $%.0f, Total Qty %d units)", m.Name, m.Orders, m.Value, m.Qty))
	}

	return fmt.Sprintf(`You are an expert AI Data Analyst for the "Global Operations Dashboard".

**Dashboard Structure Awareness:**
1. KPI Cards: Total Order Value, Total Orders Received, In Process, Shipped Orders, Total No of Units, Never Bought Products.
2. Charts: Order Value by Country, Monthly Order Value.
3. Table: three drill-down layers (All Orders, Sub-Orders, Products for Sub-Order).

**Data Sources Provided:**
1. Aggregated Summaries for chart and KPI questions.
2. Orders CSV merging the Live and Step sheets for order-level deep dives.
3. Catalog CSV with the Master sheet data.

**Rules:**
1. Privacy: %s
2. Accuracy: answer ONLY from the data provided; do not invent figures.
3. Context: you know about all tables, charts and KPI cards listed above.

**Current Dashboard Context:**
- KPI Values: totalValue=%.0f, received=%d, inProcess=%d, shipped=%d, units=%d, neverBought=%d
- Chart Data (Country): [%s]
- Chart Data (Monthly): [%s]

**Response Style:** Direct, Professional, Accurate.`,
		role,
		in.KPIs.TotalValue, in.KPIs.TotalOrders, in.KPIs.TotalInProcess,
		in.KPIs.TotalShipped, in.KPIs.BoughtProducts, in.KPIs.NeverBoughtCount,
		strings.Join(country, ", "), strings.Join(monthly, ", "))
}

// BuildPrompt renders the data context and the question into the user
// prompt. Orders cap at 5000 rows and catalog entries at 300, after the
// mentioned-order promotion.
func BuildPrompt(in ContextInput, question string) string {
	orders := contextOrders(in.Orders, question)
	if len(orders) > maxContextOrders {
		orders = orders[:maxContextOrders]
	}
	catalog := in.Catalog
	if len(catalog) > maxContextCatalog {
		catalog = catalog[:maxContextCatalog]
	}

	orderRows := make([][]string, len(orders))
	for i, r := range orders {
		orderRows[i] = orderRow(r, in.Tracking)
	}
	catalogRows := make([][]string, len(catalog))
	for i, c := range catalog {
		catalogRows[i] = catalogRow(c)
	}

	return fmt.Sprintf(`Data Context (CSV):
--- ORDERS START (Top %d records from Live & Step Sheets) ---
%s
--- ORDERS END ---

--- CATALOG START (Top %d records from Master Sheet) ---
%s
--- CATALOG END ---

User Question: %q`,
		len(orders), toCSV(orderHeaders, orderRows),
		len(catalog), toCSV(catalogHeaders, catalogRows),
		question)
}

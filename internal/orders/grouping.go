// backend-go/internal/orders/grouping.go
package orders

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/dates"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
)

// PageSize is the fixed drill-down table page size.
const PageSize = 10

// BuildPage renders the drill-down table for one view: grouped rows at
// levels 1 and 2, raw product lines at level 3, paginated at a fixed page
// size with the current page clamped to the available range.
func BuildPage(records []domain.OrderRecord, tracked map[string]bool, drill domain.DrillDown, page int) domain.OrderPage {
	out := domain.OrderPage{
		Level:    drill.Level(),
		PageSize: PageSize,
	}

	switch drill.Level() {
	case domain.LevelAllOrders:
		out.Title = "All Orders"
		out.Groups = Level1Groups(records, tracked)
		out.TotalItems = len(out.Groups)
	case domain.LevelSubOrders:
		out.Title = fmt.Sprintf("Sub-Orders for: %s", drill.BaseOrder())
		out.Groups = Level2Groups(records, drill.BaseOrder(), tracked)
		out.TotalItems = len(out.Groups)
	case domain.LevelProducts:
		out.Title = fmt.Sprintf("Products for Sub-Order: %s", drill.SubOrder())
		out.Products = Level3Rows(records, drill.SubOrder(), tracked)
		out.TotalItems = len(out.Products)
	}

	out.TotalPages = (out.TotalItems + PageSize - 1) / PageSize
	out.Page = clampPage(page, out.TotalPages)

	start := (out.Page - 1) * PageSize
	end := start + PageSize
	if out.Groups != nil {
		if end > len(out.Groups) {
			end = len(out.Groups)
		}
		if start > len(out.Groups) {
			start = len(out.Groups)
		}
		out.Groups = out.Groups[start:end]
	}
	if out.Products != nil {
		if end > len(out.Products) {
			end = len(out.Products)
		}
		if start > len(out.Products) {
			start = len(out.Products)
		}
		out.Products = out.Products[start:end]
	}

	return out
}

func clampPage(page, totalPages int) int {
	if totalPages == 0 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Level1Groups groups product lines by base order number, preserving first
// appearance order before the date sort so ties stay stable.
func Level1Groups(records []domain.OrderRecord, tracked map[string]bool) []domain.OrderGroup {
	var keys []string
	groups := make(map[string][]domain.OrderRecord)
	for _, rec := range records {
		base := BaseOrderNo(rec.OrderNo)
		if _, ok := groups[base]; !ok {
			keys = append(keys, base)
		}
		groups[base] = append(groups[base], rec)
	}

	out := make([]domain.OrderGroup, 0, len(keys))
	for _, base := range keys {
		members := groups[base]
		g := aggregate(members, tracked)
		g.Level = domain.LevelAllOrders
		g.BaseOrderNo = base

		seen := make(map[string]bool)
		var unique []string
		for _, m := range members {
			upper := strings.ToUpper(m.OrderNo)
			if !seen[upper] {
				seen[upper] = true
				unique = append(unique, upper)
			}
		}
		g.HasSubOrders = len(unique) > 1 || (len(unique) == 1 && unique[0] != base)
		if len(unique) == 1 {
			g.SingleOrderNo = members[0].OrderNo
		}

		out = append(out, g)
	}

	sortByDateDesc(out)
	return out
}

// Level2Groups groups the selected base order's lines by exact order
// number (trimmed, uppercased key).
func Level2Groups(records []domain.OrderRecord, baseOrder string, tracked map[string]bool) []domain.OrderGroup {
	var keys []string
	groups := make(map[string][]domain.OrderRecord)
	for _, rec := range records {
		if BaseOrderNo(rec.OrderNo) != baseOrder {
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(rec.OrderNo))
		if key == "" {
			continue
		}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], rec)
	}

	out := make([]domain.OrderGroup, 0, len(keys))
	for _, key := range keys {
		members := groups[key]
		g := aggregate(members, tracked)
		g.Level = domain.LevelSubOrders
		g.OrderNo = members[0].OrderNo
		g.ImageLink = members[0].ImageLink
		out = append(out, g)
	}

	sortByDateDesc(out)
	return out
}

// Level3Rows returns the ungrouped product lines of one exact order
// number, newest stuffing date first.
func Level3Rows(records []domain.OrderRecord, subOrder string, tracked map[string]bool) []domain.ProductRow {
	var out []domain.ProductRow
	for _, rec := range records {
		if rec.OrderNo != subOrder {
			continue
		}
		out = append(out, domain.ProductRow{
			OrderRecord: rec,
			HasTracking: tracked[rec.OrderNo],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return dateLess(out[j].StuffingMonth, out[i].StuffingMonth)
	})
	return out
}

// aggregate computes the shared rollups of a group: final status, latest
// shipped date, total/shipped/balance splits and tracking presence.
func aggregate(members []domain.OrderRecord, tracked map[string]bool) domain.OrderGroup {
	g := domain.OrderGroup{
		Status:        domain.StatusLabel(domain.StatusPlanned),
		StuffingMonth: members[0].StuffingMonth,
		CustomerName:  members[0].CustomerName,
		Country:       members[0].Country,
	}

	var latestShipped *string
	var latestShippedAt int64
	for _, m := range members {
		g.TotalQty += m.Qty
		g.TotalValue += m.ExportValue

		if m.StatusCode.ShippedOrComplete() {
			g.Status = domain.StatusLabel(domain.StatusShipped)
			g.ShippedQty += m.Qty
			g.ShippedValue += m.ExportValue

			if t := dates.Parse(m.StuffingMonth); t != nil && (latestShipped == nil || t.Unix() > latestShippedAt) {
				v := m.StuffingMonth
				latestShipped = &v
				latestShippedAt = t.Unix()
			}
		}

		if tracked[m.OrderNo] {
			g.HasTracking = true
		}
	}

	if latestShipped != nil {
		g.StuffingMonth = *latestShipped
	}
	g.BalanceQty = g.TotalQty - g.ShippedQty
	g.BalanceValue = g.TotalValue - g.ShippedValue

	return g
}

// sortByDateDesc orders groups by representative date descending; groups
// without a parseable date sort after all dated ones, keeping input order
// among themselves.
func sortByDateDesc(groups []domain.OrderGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		return dateLess(groups[j].StuffingMonth, groups[i].StuffingMonth)
	})
}

// dateLess reports whether a sorts before b ascending with nil dates last,
// used inverted for the descending table order.
func dateLess(a, b string) bool {
	ta, tb := dates.Parse(a), dates.Parse(b)
	switch {
	case ta != nil && tb != nil:
		return ta.Before(*tb)
	case tb != nil:
		return true
	default:
		return false
	}
}

// Descend returns the drill state one level deeper for a double-clicked
// row. The second return is false when the row does not descend (a level-2
// row outside the shippable statuses, or level 3 already).
func Descend(drill domain.DrillDown, row domain.OrderGroup) (domain.DrillDown, bool) {
	switch drill.Level() {
	case domain.LevelAllOrders:
		if row.HasSubOrders {
			return domain.SubOrders(row.BaseOrderNo), true
		}
		if row.SingleOrderNo != "" {
			return domain.Products(row.BaseOrderNo, row.SingleOrderNo, false), true
		}
		return drill, false
	case domain.LevelSubOrders:
		status := domain.ParseStatus(row.Status)
		if !status.Active() {
			return drill, false
		}
		return domain.Products(drill.BaseOrder(), row.OrderNo, true), true
	default:
		return drill, false
	}
}

// backend-go/internal/calendar/calendar.go
package calendar

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/dates"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
)

// displayCap limits the order-number lists in a bucket; the remainder is
// summarized as a "+N more" entry.
const displayCap = 15

// Query selects the calendar scope. Month is zero-indexed; NoMonth means the
// whole year. Country and Client default to "All".
type Query struct {
	User      string
	AdminView bool
	Year      string
	Country   string
	Client    string
	Month     int
	StartDate string
	EndDate   string
}

// NoMonth is the Month value for the year-level view.
const NoMonth = -1

// orderSet is an insertion-ordered set of uppercased order numbers.
type orderSet struct {
	seen  map[string]bool
	order []string
}

func newOrderSet() *orderSet {
	return &orderSet{seen: make(map[string]bool)}
}

func (s *orderSet) add(orderNo string) {
	if s.seen[orderNo] {
		return
	}
	s.seen[orderNo] = true
	s.order = append(s.order, orderNo)
}

func (s *orderSet) size() int { return len(s.order) }

// capped returns the order list for display, at most displayCap entries
// plus a "+N more" marker.
func (s *orderSet) capped() []string {
	if len(s.order) <= displayCap {
		return append([]string(nil), s.order...)
	}
	out := append([]string(nil), s.order[:displayCap]...)
	return append(out, fmt.Sprintf("+%d more", len(s.order)-displayCap))
}

// scoped narrows the snapshot to the query's client and country. Country
// matches exactly as spelled in the sheet.
func scoped(records []domain.OrderRecord, q Query) []domain.OrderRecord {
	client := q.Client
	if !q.AdminView {
		client = q.User
	}

	out := make([]domain.OrderRecord, 0, len(records))
	for _, r := range records {
		if q.Country != "" && q.Country != "All" && r.Country != q.Country {
			continue
		}
		if client != "" && client != "All" && r.CustomerName != client {
			continue
		}
		out = append(out, r)
	}
	return out
}

// forYear keeps the rows relevant to the target year: planned or shipped
// rows whose order date falls in the year, plus shipped rows whose stuffing
// month does. A shipped order carried over the year boundary appears in
// both years.
func forYear(records []domain.OrderRecord, targetYY string) []domain.OrderRecord {
	if targetYY == "" {
		return records
	}
	out := make([]domain.OrderRecord, 0, len(records))
	for _, r := range records {
		isPlan := r.StatusCode == domain.StatusPlanned
		isShipped := r.StatusCode.ShippedOrComplete()

		matchesOrder := (isPlan || isShipped) && dates.TwoDigitYear(r.OrderDate) == targetYY
		matchesStuffing := isShipped && dates.TwoDigitYear(r.StuffingMonth) == targetYY
		if matchesOrder || matchesStuffing {
			out = append(out, r)
		}
	}
	return out
}

type bucket struct {
	received *orderSet
	planned  *orderSet
	shipped  *orderSet
	totals   domain.CalendarTotals
}

func newBuckets(n int) []bucket {
	out := make([]bucket, n)
	for i := range out {
		out[i] = bucket{received: newOrderSet(), planned: newOrderSet(), shipped: newOrderSet()}
	}
	return out
}

// Build computes the full calendar payload for one query.
func Build(records []domain.OrderRecord, q Query) domain.CalendarView {
	targetYY := ""
	if q.Year != "" && q.Year != "All" {
		targetYY = dates.FiscalStartYY(q.Year)
	}

	rows := forYear(scoped(records, q), targetYY)
	rng := dates.NewRange(q.StartDate, q.EndDate)

	inRange := func(t *time.Time) bool {
		if !rng.Active() {
			return true
		}
		return rng.Contains(t)
	}
	inYear := func(t *time.Time) bool {
		return targetYY == "" || (t != nil && fmt.Sprintf("%02d", t.Year()%100) == targetYY)
	}

	months := newBuckets(12)
	yearly := bucket{received: newOrderSet(), planned: newOrderSet(), shipped: newOrderSet()}

	for _, r := range rows {
		isPlan := r.StatusCode == domain.StatusPlanned
		isShipped := r.StatusCode.ShippedOrComplete()
		orderNo := strings.ToUpper(r.OrderNo)

		orderDate := dates.Parse(r.OrderDate)
		if (isPlan || isShipped) && orderDate != nil && inYear(orderDate) && inRange(orderDate) {
			m := int(orderDate.Month()) - 1
			months[m].received.add(orderNo)
			yearly.received.add(orderNo)
			months[m].totals.TotalValue += r.ExportValue
			months[m].totals.TotalQty += r.Qty
			if isPlan {
				months[m].planned.add(orderNo)
				yearly.planned.add(orderNo)
				months[m].totals.PlannedValue += r.ExportValue
				months[m].totals.PlannedQty += r.Qty
			}
		}

		stuffingDate := dates.Parse(r.StuffingMonth)
		if isShipped && stuffingDate != nil && inYear(stuffingDate) && inRange(stuffingDate) {
			m := int(stuffingDate.Month()) - 1
			months[m].shipped.add(orderNo)
			yearly.shipped.add(orderNo)
			months[m].totals.ShippedValue += r.ExportValue
			months[m].totals.ShippedQty += r.Qty
		}
	}

	view := domain.CalendarView{
		Months: make([]domain.CalendarMonth, 12),
	}
	for i := range months {
		view.Months[i] = domain.CalendarMonth{
			Month:          i,
			Name:           dates.MonthNames[i],
			Received:       months[i].received.size(),
			Planned:        months[i].planned.size(),
			Shipped:        months[i].shipped.size(),
			ReceivedOrders: months[i].received.capped(),
			CalendarTotals: months[i].totals,
		}
	}

	if q.Month >= 0 && q.Month < 12 {
		view.Days = buildDays(rows, q.Month, targetYY, inYear, inRange)
		view.KPIs = domain.CalendarKPIs{
			Received: view.Months[q.Month].Received,
			Planned:  view.Months[q.Month].Planned,
			Shipped:  view.Months[q.Month].Shipped,
		}
	} else {
		view.KPIs = domain.CalendarKPIs{
			Received: yearly.received.size(),
			Planned:  yearly.planned.size(),
			Shipped:  yearly.shipped.size(),
		}
	}

	view.TopClients = topClients(rows, q.Month, targetYY, inRange)
	return view
}

func buildDays(rows []domain.OrderRecord, month int, targetYY string, inYear func(*time.Time) bool, inRange func(*time.Time) bool) []domain.CalendarDay {
	year := time.Now().Year()
	if yy, err := strconv.Atoi(targetYY); err == nil {
		year = 2000 + yy
	}
	daysInMonth := time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()

	days := newBuckets(daysInMonth)

	for _, r := range rows {
		isPlan := r.StatusCode == domain.StatusPlanned
		isShipped := r.StatusCode.ShippedOrComplete()
		orderNo := strings.ToUpper(r.OrderNo)

		stuffingDate := dates.Parse(r.StuffingMonth)
		if isShipped && stuffingDate != nil && int(stuffingDate.Month())-1 == month &&
			inYear(stuffingDate) && inRange(stuffingDate) {
			d := stuffingDate.Day() - 1
			if d >= 0 && d < daysInMonth {
				days[d].shipped.add(orderNo)
				days[d].totals.ShippedValue += r.ExportValue
				days[d].totals.ShippedQty += r.Qty
			}
		}

		orderDate := dates.Parse(r.OrderDate)
		if (isPlan || isShipped) && orderDate != nil && int(orderDate.Month())-1 == month &&
			inYear(orderDate) && inRange(orderDate) {
			d := orderDate.Day() - 1
			if d >= 0 && d < daysInMonth {
				days[d].received.add(orderNo)
				days[d].totals.TotalValue += r.ExportValue
				days[d].totals.TotalQty += r.Qty
				if isPlan {
					days[d].planned.add(orderNo)
					days[d].totals.PlannedValue += r.ExportValue
					days[d].totals.PlannedQty += r.Qty
				}
			}
		}
	}

	out := make([]domain.CalendarDay, daysInMonth)
	for i := range days {
		out[i] = domain.CalendarDay{
			Day:            i + 1,
			Received:       days[i].received.size(),
			Planned:        days[i].planned.size(),
			Shipped:        days[i].shipped.size(),
			ReceivedOrders: days[i].received.capped(),
			PlannedOrders:  days[i].planned.capped(),
			ShippedOrders:  days[i].shipped.capped(),
			CalendarTotals: days[i].totals,
		}
	}
	return out
}

// topClients ranks clients by export value over the scope: the selected
// month's orders, or the whole year gated on the order date.
func topClients(rows []domain.OrderRecord, month int, targetYY string, inRange func(*time.Time) bool) []domain.TopClient {
	type entry struct {
		name   string
		value  float64
		qty    int
		orders *orderSet
	}
	idx := make(map[string]*entry)
	var ordered []*entry

	for _, r := range rows {
		if r.CustomerName == "" {
			continue
		}
		orderDate := dates.Parse(r.OrderDate)
		if month >= 0 {
			if orderDate == nil || int(orderDate.Month())-1 != month || !inRange(orderDate) {
				continue
			}
			if targetYY != "" && dates.TwoDigitYear(r.OrderDate) != targetYY {
				continue
			}
		} else {
			if orderDate == nil || !inRange(orderDate) {
				continue
			}
			if targetYY != "" && dates.TwoDigitYear(r.OrderDate) != targetYY {
				continue
			}
		}

		e, ok := idx[r.CustomerName]
		if !ok {
			e = &entry{name: r.CustomerName, orders: newOrderSet()}
			idx[r.CustomerName] = e
			ordered = append(ordered, e)
		}
		e.value += r.ExportValue
		e.qty += r.Qty
		e.orders.add(r.OrderNo)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].value > ordered[j].value
	})
	if len(ordered) > 5 {
		ordered = ordered[:5]
	}

	out := make([]domain.TopClient, len(ordered))
	for i, e := range ordered {
		out[i] = domain.TopClient{
			Name:       e.name,
			Value:      e.value,
			Qty:        e.qty,
			OrderCount: e.orders.size(),
		}
	}
	return out
}


// backend-go/internal/domain/dashboard.go
package domain

import "time"

// ViewState is the full, explicit dashboard state a derivation runs
// against. Every computed view (KPIs, grouped table, charts, calendar) is a
// pure function of (Dataset, ViewState); nothing hides in globals.
type ViewState struct {
	User      string    `json:"user"`
	AdminView bool      `json:"adminView"`
	Year      string    `json:"year"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Search    string    `json:"search"`
	Filters   FilterSet `json:"filters"`
	Drill     DrillDown `json:"-"`
	Page      int       `json:"page"`
}

// KPISet is the headline aggregates for one view state.
type KPISet struct {
	TotalValue      float64 `json:"totalValue"`
	TotalOrders     int     `json:"totalOrders"`
	TotalInProcess  int     `json:"totalInProcess"`
	TotalShipped    int     `json:"totalShipped"`
	BoughtProducts  int     `json:"boughtProducts"`
	ActiveClients   int     `json:"activeClients"`
	Countries       int     `json:"countries"`
	NeverBoughtCount int    `json:"neverBoughtCount"`
}

// OrderGroup is one grouped table row at drill level 1 or 2. At level 1 the
// key is the base order number; at level 2 the exact order number.
type OrderGroup struct {
	Level           DrillLevel `json:"level"`
	BaseOrderNo     string     `json:"baseOrderNo,omitempty"`
	OrderNo         string     `json:"orderNo,omitempty"`
	Status          string     `json:"status"`
	StuffingMonth   string     `json:"stuffingMonth"`
	CustomerName    string     `json:"customerName"`
	Country         string     `json:"country"`
	ImageLink       string     `json:"imageLink,omitempty"`
	TotalQty        int        `json:"totalQty"`
	ShippedQty      int        `json:"shippedQty"`
	BalanceQty      int        `json:"balanceQty"`
	TotalValue      float64    `json:"totalExportValue"`
	ShippedValue    float64    `json:"shippedValue"`
	BalanceValue    float64    `json:"balanceValue"`
	HasSubOrders    bool       `json:"hasSubOrders"`
	SingleOrderNo   string     `json:"singleOrderNo,omitempty"`
	HasTracking     bool       `json:"hasTracking"`
}

// ProductRow is one ungrouped product line at drill level 3.
type ProductRow struct {
	OrderRecord
	HasTracking bool `json:"hasTracking"`
}

// OrderPage is one page of the drill-down table.
type OrderPage struct {
	Title      string       `json:"title"`
	Level      DrillLevel   `json:"level"`
	Groups     []OrderGroup `json:"groups,omitempty"`
	Products   []ProductRow `json:"products,omitempty"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalPages int          `json:"totalPages"`
	TotalItems int          `json:"totalItems"`
}

// CountryBucket is one slice of the order-value-by-country chart.
type CountryBucket struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Qty   int     `json:"qty"`
}

// MonthBucket is one column of the monthly order-value chart.
type MonthBucket struct {
	Name   string  `json:"name"`
	Orders int     `json:"orders"`
	Value  float64 `json:"value"`
	Qty    int     `json:"qty"`
}

// NeverBoughtProduct is a catalog entry a customer has never ordered.
type NeverBoughtProduct struct {
	CatalogEntry
}

// DashboardView is the aggregate payload for the main dashboard endpoint.
type DashboardView struct {
	KPIs         KPISet          `json:"kpis"`
	CountryChart []CountryBucket `json:"countryChart"`
	MonthlyChart []MonthBucket   `json:"monthlyChart"`
	FiscalYears  []string        `json:"fiscalYears"`
	LastUpdate   time.Time       `json:"lastUpdate"`
}

// StepState is the display state of one tracking milestone.
type StepState string

const (
	StepCompleted StepState = "completed"
	StepPending   StepState = "pending"
	StepUpcoming  StepState = "upcoming"
)

// TimelineStep is one milestone of an order's tracking timeline.
type TimelineStep struct {
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	State     StepState `json:"state"`
	PhotoURLs []string  `json:"photoUrls,omitempty"`
}

// FinancialSummary is the settlement snapshot shown with a tracking
// timeline, joined from the account feed.
type FinancialSummary struct {
	OrderQty   int     `json:"orderQty"`
	OrderValue float64 `json:"orderValue"`
	Received   float64 `json:"received"`
	Balance    float64 `json:"balance"`
}

// TrackingTimeline is the full tracking view for one order number.
type TrackingTimeline struct {
	OrderNo   string            `json:"orderNo"`
	OrderDate string            `json:"orderDate,omitempty"`
	Steps     []TimelineStep    `json:"steps"`
	Financial *FinancialSummary `json:"financial,omitempty"`
}

// AccountSummary is the account dashboard payload.
type AccountSummary struct {
	TotalValue    float64         `json:"totalValue"`
	TotalReceived float64         `json:"totalReceived"`
	TotalBalance  float64         `json:"totalBalance"`
	Rows          []AccountRecord `json:"rows"`
}

// CalendarTotals carries the value and quantity aggregates of one calendar
// bucket. Total and planned accumulate on the order date, shipped on the
// stuffing month.
type CalendarTotals struct {
	TotalValue   float64 `json:"totalValue"`
	TotalQty     int     `json:"totalQty"`
	PlannedValue float64 `json:"plannedValue"`
	PlannedQty   int     `json:"plannedQty"`
	ShippedValue float64 `json:"shippedValue"`
	ShippedQty   int     `json:"shippedQty"`
}

// CalendarMonth is the per-month bucket of the calendar view. The order
// lists are capped for display; the counts are always exact.
type CalendarMonth struct {
	Month          int      `json:"month"`
	Name           string   `json:"name"`
	Received       int      `json:"received"`
	Planned        int      `json:"planned"`
	Shipped        int      `json:"shipped"`
	ReceivedOrders []string `json:"receivedOrders,omitempty"`
	CalendarTotals
}

// CalendarDay is the per-day bucket shown when a month is selected.
type CalendarDay struct {
	Day            int      `json:"day"`
	Received       int      `json:"received"`
	Planned        int      `json:"planned"`
	Shipped        int      `json:"shipped"`
	ReceivedOrders []string `json:"receivedOrders,omitempty"`
	PlannedOrders  []string `json:"plannedOrders,omitempty"`
	ShippedOrders  []string `json:"shippedOrders,omitempty"`
	CalendarTotals
}

// CalendarKPIs is the distinct-order headline of the calendar view, either
// for the whole year or for the selected month.
type CalendarKPIs struct {
	Received int `json:"received"`
	Planned  int `json:"planned"`
	Shipped  int `json:"shipped"`
}

// TopClient is one row of the calendar view's client leaderboard.
type TopClient struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Qty        int     `json:"qty"`
	OrderCount int     `json:"orderCount"`
}

// CalendarView is the calendar endpoint payload. Days is populated only
// when a month is selected.
type CalendarView struct {
	KPIs       CalendarKPIs    `json:"kpis"`
	Months     []CalendarMonth `json:"months"`
	Days       []CalendarDay   `json:"days,omitempty"`
	TopClients []TopClient     `json:"topClients"`
}

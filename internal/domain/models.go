// backend-go/internal/domain/models.go
package domain

import "time"

// OrderRecord is one product line of a client order from the Live sheet.
// Status carries the enriched display label; OriginalStatus keeps the raw
// sheet token and is never changed after enrichment.
type OrderRecord struct {
	Status          string  `json:"status" db:"status"`
	OriginalStatus  string  `json:"originalStatus" db:"original_status"`
	StatusCode      Status  `json:"-" db:"-"`
	OrderDate       string  `json:"orderDate" db:"order_date"`
	StuffingMonth   string  `json:"stuffingMonth" db:"stuffing_month"`
	ForwardingMonth string  `json:"forwardingMonth,omitempty" db:"forwarding_month"`
	OrderNo         string  `json:"orderNo" db:"order_no"`
	CustomerName    string  `json:"customerName" db:"customer_name"`
	Country         string  `json:"country" db:"country"`
	ProductCode     string  `json:"productCode" db:"product_code"`
	Product         string  `json:"product" db:"product"`
	Category        string  `json:"category" db:"category"`
	Segment         string  `json:"segment" db:"segment"`
	Qty             int     `json:"qty" db:"qty"`
	ExportValue     float64 `json:"exportValue" db:"export_value"`
	LogoURL         string  `json:"logoUrl" db:"logo_url"`
	ImageLink       string  `json:"imageLink" db:"image_link"`
	UnitPrice       float64 `json:"unitPrice" db:"unit_price"`
	FobPrice        float64 `json:"fobPrice" db:"fob_price"`
	MOQ             int     `json:"moq" db:"moq"`
	FY              string  `json:"fy" db:"fy"`
	StuffingDate    string  `json:"stuffingDate,omitempty" db:"stuffing_date"`
	ETD             string  `json:"etd,omitempty" db:"etd"`
	ETA             string  `json:"eta,omitempty" db:"eta"`
}

// CatalogEntry is one master-catalog product for a customer.
type CatalogEntry struct {
	Category     string  `json:"category" db:"category"`
	Segment      string  `json:"segment" db:"segment"`
	Product      string  `json:"product" db:"product"`
	ProductCode  string  `json:"productCode" db:"product_code"`
	ImageLink    string  `json:"imageLink" db:"image_link"`
	CustomerName string  `json:"customerName" db:"customer_name"`
	Country      string  `json:"country" db:"country"`
	FobPrice     float64 `json:"fobPrice" db:"fob_price"`
	MOQ          int     `json:"moq" db:"moq"`
}

// TrackingRecord holds the four pipeline milestones for one order number.
// At most one record exists per order number.
type TrackingRecord struct {
	OrderNo                 string   `json:"orderNo" db:"order_no"`
	ProductionDate          string   `json:"productionDate" db:"production_date"`
	ProductionStatus        string   `json:"productionStatus" db:"production_status"`
	SOBDate                 string   `json:"sobDate" db:"sob_date"`
	SOBStatus               string   `json:"sobStatus" db:"sob_status"`
	PaymentPlannedDate      string   `json:"paymentPlannedDate" db:"payment_planned_date"`
	PaymentStatus           string   `json:"paymentStatus" db:"payment_status"`
	QualityCheckPlannedDate string   `json:"qualityCheckPlannedDate" db:"quality_check_planned_date"`
	QualityCheckStatus      string   `json:"qualityCheckStatus" db:"quality_check_status"`
	QualityCheckURLs        []string `json:"qualityCheckUrls" db:"quality_check_urls"`
}

// AccountRecord is one financial settlement row. OrderNo may contain several
// merged order numbers concatenated in one cell.
type AccountRecord struct {
	SNo             string  `json:"sNo" db:"s_no"`
	OrderDate       string  `json:"orderDate" db:"order_date"`
	Country         string  `json:"country" db:"country"`
	Company         string  `json:"company" db:"company"`
	OrderNo         string  `json:"orderNo" db:"order_no"`
	Product         string  `json:"product" db:"product"`
	ProductCode     string  `json:"productCode" db:"product_code"`
	Port            string  `json:"port" db:"port"`
	ShippingMonth   string  `json:"shippingMonth" db:"shipping_month"`
	SOB             string  `json:"sob" db:"sob"`
	TotalOrderValue float64 `json:"totalOrderValue" db:"total_order_value"`
	CreditNote      string  `json:"creditNote" db:"credit_note"`
	MarketBudget    string  `json:"marketBudget" db:"market_budget"`
	PaymentReceived float64 `json:"paymentReceived" db:"payment_received"`
	BalancePayment  float64 `json:"balancePayment" db:"balance_payment"`
	ETA             string  `json:"eta" db:"eta"`
	PaymentDueDate  string  `json:"paymentDueDate" db:"payment_due_date"`
	Status          string  `json:"status" db:"status"`
	Comment         string  `json:"comment" db:"comment"`
}

// Credential is one (name, key) pair from the credentials sheet.
type Credential struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// Dataset is one immutable refresh-cycle snapshot of all feeds.
type Dataset struct {
	Orders      []OrderRecord
	Catalog     []CatalogEntry
	Tracking    []TrackingRecord
	Accounts    []AccountRecord
	Credentials []Credential
	FetchedAt   time.Time
}

// TrackingByOrderNo indexes the snapshot's tracking records by order number.
func (d *Dataset) TrackingByOrderNo() map[string]TrackingRecord {
	m := make(map[string]TrackingRecord, len(d.Tracking))
	for _, t := range d.Tracking {
		m[t.OrderNo] = t
	}
	return m
}

package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
)

func TestStepState(t *testing.T) {
	tests := []struct {
		name   string
		status string
		date   string
		want   domain.StepState
	}{
		{"yes completes", "yes", "", domain.StepCompleted},
		{"done completes", "Done", "2024-06-10", domain.StepCompleted},
		{"date makes pending", "no", "2024-06-10", domain.StepPending},
		{"na date is upcoming", "", "#N/A", domain.StepUpcoming},
		{"blank is upcoming", "", "  ", domain.StepUpcoming},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StepState(tt.status, tt.date))
		})
	}
}

func TestTimelineSteps(t *testing.T) {
	rec := &domain.TrackingRecord{
		OrderNo:                 "BM-0071",
		ProductionDate:          "2024-05-01",
		ProductionStatus:        "yes",
		QualityCheckPlannedDate: "2024-05-20",
		QualityCheckStatus:      "",
		QualityCheckURLs:        []string{"https://x/qc1.jpg", "#N/A", "ftp://nope", "https://x/qc2.jpg"},
		SOBDate:                 "",
		SOBStatus:               "",
		PaymentPlannedDate:      "#N/A",
		PaymentStatus:           "",
	}

	tl := Timeline("BM-0071", rec, "2024-04-10", nil)
	require.Len(t, tl.Steps, 5)

	assert.Equal(t, "Order Received", tl.Steps[0].Name)
	assert.Equal(t, domain.StepCompleted, tl.Steps[0].State)

	assert.Equal(t, domain.StepCompleted, tl.Steps[1].State)

	qc := tl.Steps[2]
	assert.Equal(t, domain.StepPending, qc.State)
	assert.Equal(t, []string{"https://x/qc1.jpg", "https://x/qc2.jpg"}, qc.PhotoURLs)

	assert.Equal(t, domain.StepUpcoming, tl.Steps[3].State)
	assert.Equal(t, domain.StepUpcoming, tl.Steps[4].State)
}

func TestTimelineWithoutRecord(t *testing.T) {
	tl := Timeline("BM-0001", nil, "2024-04-10", nil)
	assert.Empty(t, tl.Steps)
	assert.Equal(t, "BM-0001", tl.OrderNo)
}

func TestFinancialForPrefersAccountRow(t *testing.T) {
	orders := []domain.OrderRecord{
		{OrderNo: "BN-0010-II", Qty: 4, ExportValue: 400},
		{OrderNo: "BN-0010-II", Qty: 6, ExportValue: 600},
		{OrderNo: "BN-0010-I", Qty: 99, ExportValue: 9900},
	}
	accounts := []domain.AccountRecord{
		{OrderNo: "BN-0010-II + BN-0013-II", TotalOrderValue: 1500, PaymentReceived: 500, BalancePayment: 1000},
	}

	fin := FinancialFor("BN-0010-II", orders, accounts)
	require.NotNil(t, fin)
	// Qty sums exact matches only; sibling sub-orders stay out.
	assert.Equal(t, 10, fin.OrderQty)
	assert.InDelta(t, 1500, fin.OrderValue, 0.001)
	assert.InDelta(t, 500, fin.Received, 0.001)
	assert.InDelta(t, 1000, fin.Balance, 0.001)
}

func TestFinancialForFallsBackToLiveRows(t *testing.T) {
	orders := []domain.OrderRecord{
		{OrderNo: "BM-0071", Qty: 3, ExportValue: 300},
	}

	fin := FinancialFor("BM-0071", orders, nil)
	require.NotNil(t, fin)
	assert.Equal(t, 3, fin.OrderQty)
	assert.InDelta(t, 300, fin.OrderValue, 0.001)
	assert.Zero(t, fin.Received)
	assert.Zero(t, fin.Balance)
}

func TestLookup(t *testing.T) {
	ds := &domain.Dataset{
		Orders: []domain.OrderRecord{
			{OrderNo: "BM-0071", OrderDate: "2024-04-10", Qty: 2, ExportValue: 200},
		},
		Tracking: []domain.TrackingRecord{
			{OrderNo: "BM-0071", ProductionStatus: "yes"},
		},
	}

	tl := Lookup(ds, "BM-0071")
	assert.Equal(t, "2024-04-10", tl.OrderDate)
	require.NotEmpty(t, tl.Steps)
	require.NotNil(t, tl.Financial)
	assert.Equal(t, 2, tl.Financial.OrderQty)

	tl = Lookup(ds, "XX-0000")
	assert.Empty(t, tl.Steps)
}

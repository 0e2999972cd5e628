package orders

import (
	"testing"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trackingMap(recs ...domain.TrackingRecord) map[string]domain.TrackingRecord {
	m := make(map[string]domain.TrackingRecord)
	for _, r := range recs {
		m[r.OrderNo] = r
	}
	return m
}

func TestEnrichPrecedence(t *testing.T) {
	tests := []struct {
		name string
		step domain.TrackingRecord
		want string
	}{
		{
			name: "sob done without payment is shipped",
			step: domain.TrackingRecord{OrderNo: "Z-01", SOBStatus: "yes", SOBDate: "2024-05-01", PaymentStatus: "no"},
			want: "Shipped (2024-05-01)",
		},
		{
			name: "sob and payment done is complete",
			step: domain.TrackingRecord{OrderNo: "Z-01", SOBStatus: "done", SOBDate: "2024-05-01", PaymentStatus: "yes"},
			want: "Complete (2024-05-01)",
		},
		{
			name: "sob done but missing date falls through to quality check",
			step: domain.TrackingRecord{OrderNo: "Z-01", SOBStatus: "yes", SOBDate: "#N/A", QualityCheckStatus: "yes", QualityCheckPlannedDate: "2024-04-20"},
			want: "Quality Check (2024-04-20)",
		},
		{
			name: "production only",
			step: domain.TrackingRecord{OrderNo: "Z-01", ProductionStatus: "DONE", ProductionDate: "2024-04-01"},
			want: "Production (2024-04-01)",
		},
		{
			name: "no milestone reached keeps raw status",
			step: domain.TrackingRecord{OrderNo: "Z-01", ProductionStatus: "no"},
			want: "PLAN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := []domain.OrderRecord{{OrderNo: "Z-01", Status: "PLAN"}}
			out := Enrich(in, trackingMap(tt.step))
			require.Len(t, out, 1)
			assert.Equal(t, tt.want, out[0].Status)
			assert.Equal(t, "PLAN", out[0].OriginalStatus, "original status is immutable")
			assert.Equal(t, domain.StatusPlanned, out[0].StatusCode)
		})
	}
}

func TestEnrichWithoutTracking(t *testing.T) {
	in := []domain.OrderRecord{
		{OrderNo: "A-01", Status: "SHIPPED"},
		{OrderNo: "A-02", Status: "something else"},
	}

	out := Enrich(in, nil)
	assert.Equal(t, "SHIPPED", out[0].Status)
	assert.Equal(t, domain.StatusShipped, out[0].StatusCode)
	assert.Equal(t, domain.StatusUnknown, out[1].StatusCode)
}

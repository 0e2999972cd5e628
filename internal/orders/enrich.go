// backend-go/internal/orders/enrich.go
package orders

import (
	"fmt"
	"strings"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
)

func milestoneDone(token string) bool {
	t := strings.ToLower(strings.TrimSpace(token))
	return t == "yes" || t == "done"
}

func validMilestoneDate(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !strings.EqualFold(s, "#n/a")
}

// Enrich joins tracking records onto order rows by exact order number and
// derives the display status. The raw sheet token is preserved in
// OriginalStatus and mapped once onto the closed status enum; the display
// Status is overwritten by the highest tracking milestone reached:
//
//	SOB + payment done  -> Complete (<sob date>)
//	SOB done            -> Shipped (<sob date>)
//	quality check done  -> Quality Check (<planned date>)
//	production done     -> Production (<planned date>)
//
// Each label requires its milestone date to be present; without tracking,
// or below production, the display status stays the raw token.
func Enrich(records []domain.OrderRecord, tracking map[string]domain.TrackingRecord) []domain.OrderRecord {
	out := make([]domain.OrderRecord, len(records))

	for i, rec := range records {
		rec.OriginalStatus = rec.Status
		rec.StatusCode = domain.ParseStatus(rec.Status)

		if step, ok := tracking[rec.OrderNo]; ok {
			sobDone := milestoneDone(step.SOBStatus)
			paymentDone := milestoneDone(step.PaymentStatus)
			qualityDone := milestoneDone(step.QualityCheckStatus)
			productionDone := milestoneDone(step.ProductionStatus)

			switch {
			case sobDone && paymentDone && validMilestoneDate(step.SOBDate):
				rec.Status = fmt.Sprintf("Complete (%s)", step.SOBDate)
			case sobDone && validMilestoneDate(step.SOBDate):
				rec.Status = fmt.Sprintf("Shipped (%s)", step.SOBDate)
			case qualityDone && validMilestoneDate(step.QualityCheckPlannedDate):
				rec.Status = fmt.Sprintf("Quality Check (%s)", step.QualityCheckPlannedDate)
			case productionDone && validMilestoneDate(step.ProductionDate):
				rec.Status = fmt.Sprintf("Production (%s)", step.ProductionDate)
			}
		}

		out[i] = rec
	}

	return out
}

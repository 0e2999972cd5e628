package domain

import "strings"

// Status is the closed order-status enumeration derived once from the raw
// sheet token during enrichment. Downstream rules switch on this value
// instead of re-comparing strings.
type Status int

const (
	StatusUnknown Status = iota
	StatusPlanned
	StatusShipped
	StatusComplete
)

var statusLabels = map[Status]string{
	StatusPlanned:  "PLAN",
	StatusShipped:  "SHIPPED",
	StatusComplete: "COMPLETE",
}

var statusCodes = map[string]Status{
	"plan":     StatusPlanned,
	"shipped":  StatusShipped,
	"complete": StatusComplete,
}

// StatusLabel returns the raw sheet token for a status code.
func StatusLabel(status Status) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}

	return "UNKNOWN"
}

// ParseStatus maps a raw status token (case-insensitive) to its code.
// Unrecognized tokens map to StatusUnknown.
func ParseStatus(token string) Status {
	if code, ok := statusCodes[strings.ToLower(strings.TrimSpace(token))]; ok {
		return code
	}

	return StatusUnknown
}

// Active reports whether the status participates in KPI counting.
func (s Status) Active() bool {
	return s == StatusPlanned || s == StatusShipped || s == StatusComplete
}

// ShippedOrComplete reports whether goods have left for this status.
func (s Status) ShippedOrComplete() bool {
	return s == StatusShipped || s == StatusComplete
}

func (s Status) String() string {
	return StatusLabel(s)
}

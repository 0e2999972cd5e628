// backend-go/internal/orders/baseorder.go
package orders

import (
	"regexp"
	"strings"
)

// Sub-orders are written as a trailing "(A)", "-A" or roman-numeral "-II"
// suffix on the base order number.
var baseOrderSuffixRe = regexp.MustCompile(`^(.*?)(\([A-Z]\)|-[A-Z]|-[IVXLCDM]+)$`)

// BaseOrderNo uppercases an order number and strips one trailing sub-order
// suffix. Numbers without a suffix come back uppercased and otherwise
// unchanged, which makes the function idempotent.
func BaseOrderNo(orderNo string) string {
	upper := strings.ToUpper(strings.TrimSpace(orderNo))
	if m := baseOrderSuffixRe.FindStringSubmatch(upper); m != nil {
		return m[1]
	}
	return upper
}

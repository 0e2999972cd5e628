package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseOrderNo(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BM-0071-I", "BM-0071"},
		{"BM-0071-II", "BM-0071"},
		{"bm-0071-ii", "BM-0071"},
		{"BN-0010(A)", "BN-0010"},
		{"BP-0094-B", "BP-0094"},
		{"AX-9000", "AX-9000"},
		{"BM-0071", "BM-0071"},
		{" bm-0071-i ", "BM-0071"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BaseOrderNo(tt.in), "input %q", tt.in)
	}
}

func TestBaseOrderNoIdempotent(t *testing.T) {
	inputs := []string{"BM-0071-I", "BN-0010(A)", "AX-9000", "BP-0094-IV", "Z-01"}
	for _, in := range inputs {
		once := BaseOrderNo(in)
		assert.Equal(t, once, BaseOrderNo(once), "input %q", in)
	}
}

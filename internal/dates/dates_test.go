package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGvizDateToken(t *testing.T) {
	got := Parse("Date(2024,0,15)")
	require.NotNil(t, got)
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.January, got.Month())
	assert.Equal(t, 15, got.Day())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *time.Time
	}{
		{"empty", "", nil},
		{"na sentinel", "#N/A", nil},
		{"garbage", "not a date", nil},
		{"iso", "2024-06-15", timePtr(2024, time.June, 15)},
		{"gviz with time", "Date(2023,11,31,0,0,0)", timePtr(2023, time.December, 31)},
		{"slash dmy", "15/06/2024", timePtr(2024, time.June, 15)},
		{"long form", "June 15, 2024", timePtr(2024, time.June, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want.Year(), got.Year())
			assert.Equal(t, tt.want.Month(), got.Month())
			assert.Equal(t, tt.want.Day(), got.Day())
		})
	}
}

func TestFiscalYearBoundaries(t *testing.T) {
	marchEnd := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "24-25", FiscalYear(marchEnd))

	aprilStart := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "25-26", FiscalYear(aprilStart))

	midYear := time.Date(2024, time.September, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "24-25", FiscalYear(midYear))
}

func TestTwoDigitYear(t *testing.T) {
	assert.Equal(t, "24", TwoDigitYear("2024-06-15"))
	assert.Equal(t, "", TwoDigitYear("#N/A"))
	assert.Equal(t, "09", TwoDigitYear("2009-01-01"))
}

func TestFiscalStartYY(t *testing.T) {
	assert.Equal(t, "24", FiscalStartYY("24-25"))
	assert.Equal(t, "", FiscalStartYY("All"))
	assert.Equal(t, "", FiscalStartYY(""))
}

func TestRange(t *testing.T) {
	r := NewRange("2024-06-01", "2024-06-30")
	require.True(t, r.Active())

	assert.True(t, r.ContainsString("2024-06-01"))
	assert.True(t, r.ContainsString("2024-06-30"))
	assert.False(t, r.ContainsString("2024-07-01"))
	assert.False(t, r.ContainsString("#N/A"))

	open := NewRange("", "")
	assert.False(t, open.Active())

	startOnly := NewRange("2024-06-01", "")
	assert.True(t, startOnly.ContainsString("2030-01-01"))
	assert.False(t, startOnly.ContainsString("2024-05-31"))
}

func timePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

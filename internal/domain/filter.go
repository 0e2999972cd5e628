package domain

// FilterType discriminates the chart/KPI filters a user can toggle.
type FilterType string

const (
	FilterStatus  FilterType = "status"
	FilterCountry FilterType = "country"
	FilterMonth   FilterType = "month"
)

// Filter is one active dashboard filter. Source records which widget added
// it; a status filter sourced from a KPI card matches the immutable
// original status exactly instead of the display label.
type Filter struct {
	Type   FilterType `json:"type"`
	Value  string     `json:"value"`
	Source string     `json:"source,omitempty"`
}

// FilterSet is an insertion-ordered set of filters, de-duplicated on
// (type, value).
type FilterSet []Filter

// Toggle adds the filter if absent and removes it if present, returning the
// new set. Toggling twice restores the original set.
func (fs FilterSet) Toggle(f Filter) FilterSet {
	for i, existing := range fs {
		if existing.Type == f.Type && existing.Value == f.Value {
			out := make(FilterSet, 0, len(fs)-1)
			out = append(out, fs[:i]...)
			out = append(out, fs[i+1:]...)
			return out
		}
	}

	out := make(FilterSet, 0, len(fs)+1)
	out = append(out, fs...)
	out = append(out, f)
	return out
}

// ByType returns the filters of one type, preserving insertion order.
func (fs FilterSet) ByType(t FilterType) []Filter {
	var out []Filter
	for _, f := range fs {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

// Contains reports whether a (type, value) pair is active.
func (fs FilterSet) Contains(t FilterType, value string) bool {
	for _, f := range fs {
		if f.Type == t && f.Value == value {
			return true
		}
	}
	return false
}

// FirstOfType returns the first filter of the given type, if any.
func (fs FilterSet) FirstOfType(t FilterType) (Filter, bool) {
	for _, f := range fs {
		if f.Type == t {
			return f, true
		}
	}
	return Filter{}, false
}

// backend-go/internal/gviz/gviz.go
//
// Parsing for the Google Visualization ("gviz") query envelope the
// spreadsheet feeds respond with. The payload is a JSON object wrapped in
// a JS callback, e.g.
//
//	/*O_o*/
//	google.visualization.Query.setResponse({"status":"ok","table":{...}});
package gviz

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SourceError reports a non-ok envelope or an unparseable response body.
type SourceError struct {
	Reason string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("gviz source error: %s", e.Reason)
}

// Column is one table column; matching against feeds is by trimmed Label.
type Column struct {
	Label string `json:"label"`
}

// Cell is one table cell. V may be a string, float64, bool or nil after
// JSON decoding; dates arrive as "Date(YYYY,M,D)" strings with a
// zero-indexed month.
type Cell struct {
	V any    `json:"v"`
	F string `json:"f"`
}

// Table is the decoded row/column payload of one feed response.
type Table struct {
	Cols []Column `json:"cols"`
	Rows []Row    `json:"rows"`
}

// Row is one table row; C entries may be nil for empty cells.
type Row struct {
	C []*Cell `json:"c"`
}

type envelope struct {
	Status string `json:"status"`
	Errors []struct {
		Message         string `json:"message"`
		DetailedMessage string `json:"detailed_message"`
	} `json:"errors"`
	Table Table `json:"table"`
}

var bodyRe = regexp.MustCompile(`(?s)\{.*\}`)

// ParseResponse extracts and decodes the JSON envelope from a raw gviz
// response body. A missing envelope, undecodable JSON or non-ok status all
// yield a *SourceError.
func ParseResponse(body []byte) (*Table, error) {
	match := bodyRe.Find(body)
	if match == nil {
		return nil, &SourceError{Reason: "invalid response format"}
	}

	var env envelope
	if err := json.Unmarshal(match, &env); err != nil {
		return nil, &SourceError{Reason: fmt.Sprintf("decode envelope: %v", err)}
	}

	if env.Status != "ok" {
		var msgs []string
		for _, e := range env.Errors {
			if e.DetailedMessage != "" {
				msgs = append(msgs, e.DetailedMessage)
			} else if e.Message != "" {
				msgs = append(msgs, e.Message)
			}
		}
		reason := strings.Join(msgs, ", ")
		if reason == "" {
			reason = "unknown error"
		}
		return nil, &SourceError{Reason: reason}
	}

	return &env.Table, nil
}

// LabelIndex maps each trimmed column label to its index. Later duplicate
// labels win, matching how the sheet publishes them.
func (t *Table) LabelIndex() map[string]int {
	idx := make(map[string]int, len(t.Cols))
	for i, col := range t.Cols {
		idx[strings.TrimSpace(col.Label)] = i
	}
	return idx
}

// Value returns the raw cell value at index i of the row, or nil when the
// cell is absent.
func (r Row) Value(i int) any {
	if i < 0 || i >= len(r.C) || r.C[i] == nil {
		return nil
	}
	return r.C[i].V
}

// String renders a cell value the way the sheet text shows it: numbers
// without trailing zeros, nil as the empty string, everything trimmed.
func String(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

var leadingIntRe = regexp.MustCompile(`^-?\d+`)
var leadingFloatRe = regexp.MustCompile(`^-?\d*\.?\d+`)

// Int coerces a cell to an integer quantity: thousands separators are
// stripped and a leading integer prefix is accepted, anything else is 0.
func Int(v any) int {
	if f, ok := v.(float64); ok {
		return int(f)
	}
	s := strings.ReplaceAll(String(v), ",", "")
	if m := leadingIntRe.FindString(s); m != "" {
		n, _ := strconv.Atoi(m)
		return n
	}
	return 0
}

// Float coerces a cell to a monetary amount: "$" and "," are stripped and
// a leading number prefix is accepted, anything else is 0.
func Float(v any) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	s := strings.NewReplacer("$", "", ",", "").Replace(String(v))
	if m := leadingFloatRe.FindString(s); m != "" {
		f, _ := strconv.ParseFloat(m, 64)
		return f
	}
	return 0
}

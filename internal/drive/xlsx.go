// backend-go/internal/drive/xlsx.go
package drive

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/gviz"
)

// Workbook is one exported spreadsheet held in memory so every feed sheet
// can be read from a single Drive download.
type Workbook struct {
	file *excelize.File
}

// OpenWorkbook parses an XLSX payload.
func OpenWorkbook(raw []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{file: f}, nil
}

// Close releases the underlying workbook resources.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Sheets returns the sheet names in workbook order.
func (w *Workbook) Sheets() []string {
	return w.file.GetSheetList()
}

// SheetTable converts one sheet into the row/column shape the feed parsers
// consume. The first non-empty row becomes the column labels; trailing
// cells beyond the label row are dropped and missing cells stay nil, the
// same way a gviz response renders them.
func (w *Workbook) SheetTable(sheet string) (*gviz.Table, error) {
	name := w.resolveSheet(sheet)
	if name == "" {
		return nil, fmt.Errorf("sheet %q not found in workbook", sheet)
	}

	rows, err := w.file.Rows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	defer rows.Close()

	table := &gviz.Table{}
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("read row in sheet %s: %w", name, err)
		}

		if table.Cols == nil {
			if emptyRecord(record) {
				continue
			}
			for _, label := range record {
				table.Cols = append(table.Cols, gviz.Column{Label: strings.TrimSpace(label)})
			}
			continue
		}

		row := gviz.Row{C: make([]*gviz.Cell, len(table.Cols))}
		for i := range table.Cols {
			if i < len(record) && record[i] != "" {
				row.C[i] = &gviz.Cell{V: record[i]}
			}
		}
		table.Rows = append(table.Rows, row)
	}

	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("iterate sheet %s: %w", name, err)
	}
	if table.Cols == nil {
		return nil, fmt.Errorf("sheet %s has no header row", name)
	}

	return table, nil
}

// resolveSheet matches a sheet name case-insensitively; spreadsheet owners
// rename tabs more often than they mean to.
func (w *Workbook) resolveSheet(sheet string) string {
	for _, name := range w.file.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(sheet)) {
			return name
		}
	}
	return ""
}

func emptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

package reconcile_test

import (
	"github.com/agentstation/attendmerge/pkg/attendance"
)

// row is a raw spreadsheet row in output column order:
// date, id, department, name, in, out, hours, code, note.
type row []string

func ledgerTable(rows ...row) *attendance.Table {
	return buildTable(attendance.SourceLedger, 0, rows)
}

func presenceTable(rows ...row) *attendance.Table {
	return buildTable(attendance.SourcePresence, 1, rows)
}

func buildTable(source attendance.Source, headerRow int, rows []row) *attendance.Table {
	t := &attendance.Table{
		Source:  source,
		Sheet:   "Sheet1",
		Columns: append([]attendance.Column(nil), attendance.OutputColumns...),
	}
	for i, r := range rows {
		cells := make(map[attendance.Column]string, len(attendance.OutputColumns))
		for j, c := range attendance.OutputColumns {
			if j < len(r) {
				cells[c] = r[j]
			} else {
				cells[c] = ""
			}
		}
		t.Records = append(t.Records, attendance.Record{
			Row:   headerRow + i + 2,
			Cells: cells,
		})
	}
	return t
}

// tableFromMerged turns merged output back into a ledger, as the next month's
// run would read it.
func tableFromMerged(m *attendance.MergedTable) *attendance.Table {
	rows := make([]row, len(m.Rows))
	for i, r := range m.Rows {
		rows[i] = row(r)
	}
	t := ledgerTable(rows...)
	t.Sheet = m.Sheet
	return t
}

// Package attendance defines the typed records and tables that flow through
// the reconciliation pipeline: one Record per spreadsheet row, a Table per
// input workbook, and the fixed nine-column output schema.
package attendance

import (
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/attendmerge/pkg/constants"
)

// Source identifies which input a table or record came from.
type Source string

// Input sources.
const (
	SourcePresence Source = "presence"
	SourceLedger   Source = "ledger"
)

// String returns the string representation of a source.
func (s Source) String() string {
	return string(s)
}

// Number is a numeric spreadsheet cell: the stored value and the number format
// it is displayed with. xlsx stores dates and times as numbers.
type Number struct {
	Value        float64 `json:"value" yaml:"value"`
	NumFmt       int     `json:"num_fmt,omitempty" yaml:"num_fmt,omitempty"`
	CustomNumFmt string  `json:"custom_num_fmt,omitempty" yaml:"custom_num_fmt,omitempty"`
}

// HasFormat reports whether the number is displayed with a format other than General.
func (n Number) HasFormat() bool {
	return n.NumFmt != 0 || n.CustomNumFmt != ""
}

// excelEpoch is day zero of the 1900 date system as used by every date after
// 1900-03-01.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ExcelSerial converts a calendar date to its 1900-system serial number.
func ExcelSerial(t time.Time) float64 {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return float64(d.Sub(excelEpoch) / (24 * time.Hour))
}

// Record is one row of either table. Typed fields hold the normalized view used
// for comparison; Cells keeps the displayed cell text and Numbers the stored
// value of numeric cells, so ledger rows can be written back unmodified.
type Record struct {
	// Row is the 1-based spreadsheet row number the record was read from.
	Row int `json:"row" yaml:"row"`

	Date           time.Time `json:"date" yaml:"date"`
	DateValid      bool      `json:"date_valid" yaml:"date_valid"`
	EmployeeID     string    `json:"employee_id" yaml:"employee_id"`
	EmployeeName   string    `json:"employee_name" yaml:"employee_name"`
	Department     string    `json:"department" yaml:"department"`
	ClockIn        string    `json:"clock_in,omitempty" yaml:"clock_in,omitempty"`
	ClockOut       string    `json:"clock_out,omitempty" yaml:"clock_out,omitempty"`
	WorkHours      string    `json:"work_hours,omitempty" yaml:"work_hours,omitempty"`
	AttendanceCode string    `json:"attendance_code,omitempty" yaml:"attendance_code,omitempty"`
	Note           string    `json:"note,omitempty" yaml:"note,omitempty"`

	Cells   map[Column]string `json:"-" yaml:"-"`
	Numbers map[Column]Number `json:"-" yaml:"-"`
}

// DateKey returns the date in its canonical key representation, or "" when the
// date could not be parsed.
func (r Record) DateKey() string {
	if !r.DateValid {
		return ""
	}
	return r.Date.Format(constants.DateLayout)
}

// WorkHoursValue parses work_hours as a number.
func (r Record) WorkHoursValue() (float64, bool) {
	v := strings.TrimSpace(r.WorkHours)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Raw returns the raw cell text for a column, or "" when absent.
func (r Record) Raw(c Column) string {
	if r.Cells == nil {
		return ""
	}
	return r.Cells[c]
}

// Number returns the stored numeric value of a column when the cell was a number.
func (r Record) Number(c Column) (Number, bool) {
	n, ok := r.Numbers[c]
	return n, ok
}

// Clone returns a copy of the record with its own cell maps.
func (r Record) Clone() Record {
	out := r
	if r.Cells != nil {
		out.Cells = make(map[Column]string, len(r.Cells))
		for k, v := range r.Cells {
			out.Cells[k] = v
		}
	}
	if r.Numbers != nil {
		out.Numbers = make(map[Column]Number, len(r.Numbers))
		for k, v := range r.Numbers {
			out.Numbers[k] = v
		}
	}
	return out
}

// Table is an ordered sequence of records loaded from one workbook.
type Table struct {
	Source  Source
	Sheet   string
	Columns []Column // columns present in the source header, in header order
	Records []Record
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Has reports whether the source header contained the column.
func (t *Table) Has(c Column) bool {
	for _, col := range t.Columns {
		if col == c {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Source:  t.Source,
		Sheet:   t.Sheet,
		Columns: append([]Column(nil), t.Columns...),
		Records: make([]Record, len(t.Records)),
	}
	for i, r := range t.Records {
		out.Records[i] = r.Clone()
	}
	return out
}

// MergedTable is the reconciled output: ledger rows first, then accepted
// candidates, projected onto OutputColumns.
type MergedTable struct {
	Sheet string
	Rows  [][]string
	// Numbers holds the numeric cells of each row keyed by column position.
	// It is parallel to Rows; a row without numeric cells has a nil map.
	Numbers []map[int]Number
	// LedgerRows counts the leading rows that came from the ledger.
	LedgerRows int
}

// NumberAt returns the numeric value of a cell when it is written as a number.
func (m *MergedTable) NumberAt(row, col int) (Number, bool) {
	if row < 0 || row >= len(m.Numbers) {
		return Number{}, false
	}
	n, ok := m.Numbers[row][col]
	return n, ok
}

// Appended returns the number of rows appended after the ledger rows.
func (m *MergedTable) Appended() int {
	return len(m.Rows) - m.LedgerRows
}

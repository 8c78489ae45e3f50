package output

import (
	"strconv"
	"strings"

	"github.com/agentstation/attendmerge/pkg/attendance"
	"github.com/agentstation/attendmerge/pkg/reconcile"
)

// Report is the machine-readable form of a merge result.
type Report struct {
	Success          bool                       `json:"success" yaml:"success"`
	Message          string                     `json:"message" yaml:"message"`
	RunID            string                     `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Output           string                     `json:"output,omitempty" yaml:"output,omitempty"`
	DryRun           bool                       `json:"dry_run" yaml:"dry_run"`
	Appended         int                        `json:"appended" yaml:"appended"`
	KeyPolicy        string                     `json:"key_policy" yaml:"key_policy"`
	DepartmentPolicy string                     `json:"department_policy" yaml:"department_policy"`
	Stats            reconcile.ResultStatistics `json:"stats" yaml:"stats"`
	Warnings         []string                   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Rows             []reconcile.RowOutcome     `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// NewReport builds a Report. Row outcomes are included only when details is set.
func NewReport(result *reconcile.Result, outPath string, details bool) Report {
	r := Report{
		Success:          result.IsSuccess(),
		Message:          result.Summary(),
		RunID:            result.RunID,
		Output:           outPath,
		DryRun:           result.Metadata.DryRun,
		Appended:         result.Appended,
		KeyPolicy:        result.Metadata.KeyPolicy.String(),
		DepartmentPolicy: result.Metadata.DepartmentPolicy.String(),
		Stats:            result.Metadata.Stats,
		Warnings:         result.Warnings,
	}
	if details {
		r.Rows = result.Outcomes
	}
	return r
}

// Tables renders the report as tables: counts first, then row outcomes.
func (r Report) Tables() []Data {
	s := r.Stats
	counts := [][]string{
		{"ledger_rows", strconv.Itoa(s.LedgerRows)},
		{"presence_rows", strconv.Itoa(s.PresenceRows)},
		{"ledger_bad_dates", strconv.Itoa(s.LedgerBadDates)},
		{"presence_bad_dates", strconv.Itoa(s.PresenceBadDates)},
		{"departments_overwritten", strconv.Itoa(s.DepartmentsOverwritten)},
		{"duplicates", strconv.Itoa(s.Duplicates)},
		{"no_time_data", strconv.Itoa(s.NoTimeData)},
		{"appended", strconv.Itoa(r.Appended)},
		{"output_rows", strconv.Itoa(s.OutputRows)},
	}
	for _, row := range counts {
		row[0] = Label(row[0])
	}

	tables := []Data{{
		Headers:         []string{"Stage", "Rows"},
		Rows:            counts,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}}

	if len(r.Rows) > 0 {
		rows := make([][]string, 0, len(r.Rows))
		for _, o := range r.Rows {
			rows = append(rows, []string{
				strconv.Itoa(o.Row), string(o.Outcome), o.Date, o.EmployeeID, o.EmployeeName, o.Department,
			})
		}
		tables = append(tables, Data{
			Headers:         []string{"Row", "Outcome", "Date", "Employee ID", "Name", "Department"},
			Rows:            rows,
			ColumnAlignment: []Align{AlignRight},
		})
	}
	return tables
}

// TableSummary describes one loaded workbook for the inspect command.
type TableSummary struct {
	Source    string   `json:"source" yaml:"source"`
	Sheet     string   `json:"sheet" yaml:"sheet"`
	HeaderRow int      `json:"header_row" yaml:"header_row"`
	Columns   []string `json:"columns" yaml:"columns"`
	Missing   []string `json:"missing_optional,omitempty" yaml:"missing_optional,omitempty"`
	Rows      int      `json:"rows" yaml:"rows"`
	ValidRows int      `json:"valid_date_rows" yaml:"valid_date_rows"`
	Employees int      `json:"employees" yaml:"employees"`
	BadDates  []string `json:"bad_dates,omitempty" yaml:"bad_dates,omitempty"`
}

// Data renders the summary as a property table.
func (s TableSummary) Data() Data {
	return Data{
		Title:   s.Source,
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"Sheet", s.Sheet},
			{"Header Row", strconv.Itoa(s.HeaderRow)},
			{"Columns", joinHeaders(s.Columns)},
			{"Missing Optional", joinHeaders(s.Missing)},
			{"Rows", strconv.Itoa(s.Rows)},
			{"Valid Date Rows", strconv.Itoa(s.ValidRows)},
			{"Employees", strconv.Itoa(s.Employees)},
			{"Bad Dates", strconv.Itoa(len(s.BadDates))},
		},
	}
}

// ColumnHeaders returns the Korean header text of each column.
func ColumnHeaders(cols []attendance.Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header()
	}
	return out
}

func joinHeaders(h []string) string {
	if len(h) == 0 {
		return "-"
	}
	return strings.Join(h, ", ")
}

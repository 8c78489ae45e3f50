package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/agentstation/attendmerge/pkg/attendance"
	"github.com/agentstation/attendmerge/pkg/errors"
)

// Outcome is what happened to one presence-log row.
type Outcome string

// Row outcomes.
const (
	OutcomeAccepted   Outcome = "accepted"
	OutcomeDuplicate  Outcome = "duplicate"
	OutcomeNoTimeData Outcome = "no_time_data"
	OutcomeBadDate    Outcome = "bad_date"
)

// RowOutcome records the fate of a presence-log row.
type RowOutcome struct {
	Row          int     `json:"row" yaml:"row"`
	Outcome      Outcome `json:"outcome" yaml:"outcome"`
	Date         string  `json:"date" yaml:"date"`
	EmployeeID   string  `json:"employee_id" yaml:"employee_id"`
	EmployeeName string  `json:"employee_name" yaml:"employee_name"`
	Department   string  `json:"department" yaml:"department"`
}

// Result represents the outcome of a reconciliation run
type Result struct {
	// Success indicates the run produced a merged table
	Success bool `json:"success" yaml:"success"`

	// RunID identifies the run in logs
	RunID string `json:"run_id,omitempty" yaml:"run_id,omitempty"`

	// Merged is the reconciled table (if successful)
	Merged *attendance.MergedTable `json:"-" yaml:"-"`

	// Appended is the number of presence rows added after the ledger rows
	Appended int `json:"appended" yaml:"appended"`

	// Outcomes lists every presence row in input order
	Outcomes []RowOutcome `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`

	// Errors contains errors that failed the run
	Errors []error `json:"-" yaml:"-"`

	// Recovered holds non-fatal typed errors: date parse failures and empty inputs
	Recovered []error `json:"-" yaml:"-"`

	// Warnings contains non-critical issues as messages
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Metadata about the run
	Metadata ResultMetadata `json:"metadata" yaml:"metadata"`
}

// ResultMetadata contains metadata about the reconciliation process
type ResultMetadata struct {
	StartTime        time.Time        `json:"start_time" yaml:"start_time"`
	EndTime          time.Time        `json:"end_time" yaml:"end_time"`
	Duration         time.Duration    `json:"duration" yaml:"duration"`
	KeyPolicy        KeyPolicy        `json:"key_policy" yaml:"key_policy"`
	DepartmentPolicy DepartmentPolicy `json:"department_policy" yaml:"department_policy"`
	DryRun           bool             `json:"dry_run" yaml:"dry_run"`
	Stats            ResultStatistics `json:"stats" yaml:"stats"`
}

// ResultStatistics contains row counts per pipeline stage
type ResultStatistics struct {
	// Data rows read from each input
	LedgerRows   int `json:"ledger_rows" yaml:"ledger_rows"`
	PresenceRows int `json:"presence_rows" yaml:"presence_rows"`

	// Rows whose date could not be parsed
	LedgerBadDates   int `json:"ledger_bad_dates" yaml:"ledger_bad_dates"`
	PresenceBadDates int `json:"presence_bad_dates" yaml:"presence_bad_dates"`

	// Department resolution
	DepartmentsIndexed     int `json:"departments_indexed" yaml:"departments_indexed"`
	DepartmentsOverwritten int `json:"departments_overwritten" yaml:"departments_overwritten"`

	// Set difference and validity
	Candidates int `json:"candidates" yaml:"candidates"`
	Duplicates int `json:"duplicates" yaml:"duplicates"`
	NoTimeData int `json:"no_time_data" yaml:"no_time_data"`
	Accepted   int `json:"accepted" yaml:"accepted"`

	OutputRows  int   `json:"output_rows" yaml:"output_rows"`
	TotalTimeMs int64 `json:"total_time_ms" yaml:"total_time_ms"`
}

// IsSuccess returns true if the run was successful
func (r *Result) IsSuccess() bool {
	return r.Success && len(r.Errors) == 0
}

// HasErrors returns true if there were errors
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there were warnings
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// EmptyInputs returns the empty-input warnings of the run.
func (r *Result) EmptyInputs() []*errors.EmptyInputError {
	var out []*errors.EmptyInputError
	for _, err := range r.Recovered {
		var e *errors.EmptyInputError
		if errors.As(err, &e) {
			out = append(out, e)
		}
	}
	return out
}

// DateErrors returns the date parse failures of the run.
func (r *Result) DateErrors() []*errors.DateParseError {
	var out []*errors.DateParseError
	for _, err := range r.Recovered {
		var e *errors.DateParseError
		if errors.As(err, &e) {
			out = append(out, e)
		}
	}
	return out
}

// OutcomesOf returns the row outcomes of one kind.
func (r *Result) OutcomesOf(kind Outcome) []RowOutcome {
	var out []RowOutcome
	for _, o := range r.Outcomes {
		if o.Outcome == kind {
			out = append(out, o)
		}
	}
	return out
}

// Summary returns the one-line status message of the run
func (r *Result) Summary() string {
	if !r.Success {
		if len(r.Errors) > 0 {
			return fmt.Sprintf("Merge failed: %v", r.Errors[0])
		}
		return "Merge failed"
	}

	s := r.Metadata.Stats
	prefix := "Merged"
	if r.Metadata.DryRun {
		prefix = "Dry run:"
	}
	if r.Appended == 0 {
		return fmt.Sprintf("%s no new rows; ledger unchanged (%d rows)", prefix, s.LedgerRows)
	}
	return fmt.Sprintf("%s %d new rows after %d ledger rows (%d duplicates, %d without time data)",
		prefix, r.Appended, s.LedgerRows, s.Duplicates, s.NoTimeData)
}

// Report generates a detailed report of the run
func (r *Result) Report() string {
	s := r.Metadata.Stats
	report := fmt.Sprintf(`
Reconciliation Report
=====================
Status: %s
Duration: %s
Key Policy: %s
Department Policy: %s

`, r.statusString(), r.Metadata.Duration, r.Metadata.KeyPolicy, r.Metadata.DepartmentPolicy)

	report += fmt.Sprintf(`Statistics:
-----------
Ledger Rows: %d
Presence Rows: %d
Unparseable Dates: %d ledger, %d presence
Departments Indexed: %d
Departments Overwritten: %d
Duplicates: %d
Without Time Data: %d
Appended: %d
Output Rows: %d

`, s.LedgerRows, s.PresenceRows,
		s.LedgerBadDates, s.PresenceBadDates,
		s.DepartmentsIndexed, s.DepartmentsOverwritten,
		s.Duplicates, s.NoTimeData, r.Appended, s.OutputRows)

	if r.HasErrors() {
		report += fmt.Sprintf(`Errors (%d):
------------
`, len(r.Errors))
		for i, err := range r.Errors {
			report += fmt.Sprintf("%d. %v\n", i+1, err)
		}
		report += "\n"
	}

	if r.HasWarnings() {
		report += fmt.Sprintf(`Warnings (%d):
--------------
`, len(r.Warnings))
		for i, warning := range r.Warnings {
			report += fmt.Sprintf("%d. %s\n", i+1, warning)
		}
		report += "\n"
	}

	return report
}

// statusString returns a string representation of the status
func (r *Result) statusString() string {
	if !r.Success {
		return "❌ Failed"
	}
	if r.Metadata.DryRun {
		return "🔍 Dry Run"
	}
	if r.HasWarnings() {
		return "⚠️  Success with Warnings"
	}
	return "✅ Success"
}

// ResultBuilder helps construct Result objects
type ResultBuilder struct {
	result *Result
}

// NewResultBuilder creates a new ResultBuilder
func NewResultBuilder() *ResultBuilder {
	return &ResultBuilder{
		result: &Result{
			Success:  true,
			Errors:   []error{},
			Warnings: []string{},
			Metadata: ResultMetadata{
				StartTime: time.Now(),
			},
		},
	}
}

// WithRunID sets the run id
func (b *ResultBuilder) WithRunID(id string) *ResultBuilder {
	b.result.RunID = id
	return b
}

// WithPolicies records the policies the run used
func (b *ResultBuilder) WithPolicies(key KeyPolicy, dept DepartmentPolicy) *ResultBuilder {
	b.result.Metadata.KeyPolicy = key
	b.result.Metadata.DepartmentPolicy = dept
	return b
}

// WithMerged sets the merged table and the appended count
func (b *ResultBuilder) WithMerged(merged *attendance.MergedTable) *ResultBuilder {
	b.result.Merged = merged
	if merged != nil {
		b.result.Appended = merged.Appended()
		b.result.Metadata.Stats.OutputRows = len(merged.Rows)
	}
	return b
}

// WithOutcome records a presence row outcome
func (b *ResultBuilder) WithOutcome(kind Outcome, rec attendance.Record) *ResultBuilder {
	o := RowOutcome{
		Row:          rec.Row,
		Outcome:      kind,
		Date:         rec.DateKey(),
		EmployeeID:   rec.EmployeeID,
		EmployeeName: rec.EmployeeName,
		Department:   rec.Department,
	}
	if kind == OutcomeBadDate {
		o.Date = rec.Raw(attendance.ColDate)
	}
	b.result.Outcomes = append(b.result.Outcomes, o)
	return b
}

// WithError adds an error and marks the run failed
func (b *ResultBuilder) WithError(err error) *ResultBuilder {
	if err != nil {
		b.result.Success = false
		b.result.Errors = append(b.result.Errors, err)
	}
	return b
}

// WithRecovered adds a non-fatal error, also listed as a warning
func (b *ResultBuilder) WithRecovered(err error) *ResultBuilder {
	if err != nil {
		b.result.Recovered = append(b.result.Recovered, err)
		b.result.Warnings = append(b.result.Warnings, err.Error())
	}
	return b
}

// WithWarning adds a warning
func (b *ResultBuilder) WithWarning(warning string) *ResultBuilder {
	b.result.Warnings = append(b.result.Warnings, warning)
	return b
}

// WithDryRun marks this as a dry run
func (b *ResultBuilder) WithDryRun(dryRun bool) *ResultBuilder {
	b.result.Metadata.DryRun = dryRun
	return b
}

// Stats exposes the statistics for incremental updates
func (b *ResultBuilder) Stats() *ResultStatistics {
	return &b.result.Metadata.Stats
}

// Build finalizes and returns the Result
func (b *ResultBuilder) Build() *Result {
	sort.SliceStable(b.result.Outcomes, func(i, j int) bool {
		return b.result.Outcomes[i].Row < b.result.Outcomes[j].Row
	})
	b.result.Metadata.EndTime = time.Now()
	b.result.Metadata.Duration = b.result.Metadata.EndTime.Sub(b.result.Metadata.StartTime)
	b.result.Metadata.Stats.TotalTimeMs = b.result.Metadata.Duration.Milliseconds()
	return b.result
}

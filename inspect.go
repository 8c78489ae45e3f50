package attendmerge

import (
	"context"
	"io"

	"github.com/agentstation/attendmerge/pkg/attendance"
	"github.com/agentstation/attendmerge/pkg/errors"
	"github.com/agentstation/attendmerge/pkg/logging"
	"github.com/agentstation/attendmerge/pkg/normalize"
	"github.com/agentstation/attendmerge/pkg/workbook"
)

// Inspection describes one loaded workbook before any merge.
type Inspection struct {
	Source          attendance.Source        `json:"source"`
	Sheet           string                   `json:"sheet"`
	HeaderRow       int                      `json:"header_row"`
	Columns         []attendance.Column      `json:"columns"`
	MissingOptional []attendance.Column      `json:"missing_optional,omitempty"`
	Rows            int                      `json:"rows"`
	ValidDateRows   int                      `json:"valid_date_rows"`
	Employees       int                      `json:"employees"`
	DateErrors      []*errors.DateParseError `json:"date_errors,omitempty"`
}

// Inspect loads and normalizes a single workbook with the layout the merge
// would use for source. It reports what was detected without reconciling
// anything, so header offset problems can be diagnosed before a merge.
// A MalformedWorkbookError is returned as is.
func Inspect(ctx context.Context, r io.Reader, source attendance.Source, opts ...Option) (*Inspection, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	layout := cfg.ledgerLayout
	if source == attendance.SourcePresence {
		layout = cfg.presenceLayout
	}

	table, err := workbook.Read(r, layout)
	if err != nil {
		return nil, err
	}
	normalized, dateErrs := normalize.Table(table, cfg.reconcile.Normalize)

	in := &Inspection{
		Source:     source,
		Sheet:      table.Sheet,
		HeaderRow:  layout.HeaderRow,
		Columns:    table.Columns,
		Rows:       table.Len(),
		DateErrors: dateErrs,
	}
	for _, c := range attendance.OutputColumns {
		if !table.Has(c) {
			in.MissingOptional = append(in.MissingOptional, c)
		}
	}
	employees := make(map[string]struct{})
	for _, rec := range normalized.Records {
		if rec.DateValid {
			in.ValidDateRows++
		}
		if rec.EmployeeID != "" {
			employees[rec.EmployeeID] = struct{}{}
		}
	}
	in.Employees = len(employees)

	logging.FromContext(ctx).Debug().
		Str("source", source.String()).
		Int("rows", in.Rows).
		Int("bad_dates", len(dateErrs)).
		Msg("inspected workbook")
	return in, nil
}

package normalize

import (
	"strconv"

	"github.com/agentstation/attendmerge/pkg/attendance"
	"github.com/agentstation/attendmerge/pkg/constants"
	"github.com/agentstation/attendmerge/pkg/errors"
)

// Options controls table normalization.
type Options struct {
	// IDWidth is the zero-padded width of canonical employee ids.
	IDWidth int `validate:"min=1,max=20"`

	// DropInvalidLedgerDates drops ledger rows whose date cannot be parsed.
	// Presence-log rows with bad dates are always dropped.
	DropInvalidLedgerDates bool
}

// DefaultOptions returns the default normalization options.
func DefaultOptions() Options {
	return Options{IDWidth: constants.EmployeeIDWidth}
}

// Table returns a normalized copy of t. Every record gets a canonical employee
// id, canonical name, trimmed department and time fields, and a parsed date.
// Rows whose date cannot be parsed are reported as DateParseErrors; they are
// removed from presence tables always and from ledger tables only when
// opts.DropInvalidLedgerDates is set. The input table is not modified.
func Table(t *attendance.Table, opts Options) (*attendance.Table, []*errors.DateParseError) {
	if t == nil {
		return nil, nil
	}
	out := &attendance.Table{
		Source:  t.Source,
		Sheet:   t.Sheet,
		Columns: append([]attendance.Column(nil), t.Columns...),
		Records: make([]attendance.Record, 0, len(t.Records)),
	}

	var dateErrs []*errors.DateParseError
	for _, rec := range t.Records {
		n := Record(rec, opts.IDWidth)
		if !n.DateValid {
			dateErrs = append(dateErrs, errors.NewDateParseError(t.Source.String(), rec.Row, rec.Raw(attendance.ColDate)))
			if t.Source == attendance.SourcePresence || opts.DropInvalidLedgerDates {
				continue
			}
		}
		out.Records = append(out.Records, n)
	}
	return out, dateErrs
}

// Record returns a normalized copy of a single record, read from its raw cells.
func Record(rec attendance.Record, idWidth int) attendance.Record {
	n := rec.Clone()

	rawDate := rec.Raw(attendance.ColDate)
	if num, ok := rec.Number(attendance.ColDate); ok {
		// the displayed text depends on the cell's number format; the serial does not
		rawDate = strconv.FormatFloat(num.Value, 'f', -1, 64)
	}
	if d, err := Date(rawDate); err == nil {
		n.Date = d
		n.DateValid = true
	} else {
		n.DateValid = false
	}

	n.EmployeeID = EmployeeID(rec.Raw(attendance.ColEmployeeID), idWidth)
	n.EmployeeName = Name(rec.Raw(attendance.ColEmployeeName))
	n.Department = Text(rec.Raw(attendance.ColDepartment))
	n.ClockIn = Text(rec.Raw(attendance.ColClockIn))
	n.ClockOut = Text(rec.Raw(attendance.ColClockOut))
	n.WorkHours = Text(rec.Raw(attendance.ColWorkHours))
	n.AttendanceCode = Text(rec.Raw(attendance.ColAttendanceCode))
	n.Note = Text(rec.Raw(attendance.ColNote))
	return n
}

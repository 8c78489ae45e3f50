package reconcile

import (
	"strings"

	"github.com/agentstation/attendmerge/pkg/attendance"
	"github.com/agentstation/attendmerge/pkg/constants"
)

// candidateDateFormat is used for appended dates when the ledger has no typed
// date cell to copy a format from.
const candidateDateFormat = "yyyy-mm-dd"

// candidateNumberColumns are the presence columns whose numeric cells are kept
// as numbers when a row is appended.
var candidateNumberColumns = []attendance.Column{
	attendance.ColClockIn,
	attendance.ColClockOut,
	attendance.ColWorkHours,
}

// Project builds the merged table: every ledger row exactly as it was read,
// then the accepted presence rows, all on the fixed output columns. Columns a
// side does not have are left empty. Numeric ledger cells stay numbers with
// their number format; appended dates are written as date serials in the
// ledger's date format.
func Project(ledger *attendance.Table, accepted []attendance.Record) *attendance.MergedTable {
	merged := &attendance.MergedTable{Sheet: constants.DefaultSheetName}
	dateFormat := attendance.Number{CustomNumFmt: candidateDateFormat}
	if ledger != nil {
		if ledger.Sheet != "" {
			merged.Sheet = ledger.Sheet
		}
		if f, ok := ledgerDateFormat(ledger); ok {
			dateFormat = f
		}
		merged.Rows = make([][]string, 0, len(ledger.Records)+len(accepted))
		merged.Numbers = make([]map[int]attendance.Number, 0, len(ledger.Records)+len(accepted))
		for _, rec := range ledger.Records {
			row, numbers := ledgerRow(rec)
			merged.Rows = append(merged.Rows, row)
			merged.Numbers = append(merged.Numbers, numbers)
		}
		merged.LedgerRows = len(ledger.Records)
	}
	for _, rec := range accepted {
		row, numbers := candidateRow(rec, dateFormat)
		merged.Rows = append(merged.Rows, row)
		merged.Numbers = append(merged.Numbers, numbers)
	}
	return merged
}

// ledgerDateFormat returns the number format of the first formatted numeric
// date cell in the ledger.
func ledgerDateFormat(ledger *attendance.Table) (attendance.Number, bool) {
	for _, rec := range ledger.Records {
		if n, ok := rec.Number(attendance.ColDate); ok && n.HasFormat() {
			return attendance.Number{NumFmt: n.NumFmt, CustomNumFmt: n.CustomNumFmt}, true
		}
	}
	return attendance.Number{}, false
}

func ledgerRow(rec attendance.Record) ([]string, map[int]attendance.Number) {
	row := make([]string, len(attendance.OutputColumns))
	var numbers map[int]attendance.Number
	for i, c := range attendance.OutputColumns {
		row[i] = rec.Raw(c)
		if n, ok := rec.Number(c); ok {
			if numbers == nil {
				numbers = make(map[int]attendance.Number)
			}
			numbers[i] = n
		}
	}
	return row, numbers
}

func candidateRow(rec attendance.Record, dateFormat attendance.Number) ([]string, map[int]attendance.Number) {
	name := rec.EmployeeName
	if name == "" {
		name = strings.TrimSpace(rec.Raw(attendance.ColEmployeeName))
	}
	values := map[attendance.Column]string{
		attendance.ColDate:           rec.DateKey(),
		attendance.ColEmployeeID:     rec.EmployeeID,
		attendance.ColDepartment:     rec.Department,
		attendance.ColEmployeeName:   name,
		attendance.ColClockIn:        rec.ClockIn,
		attendance.ColClockOut:       rec.ClockOut,
		attendance.ColWorkHours:      rec.WorkHours,
		attendance.ColAttendanceCode: rec.AttendanceCode,
		attendance.ColNote:           rec.Note,
	}
	numbers := make(map[attendance.Column]attendance.Number)
	if rec.DateValid {
		date := dateFormat
		date.Value = attendance.ExcelSerial(rec.Date)
		numbers[attendance.ColDate] = date
	}
	for _, c := range candidateNumberColumns {
		if n, ok := rec.Number(c); ok {
			numbers[c] = n
		}
	}

	row := make([]string, len(attendance.OutputColumns))
	var byPos map[int]attendance.Number
	for i, c := range attendance.OutputColumns {
		row[i] = values[c]
		if n, ok := numbers[c]; ok {
			if byPos == nil {
				byPos = make(map[int]attendance.Number)
			}
			byPos[i] = n
		}
	}
	return row, byPos
}

package attendance

// Column is a logical column of the attendance schema.
type Column string

// Logical columns.
const (
	ColDate           Column = "date"
	ColEmployeeID     Column = "employee_id"
	ColDepartment     Column = "department"
	ColEmployeeName   Column = "employee_name"
	ColClockIn        Column = "clock_in"
	ColClockOut       Column = "clock_out"
	ColWorkHours      Column = "work_hours"
	ColAttendanceCode Column = "attendance_code"
	ColNote           Column = "note"
)

// OutputColumns is the fixed column order of the reconciled workbook.
var OutputColumns = []Column{
	ColDate,
	ColEmployeeID,
	ColDepartment,
	ColEmployeeName,
	ColClockIn,
	ColClockOut,
	ColWorkHours,
	ColAttendanceCode,
	ColNote,
}

// RequiredColumns must be present in both inputs.
var RequiredColumns = []Column{
	ColDate,
	ColEmployeeID,
	ColEmployeeName,
	ColDepartment,
}

// headers maps logical columns to the Korean header text used by both workbooks.
var headers = map[Column]string{
	ColDate:           "일자",
	ColEmployeeID:     "사원번호",
	ColDepartment:     "소속부서",
	ColEmployeeName:   "사원명",
	ColClockIn:        "출근시간",
	ColClockOut:       "퇴근시간",
	ColWorkHours:      "근무시간(시간단위)",
	ColAttendanceCode: "근태내역",
	ColNote:           "적요",
}

var byHeader = func() map[string]Column {
	m := make(map[string]Column, len(headers))
	for c, h := range headers {
		m[h] = c
	}
	return m
}()

// Header returns the workbook header text for the column.
func (c Column) Header() string {
	return headers[c]
}

// String returns the logical column name.
func (c Column) String() string {
	return string(c)
}

// ColumnForHeader maps trimmed header text to a logical column.
func ColumnForHeader(header string) (Column, bool) {
	c, ok := byHeader[header]
	return c, ok
}

// OutputHeaders returns the header row of the reconciled workbook.
func OutputHeaders() []string {
	out := make([]string, len(OutputColumns))
	for i, c := range OutputColumns {
		out[i] = c.Header()
	}
	return out
}

package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/attendmerge/pkg/attendance"
)

func TestOutputHeaders(t *testing.T) {
	assert.Equal(t, []string{
		"일자", "사원번호", "소속부서", "사원명", "출근시간", "퇴근시간", "근무시간(시간단위)", "근태내역", "적요",
	}, attendance.OutputHeaders())
	assert.Len(t, attendance.OutputColumns, 9)
}

func TestColumnForHeader(t *testing.T) {
	c, ok := attendance.ColumnForHeader("사원번호")
	require.True(t, ok)
	assert.Equal(t, attendance.ColEmployeeID, c)

	_, ok = attendance.ColumnForHeader("비고")
	assert.False(t, ok)
}

func TestRecordDateKey(t *testing.T) {
	r := attendance.Record{Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), DateValid: true}
	assert.Equal(t, "2024-05-01", r.DateKey())

	r.DateValid = false
	assert.Equal(t, "", r.DateKey())
}

func TestRecordWorkHoursValue(t *testing.T) {
	v, ok := attendance.Record{WorkHours: " 7.95 "}.WorkHoursValue()
	require.True(t, ok)
	assert.InDelta(t, 7.95, v, 1e-9)

	_, ok = attendance.Record{WorkHours: ""}.WorkHoursValue()
	assert.False(t, ok)
	_, ok = attendance.Record{WorkHours: "8h"}.WorkHoursValue()
	assert.False(t, ok)
}

func TestTableClone(t *testing.T) {
	orig := &attendance.Table{
		Source:  attendance.SourceLedger,
		Columns: []attendance.Column{attendance.ColDate},
		Records: []attendance.Record{{Row: 2, Cells: map[attendance.Column]string{attendance.ColDate: "2024-05-01"}}},
	}
	cp := orig.Clone()
	cp.Records[0].Cells[attendance.ColDate] = "changed"
	cp.Columns[0] = attendance.ColNote

	assert.Equal(t, "2024-05-01", orig.Records[0].Raw(attendance.ColDate))
	assert.Equal(t, attendance.ColDate, orig.Columns[0])
	assert.True(t, orig.Has(attendance.ColDate))
	assert.False(t, orig.Has(attendance.ColNote))
}

func TestMergedTableAppended(t *testing.T) {
	m := &attendance.MergedTable{Rows: make([][]string, 5), LedgerRows: 3}
	assert.Equal(t, 2, m.Appended())
}

func TestExcelSerial(t *testing.T) {
	assert.Equal(t, 45413.0, attendance.ExcelSerial(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 45413.0, attendance.ExcelSerial(time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC)))
	assert.Equal(t, 61.0, attendance.ExcelSerial(time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestRecordNumbers(t *testing.T) {
	rec := attendance.Record{
		Cells:   map[attendance.Column]string{attendance.ColDate: "05-01-24"},
		Numbers: map[attendance.Column]attendance.Number{attendance.ColDate: {Value: 45413, NumFmt: 14}},
	}
	cp := rec.Clone()
	cp.Numbers[attendance.ColDate] = attendance.Number{Value: 1}

	n, ok := rec.Number(attendance.ColDate)
	require.True(t, ok)
	assert.Equal(t, 45413.0, n.Value)
	assert.True(t, n.HasFormat())
	_, ok = rec.Number(attendance.ColClockIn)
	assert.False(t, ok)
	assert.False(t, attendance.Number{Value: 8}.HasFormat())
}

func TestMergedTableNumberAt(t *testing.T) {
	m := &attendance.MergedTable{
		Rows:    [][]string{{"05-01-24"}, {"x"}},
		Numbers: []map[int]attendance.Number{{0: {Value: 45413, NumFmt: 14}}, nil},
	}
	n, ok := m.NumberAt(0, 0)
	require.True(t, ok)
	assert.Equal(t, 14, n.NumFmt)
	_, ok = m.NumberAt(1, 0)
	assert.False(t, ok)
	_, ok = m.NumberAt(5, 0)
	assert.False(t, ok)
}

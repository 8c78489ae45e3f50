package normalize_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"github.com/agentstation/attendmerge/pkg/attendance"
	"github.com/agentstation/attendmerge/pkg/normalize"
)

func TestEmployeeID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "00012", "00012"},
		{"numeric cell lost zeros", "12", "00012"},
		{"float rendering", "12.0", "00012"},
		{"separators stripped", "E-0012", "00012"},
		{"full width digits", "１２３", "00123"},
		{"no digits", "N/A", "00000"},
		{"empty", "", "00000"},
		{"longer than width", "1234567", "1234567"},
		{"surrounding spaces", "  345 ", "00345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.EmployeeID(tt.in, 5))
		})
	}

	assert.Equal(t, "0007", normalize.EmployeeID("7", 4))
	assert.Equal(t, "00007", normalize.EmployeeID("7", 0), "non-positive width falls back to default")
}

func TestName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "홍길동", "홍길동"},
		{"latin suffix", "홍길동A", "홍길동"},
		{"spaced suffix", "홍길동 B", "홍길동"},
		{"digit suffix", "김철수2", "김철수"},
		{"leading spaces", "  이영희 ", "이영희"},
		{"latin only", "Kim B", ""},
		{"latin prefix", "A홍길동", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.Name(tt.in))
		})
	}

	t.Run("decomposed jamo composes", func(t *testing.T) {
		decomposed := norm.NFD.String("홍길동A")
		require.NotEqual(t, "홍길동A", decomposed)
		assert.Equal(t, "홍길동", normalize.Name(decomposed))
	})
}

func TestDate(t *testing.T) {
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	inputs := []string{
		"2024-05-01",
		"2024-5-1",
		"2024-05-01 00:00:00",
		"2024-05-01T09:30:00",
		"2024/05/01",
		"2024.05.01",
		"2024. 5. 1.",
		"2024년 5월 1일",
		"2024년 05월 01일",
		"2024-05-01(수)",
		"20240501",
		"05-01-24",
		"5/1/24",
		"05/01/2024",
		"24-05-01",
		"24/05/01",
		"24.05.01",
		"24.5.1",
		"24. 5. 1.",
		"45413",
		" 2024-05-01 ",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, err := normalize.Date(in)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}

	t.Run("two-digit years read month first when ambiguous", func(t *testing.T) {
		got, err := normalize.Date("05-01-06")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2006, 5, 1, 0, 0, 0, 0, time.UTC), got)

		got, err = normalize.Date("13-05-01")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2013, 5, 1, 0, 0, 0, 0, time.UTC), got)
	})

	for _, bad := range []string{"", "not a date", "2024-13-45", "99999999", "-3"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := normalize.Date(bad)
			assert.Error(t, err)
		})
	}
}

func TestText(t *testing.T) {
	assert.Equal(t, "영업 1팀", normalize.Text("  영업   1팀 "))
	assert.Equal(t, "", normalize.Text("   "))
}

func rec(row int, date, id, name, dept string) attendance.Record {
	return attendance.Record{
		Row: row,
		Cells: map[attendance.Column]string{
			attendance.ColDate:         date,
			attendance.ColEmployeeID:   id,
			attendance.ColEmployeeName: name,
			attendance.ColDepartment:   dept,
			attendance.ColClockIn:      " 09:00 ",
		},
	}
}

func TestTable(t *testing.T) {
	t.Run("presence drops bad dates", func(t *testing.T) {
		in := &attendance.Table{
			Source: attendance.SourcePresence,
			Records: []attendance.Record{
				rec(3, "2024-05-01", "12", "홍길동A", " 영업 "),
				rec(4, "garbage", "13", "김철수", "개발"),
			},
		}
		out, errs := normalize.Table(in, normalize.DefaultOptions())
		require.Len(t, out.Records, 1)
		require.Len(t, errs, 1)
		assert.Equal(t, 4, errs[0].Row)
		assert.Equal(t, "garbage", errs[0].Value)

		got := out.Records[0]
		assert.Equal(t, "00012", got.EmployeeID)
		assert.Equal(t, "홍길동", got.EmployeeName)
		assert.Equal(t, "영업", got.Department)
		assert.Equal(t, "09:00", got.ClockIn)
		assert.Equal(t, "2024-05-01", got.DateKey())

		assert.Equal(t, "", in.Records[0].EmployeeID, "input must not be mutated")
	})

	t.Run("ledger keeps bad dates by default", func(t *testing.T) {
		in := &attendance.Table{
			Source:  attendance.SourceLedger,
			Records: []attendance.Record{rec(2, "??", "1", "이영희", "인사")},
		}
		out, errs := normalize.Table(in, normalize.DefaultOptions())
		require.Len(t, out.Records, 1)
		assert.False(t, out.Records[0].DateValid)
		assert.Len(t, errs, 1)
	})

	t.Run("ledger drops bad dates when configured", func(t *testing.T) {
		in := &attendance.Table{
			Source:  attendance.SourceLedger,
			Records: []attendance.Record{rec(2, "??", "1", "이영희", "인사")},
		}
		opts := normalize.DefaultOptions()
		opts.DropInvalidLedgerDates = true
		out, errs := normalize.Table(in, opts)
		assert.Empty(t, out.Records)
		assert.Len(t, errs, 1)
	})

	t.Run("nil table", func(t *testing.T) {
		out, errs := normalize.Table(nil, normalize.DefaultOptions())
		assert.Nil(t, out)
		assert.Nil(t, errs)
	})
}

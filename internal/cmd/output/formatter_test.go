package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/attendmerge/pkg/reconcile"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"wide", FormatWide, false},
		{"", "", false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Ledger Rows", Label("ledger_rows"))
	assert.Equal(t, "No Time Data", Label("no_time_data"))
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := Data{
		Title:           "presence",
		Headers:         []string{"Property", "Value"},
		Rows:            [][]string{{"Rows", "12"}},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "presence\n"))
	assert.Contains(t, out, "12")
	assert.Contains(t, strings.ToUpper(out), "PROPERTY")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, map[string]int{"appended": 2}))
	assert.JSONEq(t, `{"appended":2}`, buf.String())
}

func sampleResult() *reconcile.Result {
	b := reconcile.NewResultBuilder().
		WithRunID("run-7").
		WithPolicies(reconcile.KeyByEmployeeID, reconcile.DepartmentFromLedger).
		WithWarning("presence row 9: unparseable date \"5월 1일\"")
	b.Stats().LedgerRows = 3
	b.Stats().PresenceRows = 4
	return b.Build()
}

func TestReport(t *testing.T) {
	result := sampleResult()

	t.Run("summary only", func(t *testing.T) {
		r := NewReport(result, "/tmp/out.xlsx", false)
		assert.Equal(t, "run-7", r.RunID)
		assert.Equal(t, "employee_id", r.KeyPolicy)
		assert.Equal(t, "ledger", r.DepartmentPolicy)
		assert.Nil(t, r.Rows)
		require.Len(t, r.Tables(), 1)
		assert.Equal(t, []string{"Ledger Rows", "3"}, r.Tables()[0].Rows[0])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatter(FormatJSON).Format(&buf, NewReport(result, "", true)))
		assert.Contains(t, buf.String(), `"presence_rows": 4`)
		assert.Contains(t, buf.String(), `"warnings"`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatter(FormatYAML).Format(&buf, NewReport(result, "", false)))
		assert.Contains(t, buf.String(), "key_policy: employee_id")
	})
}

func TestTableSummaryData(t *testing.T) {
	s := TableSummary{Source: "ledger", Sheet: "근무기록", Columns: []string{"일자", "사원번호"}, Rows: 2}
	d := s.Data()
	assert.Equal(t, "ledger", d.Title)
	assert.Equal(t, []string{"Columns", "일자, 사원번호"}, d.Rows[2])
	assert.Equal(t, []string{"Missing Optional", "-"}, d.Rows[3])
}

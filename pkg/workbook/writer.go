package workbook

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/attendmerge/pkg/attendance"
	"github.com/agentstation/attendmerge/pkg/constants"
)

// Write renders the merged table as a single-sheet xlsx workbook: one header
// row in the fixed output column order followed by every merged row. Numeric
// cells are written as numbers in their number format, text work hours that
// parse as numbers become numbers, and everything else is text.
func Write(w io.Writer, merged *attendance.MergedTable) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := merged.Sheet
	if sheet == "" {
		sheet = constants.DefaultSheetName
	}
	if sheet != constants.DefaultSheetName {
		if err := f.SetSheetName(constants.DefaultSheetName, sheet); err != nil {
			return err
		}
	}

	headers := attendance.OutputHeaders()
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 14); err != nil {
		return err
	}

	styles := newNumberStyles(f)
	hoursIdx := columnPosition(attendance.ColWorkHours)
	for i, row := range merged.Rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
			if n, ok := merged.NumberAt(i, j); ok {
				values[j] = n.Value
			} else if j == hoursIdx {
				if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
					values[j] = n
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		for j := range row {
			n, ok := merged.NumberAt(i, j)
			if !ok || !n.HasFormat() {
				continue
			}
			if err := styles.apply(sheet, j+1, i+2, n); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

// Bytes renders the merged table into memory.
func Bytes(merged *attendance.MergedTable) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, merged); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func columnPosition(c attendance.Column) int {
	for i, col := range attendance.OutputColumns {
		if col == c {
			return i
		}
	}
	return -1
}

type formatKey struct {
	numFmt int
	custom string
}

// numberStyles creates one cell style per distinct number format.
type numberStyles struct {
	file *excelize.File
	ids  map[formatKey]int
}

func newNumberStyles(f *excelize.File) *numberStyles {
	return &numberStyles{file: f, ids: make(map[formatKey]int)}
}

func (s *numberStyles) apply(sheet string, col, row int, n attendance.Number) error {
	key := formatKey{numFmt: n.NumFmt, custom: n.CustomNumFmt}
	id, ok := s.ids[key]
	if !ok {
		style := &excelize.Style{NumFmt: n.NumFmt}
		if n.CustomNumFmt != "" {
			custom := n.CustomNumFmt
			style = &excelize.Style{CustomNumFmt: &custom}
		}
		var err error
		if id, err = s.file.NewStyle(style); err != nil {
			return err
		}
		s.ids[key] = id
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.file.SetCellStyle(sheet, cell, cell, id)
}

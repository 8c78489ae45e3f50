// Package workbook loads attendance tables from spreadsheet workbooks and
// writes the reconciled table back out as a single-sheet xlsx file.
package workbook

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/agentstation/attendmerge/pkg/attendance"
	"github.com/agentstation/attendmerge/pkg/constants"
	"github.com/agentstation/attendmerge/pkg/errors"
)

// Format is an input file format.
type Format string

// Supported input formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Layout describes where the data lives in an input workbook.
type Layout struct {
	Source    attendance.Source
	HeaderRow int `validate:"min=0,max=100"` // 0-based
	Format    Format
}

// PresenceLayout is the swipe-card export layout: one title row above the header.
func PresenceLayout() Layout {
	return Layout{Source: attendance.SourcePresence, HeaderRow: constants.PresenceHeaderRow, Format: FormatXLSX}
}

// LedgerLayout is the attendance ledger layout: header on the first row.
func LedgerLayout() Layout {
	return Layout{Source: attendance.SourceLedger, HeaderRow: constants.LedgerHeaderRow, Format: FormatXLSX}
}

// DetectFormat picks the input format from a file name extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", "":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %s (want .xlsx or .csv)", errors.ErrUnsupportedFormat, filename)
	}
}

// ReadFile opens path and loads its first sheet using layout. The format is
// detected from the extension when layout.Format is empty.
func ReadFile(path string, layout Layout) (*attendance.Table, error) {
	if layout.Format == "" {
		format, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		layout.Format = format
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Read(bytes.NewReader(data), layout)
}

// Read loads the first sheet of the workbook in r. Column names are trimmed;
// the header must sit at layout.HeaderRow and carry every required column.
func Read(r io.Reader, layout Layout) (*attendance.Table, error) {
	var (
		s   *sheetRows
		err error
	)
	switch layout.Format {
	case FormatCSV:
		s = &sheetRows{}
		s.rows, err = readCSV(r)
	default:
		s, err = readXLSX(r)
	}
	if err != nil {
		var sheet string
		if s != nil {
			sheet = s.name
		}
		return nil, errors.NewMalformedWorkbookError(layout.Source.String(), sheet, layout.HeaderRow, nil, err.Error())
	}
	return tableFromRows(s, layout)
}

// sheetRows is the content of one sheet: displayed text per cell and, for
// xlsx, the numeric cells of each row keyed by column position.
type sheetRows struct {
	name    string
	rows    [][]string
	numbers []map[int]attendance.Number
}

func (s *sheetRows) number(row, col int) (attendance.Number, bool) {
	if row >= len(s.numbers) {
		return attendance.Number{}, false
	}
	n, ok := s.numbers[row][col]
	return n, ok
}

func readXLSX(r io.Reader) (*sheetRows, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	s := &sheetRows{name: file.GetSheetName(0)}
	if s.name == "" {
		return s, errors.New("no worksheet found")
	}
	if s.rows, err = file.GetRows(s.name); err != nil {
		return s, err
	}
	raw, err := file.GetRows(s.name, excelize.Options{RawCellValue: true})
	if err != nil {
		return s, err
	}

	formats := make(map[int]attendance.Number)
	s.numbers = make([]map[int]attendance.Number, len(raw))
	for i, row := range raw {
		for j, v := range row {
			value, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return s, err
			}
			n, ok, err := numberFormat(file, s.name, cell, formats)
			if err != nil {
				return s, err
			}
			if !ok {
				continue
			}
			n.Value = value
			if s.numbers[i] == nil {
				s.numbers[i] = make(map[int]attendance.Number)
			}
			s.numbers[i][j] = n
		}
	}
	return s, nil
}

// numberFormat returns the number format of a cell, or false when the cell
// holds text that merely looks numeric, such as a zero-padded id.
func numberFormat(file *excelize.File, sheet, cell string, cache map[int]attendance.Number) (attendance.Number, bool, error) {
	typ, err := file.GetCellType(sheet, cell)
	if err != nil {
		return attendance.Number{}, false, err
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula,
		excelize.CellTypeBool, excelize.CellTypeError:
		return attendance.Number{}, false, nil
	}

	id, err := file.GetCellStyle(sheet, cell)
	if err != nil {
		return attendance.Number{}, false, err
	}
	if n, ok := cache[id]; ok {
		return n, true, nil
	}
	var n attendance.Number
	if id > 0 {
		style, err := file.GetStyle(id)
		if err != nil {
			return attendance.Number{}, false, err
		}
		n.NumFmt = style.NumFmt
		if style.CustomNumFmt != nil {
			n.CustomNumFmt = *style.CustomNumFmt
		}
	}
	cache[id] = n
	return n, true, nil
}

// readCSV reads comma separated rows. excelize has no CSV reader.
func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// tableFromRows maps raw rows onto typed records after checking the header.
func tableFromRows(s *sheetRows, layout Layout) (*attendance.Table, error) {
	rows, sheet := s.rows, s.name
	source := layout.Source.String()
	if len(rows) <= layout.HeaderRow {
		return nil, errors.NewMalformedWorkbookError(source, sheet, layout.HeaderRow, nil, "header row is absent")
	}

	index := columnIndex(rows[layout.HeaderRow])
	var missing []string
	for _, c := range attendance.RequiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c.Header())
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewMalformedWorkbookError(source, sheet, layout.HeaderRow, missing, "")
	}

	table := &attendance.Table{
		Source: layout.Source,
		Sheet:  sheet,
	}
	for _, c := range attendance.OutputColumns {
		if _, ok := index[c]; ok {
			table.Columns = append(table.Columns, c)
		}
	}

	data := rows[layout.HeaderRow+1:]
	if len(data) > constants.MaxRows {
		return nil, errors.NewMalformedWorkbookError(source, sheet, layout.HeaderRow, nil, "too many rows")
	}
	for i, row := range data {
		if isBlank(row) {
			continue
		}
		rowIdx := layout.HeaderRow + 1 + i
		rec := attendance.Record{
			Row:   rowIdx + 1,
			Cells: make(map[attendance.Column]string, len(index)),
		}
		for c, idx := range index {
			rec.Cells[c] = cellValue(row, idx)
			if n, ok := s.number(rowIdx, idx); ok {
				if rec.Numbers == nil {
					rec.Numbers = make(map[attendance.Column]attendance.Number)
				}
				rec.Numbers[c] = n
			}
		}
		table.Records = append(table.Records, rec)
	}
	return table, nil
}

// columnIndex maps known header names to their position. The first occurrence
// of a duplicated header wins.
func columnIndex(header []string) map[attendance.Column]int {
	index := make(map[attendance.Column]int, len(header))
	for i, h := range header {
		c, ok := attendance.ColumnForHeader(norm.NFC.String(strings.TrimSpace(h)))
		if !ok {
			continue
		}
		if _, seen := index[c]; !seen {
			index[c] = i
		}
	}
	return index
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

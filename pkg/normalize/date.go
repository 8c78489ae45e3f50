package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dateLayouts are tried in order after serial-number detection. They cover ISO
// dates, Korean locale renderings, and excelize's default short date format.
//
// Two-digit-year dates are ambiguous. Month-first (MM-DD-YY) is tried first
// because it is how excelize and US-locale Excel render built-in format 14 into
// text; year-first (YY-MM-DD) follows, so "24-05-01" still parses while
// "05-01-24" reads as 2024-05-01.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"2006.1.2",
	"2006. 1. 2",
	"2006. 01. 02",
	"2006년 1월 2일",
	"2006년 01월 02일",
	"2006년1월2일",
	"20060102",
	"01-02-06",
	"1-2-06",
	"01/02/06",
	"1/2/06",
	"01/02/2006",
	"1/2/2006",
	"1/2/06 15:04",
	"01-02-06 15:04",
	"06-01-02",
	"06/01/02",
	"06.01.02",
	"06.1.2",
	"06. 1. 2",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// maxExcelSerial is 9999-12-31 in the 1900 date system.
const maxExcelSerial = 2958465

// weekdaySuffix matches trailing weekday markers such as "(수)" or "(Wed)".
var weekdaySuffix = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// Date parses a date cell flexibly and returns the calendar date at UTC
// midnight. Numeric values are treated as Excel serial dates.
func Date(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	value = weekdaySuffix.ReplaceAllString(value, "")
	value = strings.TrimSuffix(value, ".")

	if len(value) != 8 || strings.ContainsAny(value, ".-/") {
		if serial, err := strconv.ParseFloat(value, 64); err == nil {
			if serial > 0 && serial <= maxExcelSerial {
				t, err := excelize.ExcelDateToTime(serial, false)
				if err == nil {
					return dateOnly(t), nil
				}
			}
			return time.Time{}, fmt.Errorf("date serial %q out of range", value)
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return dateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

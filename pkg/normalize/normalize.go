// Package normalize canonicalizes the identity fields of attendance records:
// employee ids, display names and dates. Canonical forms are used only for
// comparison; the raw cell text stays on the record for display.
package normalize

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/agentstation/attendmerge/pkg/constants"
)

// EmployeeID strips every non-digit character and left-pads the result with
// zeros to idWidth. Full-width digits are folded to ASCII first. Values with no
// digits become all zeros. Ids longer than idWidth are not truncated.
func EmployeeID(raw string, idWidth int) string {
	if idWidth <= 0 {
		idWidth = constants.EmployeeIDWidth
	}
	s := width.Narrow.String(strings.TrimSpace(raw))

	// A numeric cell rendered as "12.0" keeps its integer part.
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f == float64(int64(f)) {
			s = strconv.FormatInt(int64(f), 10)
		}
	}

	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) >= idWidth {
		return digits
	}
	return strings.Repeat("0", idWidth-len(digits)) + digits
}

// Name returns the canonical form of a display name: the run of Hangul
// syllables at the start of the (NFC-composed, trimmed) string. Trailing
// disambiguators such as "홍길동A" or "홍길동 2" are discarded. A name that does
// not start with a Hangul syllable has an empty canonical form.
func Name(raw string) string {
	s := norm.NFC.String(strings.TrimSpace(raw))
	end := 0
	for i, r := range s {
		if !IsHangulSyllable(r) {
			break
		}
		end = i + len(string(r))
	}
	return s[:end]
}

// IsHangulSyllable reports whether r is a precomposed Hangul syllable (가-힣).
func IsHangulSyllable(r rune) bool {
	return r >= 0xAC00 && r <= 0xD7A3
}

// Text trims a free-text cell and collapses internal whitespace runs.
func Text(raw string) string {
	return strings.Join(strings.FieldsFunc(raw, unicode.IsSpace), " ")
}

// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols shared by alerts and command output.
const (
	// Success marks a completed merge or a clean inspection.
	Success = "✓"

	// Error marks a failed stage or a malformed workbook.
	Error = "✗"

	// Warning marks recovered problems such as unparseable dates.
	Warning = "!"

	// Info marks neutral context lines such as dry-run notices.
	Info = "i"

	// Unknown marks an unrecognized level.
	Unknown = "?"
)

// Package constants provides shared constants used throughout the attendmerge codebase.
// This includes spreadsheet layout defaults, limits, file permissions, and server
// timeouts that should be consistent across the CLI, the library and the server.
package constants

import "time"

// Spreadsheet layout constants
const (
	// EmployeeIDWidth is the fixed width employee ids are left-zero-padded to
	EmployeeIDWidth = 5

	// PresenceHeaderRow is the 0-based header row of the presence log (one title row above it)
	PresenceHeaderRow = 1

	// LedgerHeaderRow is the 0-based header row of the attendance ledger
	LedgerHeaderRow = 0

	// DefaultSheetName is used when the ledger's first sheet has no usable name
	DefaultSheetName = "Sheet1"

	// DefaultOutputFile is the download name of the reconciled workbook
	DefaultOutputFile = "병합된_근무기록.xlsx"

	// DateLayout is the canonical date representation used for keys and appended rows
	DateLayout = "2006-01-02"
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Timeout constants define various timeout durations used in the application
const (
	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 2 * time.Minute

	// ShutdownTimeout bounds graceful server shutdown
	ShutdownTimeout = 5 * time.Second

	// ReadTimeout is the HTTP server read timeout (uploads included)
	ReadTimeout = 30 * time.Second

	// WriteTimeout is the HTTP server write timeout
	WriteTimeout = 30 * time.Second

	// IdleTimeout is the HTTP keep-alive idle timeout
	IdleTimeout = 120 * time.Second
)

// Limit constants define various limits and capacities
const (
	// MaxUploadMB is the default per-request upload limit for the server, in megabytes
	MaxUploadMB = 20

	// MaxRows guards against pathological inputs; monthly attendance is far below this
	MaxRows = 1_000_000
)

// Content types
const (
	// ContentTypeXLSX is the media type of the reconciled workbook
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Package application provides the application interface for attendmerge commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            opts := app.MergeOptions()
//	            result, err := attendmerge.MergeFiles(cmd.Context(), presence, ledger, out, opts...)
//	            // ... report result
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    MergeOptionsFunc: func() []attendmerge.Option {
//	        return []attendmerge.Option{attendmerge.WithKeyPolicy(reconcile.KeyByName)}
//	    },
//	}
//	cmd := NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/attendmerge"
)

// Application provides what commands need from the running CLI.
// The App struct from cmd/attendmerge/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// MergeOptions returns the merge options derived from configuration:
	// key and department policies, header offsets, id width, ledger date policy.
	// Each call returns a fresh slice.
	MergeOptions() []attendmerge.Option

	// ServerSettings returns the HTTP settings used by the serve command.
	ServerSettings() ServerSettings

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

// ServerSettings holds configured HTTP server values. Flags on the serve
// command override them.
type ServerSettings struct {
	Host        string
	Port        int
	MaxUploadMB int
	APIKey      string
	CORSOrigins []string
	RateLimit   int
}

// Package app provides the application context and dependency management
// for the attendmerge CLI. It centralizes configuration, logging and the
// translation of configuration into merge and server options.
package app

import (
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/agentstation/attendmerge"
	"github.com/agentstation/attendmerge/cmd/application"
	"github.com/agentstation/attendmerge/internal/cmd/output"
	"github.com/agentstation/attendmerge/pkg/reconcile"
)

// App represents the attendmerge application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the output format, detected from the terminal when
// not configured.
func (a *App) OutputFormat() string {
	return string(output.DetectFormat(a.config.Format))
}

// MergeOptions translates the configuration into merge options.
// Policy strings were validated when the config was loaded.
func (a *App) MergeOptions() []attendmerge.Option {
	c := a.config
	opts := []attendmerge.Option{
		attendmerge.WithLogger(a.logger),
		attendmerge.WithIDWidth(c.IDWidth),
		attendmerge.WithDropInvalidLedgerDates(c.DropInvalidLedgerDates),
		attendmerge.WithPresenceHeaderRow(c.PresenceHeaderRow),
		attendmerge.WithLedgerHeaderRow(c.LedgerHeaderRow),
	}
	if p, err := reconcile.ParseKeyPolicy(c.KeyPolicy); err == nil {
		opts = append(opts, attendmerge.WithKeyPolicy(p))
	}
	if p, err := reconcile.ParseDepartmentPolicy(c.DepartmentPolicy); err == nil {
		opts = append(opts, attendmerge.WithDepartmentPolicy(p))
	}
	return opts
}

// ServerSettings returns the configured HTTP server values.
func (a *App) ServerSettings() application.ServerSettings {
	c := a.config
	return application.ServerSettings{
		Host:        c.Host,
		Port:        c.Port,
		MaxUploadMB: c.MaxUploadMB,
		APIKey:      c.APIKey,
		CORSOrigins: append([]string(nil), c.CORSOrigins...),
		RateLimit:   c.RateLimit,
	}
}

// reload re-reads configuration from an explicit config file, keeping the
// values that came from global flags.
func (a *App) reload(configFile string) error {
	prev := a.config
	config, err := loadConfig(viper.New(), configFile)
	if err != nil {
		return err
	}
	config.UpdateFromFlags(prev.Verbose, prev.Quiet, prev.NoColor, prev.Format, prev.LogLevel)
	a.config = config
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if err := config.Validate(); err != nil {
			return err
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

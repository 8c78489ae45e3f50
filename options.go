package attendmerge

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/attendmerge/pkg/reconcile"
	"github.com/agentstation/attendmerge/pkg/workbook"
)

// Option is a function that configures a merge run
type Option func(*config) error

// config holds the settings of one run. Nothing outlives the call.
type config struct {
	presenceLayout workbook.Layout
	ledgerLayout   workbook.Layout
	reconcile      reconcile.Options
	runID          string
	logger         *zerolog.Logger
	hooks          *hooks
}

func newConfig(opts ...Option) (*config, error) {
	c := &config{
		presenceLayout: workbook.PresenceLayout(),
		ledgerLayout:   workbook.LedgerLayout(),
		reconcile:      reconcile.DefaultOptions(),
		hooks:          newHooks(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithKeyPolicy selects the composite key used to detect rows the ledger already has
func WithKeyPolicy(p reconcile.KeyPolicy) Option {
	return func(c *config) error {
		c.reconcile.KeyPolicy = p
		return nil
	}
}

// WithDepartmentPolicy selects which rows feed the department index
func WithDepartmentPolicy(p reconcile.DepartmentPolicy) Option {
	return func(c *config) error {
		c.reconcile.DepartmentPolicy = p
		return nil
	}
}

// WithIDWidth sets the zero-padded width of employee ids
func WithIDWidth(width int) Option {
	return func(c *config) error {
		c.reconcile.Normalize.IDWidth = width
		return nil
	}
}

// WithDropInvalidLedgerDates drops ledger rows with unparseable dates from the output
func WithDropInvalidLedgerDates(drop bool) Option {
	return func(c *config) error {
		c.reconcile.Normalize.DropInvalidLedgerDates = drop
		return nil
	}
}

// WithReconcileOptions replaces all reconciliation options at once
func WithReconcileOptions(opts reconcile.Options) Option {
	return func(c *config) error {
		c.reconcile = opts
		return nil
	}
}

// WithDryRun runs the whole pipeline but writes nothing
func WithDryRun(dryRun bool) Option {
	return func(c *config) error {
		c.reconcile.DryRun = dryRun
		return nil
	}
}

// WithPresenceHeaderRow overrides the 0-based header row of the presence log
func WithPresenceHeaderRow(row int) Option {
	return func(c *config) error {
		c.presenceLayout.HeaderRow = row
		return nil
	}
}

// WithLedgerHeaderRow overrides the 0-based header row of the ledger
func WithLedgerHeaderRow(row int) Option {
	return func(c *config) error {
		c.ledgerLayout.HeaderRow = row
		return nil
	}
}

// WithPresenceFormat sets the presence log file format
func WithPresenceFormat(f workbook.Format) Option {
	return func(c *config) error {
		c.presenceLayout.Format = f
		return nil
	}
}

// WithLedgerFormat sets the ledger file format
func WithLedgerFormat(f workbook.Format) Option {
	return func(c *config) error {
		c.ledgerLayout.Format = f
		return nil
	}
}

// WithRunID sets the run id instead of generating one
func WithRunID(id string) Option {
	return func(c *config) error {
		c.runID = id
		return nil
	}
}

// WithLogger sets the logger used for the run
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithOnRowAccepted registers a callback for every appended presence row
func WithOnRowAccepted(fn RowAcceptedHook) Option {
	return func(c *config) error {
		c.hooks.OnRowAccepted(fn)
		return nil
	}
}

// WithOnRowSkipped registers a callback for every presence row that was not appended
func WithOnRowSkipped(fn RowSkippedHook) Option {
	return func(c *config) error {
		c.hooks.OnRowSkipped(fn)
		return nil
	}
}

// Package reconcile merges a swipe-card presence log into an attendance
// ledger. A run normalizes both tables, resolves each employee's department
// from the most recent dated rows, drops presence rows whose composite key the
// ledger already has, drops rows without time data, and appends the rest after
// the ledger rows.
package reconcile

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/agentstation/attendmerge/pkg/attendance"
	"github.com/agentstation/attendmerge/pkg/errors"
	"github.com/agentstation/attendmerge/pkg/logging"
	"github.com/agentstation/attendmerge/pkg/normalize"
)

// Pipeline stage names used in StageErrors and logs.
const (
	StageNormalize = "normalize"
	StageResolve   = "resolve"
	StageDiff      = "diff"
	StageFilter    = "filter"
	StageMerge     = "merge"
)

// Reconciler is the main interface for reconciling a presence log with a ledger
type Reconciler interface {
	// Reconcile runs the pipeline over two loaded tables. The inputs are not modified.
	Reconcile(ctx context.Context, ledger, presence *attendance.Table) (*Result, error)

	// Options returns the effective options
	Options() Options
}

// Options configures a reconciliation run.
type Options struct {
	KeyPolicy        KeyPolicy        `json:"key_policy" yaml:"key_policy" validate:"required,oneof=employee_id name"`
	DepartmentPolicy DepartmentPolicy `json:"department_policy" yaml:"department_policy" validate:"required,oneof=ledger union"`
	Normalize        normalize.Options
	DryRun           bool `json:"dry_run" yaml:"dry_run"`
}

// DefaultOptions returns the default options: employee id keys, ledger-only
// department index, ledger rows with bad dates kept.
func DefaultOptions() Options {
	return Options{
		KeyPolicy:        KeyByEmployeeID,
		DepartmentPolicy: DepartmentFromLedger,
		Normalize:        normalize.DefaultOptions(),
	}
}

var validate = validator.New()

// Validate checks the options against their constraints.
func (o Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return errors.NewValidationError(fe.Namespace(), fe.Value(),
			fmt.Sprintf("failed %q constraint", fe.Tag()))
	}
	return errors.WrapValidation("options", err)
}

// reconciler is the default implementation of Reconciler
type reconciler struct {
	opts Options
}

// Option configures a Reconciler
type Option func(*reconciler) error

// WithKeyPolicy sets the composite key policy
func WithKeyPolicy(p KeyPolicy) Option {
	return func(r *reconciler) error {
		r.opts.KeyPolicy = p
		return nil
	}
}

// WithDepartmentPolicy sets the department index policy
func WithDepartmentPolicy(p DepartmentPolicy) Option {
	return func(r *reconciler) error {
		r.opts.DepartmentPolicy = p
		return nil
	}
}

// WithIDWidth sets the zero-padded employee id width
func WithIDWidth(width int) Option {
	return func(r *reconciler) error {
		r.opts.Normalize.IDWidth = width
		return nil
	}
}

// WithDropInvalidLedgerDates drops ledger rows whose date cannot be parsed
func WithDropInvalidLedgerDates(drop bool) Option {
	return func(r *reconciler) error {
		r.opts.Normalize.DropInvalidLedgerDates = drop
		return nil
	}
}

// WithDryRun marks results as dry runs
func WithDryRun(dryRun bool) Option {
	return func(r *reconciler) error {
		r.opts.DryRun = dryRun
		return nil
	}
}

// WithOptions replaces all options at once
func WithOptions(opts Options) Option {
	return func(r *reconciler) error {
		r.opts = opts
		return nil
	}
}

// New creates a new Reconciler with options
func New(opts ...Option) (Reconciler, error) {
	r := &reconciler{opts: DefaultOptions()}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if err := r.opts.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Options returns the effective options
func (r *reconciler) Options() Options {
	return r.opts
}

// Reconcile runs Normalize, Resolve, Diff, Filter and Merge in order. Date
// parse failures and empty inputs are recorded on the result and never abort
// the run; any other failure aborts it with a StageError.
func (r *reconciler) Reconcile(ctx context.Context, ledger, presence *attendance.Table) (*Result, error) {
	if ledger == nil || presence == nil {
		return nil, errors.NewValidationError("tables", nil, "ledger and presence tables are required")
	}
	b := NewResultBuilder().
		WithRunID(logging.RunID(ctx)).
		WithPolicies(r.opts.KeyPolicy, r.opts.DepartmentPolicy).
		WithDryRun(r.opts.DryRun)
	stats := b.Stats()
	stats.LedgerRows = ledger.Len()
	stats.PresenceRows = presence.Len()

	// Normalize
	if err := ctx.Err(); err != nil {
		return nil, errors.NewStageError(StageNormalize, err)
	}
	normLedger, ledgerDateErrs := normalize.Table(ledger, r.opts.Normalize)
	normPresence, presenceDateErrs := normalize.Table(presence, r.opts.Normalize)

	stats.LedgerBadDates = len(ledgerDateErrs)
	for _, e := range ledgerDateErrs {
		b.WithRecovered(e)
	}
	stats.PresenceBadDates = len(presenceDateErrs)
	if len(presenceDateErrs) > 0 {
		byRow := recordsByRow(presence)
		for _, e := range presenceDateErrs {
			b.WithRecovered(e)
			b.WithOutcome(OutcomeBadDate, normalize.Record(byRow[e.Row], r.opts.Normalize.IDWidth))
		}
	}
	stageLogger(ctx, StageNormalize).Debug().
		Int("ledger_rows", normLedger.Len()).
		Int("presence_rows", normPresence.Len()).
		Int("ledger_bad_dates", len(ledgerDateErrs)).
		Int("presence_bad_dates", len(presenceDateErrs)).
		Msg("normalized inputs")

	if normLedger.Len() == 0 || normPresence.Len() == 0 {
		for _, t := range []*attendance.Table{normLedger, normPresence} {
			if t.Len() == 0 {
				b.WithRecovered(errors.NewEmptyInputError(t.Source.String()))
				logging.FromContext(logging.WithSource(ctx, t.Source.String())).Warn().
					Msg("input has no data rows; ledger left unchanged")
			}
		}
		return b.WithMerged(Project(normLedger, nil)).Build(), nil
	}

	// Resolve
	if err := ctx.Err(); err != nil {
		return nil, errors.NewStageError(StageResolve, err)
	}
	idx := BuildDepartmentIndex(r.opts.DepartmentPolicy, normLedger, normPresence)
	stats.DepartmentsIndexed = idx.Len()
	stats.DepartmentsOverwritten = idx.Apply(normPresence)
	stageLogger(ctx, StageResolve).Debug().
		Int("indexed", stats.DepartmentsIndexed).
		Int("overwritten", stats.DepartmentsOverwritten).
		Str("policy", r.opts.DepartmentPolicy.String()).
		Msg("resolved departments")

	// Diff
	if err := ctx.Err(); err != nil {
		return nil, errors.NewStageError(StageDiff, err)
	}
	keys := LedgerKeys(r.opts.KeyPolicy, normLedger, idx)
	candidates, duplicates := Difference(keys, r.opts.KeyPolicy, normPresence.Records)
	stats.Candidates = len(candidates)
	stats.Duplicates = len(duplicates)
	for _, rec := range duplicates {
		b.WithOutcome(OutcomeDuplicate, rec)
	}

	// Filter
	if err := ctx.Err(); err != nil {
		return nil, errors.NewStageError(StageFilter, err)
	}
	accepted, rejected := FilterValid(candidates)
	stats.Accepted = len(accepted)
	stats.NoTimeData = len(rejected)
	for _, rec := range rejected {
		b.WithOutcome(OutcomeNoTimeData, rec)
	}
	for _, rec := range accepted {
		b.WithOutcome(OutcomeAccepted, rec)
	}
	stageLogger(ctx, StageFilter).Debug().
		Int("ledger_keys", len(keys)).
		Int("candidates", len(candidates)).
		Int("duplicates", len(duplicates)).
		Int("no_time_data", len(rejected)).
		Msg("filtered candidates")

	// Merge
	if err := ctx.Err(); err != nil {
		return nil, errors.NewStageError(StageMerge, err)
	}
	result := b.WithMerged(Project(normLedger, accepted)).Build()

	stageLogger(ctx, StageMerge).Info().
		Int("appended", result.Appended).
		Int("output_rows", result.Metadata.Stats.OutputRows).
		Str("key_policy", r.opts.KeyPolicy.String()).
		Msg("reconciliation complete")
	return result, nil
}

func stageLogger(ctx context.Context, stage string) *zerolog.Logger {
	return logging.FromContext(logging.WithStage(ctx, stage))
}

func recordsByRow(t *attendance.Table) map[int]attendance.Record {
	m := make(map[int]attendance.Record, len(t.Records))
	for _, rec := range t.Records {
		m[rec.Row] = rec
	}
	return m
}

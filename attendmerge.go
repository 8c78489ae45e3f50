// Package attendmerge reconciles a monthly swipe-card presence log with the
// attendance ledger of record.
//
// Merge reads both workbooks, appends every presence-log row whose
// (date, department, employee) key the ledger lacks and that carries time
// data, and writes a single-sheet xlsx with the ledger rows first. Each call is
// independent: the department index and key sets are rebuilt from the inputs
// of that call alone.
//
//	f, _ := os.Create("병합된_근무기록.xlsx")
//	result, err := attendmerge.Merge(ctx, presence, ledger, f,
//		attendmerge.WithKeyPolicy(reconcile.KeyByEmployeeID))
//	if err != nil {
//		return err
//	}
//	fmt.Println(result.Summary())
package attendmerge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/agentstation/attendmerge/pkg/constants"
	"github.com/agentstation/attendmerge/pkg/errors"
	"github.com/agentstation/attendmerge/pkg/logging"
	"github.com/agentstation/attendmerge/pkg/reconcile"
	"github.com/agentstation/attendmerge/pkg/workbook"
)

// Stages that can abort a run in addition to the reconcile stages.
const (
	StageLoad  = "load"
	StageWrite = "write"
)

var validate = validator.New()

// Merge runs the full pipeline over two workbooks and writes the merged xlsx
// to w. Nothing is written to w unless the whole run succeeds. With
// WithDryRun, or when w is nil, no output is produced and only the result is
// returned.
//
// Unexpected failures, panics included, are returned as a single StageError.
func Merge(ctx context.Context, presence, ledger io.Reader, w io.Writer, opts ...Option) (result *reconcile.Result, err error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	runID := cfg.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	if cfg.logger != nil {
		ctx = logging.WithLogger(ctx, cfg.logger)
	}
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)

	stage := StageLoad
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("stage", stage).Interface("panic", r).Msg("merge aborted")
			result = nil
			err = errors.NewStageError(stage, fmt.Errorf("unexpected failure: %v", r))
		}
	}()

	presenceTable, err := workbook.Read(presence, cfg.presenceLayout)
	if err != nil {
		return nil, errors.WrapStage(StageLoad, err)
	}
	ledgerTable, err := workbook.Read(ledger, cfg.ledgerLayout)
	if err != nil {
		return nil, errors.WrapStage(StageLoad, err)
	}
	logger.Debug().
		Int("presence_rows", presenceTable.Len()).
		Int("ledger_rows", ledgerTable.Len()).
		Str("ledger_sheet", ledgerTable.Sheet).
		Msg("loaded workbooks")

	stage = reconcile.StageNormalize
	r, err := reconcile.New(reconcile.WithOptions(cfg.reconcile))
	if err != nil {
		return nil, err
	}
	result, err = r.Reconcile(ctx, ledgerTable, presenceTable)
	if err != nil {
		return nil, errors.WrapStage(stage, err)
	}
	stage = reconcile.StageMerge
	cfg.hooks.trigger(result)

	if cfg.reconcile.DryRun || w == nil {
		return result, nil
	}

	stage = StageWrite
	var buf bytes.Buffer
	if err := workbook.Write(&buf, result.Merged); err != nil {
		return nil, errors.WrapStage(StageWrite, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return nil, errors.WrapStage(StageWrite, errors.WrapIO("write", "", err))
	}
	return result, nil
}

// MergeFiles merges the workbooks at presencePath and ledgerPath into outPath.
// Input formats come from the file extensions. The output is written to a
// temporary file next to outPath and renamed into place on success, so an
// existing file is never left half written. An empty outPath writes
// constants.DefaultOutputFile in the ledger's directory.
func MergeFiles(ctx context.Context, presencePath, ledgerPath, outPath string, opts ...Option) (*reconcile.Result, error) {
	presenceFormat, err := workbook.DetectFormat(presencePath)
	if err != nil {
		return nil, errors.WrapStage(StageLoad, err)
	}
	ledgerFormat, err := workbook.DetectFormat(ledgerPath)
	if err != nil {
		return nil, errors.WrapStage(StageLoad, err)
	}
	opts = append([]Option{WithPresenceFormat(presenceFormat), WithLedgerFormat(ledgerFormat)}, opts...)

	presence, err := os.ReadFile(presencePath)
	if err != nil {
		return nil, errors.WrapStage(StageLoad, errors.WrapIO("read", presencePath, err))
	}
	ledger, err := os.ReadFile(ledgerPath)
	if err != nil {
		return nil, errors.WrapStage(StageLoad, errors.WrapIO("read", ledgerPath, err))
	}

	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	if cfg.reconcile.DryRun {
		return Merge(ctx, bytes.NewReader(presence), bytes.NewReader(ledger), nil, opts...)
	}

	outPath = OutputPath(ledgerPath, outPath)
	var out bytes.Buffer
	result, err := Merge(ctx, bytes.NewReader(presence), bytes.NewReader(ledger), &out, opts...)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(outPath, out.Bytes()); err != nil {
		return nil, errors.WrapStage(StageWrite, err)
	}
	return result, nil
}

// OutputPath returns outPath, or constants.DefaultOutputFile in the ledger's
// directory when outPath is empty.
func OutputPath(ledgerPath, outPath string) string {
	if outPath != "" {
		return outPath
	}
	return filepath.Join(filepath.Dir(ledgerPath), constants.DefaultOutputFile)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("mkdir", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".attendmerge-*.xlsx")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	if err := os.Chmod(tmp.Name(), constants.FilePermissions); err != nil {
		return errors.WrapIO("chmod", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

func (c *config) validate() error {
	for _, l := range []any{c.presenceLayout, c.ledgerLayout} {
		if err := validate.Struct(l); err != nil {
			return errors.WrapValidation("header_row", err)
		}
	}
	return c.reconcile.Validate()
}

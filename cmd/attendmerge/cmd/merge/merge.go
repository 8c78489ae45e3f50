// Package merge provides the merge command.
package merge

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/attendmerge"
	"github.com/agentstation/attendmerge/cmd/application"
	"github.com/agentstation/attendmerge/internal/cmd/alerts"
	"github.com/agentstation/attendmerge/internal/cmd/output"
	"github.com/agentstation/attendmerge/pkg/constants"
	"github.com/agentstation/attendmerge/pkg/reconcile"
)

// Flags holds the merge command flags.
type Flags struct {
	Presence               string
	Ledger                 string
	Out                    string
	DryRun                 bool
	Details                bool
	KeyPolicy              string
	DepartmentPolicy       string
	DropInvalidLedgerDates bool
	PresenceHeaderRow      int
	LedgerHeaderRow        int
}

// NewCommand creates the merge command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "merge",
		GroupID: "core",
		Short:   "Append missing presence-log rows to the attendance ledger",
		Long: `Merge reads the presence log and the attendance ledger (.xlsx or .csv),
appends every presence row the ledger does not already have and that carries
time data, and writes a single-sheet workbook with the ledger rows first.

Running merge again on its own output with the same presence log appends
nothing.`,
		Example: `  # Write 병합된_근무기록.xlsx next to the ledger
  attendmerge merge --presence presence.xlsx --ledger ledger.xlsx

  # Key rows on names instead of employee ids
  attendmerge merge --presence p.xlsx --ledger l.xlsx --key-policy name

  # Report what would be appended, row by row, as JSON
  attendmerge merge --presence p.xlsx --ledger l.xlsx --dry-run --details -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			return run(cmd, app, flags, opts)
		},
	}

	cmd.Flags().StringVarP(&flags.Presence, "presence", "p", "", "presence log workbook (title row above the header)")
	cmd.Flags().StringVarP(&flags.Ledger, "ledger", "l", "", "attendance ledger workbook")
	cmd.Flags().StringVar(&flags.Out, "out", "", "output path (default: "+constants.DefaultOutputFile+" next to the ledger)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "run the full merge but write nothing")
	cmd.Flags().BoolVar(&flags.Details, "details", false, "list the outcome of every presence row")
	cmd.Flags().StringVar(&flags.KeyPolicy, "key-policy", "", "row identity: employee_id or name")
	cmd.Flags().StringVar(&flags.DepartmentPolicy, "department-policy", "", "department source: ledger or union")
	cmd.Flags().BoolVar(&flags.DropInvalidLedgerDates, "drop-invalid-ledger-dates", false, "drop ledger rows whose date cannot be parsed")
	cmd.Flags().IntVar(&flags.PresenceHeaderRow, "presence-header-row", constants.PresenceHeaderRow, "0-based header row of the presence log")
	cmd.Flags().IntVar(&flags.LedgerHeaderRow, "ledger-header-row", constants.LedgerHeaderRow, "0-based header row of the ledger")
	_ = cmd.MarkFlagRequired("presence")
	_ = cmd.MarkFlagRequired("ledger")

	return cmd
}

// options returns overrides for the flags set on the command line. Unset
// flags leave the configured values in place.
func (f *Flags) options(cmd *cobra.Command) ([]attendmerge.Option, error) {
	var opts []attendmerge.Option
	changed := cmd.Flags().Changed

	if changed("key-policy") {
		p, err := reconcile.ParseKeyPolicy(f.KeyPolicy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, attendmerge.WithKeyPolicy(p))
	}
	if changed("department-policy") {
		p, err := reconcile.ParseDepartmentPolicy(f.DepartmentPolicy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, attendmerge.WithDepartmentPolicy(p))
	}
	if changed("drop-invalid-ledger-dates") {
		opts = append(opts, attendmerge.WithDropInvalidLedgerDates(f.DropInvalidLedgerDates))
	}
	if changed("presence-header-row") {
		opts = append(opts, attendmerge.WithPresenceHeaderRow(f.PresenceHeaderRow))
	}
	if changed("ledger-header-row") {
		opts = append(opts, attendmerge.WithLedgerHeaderRow(f.LedgerHeaderRow))
	}
	if f.DryRun {
		opts = append(opts, attendmerge.WithDryRun(true))
	}
	return opts, nil
}

func run(cmd *cobra.Command, app application.Application, flags *Flags, overrides []attendmerge.Option) error {
	logger := app.Logger()
	opts := append(app.MergeOptions(), overrides...)

	logger.Debug().
		Str("presence", flags.Presence).
		Str("ledger", flags.Ledger).
		Bool("dry_run", flags.DryRun).
		Msg("starting merge")

	result, err := attendmerge.MergeFiles(cmd.Context(), flags.Presence, flags.Ledger, flags.Out, opts...)
	if err != nil {
		return err
	}
	var outPath string
	if !result.Metadata.DryRun {
		outPath = attendmerge.OutputPath(flags.Ledger, flags.Out)
	}

	format := output.Format(app.OutputFormat())
	details := flags.Details || format == output.FormatWide
	return writeResult(cmd.OutOrStdout(), format, output.NewReport(result, outPath, details), result)
}

func writeResult(w io.Writer, format output.Format, report output.Report, result *reconcile.Result) error {
	switch format {
	case output.FormatJSON, output.FormatYAML:
		return output.NewFormatter(format).Format(w, report)
	}

	alert := alerts.FromResult(result)
	if report.Output != "" {
		alert.WithDetails(fmt.Sprintf("wrote %s", report.Output))
	}
	if err := alerts.NewWriter(w, format).WriteAlert(alert); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return output.NewFormatter(output.FormatTable).Format(w, report.Tables())
}

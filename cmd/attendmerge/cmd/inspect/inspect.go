// Package inspect provides the inspect command.
package inspect

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/attendmerge"
	"github.com/agentstation/attendmerge/cmd/application"
	"github.com/agentstation/attendmerge/internal/cmd/alerts"
	"github.com/agentstation/attendmerge/internal/cmd/output"
	"github.com/agentstation/attendmerge/pkg/attendance"
	"github.com/agentstation/attendmerge/pkg/errors"
	"github.com/agentstation/attendmerge/pkg/workbook"
)

// NewCommand creates the inspect command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		source    string
		headerRow int
	)

	cmd := &cobra.Command{
		Use:     "inspect <workbook>",
		GroupID: "core",
		Short:   "Show what attendmerge reads from a workbook",
		Long: `Inspect loads one workbook with the header offset a merge would use and
reports the detected columns, row counts and unparseable dates. Use it to
diagnose a malformed workbook before merging.`,
		Example: `  attendmerge inspect ledger.xlsx
  attendmerge inspect presence.xlsx --source presence
  attendmerge inspect export.csv --source presence --header-row 0 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := parseSource(source)
			if err != nil {
				return err
			}
			opts := app.MergeOptions()
			if cmd.Flags().Changed("header-row") {
				if src == attendance.SourcePresence {
					opts = append(opts, attendmerge.WithPresenceHeaderRow(headerRow))
				} else {
					opts = append(opts, attendmerge.WithLedgerHeaderRow(headerRow))
				}
			}
			return run(cmd, app, args[0], src, opts)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "ledger", "workbook kind: presence or ledger")
	cmd.Flags().IntVar(&headerRow, "header-row", 0, "0-based header row (default depends on --source)")

	return cmd
}

func parseSource(s string) (attendance.Source, error) {
	switch src := attendance.Source(strings.ToLower(s)); src {
	case attendance.SourcePresence, attendance.SourceLedger:
		return src, nil
	default:
		return "", errors.NewValidationError("source", s, "must be presence or ledger")
	}
}

func run(cmd *cobra.Command, app application.Application, path string, source attendance.Source, opts []attendmerge.Option) error {
	format, err := workbook.DetectFormat(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapIO("read", path, err)
	}
	opts = append(opts, attendmerge.WithPresenceFormat(format), attendmerge.WithLedgerFormat(format))

	outFormat := output.Format(app.OutputFormat())
	w := cmd.OutOrStdout()

	in, err := attendmerge.Inspect(cmd.Context(), bytes.NewReader(data), source, opts...)
	if err != nil {
		if errors.IsMalformedWorkbook(err) && outFormat != output.FormatJSON && outFormat != output.FormatYAML {
			_ = alerts.NewWriter(cmd.ErrOrStderr(), outFormat).WriteAlert(
				alerts.NewError(path).WithError(err).WithDetails(
					"required columns: "+strings.Join(output.ColumnHeaders(attendance.RequiredColumns), ", "),
					"check --header-row (presence logs have a title row above the header)",
				))
		}
		return err
	}

	summary := Summary(path, in)
	switch outFormat {
	case output.FormatJSON, output.FormatYAML:
		return output.NewFormatter(outFormat).Format(w, summary)
	}

	if err := output.NewFormatter(output.FormatTable).Format(w, summary.Data()); err != nil {
		return err
	}
	alert := alerts.NewSuccess(fmt.Sprintf("%d rows, %d employees", in.Rows, in.Employees))
	if len(in.DateErrors) > 0 {
		alert = alerts.NewWarning(fmt.Sprintf("%d of %d rows have unparseable dates", len(in.DateErrors), in.Rows))
		if outFormat == output.FormatWide {
			for _, de := range in.DateErrors {
				alert.WithDetails(de.Error())
			}
		}
	}
	return alerts.NewWriter(w, outFormat).WriteAlert(alert)
}

// Summary converts an inspection into its printable form.
func Summary(path string, in *attendmerge.Inspection) output.TableSummary {
	s := output.TableSummary{
		Source:    fmt.Sprintf("%s (%s)", path, in.Source),
		Sheet:     in.Sheet,
		HeaderRow: in.HeaderRow,
		Columns:   output.ColumnHeaders(in.Columns),
		Missing:   output.ColumnHeaders(in.MissingOptional),
		Rows:      in.Rows,
		ValidRows: in.ValidDateRows,
		Employees: in.Employees,
	}
	for _, de := range in.DateErrors {
		s.BadDates = append(s.BadDates, fmt.Sprintf("row %d: %q", de.Row, de.Value))
	}
	return s
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"fiscalcheck/internal/platform/logger"
	"fiscalcheck/internal/validation"
	"fiscalcheck/internal/validation/models"
	"fiscalcheck/internal/validation/regulatory"
)

// failedDocumentsError signals that validation ran but some documents carry
// error-class issues. The reports have already been printed.
type failedDocumentsError struct {
	count int
}

func (e *failedDocumentsError) Error() string {
	return fmt.Sprintf("%d document(s) failed validation", e.count)
}

type rootOptions struct {
	tablesFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "fiscalcheck",
		Short:         "Validate Italian invoices and payslips against fiscal rules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.tablesFile, "tables", "", "YAML file with regulatory tables merged over the built-in ones")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level for diagnostics written to stderr")

	cmd.AddCommand(newValidateCmd(opts), newTablesCmd(opts))
	return cmd
}

func newValidateCmd(root *rootOptions) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "validate <file.json>...",
		Short: "Validate documents and print their reports as JSON",
		Long: "Each file holds either a bare document or an object with \"document\" and \"options\".\n" +
			"Exits with status 1 when any document has error-class issues.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := regulatory.LoadWithDefaults(root.tablesFile)
			if err != nil {
				return err
			}
			log := logger.New(cmd.ErrOrStderr(), root.logLevel, "text")
			service := validation.NewService(validation.NewEngine(catalog), validation.WithLogger(log))
			return runValidate(cmd.Context(), service, log, cmd.OutOrStdout(), args, year)
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "regulatory year to apply instead of the one derived from each document")
	return cmd
}

func runValidate(ctx context.Context, service *validation.Service, log *slog.Logger, out io.Writer, paths []string, year int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	failed := 0
	for _, path := range paths {
		req, err := readRequest(path)
		if err != nil {
			return err
		}
		if year > 0 {
			req.Options.RegulatoryYear = year
		}
		report, err := service.Validate(ctx, req)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if report.HasErrors() {
			failed++
		}
		log.Debug("validated file", "path", path, "status", report.Status, "score", report.Score)
		if err := enc.Encode(fileReport{File: path, Report: report}); err != nil {
			return err
		}
	}
	if failed > 0 {
		return &failedDocumentsError{count: failed}
	}
	return nil
}

type fileReport struct {
	File   string         `json:"file"`
	Report *models.Report `json:"report"`
}

// readRequest accepts the service request shape and falls back to a bare
// document when no "document" key is present.
func readRequest(path string) (validation.Request, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return validation.Request{}, err
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return validation.Request{}, fmt.Errorf("%s: %w", path, err)
	}
	var req validation.Request
	if _, wrapped := probe["document"]; wrapped {
		err = json.Unmarshal(raw, &req)
	} else {
		err = json.Unmarshal(raw, &req.Document)
	}
	if err != nil {
		return validation.Request{}, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}

func newTablesCmd(root *rootOptions) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the effective regulatory tables as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := regulatory.LoadWithDefaults(root.tablesFile)
			if err != nil {
				return err
			}
			var years []int
			if year > 0 {
				years = append(years, catalog.ForYear(year).Year)
			}
			out, err := catalog.EncodeYAML(years...)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "only print the tables that apply to this year")
	return cmd
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shandysiswandi/gotabular/internal/tabular/entity"
	"github.com/shandysiswandi/gotabular/internal/tabular/ingest"
	"github.com/shandysiswandi/gotabular/internal/tabular/usecase"
	"github.com/spf13/cobra"
)

type inspectOptions struct {
	rowLimit     int
	strictQuotes bool
	maxBytes     int64
	diagnostics  bool
}

type inspectOutput struct {
	File string `json:"file"`
	entity.Report
	Diagnostics []entity.Diagnostic `json:"diagnostics,omitempty"`
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Parse a file and print its report as JSON",
		Long: `Parses a delimited text file or an .xlsx workbook locally, without a
server, and prints the detected layout, column profiles, a sample of records
and the quality score.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.rowLimit, "row-limit", ingest.DefaultRowLimit, "maximum data rows to materialize")
	cmd.Flags().BoolVar(&opts.strictQuotes, "strict-quotes", false, "only honor double quotes at the start of a field")
	cmd.Flags().Int64Var(&opts.maxBytes, "max-bytes", usecase.DefaultMaxBytes, "reject files larger than this")
	cmd.Flags().BoolVar(&opts.diagnostics, "diagnostics", false, "include repaired anomalies in the output")

	return cmd
}

func runInspect(cmd *cobra.Command, path string, opts inspectOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	quotes := ingest.QuoteLenient
	if opts.strictQuotes {
		quotes = ingest.QuoteStrict
	}

	uc := usecase.New(usecase.Dependency{
		Parser: ingest.New(ingest.Config{Quotes: quotes, RowLimit: opts.rowLimit}),
		Config: usecase.Config{MaxBytes: opts.maxBytes, RowLimit: opts.rowLimit},
	})

	report, err := uc.Inspect(cmd.Context(), usecase.UploadInput{
		Filename: filepath.Base(path),
		Body:     f,
	})
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}

	out := inspectOutput{File: filepath.Base(path), Report: report}
	if opts.diagnostics {
		out.Diagnostics = report.Diagnostics
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

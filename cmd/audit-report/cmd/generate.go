package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shunichi-ikebuchi/audit-reporter/pkg/ledger"
	"github.com/shunichi-ikebuchi/audit-reporter/pkg/pathutil"
	"github.com/shunichi-ikebuchi/audit-reporter/pkg/render"
	"github.com/shunichi-ikebuchi/audit-reporter/pkg/report"
	"github.com/spf13/cobra"
)

var (
	dateFrom     string
	dateTo       string
	businessName string
	outputDir    string
	flagValues   []string
	flagsFile    string
	writeText    bool
	generateOpts inputOptions
)

// generateCmd represents the generate command.
var generateCmd = &cobra.Command{
	Use:   "generate [inputs...]",
	Short: "Generate an audit report",
	Long: `Generate an audit report for a date window from the given inputs.

Inputs are dispatched by extension:
  .pdf             invoice pages (Vendor:/Date:/Total:/GST: labels)
  .csv             ledger rows
  .yaml, .yml      manual-entry grid
  .db, .sqlite     ledger table of a SQLite database

This command:
1. Extracts transactions from every input (a failing input does not stop the others)
2. Aggregates them over the window
3. Writes the report PDF to the output directory

Example:
  audit-report generate --from 2023-06-01 --to 2023-06-30 invoices.pdf ledger.csv
  audit-report generate --sample --flag "Missing PAN on two bills" --markdown`,
	Run: runGenerate,
}

func init() {
	// Flags
	generateCmd.Flags().StringVar(&dateFrom, "from", "", "Start date (YYYY-MM-DD) (default: lookback days before --to)")
	generateCmd.Flags().StringVar(&dateTo, "to", "", "End date (YYYY-MM-DD) (default: today)")
	generateCmd.Flags().StringVar(&businessName, "business", "", "Business name (overrides AUDIT_BUSINESS_NAME)")
	generateCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides AUDIT_OUTPUT_DIR)")
	generateCmd.Flags().StringArrayVar(&flagValues, "flag", nil, "Risk flag to carry into the report (repeatable)")
	generateCmd.Flags().StringVar(&flagsFile, "flags-file", "", "File with one risk flag per line")
	generateCmd.Flags().BoolVar(&writeText, "markdown", false, "Also write the report text next to the PDF")
	generateOpts.register(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := loadConfig()
	exitOnError(err, "failed to load configuration")

	if businessName != "" {
		cfg.Report.BusinessName = businessName
	}
	if outputDir != "" {
		cfg.Report.OutputDir = outputDir
	}
	generateOpts.apply(cfg)
	exitOnError(cfg.Validate(), "invalid configuration")

	window, err := resolveWindow(dateFrom, dateTo, cfg.Report.LookbackDays, time.Now())
	exitOnError(err, "invalid date range")

	flags, err := riskFlags(flagValues, flagsFile)
	exitOnError(err, "failed to read risk flags")

	start := window.Start.Format(ledger.DateLayout)
	end := window.End.Format(ledger.DateLayout)
	slog.Info("Starting report", "business", cfg.Report.BusinessName, "from", start, "to", end, "inputs", len(args))

	// Extract
	res, err := collect(ctx, cfg, args, generateOpts.sample)
	exitOnError(err, "failed to extract transactions")
	reportProblems(res)

	if len(res.Transactions) == 0 {
		exitOnError(errors.New("no transaction data available"), "nothing to report")
	}

	// Synthesize
	synth := report.NewSynthesizer(cfg.Report.CurrencySymbol)
	text, err := synth.Generate(cfg.Report.BusinessName, window.Start, window.End, res.Transactions, flags)
	exitOnError(err, "failed to generate report")

	// Render and deliver
	pathResolver := pathutil.New(pathutil.Config{OutputDir: cfg.Report.OutputDir})
	pdfPath := pathResolver.GetArtifactPath(cfg.Report.BusinessName, window.Start, window.End)
	exitOnError(pathResolver.EnsureParentDir(pdfPath), "failed to prepare output directory")

	renderer := render.NewRenderer()
	art, err := renderer.RenderArtifact(text, cfg.Report.BusinessName, window.Start, window.End)
	exitOnError(err, "failed to render report")

	slog.Debug("Delivering artifact", "temp", art.Path(), "path", pdfPath)
	exitOnError(art.Deliver(pdfPath), "failed to write report")

	if writeText {
		mdPath := pathResolver.GetMarkdownPath(cfg.Report.BusinessName, window.Start, window.End)
		exitOnError(os.WriteFile(mdPath, []byte(text), 0644), "failed to write report text")
		fmt.Printf("Report text: %s\n", mdPath)
	}

	fmt.Println(text)
	fmt.Printf("Report PDF:  %s\n", pdfPath)

	slog.Info("Report completed",
		"transactions", len(res.Transactions),
		"skipped_rows", len(res.Warnings),
		"failed_inputs", len(res.Failures),
		"output_dir", pathResolver.GetOutputDir(),
		"path", pdfPath,
	)
}

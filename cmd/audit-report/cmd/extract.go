package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/shunichi-ikebuchi/audit-reporter/pkg/db"
	"github.com/shunichi-ikebuchi/audit-reporter/pkg/ledger"
	"github.com/shunichi-ikebuchi/audit-reporter/pkg/report"
	"github.com/spf13/cobra"
)

var (
	extractOpts inputOptions
	saveDB      string
)

// extractCmd represents the extract command.
var extractCmd = &cobra.Command{
	Use:   "extract [inputs...]",
	Short: "Preview extracted transactions",
	Long: `Extract transactions from the given inputs and print them as a table
without aggregating or writing a report. With --save-db the normalized
transactions are also written to a ledger table (--table, default
transactions), replacing its rows; the database can be passed back as an
input later.

Example:
  audit-report extract ledger.csv invoices.pdf
  audit-report extract --sample
  audit-report extract --save-db books.db invoices/*.pdf`,
	Run: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&saveDB, "save-db", "", "Write the extracted transactions to this SQLite ledger database")
	extractOpts.register(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	exitOnError(err, "failed to load configuration")

	extractOpts.apply(cfg)
	exitOnError(cfg.Validate(), "invalid configuration")

	res, err := collect(cmd.Context(), cfg, args, extractOpts.sample)
	exitOnError(err, "failed to extract transactions")
	reportProblems(res)

	printTransactions(res.Transactions)

	if saveDB != "" {
		exitOnError(saveLedger(cmd.Context(), saveDB, cfg.Input.LedgerTable, res.Transactions), "failed to save transactions")
		fmt.Printf("Saved to %s (table %s)\n", saveDB, cfg.Input.LedgerTable)
	}
}

// saveLedger writes txs into table of the database at path, creating both
// as needed.
func saveLedger(ctx context.Context, path, table string, txs []ledger.Transaction) error {
	conn, err := db.Create(path)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.SaveTransactions(ctx, table, txs); err != nil {
		return err
	}
	slog.Info("Saved transactions", "path", path, "table", table, "count", len(txs))
	return nil
}

func printTransactions(txs []ledger.Transaction) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tVENDOR\tAMOUNT\tGST\tTYPE")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date, tx.Vendor, report.Money(tx.Amount), report.Money(tx.GST), tx.Type)
	}
	w.Flush()

	fmt.Printf("\n%d transactions\n", len(txs))
}

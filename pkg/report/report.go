// Package report turns an audit summary into the section-delimited report
// text consumed by the renderer.
//
// The text uses a two-level heading convention: a single "# " title line
// followed by "## " sections, some of which carry "### " subsections.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/audit-reporter/pkg/audit"
	"github.com/shunichi-ikebuchi/audit-reporter/pkg/ledger"
)

const (
	DefaultCurrency = "Rs."

	// NoTransactions is emitted in place of data-driven lines when the
	// window holds no transactions.
	NoTransactions = "No transactions found in this period"
	NoGST          = "No GST-related transactions found"
	None           = "None"

	TimestampLayout = "02 Jan 2006 15:04"
)

// Section headings, in output order.
const (
	SectionExecutiveSummary = "Executive Summary"
	SectionCashFlow         = "Cash Flow Analysis"
	SectionGST              = "GST Compliance"
	SectionInsights         = "AI Insights"
	SectionRecommendations  = "Recommendations"
)

// Synthesizer formats summaries. Now stamps the footer.
type Synthesizer struct {
	Currency string
	Now      func() time.Time
}

func NewSynthesizer(currency string) *Synthesizer {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Synthesizer{Currency: currency, Now: time.Now}
}

// GenerateReport aggregates txs over [start, end] and returns the report
// text using the default currency symbol.
func GenerateReport(business string, start, end time.Time, txs []ledger.Transaction, riskFlags []string) (string, error) {
	return NewSynthesizer(DefaultCurrency).Generate(business, start, end, txs, riskFlags)
}

// Generate aggregates txs over [start, end] and synthesizes the report.
func (s *Synthesizer) Generate(business string, start, end time.Time, txs []ledger.Transaction, riskFlags []string) (string, error) {
	w, err := audit.NewWindow(start, end)
	if err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}
	return s.Synthesize(business, audit.Aggregate(txs, w, riskFlags)), nil
}

// Synthesize renders sum as report text.
func (s *Synthesizer) Synthesize(business string, sum audit.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s - Audit Report\n", business)
	fmt.Fprintf(&b, "Period: %s to %s (%d days)\n",
		sum.Window.Start.Format(ledger.DateLayout),
		sum.Window.End.Format(ledger.DateLayout),
		sum.Metrics.DurationDays)

	s.writeExecutiveSummary(&b, sum.Metrics)
	s.writeCashFlow(&b, sum)
	s.writeGST(&b, sum.GST)
	s.writeInsights(&b, sum)
	s.writeRecommendations(&b, sum)

	fmt.Fprintf(&b, "\n*Report generated on %s*\n", s.now().Format(TimestampLayout))
	return b.String()
}

func (s *Synthesizer) writeExecutiveSummary(b *strings.Builder, m audit.Metrics) {
	section(b, SectionExecutiveSummary)
	fmt.Fprintf(b, "- **Financial Overview**: Net balance of %s (Income: %s, Expenses: %s)\n",
		s.money(m.NetBalance), s.money(m.TotalIncome), s.money(m.TotalExpense))
	fmt.Fprintf(b, "- **Profit Margin**: %s%%\n", Percent(m.ProfitMargin))
	fmt.Fprintf(b, "- **Expense Ratio**: %s%% of income\n", Percent(m.ExpenseRatio))
	fmt.Fprintf(b, "- **Transactions Processed**: %d\n", m.TransactionCount)
}

func (s *Synthesizer) writeCashFlow(b *strings.Builder, sum audit.Summary) {
	section(b, SectionCashFlow)
	// Transactions of unrecognized types rank in neither bucket.
	if len(sum.Rankings.Income) == 0 && len(sum.Rankings.Expense) == 0 {
		bullet(b, NoTransactions)
		return
	}

	if len(sum.Rankings.Income) > 0 {
		subsection(b, "Income Sources")
		for _, v := range sum.Rankings.Income {
			bullet(b, v.Vendor+": "+s.money(v.Total))
		}
	}
	if len(sum.Rankings.Expense) > 0 {
		if len(sum.Rankings.Income) > 0 {
			b.WriteString("\n")
		}
		subsection(b, "Major Expenses")
		for _, v := range sum.Rankings.Expense {
			bullet(b, v.Vendor+": "+s.money(v.Total))
		}
	}
}

func (s *Synthesizer) writeGST(b *strings.Builder, gst audit.GSTSummary) {
	section(b, SectionGST)
	if len(gst.Transactions) == 0 {
		bullet(b, NoGST)
		return
	}

	bullet(b, "**Total GST Processed**: "+s.money(gst.Total))
	if len(gst.Findings) == 0 {
		return
	}

	b.WriteString("\n")
	subsection(b, "GST Issues")
	for _, f := range gst.Findings {
		bullet(b, s.finding(f))
	}
}

func (s *Synthesizer) finding(f audit.Finding) string {
	switch f.Kind {
	case audit.FindingInvalidID:
		return "Invalid document ID: " + f.Transaction.ID
	case audit.FindingHighGST:
		return fmt.Sprintf("Unusual GST amount: %s on %s",
			s.money(f.Transaction.GST), s.money(f.Transaction.Amount))
	default:
		return string(f.Kind) + ": " + f.Transaction.ID
	}
}

func (s *Synthesizer) writeInsights(b *strings.Builder, sum audit.Summary) {
	section(b, SectionInsights)
	if len(sum.Transactions) == 0 {
		bullet(b, NoTransactions)
		return
	}

	if c := sum.Concentration; c != nil {
		fmt.Fprintf(b, "- **Vendor Concentration**: %s appears %d times\n", c.Vendor, c.Count)
	}
	if sum.Advisories.CostAlert {
		fmt.Fprintf(b, "- **Cost Alert**: High expense ratio (%s%%)\n", Percent(sum.Metrics.ExpenseRatio))
	}
}

func (s *Synthesizer) writeRecommendations(b *strings.Builder, sum audit.Summary) {
	section(b, SectionRecommendations)
	a := sum.Advisories

	subsection(b, "Immediate Actions")
	var immediate []string
	if a.ReconcileGST {
		immediate = append(immediate, "Reconcile GST input credits")
	}
	if a.AddressFlagged {
		immediate = append(immediate, "Address compliance flags")
	}
	bullets(b, immediate)
	for _, flag := range sum.RiskFlags {
		fmt.Fprintf(b, "  - %s\n", flag)
	}

	b.WriteString("\n")
	subsection(b, "Strategic Actions")
	var strategic []string
	if a.PricingReview {
		strategic = append(strategic, "Review pricing strategy")
	}
	if a.Tooling {
		strategic = append(strategic, "Consider accounting software for better tracking")
	}
	bullets(b, strategic)
}

func (s *Synthesizer) money(d decimal.Decimal) string {
	return s.Currency + Money(d)
}

func (s *Synthesizer) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Money formats d with two decimals and thousands separators.
func Money(d decimal.Decimal) string {
	return humanize.FormatFloat("#,###.##", d.Round(2).InexactFloat64())
}

// Percent formats v with one decimal.
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func section(b *strings.Builder, heading string) {
	fmt.Fprintf(b, "\n## %s\n\n", heading)
}

func subsection(b *strings.Builder, heading string) {
	fmt.Fprintf(b, "### %s\n", heading)
}

func bullet(b *strings.Builder, text string) {
	fmt.Fprintf(b, "- %s\n", text)
}

func bullets(b *strings.Builder, lines []string) {
	if len(lines) == 0 {
		bullet(b, None)
		return
	}
	for _, l := range lines {
		bullet(b, l)
	}
}

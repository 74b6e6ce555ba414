package audit

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/audit-reporter/pkg/ledger"
)

// Fixed heuristics. Changing any of them changes report output.
const (
	TopVendors              = 3
	MaxComplianceFindings   = 3
	CostAlertExpenseRatio   = 70.0
	PricingReviewMargin     = 15.0
	ToolingTransactionCount = 50
)

var (
	gstRatioLimit    = decimal.RequireFromString("0.3")
	hundred          = decimal.NewFromInt(100)
	complianceTokens = []string{"GST", "INV", "BILL"}
)

// Metrics are the period totals and ratios. Ratios are percentages and are
// zero whenever there is no income.
type Metrics struct {
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	NetBalance       decimal.Decimal
	ExpenseRatio     float64
	ProfitMargin     float64
	TransactionCount int
	DurationDays     int
}

// VendorTotal is one entry of a ranking.
type VendorTotal struct {
	Vendor string
	Total  decimal.Decimal
}

// Rankings hold the top vendors per type, largest first.
type Rankings struct {
	Income  []VendorTotal
	Expense []VendorTotal
}

// FindingKind names a compliance heuristic.
type FindingKind string

const (
	FindingInvalidID FindingKind = "invalid_id"
	FindingHighGST   FindingKind = "high_gst"
)

// Finding is one compliance heuristic hit.
type Finding struct {
	Kind        FindingKind
	Transaction ledger.Transaction
}

// GSTSummary covers the transactions carrying tax.
type GSTSummary struct {
	Transactions []ledger.Transaction
	Total        decimal.Decimal
	Findings     []Finding
}

// Concentration is the most frequent vendor in the period.
type Concentration struct {
	Vendor string
	Count  int
}

// Advisories are the recommendation triggers.
type Advisories struct {
	CostAlert      bool
	PricingReview  bool
	Tooling        bool
	ReconcileGST   bool
	AddressFlagged bool
}

// Summary is everything derived for one reporting window.
type Summary struct {
	Window        Window
	Transactions  []ledger.Transaction
	Metrics       Metrics
	Rankings      Rankings
	GST           GSTSummary
	Concentration *Concentration
	Advisories    Advisories
	RiskFlags     []string
}

// Aggregate filters txs to w and derives the period summary. Records whose
// date is not YYYY-MM-DD are left out. riskFlags are carried through
// unread.
func Aggregate(txs []ledger.Transaction, w Window, riskFlags []string) Summary {
	filtered := Filter(txs, w)

	s := Summary{
		Window:       w,
		Transactions: filtered,
		Metrics:      computeMetrics(filtered, w),
		Rankings: Rankings{
			Income:  RankVendors(filtered, ledger.Income, TopVendors),
			Expense: RankVendors(filtered, ledger.Expense, TopVendors),
		},
		GST:           checkGST(filtered),
		Concentration: topVendorByCount(filtered),
		RiskFlags:     riskFlags,
	}

	s.Advisories = Advisories{
		CostAlert:      s.Metrics.ExpenseRatio > CostAlertExpenseRatio,
		PricingReview:  s.Metrics.ProfitMargin < PricingReviewMargin,
		Tooling:        s.Metrics.TransactionCount > ToolingTransactionCount,
		ReconcileGST:   len(s.GST.Transactions) > 0,
		AddressFlagged: len(riskFlags) > 0,
	}
	return s
}

// Filter keeps transactions dated inside w, preserving order.
func Filter(txs []ledger.Transaction, w Window) []ledger.Transaction {
	var out []ledger.Transaction
	for _, tx := range txs {
		day, ok := tx.Day()
		if !ok || !w.Contains(day) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func computeMetrics(txs []ledger.Transaction, w Window) Metrics {
	m := Metrics{
		TotalIncome:      sumAmount(txs, ledger.Income),
		TotalExpense:     sumAmount(txs, ledger.Expense),
		TransactionCount: len(txs),
		DurationDays:     w.Days(),
	}
	m.NetBalance = m.TotalIncome.Sub(m.TotalExpense)

	if m.TotalIncome.IsPositive() {
		m.ExpenseRatio = m.TotalExpense.Div(m.TotalIncome).Mul(hundred).InexactFloat64()
		m.ProfitMargin = m.NetBalance.Div(m.TotalIncome).Mul(hundred).InexactFloat64()
	}
	return m
}

func sumAmount(txs []ledger.Transaction, typ ledger.Type) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type == typ {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// RankVendors sums amounts per vendor for typ and returns the top n.
// Equal totals are ordered by vendor name.
func RankVendors(txs []ledger.Transaction, typ ledger.Type, n int) []VendorTotal {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Type != typ {
			continue
		}
		totals[tx.Vendor] = totals[tx.Vendor].Add(tx.Amount)
	}

	ranked := make([]VendorTotal, 0, len(totals))
	for vendor, total := range totals {
		ranked = append(ranked, VendorTotal{Vendor: vendor, Total: total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].Total.Cmp(ranked[j].Total); c != 0 {
			return c > 0
		}
		return ranked[i].Vendor < ranked[j].Vendor
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func checkGST(txs []ledger.Transaction) GSTSummary {
	s := GSTSummary{Total: decimal.Zero}

	for _, tx := range txs {
		if !tx.GST.IsPositive() {
			continue
		}
		s.Transactions = append(s.Transactions, tx)
		s.Total = s.Total.Add(tx.GST)

		if !hasComplianceToken(tx.ID) {
			s.Findings = append(s.Findings, Finding{Kind: FindingInvalidID, Transaction: tx})
		}
		if tx.GST.GreaterThan(tx.Amount.Mul(gstRatioLimit)) {
			s.Findings = append(s.Findings, Finding{Kind: FindingHighGST, Transaction: tx})
		}
	}

	if len(s.Findings) > MaxComplianceFindings {
		s.Findings = s.Findings[:MaxComplianceFindings]
	}
	return s
}

func hasComplianceToken(id string) bool {
	upper := strings.ToUpper(id)
	for _, token := range complianceTokens {
		if strings.Contains(upper, token) {
			return true
		}
	}
	return false
}

// topVendorByCount returns nil for an empty set. Ties go to the vendor
// seen first.
func topVendorByCount(txs []ledger.Transaction) *Concentration {
	counts := make(map[string]int)
	var order []string
	for _, tx := range txs {
		if counts[tx.Vendor] == 0 {
			order = append(order, tx.Vendor)
		}
		counts[tx.Vendor]++
	}

	var top *Concentration
	for _, vendor := range order {
		if top == nil || counts[vendor] > top.Count {
			top = &Concentration{Vendor: vendor, Count: counts[vendor]}
		}
	}
	return top
}

package analytics

import (
	"fmt"
	"strings"

	"moneybot/internal/core"
)

// HelpText is the reply for queries that match no rule.
const HelpText = "I can help you with questions like 'What is my balance?', 'Total spent this month', " +
	"'Recent transactions', or 'Spending by category'. How can I assist you today?"

const (
	noRecentText   = "I couldn't find any recent transactions."
	noSpendingText = "You haven't had any spending yet."
)

// Text renders a result as the chat reply.
func Text(r Result) string {
	switch r := r.(type) {
	case BalanceResult:
		return fmt.Sprintf("Your current balance is %s.", r.Balance)
	case CreditedResult:
		return fmt.Sprintf("Total credited this month: %s.", r.Total)
	case DebitedResult:
		return fmt.Sprintf("Total debited this month: %s.", r.Total)
	case RecentResult:
		if len(r.Transactions) == 0 {
			return noRecentText
		}
		lines := make([]string, 0, len(r.Transactions)+1)
		lines = append(lines, fmt.Sprintf("Here are your last %d transactions:", RecentLimit))
		for _, tx := range r.Transactions {
			row := rowOf(tx)
			lines = append(lines, fmt.Sprintf("• %s: %s (%s - %s)", row.Date, row.Description, row.Amount, row.Kind))
		}
		return strings.Join(lines, "\n")
	case CategoryResult:
		if len(r.Totals) == 0 {
			return noSpendingText
		}
		lines := make([]string, 0, len(r.Totals)+1)
		lines = append(lines, "Here is your spending by category:")
		for _, c := range r.Totals {
			lines = append(lines, fmt.Sprintf("• %s: %s", c.Name, c.Amount))
		}
		return strings.Join(lines, "\n")
	case UnknownResult:
		return HelpText
	default:
		return HelpText
	}
}

// Row is one transaction formatted for tabular export.
type Row struct {
	Date        string
	Description string
	Category    string
	Amount      string
	Kind        string
}

// Metric is one labelled summary figure.
type Metric struct {
	Name  string
	Value string
}

// Report is the flat, intent-independent export view of a ledger.
type Report struct {
	Metrics []Metric
	Rows    []Row
}

// Rows renders the export view: the three headline figures followed by every
// transaction in input order. Dates, amounts and kinds are formatted exactly
// as in Text.
func Rows(s Summary, txs []core.Transaction) Report {
	rep := Report{
		Metrics: []Metric{
			{Name: "Total Credited", Value: s.TotalCredited.String()},
			{Name: "Total Debited", Value: s.TotalDebited.String()},
			{Name: "Current Balance", Value: s.Balance.String()},
		},
		Rows: make([]Row, 0, len(txs)),
	}
	for _, tx := range txs {
		rep.Rows = append(rep.Rows, rowOf(tx))
	}
	return rep
}

func rowOf(tx core.Transaction) Row {
	return Row{
		Date:        tx.Date.String(),
		Description: tx.Description,
		Category:    tx.Category,
		Amount:      tx.Amount.String(),
		Kind:        tx.Kind.String(),
	}
}

package analytics

import (
	"testing"

	"moneybot/internal/core"
)

func tx(t *testing.T, date, desc, category, amount string, kind core.Kind) core.Transaction {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("date %q: %v", date, err)
	}
	m, err := core.ParseMoney(amount)
	if err != nil {
		t.Fatalf("amount %q: %v", amount, err)
	}
	return core.Transaction{Date: d, Description: desc, Category: category, Amount: m, Kind: kind}
}

// demoLedger mirrors the sample data shipped with the memory store.
func demoLedger(t *testing.T) []core.Transaction {
	t.Helper()
	return []core.Transaction{
		tx(t, "2023-12-01", "Apple Store", "Technology", "999.00", core.Debit),
		tx(t, "2023-12-02", "Salary Deposit", "Salary", "5000.00", core.Credit),
		tx(t, "2023-12-03", "Starbucks", "Food & Drink", "15.50", core.Debit),
		tx(t, "2023-12-05", "Monthly Rent", "Housing", "1200.00", core.Debit),
	}
}

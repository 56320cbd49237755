package store

import "moneybot/internal/core"

// DemoUserID owns the sample ledger.
const DemoUserID = "mock-user-id"

// DemoTransactions returns the sample ledger used for local development.
// IDs are left empty; the store assigns them on Create.
func DemoTransactions() []core.Transaction {
	mk := func(y, m, d int, desc, cat string, cents int64, kind core.Kind) core.Transaction {
		return core.Transaction{
			UserID:      DemoUserID,
			Date:        core.NewDate(y, m, d),
			Description: desc,
			Category:    cat,
			Amount:      core.Money{Cents: cents},
			Kind:        kind,
		}
	}
	return []core.Transaction{
		mk(2023, 12, 1, "Apple Store", "Technology", 99900, core.Debit),
		mk(2023, 12, 2, "Salary Deposit", "Salary", 500000, core.Credit),
		mk(2023, 12, 3, "Starbucks", "Food & Drink", 1550, core.Debit),
		mk(2023, 12, 5, "Monthly Rent", "Housing", 120000, core.Debit),
	}
}

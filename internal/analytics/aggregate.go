package analytics

import (
	"fmt"
	"slices"

	"moneybot/internal/core"
)

// Balance is the sum of credits minus the sum of debits, regardless of date.
func Balance(txs []core.Transaction) core.Money {
	var total core.Money
	for _, tx := range txs {
		total = total.Add(tx.Signed())
	}
	return total
}

// Total sums the amounts of one kind over the whole collection.
func Total(txs []core.Transaction, kind core.Kind) core.Money {
	var total core.Money
	for _, tx := range txs {
		if tx.Kind == kind {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// PeriodSum sums the amounts of one kind dated on or after since.
func PeriodSum(txs []core.Transaction, kind core.Kind, since core.Date) core.Money {
	var total core.Money
	for _, tx := range txs {
		if tx.Kind == kind && tx.Date.OnOrAfter(since) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// RecentN returns at most n transactions, newest first. Records sharing a
// date keep their input order. txs itself is left untouched.
func RecentN(txs []core.Transaction, n int) ([]core.Transaction, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative limit %d", ErrInvalidArgument, n)
	}
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b core.Transaction) int {
		return b.Date.Compare(a.Date.Time)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	if sorted == nil {
		sorted = []core.Transaction{}
	}
	return sorted, nil
}

// CategoryTotals sums debits per category, largest first. Equal totals keep
// the order in which their category was first seen. Credits never count.
func CategoryTotals(txs []core.Transaction) []core.CategoryAmount {
	index := make(map[string]int)
	totals := make([]core.CategoryAmount, 0)
	for _, tx := range txs {
		if tx.Kind != core.Debit {
			continue
		}
		i, seen := index[tx.Category]
		if !seen {
			i = len(totals)
			index[tx.Category] = i
			totals = append(totals, core.CategoryAmount{Name: tx.Category})
		}
		totals[i].Amount = totals[i].Amount.Add(tx.Amount)
	}
	slices.SortStableFunc(totals, func(a, b core.CategoryAmount) int {
		switch {
		case a.Amount.Cents > b.Amount.Cents:
			return -1
		case a.Amount.Cents < b.Amount.Cents:
			return 1
		default:
			return 0
		}
	})
	return totals
}

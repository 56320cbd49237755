// Package analytics answers free-text questions about a transaction ledger
// and computes the aggregate figures shared by the chat, summary and export
// surfaces.
//
// Every function here is a pure computation over the caller's slice: nothing
// is retained, mutated or fetched, so callers may share inputs freely
// across goroutines.
package analytics

import (
	"errors"
	"fmt"

	"moneybot/internal/core"
)

// RecentLimit is how many transactions the recency answer and summary hold.
const RecentLimit = 5

// ErrInvalidArgument reports a caller contract violation, such as a
// non-positive transaction amount or a negative limit.
var ErrInvalidArgument = errors.New("invalid argument")

// Summary is the full set of figures behind the summary endpoint and exports.
type Summary struct {
	ReferenceDate     core.Date
	MonthStart        core.Date
	Balance           core.Money
	TotalCredited     core.Money
	TotalDebited      core.Money
	CreditedThisMonth core.Money
	DebitedThisMonth  core.Money
	Categories        []core.CategoryAmount
	Recent            []core.Transaction
	TransactionCount  int
}

// Reply is a classified and rendered chat answer.
type Reply struct {
	Intent Intent
	Result Result
	Text   string
}

// MonthStart returns the first calendar day of ref's month.
func MonthStart(ref core.Date) core.Date {
	return core.NewDate(ref.Year(), int(ref.Month()), 1)
}

// Respond classifies query, computes the matching aggregate over txs and
// renders it as text.
func Respond(query string, txs []core.Transaction, ref core.Date) (Reply, error) {
	if err := checkRecords(txs); err != nil {
		return Reply{}, err
	}
	intent := Classify(query)
	res, err := Compute(intent, txs, ref)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Intent: intent, Result: res, Text: Text(res)}, nil
}

// AnswerQuery is Respond reduced to the reply text.
func AnswerQuery(query string, txs []core.Transaction, ref core.Date) (string, error) {
	reply, err := Respond(query, txs, ref)
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}

// Summarize computes every figure at once, with month-to-date sums anchored
// at MonthStart(ref).
func Summarize(txs []core.Transaction, ref core.Date) (Summary, error) {
	if err := checkRecords(txs); err != nil {
		return Summary{}, err
	}
	recent, err := RecentN(txs, RecentLimit)
	if err != nil {
		return Summary{}, err
	}
	since := MonthStart(ref)
	credited := Total(txs, core.Credit)
	debited := Total(txs, core.Debit)
	return Summary{
		ReferenceDate:     ref,
		MonthStart:        since,
		Balance:           credited.Sub(debited),
		TotalCredited:     credited,
		TotalDebited:      debited,
		CreditedThisMonth: PeriodSum(txs, core.Credit, since),
		DebitedThisMonth:  PeriodSum(txs, core.Debit, since),
		Categories:        CategoryTotals(txs),
		Recent:            recent,
		TransactionCount:  len(txs),
	}, nil
}

func checkRecords(txs []core.Transaction) error {
	for i, tx := range txs {
		if err := tx.Amount.Validate(); err != nil {
			return fmt.Errorf("%w: transaction %d: %w", ErrInvalidArgument, i, err)
		}
		if err := tx.Kind.Validate(); err != nil {
			return fmt.Errorf("%w: transaction %d: %w", ErrInvalidArgument, i, err)
		}
	}
	return nil
}

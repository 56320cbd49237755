package analytics

import "moneybot/internal/core"

// Result carries exactly what is needed to render one intent's answer.
// The set of implementations is closed to this package.
type Result interface {
	Intent() Intent
	isResult()
}

type (
	BalanceResult struct {
		Balance core.Money
	}

	CreditedResult struct {
		Total core.Money
		Since core.Date
	}

	DebitedResult struct {
		Total core.Money
		Since core.Date
	}

	RecentResult struct {
		Transactions []core.Transaction
	}

	CategoryResult struct {
		Totals []core.CategoryAmount
	}

	UnknownResult struct{}
)

func (BalanceResult) Intent() Intent  { return IntentBalance }
func (CreditedResult) Intent() Intent { return IntentCreditedThisMonth }
func (DebitedResult) Intent() Intent  { return IntentDebitedThisMonth }
func (RecentResult) Intent() Intent   { return IntentRecentTransactions }
func (CategoryResult) Intent() Intent { return IntentSpendingByCategory }
func (UnknownResult) Intent() Intent  { return IntentUnknown }

func (BalanceResult) isResult()  {}
func (CreditedResult) isResult() {}
func (DebitedResult) isResult()  {}
func (RecentResult) isResult()   {}
func (CategoryResult) isResult() {}
func (UnknownResult) isResult()  {}

// Compute builds the result for intent. Month-to-date figures start at
// MonthStart(ref).
func Compute(intent Intent, txs []core.Transaction, ref core.Date) (Result, error) {
	switch intent {
	case IntentBalance:
		return BalanceResult{Balance: Balance(txs)}, nil
	case IntentCreditedThisMonth:
		since := MonthStart(ref)
		return CreditedResult{Total: PeriodSum(txs, core.Credit, since), Since: since}, nil
	case IntentDebitedThisMonth:
		since := MonthStart(ref)
		return DebitedResult{Total: PeriodSum(txs, core.Debit, since), Since: since}, nil
	case IntentRecentTransactions:
		recent, err := RecentN(txs, RecentLimit)
		if err != nil {
			return nil, err
		}
		return RecentResult{Transactions: recent}, nil
	case IntentSpendingByCategory:
		return CategoryResult{Totals: CategoryTotals(txs)}, nil
	default:
		return UnknownResult{}, nil
	}
}

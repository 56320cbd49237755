package analytics

import (
	"slices"
	"strings"
)

// Intent is the classified purpose of a free-text query.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentBalance
	IntentCreditedThisMonth
	IntentDebitedThisMonth
	IntentRecentTransactions
	IntentSpendingByCategory
)

func (i Intent) String() string {
	switch i {
	case IntentBalance:
		return "balance"
	case IntentCreditedThisMonth:
		return "credited_this_month"
	case IntentDebitedThisMonth:
		return "debited_this_month"
	case IntentRecentTransactions:
		return "recent_transactions"
	case IntentSpendingByCategory:
		return "spending_by_category"
	default:
		return "unknown"
	}
}

// Rule maps a lower-cased query to an intent when Match reports true.
type Rule struct {
	Intent Intent
	Match  func(query string) bool
}

// Classifier evaluates its rules in order; the first match wins and later
// rules are never consulted.
type Classifier []Rule

// Classify lower-cases the query and returns the intent of the first
// matching rule, or IntentUnknown.
func (c Classifier) Classify(query string) Intent {
	q := strings.ToLower(query)
	for _, r := range c {
		if r.Match(q) {
			return r.Intent
		}
	}
	return IntentUnknown
}

// Order matters: "balance this month" must resolve to IntentBalance, not a monthly intent.
var defaultRules = Classifier{
	{IntentBalance, containsAny("balance", "how much money")},
	{IntentCreditedThisMonth, allOf(containsAny("this month"), containsAny("credited", "income", "received"))},
	{IntentDebitedThisMonth, allOf(containsAny("this month"), containsAny("debited", "spent", "expenses"))},
	{IntentRecentTransactions, allOf(containsAny("transaction"), containsAny("last 5", "recent", "latest"))},
	{IntentSpendingByCategory, containsAny("category", "spending by")},
}

// Rules returns a copy of the built-in rule table in priority order.
func Rules() Classifier {
	return slices.Clone(defaultRules)
}

// Classify runs the built-in rule table.
func Classify(query string) Intent {
	return defaultRules.Classify(query)
}

func containsAny(keywords ...string) func(string) bool {
	return func(q string) bool {
		for _, kw := range keywords {
			if strings.Contains(q, kw) {
				return true
			}
		}
		return false
	}
}

func allOf(preds ...func(string) bool) func(string) bool {
	return func(q string) bool {
		for _, p := range preds {
			if !p(q) {
				return false
			}
		}
		return true
	}
}

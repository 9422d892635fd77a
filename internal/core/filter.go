package core

import (
	"strings"
	"time"
)

// AccountAll disables account filtering.
const AccountAll = "all"

// Filter is the closed set of recognized query options. The zero value of
// each field imposes no constraint; set fields compose with logical AND.
// Unknown options cannot exist by construction.
type Filter struct {
	// Kind matches the transaction kind exactly.
	Kind string
	// FromDate is an inclusive lower bound on the transaction date.
	FromDate time.Time
	// ToDate is an inclusive upper bound on the transaction date.
	ToDate time.Time
	// Account selects one account: empty or "all" disables the predicate,
	// any other value matches the transaction's currency exactly (the data
	// model carries one account per currency).
	Account string
	// Beneficiary is a case-sensitive substring match on the beneficiary
	// name.
	Beneficiary string
}

// IsZero reports whether the filter imposes no constraint at all.
func (f Filter) IsZero() bool {
	return f.Kind == "" && f.FromDate.IsZero() && f.ToDate.IsZero() &&
		(f.Account == "" || f.Account == AccountAll) && f.Beneficiary == ""
}

// Matches reports whether one transaction satisfies every set option.
func (f Filter) Matches(t Transaction) bool {
	if f.Kind != "" && t.Kind != f.Kind {
		return false
	}
	if !f.FromDate.IsZero() && t.Date.Before(f.FromDate) {
		return false
	}
	if !f.ToDate.IsZero() && t.Date.After(f.ToDate) {
		return false
	}
	if f.Account != "" && f.Account != AccountAll && t.Currency != f.Account {
		return false
	}
	if f.Beneficiary != "" && !strings.Contains(t.BeneficiaryName, f.Beneficiary) {
		return false
	}
	return true
}

// FilterTransactions returns the transactions matching the filter, preserving
// their relative order. It must always be applied to the entire cache, never
// to an already paginated subset.
func FilterTransactions(transactions []Transaction, f Filter) []Transaction {
	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

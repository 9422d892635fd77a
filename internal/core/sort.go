package core

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// catcodeCollator provides the locale-aware ordering used for the catcode
// tie-break. Und keeps the comparison locale-neutral but still
// Unicode-correct, which is what the browser's localeCompare defaulted to.
var catcodeCollator = collate.New(language.Und)

// CompareTransactions implements the canonical total order: date descending,
// then catcode ascending. A transaction without a catcode sorts after any
// transaction that has one; two transactions without one compare equal, so a
// stable sort preserves their input order.
func CompareTransactions(a, b Transaction) int {
	switch {
	case a.Date.After(b.Date):
		return -1
	case b.Date.After(a.Date):
		return 1
	}
	switch {
	case !a.HasCategory() && b.HasCategory():
		return 1
	case a.HasCategory() && !b.HasCategory():
		return -1
	case !a.HasCategory() && !b.HasCategory():
		return 0
	}
	return catcodeCollator.CompareString(a.CatCode, b.CatCode)
}

// SortTransactions returns a new slice holding the transactions in canonical
// order. The input is not modified. The same ordering is applied to every
// query path so pagination boundaries never depend on where the data came
// from.
func SortTransactions(transactions []Transaction) []Transaction {
	sorted := make([]Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return CompareTransactions(sorted[i], sorted[j]) < 0
	})
	return sorted
}

package core

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func txn(id string, date time.Time, catcode string) Transaction {
	return Transaction{ID: id, Date: date, CatCode: catcode, Amount: Money{Cents: 100}}
}

func ids(ts []Transaction) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortTransactionsOrder(t *testing.T) {
	input := []Transaction{
		txn("old", day(1), "b"),
		txn("newest-none", day(10), ""),
		txn("newest-b", day(10), "b"),
		txn("newest-a", day(10), "a"),
		txn("mid", day(5), ""),
	}

	got := SortTransactions(input)
	want := []string{"newest-a", "newest-b", "newest-none", "mid", "old"}
	if !equalIDs(ids(got), want) {
		t.Errorf("sorted order = %v, want %v", ids(got), want)
	}
}

func TestSortTransactionsIdempotent(t *testing.T) {
	input := []Transaction{
		txn("c", day(3), "z"),
		txn("a", day(3), "a"),
		txn("b", day(7), ""),
	}

	once := SortTransactions(input)
	twice := SortTransactions(once)
	if !equalIDs(ids(once), ids(twice)) {
		t.Errorf("sort not idempotent: %v then %v", ids(once), ids(twice))
	}
}

func TestSortTransactionsMissingCatcodeStable(t *testing.T) {
	// Two transactions on the same date, both without a catcode, keep their
	// relative input order.
	input := []Transaction{
		txn("first", day(4), ""),
		txn("second", day(4), ""),
	}

	got := SortTransactions(input)
	if !equalIDs(ids(got), []string{"first", "second"}) {
		t.Errorf("stable order lost: %v", ids(got))
	}
}

func TestSortTransactionsDoesNotMutateInput(t *testing.T) {
	input := []Transaction{
		txn("b", day(1), ""),
		txn("a", day(9), ""),
	}

	_ = SortTransactions(input)
	if input[0].ID != "b" || input[1].ID != "a" {
		t.Errorf("input mutated: %v", ids(input))
	}
}

func TestCompareTransactionsTieBreak(t *testing.T) {
	tests := []struct {
		name string
		a, b Transaction
		want int
	}{
		{"later date first", txn("a", day(9), ""), txn("b", day(1), ""), -1},
		{"defined catcode precedes missing", txn("a", day(2), "x"), txn("b", day(2), ""), -1},
		{"missing catcode after defined", txn("a", day(2), ""), txn("b", day(2), "x"), 1},
		{"both missing equal", txn("a", day(2), ""), txn("b", day(2), ""), 0},
		{"lexicographically smaller code first", txn("a", day(2), "aaa"), txn("b", day(2), "bbb"), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareTransactions(tt.a, tt.b)
			switch {
			case tt.want < 0 && got >= 0, tt.want > 0 && got <= 0, tt.want == 0 && got != 0:
				t.Errorf("CompareTransactions = %d, want sign of %d", got, tt.want)
			}
		})
	}
}

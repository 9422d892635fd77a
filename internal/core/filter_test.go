package core

import (
	"testing"
	"time"
)

func sampleTransactions() []Transaction {
	return []Transaction{
		{ID: "t1", BeneficiaryName: "Acme Markets", Date: day(1), Kind: "pmt", Currency: "EUR"},
		{ID: "t2", BeneficiaryName: "Payroll Inc", Date: day(5), Kind: "dep", Currency: "EUR"},
		{ID: "t3", BeneficiaryName: "Acme Fuel", Date: day(10), Kind: "pmt", Currency: "USD"},
		{ID: "t4", BeneficiaryName: "Bank", Date: day(15), Kind: "fee", Currency: "EUR"},
	}
}

func TestFilterEmptySpecReturnsAll(t *testing.T) {
	all := sampleTransactions()
	got := FilterTransactions(all, Filter{})
	if !equalIDs(ids(got), ids(all)) {
		t.Errorf("empty filter changed the collection: %v", ids(got))
	}
}

func TestFilterOptions(t *testing.T) {
	all := sampleTransactions()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"kind exact match", Filter{Kind: "pmt"}, []string{"t1", "t3"}},
		{"from date inclusive", Filter{FromDate: day(5)}, []string{"t2", "t3", "t4"}},
		{"to date inclusive", Filter{ToDate: day(5)}, []string{"t1", "t2"}},
		{"date range", Filter{FromDate: day(5), ToDate: day(10)}, []string{"t2", "t3"}},
		{"account all is no-op", Filter{Account: AccountAll}, []string{"t1", "t2", "t3", "t4"}},
		{"account exact match", Filter{Account: "USD"}, []string{"t3"}},
		{"beneficiary substring", Filter{Beneficiary: "Acme"}, []string{"t1", "t3"}},
		{"beneficiary case sensitive", Filter{Beneficiary: "acme"}, []string{}},
		{"composed with AND", Filter{Kind: "pmt", Beneficiary: "Fuel"}, []string{"t3"}},
		{"contradiction matches nothing", Filter{Kind: "pmt", ToDate: day(0)}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterTransactions(all, tt.filter)
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("filter %+v = %v, want %v", tt.filter, ids(got), tt.want)
			}
		})
	}
}

func TestFilterPreservesRelativeOrder(t *testing.T) {
	all := []Transaction{
		{ID: "a", Kind: "pmt", Date: day(3)},
		{ID: "b", Kind: "dep", Date: day(2)},
		{ID: "c", Kind: "pmt", Date: day(1)},
	}
	got := FilterTransactions(all, Filter{Kind: "pmt"})
	if !equalIDs(ids(got), []string{"a", "c"}) {
		t.Errorf("relative order lost: %v", ids(got))
	}
}

func TestFilterIsZero(t *testing.T) {
	if !(Filter{}).IsZero() {
		t.Error("zero filter should report IsZero")
	}
	if !(Filter{Account: AccountAll}).IsZero() {
		t.Error("account=all should report IsZero")
	}
	if (Filter{Kind: "pmt"}).IsZero() {
		t.Error("kind filter should not report IsZero")
	}
	if (Filter{FromDate: time.Now()}).IsZero() {
		t.Error("date filter should not report IsZero")
	}
}

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"movimenti/internal/core"
)

func newTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "movimenti.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleCollection() []core.Transaction {
	return []core.Transaction{
		{
			ID:              "tx-1",
			BeneficiaryName: "Acme Markets",
			Date:            time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			Direction:       core.Debit,
			Amount:          core.Money{Cents: 15000},
			Description:     "groceries",
			Currency:        "EUR",
			MCC:             5411,
			Kind:            "pmt",
			CatCode:         "food",
			Splits: []core.Split{
				{CatCode: "food", Amount: core.Money{Cents: 10000}},
				{CatCode: "home", Amount: core.Money{Cents: 5000}},
			},
		},
		{
			ID:              "tx-2",
			BeneficiaryName: "Payroll Inc",
			Date:            time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC),
			Direction:       core.Credit,
			Amount:          core.Money{Cents: 250000},
			Currency:        "EUR",
			Kind:            "dep",
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	original := sampleCollection()

	if err := store.SaveTransactions(ctx, original); err != nil {
		t.Fatalf("SaveTransactions: %v", err)
	}

	loaded, err := store.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("LoadTransactions: %v", err)
	}
	if len(loaded) != len(original) {
		t.Fatalf("loaded %d transactions, want %d", len(loaded), len(original))
	}
	for i := range original {
		got, want := loaded[i], original[i]
		if got.ID != want.ID ||
			got.BeneficiaryName != want.BeneficiaryName ||
			!got.Date.Equal(want.Date) ||
			got.Direction != want.Direction ||
			got.Amount != want.Amount ||
			got.Description != want.Description ||
			got.Currency != want.Currency ||
			got.MCC != want.MCC ||
			got.Kind != want.Kind ||
			got.CatCode != want.CatCode ||
			len(got.Splits) != len(want.Splits) {
			t.Errorf("transaction %d mismatch:\n got %+v\nwant %+v", i, got, want)
		}
	}
}

func TestLoadEmptyCache(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.LoadTransactions(context.Background())
	if err != nil {
		t.Fatalf("LoadTransactions on empty cache: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("empty cache returned %d transactions", len(loaded))
	}
}

func TestSaveReplacesWholesale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveTransactions(ctx, sampleCollection()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	replacement := []core.Transaction{{ID: "only", Kind: "fee", Amount: core.Money{Cents: 100}}}
	if err := store.SaveTransactions(ctx, replacement); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := store.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("LoadTransactions: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "only" {
		t.Errorf("snapshot not replaced wholesale: %+v", loaded)
	}
}

func TestDerivedCategoriesNeverPersisted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cat := &core.Category{Code: "food", Name: "Food"}
	withDerived := []core.Transaction{{
		ID:       "tx-1",
		CatCode:  "food",
		Amount:   core.Money{Cents: 100},
		Category: cat,
		Splits:   []core.Split{{CatCode: "food", Amount: core.Money{Cents: 100}, Category: cat}},
	}}

	if err := store.SaveTransactions(ctx, withDerived); err != nil {
		t.Fatalf("SaveTransactions: %v", err)
	}
	loaded, err := store.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("LoadTransactions: %v", err)
	}
	if loaded[0].Category != nil || loaded[0].Splits[0].Category != nil {
		t.Error("derived category fields must not survive persistence")
	}
	if loaded[0].CatCode != "food" {
		t.Error("authoritative catcode lost")
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveTransactions(ctx, sampleCollection()); err != nil {
		t.Fatalf("SaveTransactions: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	loaded, err := store.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("LoadTransactions: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("cache not cleared: %+v", loaded)
	}
}

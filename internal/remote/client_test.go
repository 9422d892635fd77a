package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"movimenti/internal/core"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.Client(), srv.URL, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestFetchCategories(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categories" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"code":"food","name":"Food"},
			{"code":"food.rest","name":"Restaurants","parent-code":"food"}
		]}`))
	}))

	cats, err := client.FetchCategories(context.Background())
	if err != nil {
		t.Fatalf("FetchCategories: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("got %d categories, want 2", len(cats))
	}
	if cats[1].ParentCode != "food" {
		t.Errorf("parent-code not decoded: %+v", cats[1])
	}
}

func TestFetchTransactionsError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.FetchTransactions(context.Background())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", fetchErr.Status)
	}
}

func TestCategorize(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.Categorize(context.Background(), "tx-9", "food"); err != nil {
		t.Fatalf("Categorize: %v", err)
	}
	if gotPath != "/transaction/tx-9/categorize" {
		t.Errorf("path = %s", gotPath)
	}
	if gotBody["catcode"] != "food" {
		t.Errorf("body = %v, want catcode food", gotBody)
	}
}

func TestSplitWriteError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))

	err := client.Split(context.Background(), "tx-9", []core.Split{
		{CatCode: "food", Amount: core.Money{Cents: 100}},
	})
	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected WriteError, got %v", err)
	}
	if writeErr.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", writeErr.Status)
	}
}

func TestSplitRequestBody(t *testing.T) {
	var got struct {
		Splits []core.Split `json:"splits"`
	}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))

	splits := []core.Split{
		{CatCode: "a", Amount: core.Money{Cents: 10000}},
		{CatCode: "b", Amount: core.Money{Cents: 5000}},
	}
	if err := client.Split(context.Background(), "tx-1", splits); err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(got.Splits) != 2 || got.Splits[0].Amount.Cents != 10000 {
		t.Errorf("splits body = %+v", got.Splits)
	}
}

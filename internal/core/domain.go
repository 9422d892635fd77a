package core

import (
	"errors"
	"strings"
	"time"
)

// Transaction directions as they appear on the wire.
const (
	Debit  Direction = "d"
	Credit Direction = "c"
)

type (
	Direction string

	// Category is one node of the taxonomy. A category with an empty
	// ParentCode is a main category; otherwise ParentCode references a main
	// category's code. Codes are unique across the whole taxonomy.
	Category struct {
		Code       string `json:"code"`
		Name       string `json:"name"`
		ParentCode string `json:"parent-code,omitempty"`
	}

	// Transaction is one bank transaction as ingested from the remote
	// system. CatCode is the authoritative category assignment; Category is
	// derived from it on every read and is never persisted.
	Transaction struct {
		ID              string    `json:"id"`
		BeneficiaryName string    `json:"beneficiary-name"`
		Date            time.Time `json:"date"`
		Direction       Direction `json:"direction"`
		Amount          Money     `json:"amount"`
		Description     string    `json:"description"`
		Currency        string    `json:"currency"`
		MCC             int       `json:"mcc,omitempty"`
		Kind            string    `json:"kind"`
		CatCode         string    `json:"catcode,omitempty"`
		Category        *Category `json:"category,omitempty"`
		Splits          []Split   `json:"splits,omitempty"`
	}

	// Split assigns part of a transaction's amount to one category.
	Split struct {
		CatCode  string    `json:"catcode"`
		Amount   Money     `json:"amount"`
		Category *Category `json:"category,omitempty"`
	}

	// QueryResult is the derived view answering one page query. It is never
	// persisted. The envelope field names match the remote service contract.
	QueryResult struct {
		Items      []Transaction `json:"items"`
		TotalCount int           `json:"total-count"`
		Page       int           `json:"page"`
		PageSize   int           `json:"page-size"`
		SortBy     string        `json:"sort-by"`
		SortOrder  string        `json:"sort-order"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidPageSize = errors.New("invalid page size")
	ErrIncompleteSplit = errors.New("incomplete split")
	ErrAmountMismatch  = errors.New("split amounts do not match transaction amount")
	ErrNotFound        = errors.New("transaction not found")
)

// IsMain reports whether the category is a main category.
func (c Category) IsMain() bool {
	return strings.TrimSpace(c.ParentCode) == ""
}

// HasCategory reports whether a category code has been assigned.
func (t Transaction) HasCategory() bool {
	return t.CatCode != ""
}

// WithoutDerived returns a copy of the transaction with all derived category
// views cleared. The persistence layer stores only what this returns, so the
// resolved Category fields can never diverge from CatCode on disk.
func (t Transaction) WithoutDerived() Transaction {
	t.Category = nil
	if len(t.Splits) > 0 {
		splits := make([]Split, len(t.Splits))
		for i, s := range t.Splits {
			s.Category = nil
			splits[i] = s
		}
		t.Splits = splits
	}
	return t
}

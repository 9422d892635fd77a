package services

import (
	"context"

	"movimenti/internal/core"
)

// Ports for the engine's collaborators. The remote client and the SQLite
// snapshot store satisfy these; tests substitute in-memory fakes.
type (
	// CategoryFetcher reads the category taxonomy from the remote system.
	CategoryFetcher interface {
		FetchCategories(ctx context.Context) ([]core.Category, error)
	}

	// TransactionGateway is the remote side of the transaction cache: a
	// cold-start seed source and a fire-and-forget write target.
	TransactionGateway interface {
		FetchTransactions(ctx context.Context) ([]core.Transaction, error)
		Categorize(ctx context.Context, transactionID, catcode string) error
		Split(ctx context.Context, transactionID string, splits []core.Split) error
	}

	// TransactionSnapshots is the durable local cache, read and written
	// wholesale.
	TransactionSnapshots interface {
		LoadTransactions(ctx context.Context) ([]core.Transaction, error)
		SaveTransactions(ctx context.Context, transactions []core.Transaction) error
	}

	// CategoryResolver turns a catcode into its category, if known.
	CategoryResolver interface {
		Resolve(code string) (core.Category, bool)
	}
)

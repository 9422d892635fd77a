// Package storage owns the durable local transaction cache. The whole
// collection is serialized under a single fixed key and read or written
// wholesale on every mutation; there is no partial update API. That mirrors
// the storage contract the engine was specified against and keeps round-trips
// trivially field-exact.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"movimenti/internal/core"
	"movimenti/internal/log"

	_ "modernc.org/sqlite"
)

const transactionsKey = "transactions"

// SnapshotStore persists whole transaction collections in SQLite.
type SnapshotStore struct {
	db     *sql.DB
	logger *log.Logger
}

// Open opens (creating if needed) the database at dbPath and runs migrations.
func Open(dbPath string, logger *log.Logger) (*SnapshotStore, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentStorage)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SnapshotStore{db: db, logger: logger}, nil
}

func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadTransactions reads the cached collection. An absent snapshot is an
// empty cache, not an error.
func (s *SnapshotStore) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM snapshots WHERE key = ?`, transactionsKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var transactions []core.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	s.logger.DebugContext(ctx, "Loaded transaction snapshot",
		log.FieldOperation, log.OpPersist,
		log.FieldCount, len(transactions))
	return transactions, nil
}

// SaveTransactions replaces the cached collection wholesale. Derived category
// views are stripped so only CatCode ever reaches disk.
func (s *SnapshotStore) SaveTransactions(ctx context.Context, transactions []core.Transaction) error {
	bare := make([]core.Transaction, len(transactions))
	for i, t := range transactions {
		bare[i] = t.WithoutDerived()
	}

	data, err := json.Marshal(bare)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		transactionsKey, data)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	s.logger.DebugContext(ctx, "Saved transaction snapshot",
		log.FieldOperation, log.OpPersist,
		log.FieldCount, len(bare))
	return nil
}

// Clear destroys the cached collection. No engine operation calls this; it
// exists for explicit external resets only.
func (s *SnapshotStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE key = ?`, transactionsKey); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	s.logger.InfoContext(ctx, "Transaction snapshot cleared")
	return nil
}

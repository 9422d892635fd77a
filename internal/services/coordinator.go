package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"movimenti/internal/core"
	"movimenti/internal/log"
)

// Coordinator drives the categorization workflows on top of the two stores:
// single-transaction categorization, bulk categorization over a selection,
// and split assignment. It owns the bulk selection set; the stores stay
// unaware of it. One instance is shared across concurrent request handlers,
// so the selection state sits behind its own mutex.
type Coordinator struct {
	transactions *TransactionStore
	categories   *CategoryStore
	logger       *log.Logger

	mu        sync.Mutex
	selection []string
	selected  map[string]bool
}

func NewCoordinator(transactions *TransactionStore, categories *CategoryStore, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Coordinator{
		transactions: transactions,
		categories:   categories,
		logger:       logger.WithComponent(log.ComponentCoordinator),
		selected:     map[string]bool{},
	}
}

// ToggleSelection adds the transaction to the bulk selection, or removes it
// when already present. Selection order is first-toggled first.
func (c *Coordinator) ToggleSelection(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selected[id] {
		delete(c.selected, id)
		for i, sel := range c.selection {
			if sel == id {
				c.selection = append(c.selection[:i], c.selection[i+1:]...)
				break
			}
		}
		return
	}
	c.selected[id] = true
	c.selection = append(c.selection, id)
}

// Selection returns the ids currently selected for bulk categorization.
func (c *Coordinator) Selection() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.selection...)
}

// IsSelected reports whether the transaction is in the bulk selection.
func (c *Coordinator) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected[id]
}

// ClearSelection empties the bulk selection.
func (c *Coordinator) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearSelectionLocked()
}

func (c *Coordinator) clearSelectionLocked() {
	c.selection = nil
	c.selected = map[string]bool{}
}

// OpenSingle starts a categorization session for one transaction, pre-seeded
// from its current category assignment.
func (c *Coordinator) OpenSingle(id string) (*CategorySession, error) {
	t, err := c.transactions.Get(id)
	if err != nil {
		return nil, err
	}
	return newCategorySession(c, []string{id}, t.CatCode, false), nil
}

// OpenBulk starts a categorization session covering the whole current
// selection. The session opens blank: a shared pre-seed would be arbitrary
// when the selected transactions disagree.
func (c *Coordinator) OpenBulk() (*CategorySession, error) {
	targets := c.Selection()
	if len(targets) == 0 {
		return nil, errors.New("bulk categorization requires a non-empty selection")
	}
	return newCategorySession(c, targets, "", true), nil
}

// OpenSplit starts a split session for one transaction.
func (c *Coordinator) OpenSplit(id string) (*SplitSession, error) {
	t, err := c.transactions.Get(id)
	if err != nil {
		return nil, err
	}
	return newSplitSession(c, t), nil
}

// applyCategory commits the session's category to every target transaction.
// A target that disappeared from the cache is skipped, the rest still
// commit. A bulk apply clears the selection afterwards regardless of how
// many targets it covered.
func (c *Coordinator) applyCategory(ctx context.Context, ids []string, catcode string, bulk bool) ([]*MutationResult, error) {
	var results []*MutationResult
	var firstErr error
	for _, id := range ids {
		res, err := c.transactions.Categorize(ctx, id, catcode)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				c.logger.WarnContext(ctx, "Skipping vanished transaction",
					log.FieldOperation, log.OpCategorize,
					log.FieldTransactionID, id)
				continue
			}
			if firstErr == nil {
				firstErr = fmt.Errorf("categorize %s: %w", id, err)
			}
			continue
		}
		results = append(results, res)
	}

	if bulk {
		c.ClearSelection()
	}
	return results, firstErr
}

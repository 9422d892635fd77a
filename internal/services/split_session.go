package services

import (
	"context"

	"movimenti/internal/core"
)

// SplitRow is one editable line of a split dialog: a two-level category
// selection plus an amount.
type SplitRow struct {
	Main   string
	Sub    string
	Amount core.Money
}

func (r SplitRow) catcode() string {
	if r.Sub != "" {
		return r.Sub
	}
	return r.Main
}

// SplitSession is one open split dialog for a single transaction. Rows are
// edited freely; Apply is gated on the rows forming a complete split whose
// amounts sum exactly to the transaction amount.
type SplitSession struct {
	coordinator *Coordinator
	transaction core.Transaction
	rows        []SplitRow
}

// newSplitSession opens with two empty rows, the minimum meaningful split.
func newSplitSession(c *Coordinator, t core.Transaction) *SplitSession {
	return &SplitSession{
		coordinator: c,
		transaction: t,
		rows:        make([]SplitRow, 2),
	}
}

// Transaction returns the transaction being split.
func (s *SplitSession) Transaction() core.Transaction {
	return s.transaction
}

// Rows returns the current rows.
func (s *SplitSession) Rows() []SplitRow {
	return append([]SplitRow(nil), s.rows...)
}

// AddRow appends an empty row.
func (s *SplitSession) AddRow() {
	s.rows = append(s.rows, SplitRow{})
}

// RemoveRow deletes the row at index. The last remaining row cannot be
// removed.
func (s *SplitSession) RemoveRow(index int) {
	if index < 0 || index >= len(s.rows) || len(s.rows) == 1 {
		return
	}
	s.rows = append(s.rows[:index], s.rows[index+1:]...)
}

// SetRowMain switches a row's main category, resetting its sub selection
// when it no longer belongs.
func (s *SplitSession) SetRowMain(index int, code string) {
	if index < 0 || index >= len(s.rows) {
		return
	}
	s.rows[index].Main = code
	if s.rows[index].Sub == "" {
		return
	}
	sub, ok := s.coordinator.categories.Resolve(s.rows[index].Sub)
	if !ok || sub.ParentCode != code {
		s.rows[index].Sub = ""
	}
}

// SetRowSub switches a row's sub category.
func (s *SplitSession) SetRowSub(index int, code string) {
	if index < 0 || index >= len(s.rows) {
		return
	}
	s.rows[index].Sub = code
}

// SetRowAmount sets a row's amount.
func (s *SplitSession) SetRowAmount(index int, amount core.Money) {
	if index < 0 || index >= len(s.rows) {
		return
	}
	s.rows[index].Amount = amount
}

// Total sums the row amounts.
func (s *SplitSession) Total() core.Money {
	total := core.Money{}
	for _, r := range s.rows {
		total = total.Add(r.Amount)
	}
	return total
}

// Splits materializes the rows as split entries.
func (s *SplitSession) Splits() []core.Split {
	out := make([]core.Split, len(s.rows))
	for i, r := range s.rows {
		out[i] = core.Split{CatCode: r.catcode(), Amount: r.Amount}
	}
	return out
}

// Validate checks the rows against the transaction amount, with the same
// rules Apply enforces.
func (s *SplitSession) Validate() error {
	return core.ValidateSplits(s.Splits(), s.transaction.Amount)
}

// CanApply reports whether the current rows form a committable split.
func (s *SplitSession) CanApply() bool {
	return s.Validate() == nil
}

// Apply commits the split to the transaction store.
func (s *SplitSession) Apply(ctx context.Context) (*MutationResult, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s.coordinator.transactions.ApplySplits(ctx, s.transaction.ID, s.Splits())
}

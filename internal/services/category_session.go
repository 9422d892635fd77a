package services

import (
	"context"
	"errors"

	"movimenti/internal/core"
)

// CategorySession is one open categorization dialog. It holds a main and an
// optional sub selection against the taxonomy; the effective assignment is
// the sub code when one is selected, the main code otherwise.
type CategorySession struct {
	coordinator *Coordinator
	targets     []string
	bulk        bool

	selectedMain string
	selectedSub  string
}

// newCategorySession pre-seeds the selection from an existing catcode. A sub
// code seeds both levels through its parent; a main code seeds only the top
// level; an unknown or empty code opens the session blank.
func newCategorySession(c *Coordinator, targets []string, catcode string, bulk bool) *CategorySession {
	s := &CategorySession{coordinator: c, targets: targets, bulk: bulk}
	if catcode == "" {
		return s
	}

	cat, ok := c.categories.Resolve(catcode)
	if !ok {
		return s
	}
	if cat.IsMain() {
		s.selectedMain = cat.Code
	} else {
		s.selectedMain = cat.ParentCode
		s.selectedSub = cat.Code
	}
	return s
}

// Targets returns the transaction ids this session will categorize.
func (s *CategorySession) Targets() []string {
	return append([]string(nil), s.targets...)
}

// MainCategories lists the selectable top-level categories.
func (s *CategorySession) MainCategories() []core.Category {
	return s.coordinator.categories.MainCategories()
}

// SubCategories lists the children of the currently selected main category.
func (s *CategorySession) SubCategories() []core.Category {
	if s.selectedMain == "" {
		return nil
	}
	return s.coordinator.categories.SubCategoriesOf(s.selectedMain)
}

// SelectMain switches the main category. The sub selection survives only
// when it still belongs to the new main.
func (s *CategorySession) SelectMain(code string) {
	s.selectedMain = code
	if s.selectedSub == "" {
		return
	}
	sub, ok := s.coordinator.categories.Resolve(s.selectedSub)
	if !ok || sub.ParentCode != code {
		s.selectedSub = ""
	}
}

// SelectSub switches the sub category. An empty code clears the sub level
// and falls back to the main category as the effective assignment.
func (s *CategorySession) SelectSub(code string) {
	s.selectedSub = code
}

func (s *CategorySession) SelectedMain() string { return s.selectedMain }
func (s *CategorySession) SelectedSub() string  { return s.selectedSub }

// EffectiveCatCode is the code that Confirm will assign.
func (s *CategorySession) EffectiveCatCode() string {
	if s.selectedSub != "" {
		return s.selectedSub
	}
	return s.selectedMain
}

// CanConfirm reports whether the session has a committable selection.
func (s *CategorySession) CanConfirm() bool {
	return s.selectedMain != ""
}

// Confirm assigns the effective category to every target transaction and,
// for a bulk session, clears the coordinator's selection.
func (s *CategorySession) Confirm(ctx context.Context) ([]*MutationResult, error) {
	if !s.CanConfirm() {
		return nil, errors.New("no category selected")
	}
	return s.coordinator.applyCategory(ctx, s.targets, s.EffectiveCatCode(), s.bulk)
}

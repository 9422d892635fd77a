package core

import (
	"fmt"
	"strings"
)

// ValidateSplits checks a proposed set of splits against the transaction
// amount. It is pure and synchronous so the workflows can gate submission on
// it and tests can call it standalone.
//
// A request with zero splits is always invalid. Every split needs a category
// selection and a strictly positive amount (ErrIncompleteSplit), and the
// amounts must reconcile to the target exactly, cent for cent
// (ErrAmountMismatch).
func ValidateSplits(splits []Split, target Money) error {
	if len(splits) == 0 {
		return fmt.Errorf("%w: no splits given", ErrIncompleteSplit)
	}

	var sum Money
	for i, s := range splits {
		if strings.TrimSpace(s.CatCode) == "" {
			return fmt.Errorf("%w: split %d has no category", ErrIncompleteSplit, i+1)
		}
		if !s.Amount.IsPositive() {
			return fmt.Errorf("%w: split %d has non-positive amount %s", ErrIncompleteSplit, i+1, s.Amount)
		}
		sum = sum.Add(s.Amount)
	}

	if sum != target {
		return fmt.Errorf("%w: splits total %s, transaction amount %s", ErrAmountMismatch, sum, target)
	}
	return nil
}

// SumSplits returns the exact total of the split amounts.
func SumSplits(splits []Split) Money {
	var sum Money
	for _, s := range splits {
		sum = sum.Add(s.Amount)
	}
	return sum
}

package core

import "fmt"

// TotalPages returns ceil(totalItems / pageSize). A non-positive page size is
// an error; a non-positive item count yields zero pages.
func TotalPages(totalItems, pageSize int) (int, error) {
	if pageSize <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}
	if totalItems <= 0 {
		return 0, nil
	}
	return (totalItems + pageSize - 1) / pageSize, nil
}

// PageBounds returns the half-open slice range [start, end) selecting the
// given 1-based page out of totalItems. Pages outside the collection yield an
// empty range; the caller keeps reporting the full totalItems alongside it.
func PageBounds(page, pageSize, totalItems int) (start, end int, err error) {
	if pageSize <= 0 {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}
	if page < 1 {
		return 0, 0, nil
	}
	start = (page - 1) * pageSize
	if start >= totalItems {
		return 0, 0, nil
	}
	end = start + pageSize
	if end > totalItems {
		end = totalItems
	}
	return start, end, nil
}

// Paginate slices one page out of an already filtered and sorted sequence.
func Paginate(transactions []Transaction, page, pageSize int) ([]Transaction, error) {
	start, end, err := PageBounds(page, pageSize, len(transactions))
	if err != nil {
		return nil, err
	}
	out := make([]Transaction, end-start)
	copy(out, transactions[start:end])
	return out, nil
}

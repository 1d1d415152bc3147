// Package pagination turns a (current page, total pages) pair into the compact
// list of labels a page control renders: numbers for clickable pages and an
// ellipsis marker for collapsed ranges.
// Everything here is pure; callers own the page state and re-render on change.
package pagination

import (
	"errors"
	"fmt"
)

// MaxVisible is the number of numeric slots shown before ranges collapse.
const MaxVisible = 7

// ErrInvalidRange is returned when page bounds are non-positive or current > total.
var ErrInvalidRange = errors.New("invalid page range")

// Labels returns the ordered tokens for a page control.
// Inputs outside 1 <= current <= total are rejected; use Clamp first when the
// bounds come from user input and a fallback is preferable to an error.
func Labels(current, total int) ([]Token, error) {
	if err := validate(current, total); err != nil {
		return nil, err
	}

	if total <= MaxVisible {
		out := make([]Token, 0, total)
		return appendRange(out, 1, total), nil
	}

	out := make([]Token, 0, MaxVisible)
	switch {
	case current <= 3:
		// 1 2 3 4 … N
		out = appendRange(out, 1, 4)
		out = append(out, Ellipsis(), Page(total))
	case current >= total-2:
		// 1 … N-3 N-2 N-1 N
		out = append(out, Page(1), Ellipsis())
		out = appendRange(out, total-3, total)
	default:
		// 1 … c-1 c c+1 … N
		out = append(out, Page(1), Ellipsis())
		out = appendRange(out, current-1, current+1)
		out = append(out, Ellipsis(), Page(total))
	}
	return out, nil
}

// CanPrevious reports whether a "previous" control should be enabled.
func CanPrevious(current int) bool { return current > 1 }

// CanNext reports whether a "next" control should be enabled.
func CanNext(current, total int) bool { return current < total }

// Clamp pulls arbitrary bounds back into a valid range.
// total below 1 becomes 1; current is forced into [1, total].
func Clamp(current, total int) (int, int) {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}
	return current, total
}

func validate(current, total int) error {
	if total < 1 || current < 1 || current > total {
		return fmt.Errorf("%w: page %d of %d", ErrInvalidRange, current, total)
	}
	return nil
}

func appendRange(out []Token, from, to int) []Token {
	for i := from; i <= to; i++ {
		out = append(out, Page(i))
	}
	return out
}

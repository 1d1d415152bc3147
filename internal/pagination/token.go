package pagination

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// EllipsisLabel is the wire form of a collapsed range.
const EllipsisLabel = "..."

// Token is one slot of a page control: either a page number or an ellipsis.
// The zero value is an ellipsis.
type Token struct {
	page int
}

// Page builds a numeric token. It panics if n < 1, since page numbers start at 1
// and the zero token is the ellipsis.
func Page(n int) Token {
	if n < 1 {
		panic(fmt.Sprintf("pagination: page token must be >= 1, got %d", n))
	}
	return Token{page: n}
}

// Ellipsis builds the non-interactive placeholder token.
func Ellipsis() Token { return Token{} }

// IsEllipsis reports whether t is the placeholder.
func (t Token) IsEllipsis() bool { return t.page == 0 }

// Number returns the page number and false for an ellipsis.
func (t Token) Number() (int, bool) {
	if t.IsEllipsis() {
		return 0, false
	}
	return t.page, true
}

func (t Token) String() string {
	if t.IsEllipsis() {
		return EllipsisLabel
	}
	return strconv.Itoa(t.page)
}

// MarshalJSON renders pages as numbers and the ellipsis as "...",
// the same mixed array front ends already consume.
func (t Token) MarshalJSON() ([]byte, error) {
	if t.IsEllipsis() {
		return json.Marshal(EllipsisLabel)
	}
	return json.Marshal(t.page)
}

func (t *Token) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		if n < 1 {
			return fmt.Errorf("pagination: page token must be >= 1, got %d", n)
		}
		t.page = n
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("pagination: token must be a number or %q: %w", EllipsisLabel, err)
	}
	if s != EllipsisLabel {
		return fmt.Errorf("pagination: unknown token %q", s)
	}
	t.page = 0
	return nil
}

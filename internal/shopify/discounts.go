package shopify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CodeDiscount is a basic code discount node flattened to what we display.
type CodeDiscount struct {
	ID     string
	Title  string
	Status string
	Code   string
}

type codeDiscountNode struct {
	ID           string `json:"id"`
	CodeDiscount *struct {
		Title  string `json:"title"`
		Status string `json:"status"`
		Codes  struct {
			Nodes []struct {
				Code string `json:"code"`
			} `json:"nodes"`
		} `json:"codes"`
	} `json:"codeDiscount"`
}

func (n codeDiscountNode) flatten() CodeDiscount {
	out := CodeDiscount{ID: n.ID}
	if n.CodeDiscount == nil {
		return out
	}
	out.Title = n.CodeDiscount.Title
	out.Status = n.CodeDiscount.Status
	if len(n.CodeDiscount.Codes.Nodes) > 0 {
		out.Code = n.CodeDiscount.Codes.Nodes[0].Code
	}
	return out
}

// BasicDiscountInput describes a single-code order discount.
// Exactly one of Percentage (a fraction, 0.1 for 10%) or Amount must be set.
type BasicDiscountInput struct {
	Title      string
	Code       string
	StartsAt   time.Time
	Percentage *decimal.Decimal
	Amount     *decimal.Decimal
}

// ErrDiscountValue is returned when a discount input has no or both value kinds.
var ErrDiscountValue = errors.New("discount needs exactly one of percentage or amount")

func (in BasicDiscountInput) vars() (map[string]any, error) {
	var value map[string]any
	switch {
	case in.Percentage != nil && in.Amount == nil:
		value = map[string]any{"percentage": in.Percentage.InexactFloat64()}
	case in.Amount != nil && in.Percentage == nil:
		value = map[string]any{"discountAmount": map[string]any{
			"amount":            in.Amount.StringFixed(2),
			"appliesOnEachItem": false,
		}}
	default:
		return nil, ErrDiscountValue
	}
	startsAt := in.StartsAt
	if startsAt.IsZero() {
		startsAt = time.Now().UTC()
	}
	return map[string]any{
		"title":             in.Title,
		"code":              in.Code,
		"startsAt":          startsAt.Format(time.RFC3339),
		"customerSelection": map[string]any{"all": true},
		"customerGets": map[string]any{
			"value": value,
			"items": map[string]any{"all": true},
		},
	}, nil
}

// ListCodeDiscounts returns up to first code discounts, optionally filtered by a search query.
func ListCodeDiscounts(ctx context.Context, ex Executor, query string, first int) ([]CodeDiscount, error) {
	var out struct {
		Nodes struct {
			Nodes []codeDiscountNode `json:"nodes"`
		} `json:"codeDiscountNodes"`
	}
	vars := map[string]any{"first": clampFirst(first)}
	if query != "" {
		vars["query"] = query
	}
	if err := ex.Do(ctx, codeDiscountsQuery, vars, &out); err != nil {
		return nil, fmt.Errorf("code discounts list: %w", err)
	}
	res := make([]CodeDiscount, 0, len(out.Nodes.Nodes))
	for _, n := range out.Nodes.Nodes {
		res = append(res, n.flatten())
	}
	return res, nil
}

// FindDiscountByCode returns the discount redeemable with code, or nil.
func FindDiscountByCode(ctx context.Context, ex Executor, code string) (*CodeDiscount, error) {
	var out struct {
		Node *codeDiscountNode `json:"codeDiscountNodeByCode"`
	}
	if err := ex.Do(ctx, codeDiscountByCodeQuery, map[string]any{"code": code}, &out); err != nil {
		return nil, fmt.Errorf("code discount lookup: %w", err)
	}
	if out.Node == nil {
		return nil, nil
	}
	d := out.Node.flatten()
	return &d, nil
}

// CreateBasicDiscount creates a code discount and returns its node ID.
func CreateBasicDiscount(ctx context.Context, ex Executor, in BasicDiscountInput) (string, error) {
	input, err := in.vars()
	if err != nil {
		return "", err
	}
	var out struct {
		Payload discountPayload `json:"discountCodeBasicCreate"`
	}
	if err := ex.Do(ctx, discountCreateMutation, map[string]any{"basicCodeDiscount": input}, &out); err != nil {
		return "", fmt.Errorf("code discount create: %w", err)
	}
	return out.Payload.id()
}

// UpdateBasicDiscount replaces title, code and value of an existing discount.
func UpdateBasicDiscount(ctx context.Context, ex Executor, id string, in BasicDiscountInput) (string, error) {
	input, err := in.vars()
	if err != nil {
		return "", err
	}
	var out struct {
		Payload discountPayload `json:"discountCodeBasicUpdate"`
	}
	vars := map[string]any{"id": id, "basicCodeDiscount": input}
	if err := ex.Do(ctx, discountUpdateMutation, vars, &out); err != nil {
		return "", fmt.Errorf("code discount update: %w", err)
	}
	return out.Payload.id()
}

// DeleteDiscount deletes a code discount.
func DeleteDiscount(ctx context.Context, ex Executor, id string) error {
	var out struct {
		Payload struct {
			UserErrors UserErrors `json:"userErrors"`
		} `json:"discountCodeDelete"`
	}
	if err := ex.Do(ctx, discountDeleteMutation, map[string]any{"id": id}, &out); err != nil {
		return fmt.Errorf("code discount delete: %w", err)
	}
	return out.Payload.UserErrors.Err()
}

type discountPayload struct {
	Node *struct {
		ID string `json:"id"`
	} `json:"codeDiscountNode"`
	UserErrors UserErrors `json:"userErrors"`
}

func (p discountPayload) id() (string, error) {
	if err := p.UserErrors.Err(); err != nil {
		return "", err
	}
	if p.Node == nil {
		return "", fmt.Errorf("%w: discount mutation returned no node", ErrUpstream)
	}
	return p.Node.ID, nil
}

package shopify

import (
	"context"
	"fmt"
	"strings"
)

// Customer is the customer shape returned by the list queries.
type Customer struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	Tags        []string `json:"tags"`
	AmountSpent *struct {
		Amount       string `json:"amount"`
		CurrencyCode string `json:"currencyCode"`
	} `json:"amountSpent"`
	NumberOfOrders string `json:"numberOfOrders"`
}

// CustomerInput is the subset of CustomerInput used for pro sign-up.
type CustomerInput struct {
	Email            string
	FirstName        string
	LastName         string
	Tags             []string
	MarketingOptedIn bool
}

// searchValue quotes a search term so spaces or colons cannot change the query.
func searchValue(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// SearchCustomers runs a customers search query.
func SearchCustomers(ctx context.Context, ex Executor, query string, first int) ([]Customer, error) {
	var out struct {
		Customers struct {
			Nodes []Customer `json:"nodes"`
		} `json:"customers"`
	}
	vars := map[string]any{"first": clampFirst(first), "query": query}
	if err := ex.Do(ctx, customersQuery, vars, &out); err != nil {
		return nil, fmt.Errorf("customers search: %w", err)
	}
	return out.Customers.Nodes, nil
}

// FindCustomerByEmail returns the first customer with email, or nil.
func FindCustomerByEmail(ctx context.Context, ex Executor, email string) (*Customer, error) {
	found, err := SearchCustomers(ctx, ex, "email:"+searchValue(email), 1)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// ListCustomersByTag returns customers carrying tag.
func ListCustomersByTag(ctx context.Context, ex Executor, tag string, first int) ([]Customer, error) {
	return SearchCustomers(ctx, ex, "tag:"+searchValue(tag), first)
}

// CreateCustomer creates a customer and returns its ID.
func CreateCustomer(ctx context.Context, ex Executor, in CustomerInput) (string, error) {
	input := map[string]any{
		"email":     in.Email,
		"firstName": in.FirstName,
		"lastName":  in.LastName,
		"tags":      in.Tags,
	}
	if in.MarketingOptedIn {
		input["emailMarketingConsent"] = map[string]any{
			"marketingState":      "SUBSCRIBED",
			"marketingOptInLevel": "SINGLE_OPT_IN",
		}
	}
	var out struct {
		Payload struct {
			Customer *struct {
				ID string `json:"id"`
			} `json:"customer"`
			UserErrors UserErrors `json:"userErrors"`
		} `json:"customerCreate"`
	}
	if err := ex.Do(ctx, customerCreateMutation, map[string]any{"input": input}, &out); err != nil {
		return "", fmt.Errorf("customer create: %w", err)
	}
	if err := out.Payload.UserErrors.Err(); err != nil {
		return "", err
	}
	if out.Payload.Customer == nil {
		return "", fmt.Errorf("%w: customer create returned no customer", ErrUpstream)
	}
	return out.Payload.Customer.ID, nil
}

// AddTags adds tags to any taggable node.
func AddTags(ctx context.Context, ex Executor, id string, tags []string) error {
	return changeTags(ctx, ex, tagsAddMutation, "tagsAdd", id, tags)
}

// RemoveTags removes tags from any taggable node.
func RemoveTags(ctx context.Context, ex Executor, id string, tags []string) error {
	return changeTags(ctx, ex, tagsRemoveMutation, "tagsRemove", id, tags)
}

func changeTags(ctx context.Context, ex Executor, mutation, field, id string, tags []string) error {
	var out map[string]struct {
		UserErrors UserErrors `json:"userErrors"`
	}
	if err := ex.Do(ctx, mutation, map[string]any{"id": id, "tags": tags}, &out); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return out[field].UserErrors.Err()
}

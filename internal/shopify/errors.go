package shopify

import (
	"errors"
	"strings"
)

var (
	// ErrUpstream covers transport failures, non-2xx replies and top-level GraphQL errors.
	ErrUpstream = errors.New("shopify upstream error")
	// ErrAccessDenied means the shop rejected the access token (uninstalled or revoked).
	ErrAccessDenied = errors.New("shopify access denied")
)

// GraphQLError is one entry of a top-level `errors` array.
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// GraphQLErrors is returned as-is by Executor.Do and unwraps to ErrUpstream.
type GraphQLErrors []GraphQLError

func (e GraphQLErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ge := range e {
		msgs = append(msgs, ge.Message)
	}
	return "graphql: " + strings.Join(msgs, ", ")
}

func (e GraphQLErrors) Unwrap() error { return ErrUpstream }

// UserError is a mutation-level validation failure reported by Shopify.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// UserErrors is the `userErrors` list every mutation payload carries.
type UserErrors []UserError

func (e UserErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ue := range e {
		msgs = append(msgs, ue.Message)
	}
	return strings.Join(msgs, ", ")
}

// Err returns nil for an empty list so callers can `return payload.UserErrors.Err()`.
func (e UserErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

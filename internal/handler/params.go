package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/prosante-admin/internal/pagination"
	"github.com/maxviazov/prosante-admin/internal/service"
)

// queryError reports malformed query parameters the same way service validation does.
type queryError struct{ fields []service.FieldError }

func (e *queryError) Error() string                { return service.ErrInvalidInput.Error() }
func (e *queryError) Unwrap() error                { return service.ErrInvalidInput }
func (e *queryError) Fields() []service.FieldError { return e.fields }

// queryInts parses the named query parameters as integers. Absent parameters stay 0.
func queryInts(c *gin.Context, names ...string) ([]int, error) {
	out := make([]int, len(names))
	var fe []service.FieldError
	for i, name := range names {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			fe = append(fe, service.FieldError{Field: name, Message: "must be an integer"})
			continue
		}
		out[i] = n
	}
	if len(fe) > 0 {
		return nil, &queryError{fields: fe}
	}
	return out, nil
}

// pageRequest reads ?page= and ?page_size=. Out-of-range values are normalized by the services.
func pageRequest(c *gin.Context) (pagination.Request, error) {
	v, err := queryInts(c, "page", "page_size")
	if err != nil {
		return pagination.Request{}, err
	}
	return pagination.Request{Page: v[0], PageSize: v[1]}, nil
}

// bindError hides JSON decoding details from clients.
func bindError(field string) error {
	return &queryError{fields: []service.FieldError{{Field: field, Message: "malformed request body"}}}
}

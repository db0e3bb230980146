package httpx

import (
	"net/url"
	"strconv"
)

const (
	defaultLimit = 10
	minLimit     = 1
	maxLimit     = 100
)

// parsePagination reads limit/offset query parameters and enforces the
// configured bounds (limit 1..100, offset >= 0). Missing parameters take
// defaults; anything out of range produces field errors for a 422.
func parsePagination(q url.Values) (limit, offset int, errs []FieldError) {
	limit = defaultLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs = append(errs, FieldError{Loc: []string{"query", "limit"}, Msg: "value is not a valid integer", Type: "type_error.integer"})
		case n < minLimit:
			errs = append(errs, fieldError([]string{"query", "limit"}, "ensure this value is greater than or equal to 1"))
		case n > maxLimit:
			errs = append(errs, fieldError([]string{"query", "limit"}, "ensure this value is less than or equal to 100"))
		default:
			limit = n
		}
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs = append(errs, FieldError{Loc: []string{"query", "offset"}, Msg: "value is not a valid integer", Type: "type_error.integer"})
		case n < 0:
			errs = append(errs, fieldError([]string{"query", "offset"}, "ensure this value is greater than or equal to 0"))
		default:
			offset = n
		}
	}
	return limit, offset, errs
}

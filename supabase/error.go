package supabase

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// PostgreSQL error codes surfaced through PostgREST error bodies.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
	CodeNotNullViolation    = "23502"
)

// APIError is a non-2xx response from the gateway, with whatever detail
// could be extracted from the body.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("supabase: %s (status %d, code %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("supabase: request failed with status %d", e.Status)
}

func (e *APIError) IsUniqueViolation() bool {
	return e.Code == CodeUniqueViolation
}

func (e *APIError) IsForeignKeyViolation() bool {
	return e.Code == CodeForeignKeyViolation
}

// AsAPIError unwraps err into an APIError when it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// parseAPIError pulls code/message/details out of a PostgREST error body on
// a best-effort basis; anything unparseable still yields a usable error.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	if len(body) == 0 {
		return apiErr
	}
	apiErr.Code = gjson.GetBytes(body, "code").String()
	apiErr.Message = gjson.GetBytes(body, "message").String()
	apiErr.Details = gjson.GetBytes(body, "details").String()
	if apiErr.Message == "" {
		apiErr.Message = gjson.GetBytes(body, "hint").String()
	}
	if apiErr.Message == "" {
		msg := string(body)
		if len(msg) > 200 {
			msg = msg[:200]
		}
		apiErr.Message = msg
	}
	return apiErr
}

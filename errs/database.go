package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause != nil {
		// An ApiErr raised below the storage boundary (e.g. a NotFound from
		// the repo) keeps its own status code.
		var apiErr *ApiErr
		if errors.As(cause, &apiErr) {
			return apiErr
		}

		if errors.Is(cause, ErrNotFound) {
			return &ApiErr{
				StatusCode: http.StatusNotFound,
				err:        fmt.Errorf("%s %w", entity, ErrNotFound),
				Details:    details,
				Cause:      cause,
			}
		}

		if strings.Contains(cause.Error(), "connection") {
			return &ApiErr{
				StatusCode: http.StatusInternalServerError,
				err:        ErrDatabaseConnection,
				Details:    details,
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"waiter/internal/services"
	"waiter/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	msgNotFound       = "Not found."
	msgInvalidRequest = "Invalid request format"
	msgInternal       = "internal server error"
	msgFieldRequired  = "This field is required."
	msgFieldBlank     = "This field may not be blank."
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorResponse{Error: message})
}

func requiredFieldError(c echo.Context, field string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgFieldRequired, Field: field})
}

// checkInt4 rejects a number that does not fit an INTEGER column.
func checkInt4(field string, v *int) *services.ValidationError {
	switch {
	case v == nil:
		return nil
	case *v > math.MaxInt32:
		return &services.ValidationError{Field: field, Message: fmt.Sprintf("Ensure this value is less than or equal to %d.", math.MaxInt32)}
	case *v < math.MinInt32:
		return &services.ValidationError{Field: field, Message: fmt.Sprintf("Ensure this value is greater than or equal to %d.", math.MinInt32)}
	}
	return nil
}

// serviceError writes the response for an error returned by a service.
// Unexpected errors are logged and hidden from the client.
func serviceError(c echo.Context, log *logger.Logger, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, msgNotFound)
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Message, Field: verr.Field})
	default:
		log.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
		return errorJSON(c, http.StatusInternalServerError, msgInternal)
	}
}

// parseID reads the :id path parameter. A value that is not a UUID cannot
// name a stored record, so callers answer 404.
func parseID(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// NewHTTPErrorHandler renders errors that escape the handlers, such as
// unknown routes or panics, as ErrorResponse bodies.
func NewHTTPErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := msgInternal

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			switch m := he.Message.(type) {
			case string:
				message = m
			case error:
				message = m.Error()
			default:
				message = http.StatusText(status)
			}
			if status == http.StatusNotFound {
				message = msgNotFound
			}
		}
		if status >= http.StatusInternalServerError {
			log.Error("unhandled error", "method", c.Request().Method, "path", c.Request().URL.Path, "error", err)
			message = msgInternal
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = errorJSON(c, status, message)
		}
		if writeErr != nil {
			log.Error("failed to write error response", "error", writeErr)
		}
	}
}

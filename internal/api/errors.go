package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/xaenox/bdc-edge/internal/assistant"
	"github.com/xaenox/bdc-edge/internal/scraper"
)

// ValidationError reports a malformed request body or missing required fields
type ValidationError struct {
	Message string
	Missing []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Missing, ", "))
	}
	return e.Message
}

func missingFields(fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Message: "Missing required fields", Missing: fields}
}

// bindBody binds a JSON request body through echo; a bind failure is a ValidationError.
// A body sent without a Content-Type is treated as JSON.
func bindBody(c echo.Context, v any) error {
	req := c.Request()
	if req.Header.Get(echo.HeaderContentType) == "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if err := c.Bind(v); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return &ValidationError{Message: fmt.Sprintf("Invalid JSON body: %v", httpErr.Message)}
		}
		return &ValidationError{Message: fmt.Sprintf("Invalid JSON body: %v", err)}
	}
	return nil
}

// errorKind names the taxonomy bucket of err for logs: upstream, fetch, extraction or internal.
func errorKind(err error) string {
	var (
		upErr      *assistant.UpstreamError
		fetchErr   *scraper.FetchError
		extractErr *scraper.ExtractionError
	)
	switch {
	case errors.As(err, &upErr):
		return "upstream"
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &extractErr):
		return "extraction"
	default:
		return "internal"
	}
}

package assistant

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// UpstreamError is returned when the chat-completion API answers with a non-success status
type UpstreamError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("AI API error: %s", e.Status)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// upstreamError converts a go-openai status error into an UpstreamError.
// Transport errors without a status are returned unchanged.
func upstreamError(err error) error {
	code := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		code = reqErr.HTTPStatusCode
	}
	if code == 0 {
		return err
	}
	return &UpstreamError{
		StatusCode: code,
		Status:     http.StatusText(code),
		Err:        err,
	}
}

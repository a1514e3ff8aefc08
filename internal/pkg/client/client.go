package client

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const defaultTimeout = 30 * time.Second

// APIError is a non successful response from a REST API.
type APIError struct {
	StatusCode       int
	Message          string
	DocumentationURL string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}

	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// NewRestClient returns a JSON client authenticated with a bearer token.
func NewRestClient(baseURL, token string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")
}

// CheckResponse turns an HTTP error status into an *APIError.
func CheckResponse(r *resty.Response) error {
	if !r.IsError() {
		return nil
	}

	parsed := gjson.ParseBytes(r.Body())
	msg := parsed.Get("message").String()
	if msg == "" {
		msg = parsed.Get("error").String()
	}

	return &APIError{
		StatusCode:       r.StatusCode(),
		Message:          msg,
		DocumentationURL: parsed.Get("documentation_url").String(),
	}
}

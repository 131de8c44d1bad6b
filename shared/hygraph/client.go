// Package hygraph speaks the content store's GraphQL-over-HTTP dialect.
package hygraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// UpstreamError is a failed content-store call: a non-2xx response, or a
// 2xx response whose envelope carries an errors array. An errors array fails
// the whole call regardless of any partial data beside it.
type UpstreamError struct {
	Op         string
	StatusCode int
	Messages   []string
}

func (e *UpstreamError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("hygraph: %s failed: %s", e.Op, strings.Join(e.Messages, "; "))
	}
	return fmt.Sprintf("hygraph: %s failed with status %d", e.Op, e.StatusCode)
}

// Client is a minimal GraphQL client for the content store. Every call
// carries the bearer credential, and all text travels as structured
// variables rather than being spliced into query documents.
type Client struct {
	endpoint    string
	token       string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a content store client for the given endpoint and
// mutation token. Requests are lightly rate limited; the workflow volume is
// human-interactive, but the CMS meters mutation traffic.
func NewClient(endpoint string, token string) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Do executes one GraphQL operation and unmarshals the data object into out
// (when out is non-nil). op names the operation for error reporting.
func (c *Client) Do(ctx context.Context, op string, query string, variables map[string]any, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("hygraph: %s cancelled waiting for rate limiter: %w", op, err)
	}

	body, err := json.Marshal(graphQLRequest{
		Query:     query,
		Variables: variables,
	})
	if err != nil {
		return fmt.Errorf("hygraph: %s failed to encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("hygraph: %s failed to build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("hygraph: %s failed: %w", op, err)
	}
	defer resp.Body.Close()

	var envelope graphQLResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &UpstreamError{Op: op, StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("hygraph: %s failed to decode response: %w", op, decodeErr)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode, Messages: messages}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode}
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("hygraph: %s failed to decode data: %w", op, err)
		}
	}

	return nil
}

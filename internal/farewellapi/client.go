package farewellapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultHealthPath is appended to the base URL for health checks.
const DefaultHealthPath = "/health"

const maxBody = 1 << 20

// Client implements Backend over the plain JSON contract.
type Client struct {
	BaseURL    string
	HealthPath string
	HTTP       *http.Client
}

// NewClient returns a Client for baseURL whose transport is traced with
// otelhttp. Timeouts come from the caller's context.
func NewClient(baseURL, healthPath string) *Client {
	if strings.TrimSpace(healthPath) == "" {
		healthPath = DefaultHealthPath
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HealthPath: healthPath,
		HTTP:       &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// Generate posts p and returns the generated text.
func (c *Client) Generate(ctx context.Context, p Payload) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("farewellapi: generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return "", &StatusError{Op: "generate", Code: resp.StatusCode}
	}

	var out Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&out); err != nil {
		return "", fmt.Errorf("farewellapi: decode: %w", err)
	}
	text := strings.TrimSpace(out.Payload)
	if !out.Success || text == "" {
		if out.Message != "" {
			return "", fmt.Errorf("%w: %s", ErrUnsuccessful, out.Message)
		}
		return "", ErrUnsuccessful
	}
	return text, nil
}

// Ping issues GET {BaseURL}{HealthPath}; any 2xx counts as healthy.
func (c *Client) Ping(ctx context.Context) error {
	u := c.BaseURL + "/" + strings.TrimLeft(c.HealthPath, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("farewellapi: ping: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: "ping", Code: resp.StatusCode}
	}
	return nil
}

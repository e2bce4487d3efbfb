// Package farewellapi talks to the remote text-generation service.
//
// Two backends implement Backend:
//   - Client: the plain JSON contract (POST {prompt, instructions} →
//     {success, message, payload, timestamp}) plus a GET health check.
//   - OpenAIBackend: any OpenAI-compatible chat-completion endpoint.
//
// Backends never retry; retry, timeout and fallback policy belongs to
// services.FarewellService.
package farewellapi

import (
	"context"
	"errors"
	"fmt"
)

// Payload is the request body sent to the remote generator.
type Payload struct {
	Prompt       string `json:"prompt"`
	Instructions string `json:"instructions"`
}

// Response is the remote generator's reply envelope. Payload carries the
// farewell text when Success is true.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Payload   string `json:"payload"`
	Timestamp string `json:"timestamp"`
}

// Backend produces farewell text and answers health checks.
type Backend interface {
	Generate(ctx context.Context, p Payload) (string, error)
	Ping(ctx context.Context) error
}

// ErrUnsuccessful is returned when the service answered 2xx but reported
// success=false or an empty payload.
var ErrUnsuccessful = errors.New("farewellapi: unsuccessful response")

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("farewellapi: %s: unexpected status %d", e.Op, e.Code)
}

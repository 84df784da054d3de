// Package gemini implements the text completion backend using Google Gemini.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/commitgen"
)

// Compile-time interface verification.
var _ commitgen.Backend = (*Backend)(nil)

// DefaultModel is the recommended Gemini model for commit generation.
const DefaultModel = "gemini-3-flash-preview"

// Backend implements commitgen.Backend over a GenerativeClient.
type Backend struct {
	client GenerativeClient
	temp   float32
}

// NewBackend creates a Backend. A slightly lowered temperature keeps commit
// messages consistent between regenerations without making them identical.
func NewBackend(client GenerativeClient) *Backend {
	return &Backend{client: client, temp: 0.4}
}

// Complete implements commitgen.Backend.
func (b *Backend) Complete(ctx context.Context, req commitgen.CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	text, err := b.client.GenerateContent(ctx, GenerateRequest{
		Model:       model,
		System:      req.System,
		Prompt:      req.Prompt,
		Temperature: &b.temp,
	})
	if err != nil {
		return "", classifyError(err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini produced no text: %w", commitgen.ErrMalformedResponse)
	}
	return text, nil
}

// classifyError maps API failures onto the shared backend error kinds.
func classifyError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return fmt.Errorf("gemini: %s: %w", apiErr.Message, commitgen.ErrAuthRequired)
		case 429, 500, 502, 503:
			return fmt.Errorf("gemini: %s: %w", apiErr.Message, commitgen.ErrBackendUnavailable)
		}
		return fmt.Errorf("gemini: %s", apiErr.Message)
	}
	return fmt.Errorf("gemini: %v: %w", err, commitgen.ErrBackendUnavailable)
}

// GenerateRequest is a single content-generation call.
type GenerateRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature *float32
}

// GenerativeClient abstracts the Gemini API for testing.
type GenerativeClient interface {
	GenerateContent(ctx context.Context, req GenerateRequest) (string, error)
}

// MockGenerativeClient is a mock implementation of GenerativeClient for testing.
type MockGenerativeClient struct {
	GenerateContentFn func(ctx context.Context, req GenerateRequest) (string, error)
}

func (m *MockGenerativeClient) GenerateContent(ctx context.Context, req GenerateRequest) (string, error) {
	return m.GenerateContentFn(ctx, req)
}

// APIError represents an error from the Gemini API with HTTP status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Package ollama implements the text completion backend over a local Ollama
// inference server's /api/generate endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/commitgen"
)

// Compile-time interface verification.
var _ commitgen.Backend = (*Backend)(nil)

// DefaultHost is the standard local Ollama address.
const DefaultHost = "http://localhost:11434"

// DefaultModel is a reasonable local default for commit generation.
const DefaultModel = "qwen2.5-coder:7b"

// Backend talks to an Ollama server. The zero timeout http.Client is
// intentional: deadlines come from the request context, set per call by the
// analyzer and synthesizer.
type Backend struct {
	host   string
	client *http.Client
}

// Option configures a Backend.
type Option func(*Backend)

// WithHTTPClient overrides the HTTP client. Used in tests.
func WithHTTPClient(c *http.Client) Option {
	return func(b *Backend) { b.client = c }
}

// New creates a Backend for the given host, falling back to DefaultHost.
func New(host string, opts ...Option) *Backend {
	if host == "" {
		host = DefaultHost
	}
	b := &Backend{
		host:   strings.TrimRight(host, "/"),
		client: &http.Client{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type generateRequest struct {
	Model  string `json:"model"`
	System string `json:"system,omitempty"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Complete implements commitgen.Backend.
func (b *Backend) Complete(ctx context.Context, req commitgen.CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	body, err := json.Marshal(generateRequest{
		Model:  model,
		System: req.System,
		Prompt: req.Prompt,
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		// Connection refused, DNS failure, timeout: the server is not there.
		return "", fmt.Errorf("ollama at %s: %v: %w", b.host, err, commitgen.ErrBackendUnavailable)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ollama: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("ollama at %s rejected the request (HTTP %d): %w", b.host, resp.StatusCode, commitgen.ErrAuthRequired)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("ollama returned HTTP %d: %s", resp.StatusCode, errorDetail(payload))
	}

	var result generateResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return "", fmt.Errorf("ollama: unexpected response body: %w", commitgen.ErrMalformedResponse)
	}
	if result.Error != "" {
		return "", fmt.Errorf("ollama: %s", result.Error)
	}
	if strings.TrimSpace(result.Response) == "" {
		return "", fmt.Errorf("ollama produced no text: %w", commitgen.ErrMalformedResponse)
	}
	return result.Response, nil
}

// errorDetail extracts Ollama's {"error": "..."} body when present.
func errorDetail(payload []byte) string {
	var result generateResponse
	if err := json.Unmarshal(payload, &result); err == nil && result.Error != "" {
		return result.Error
	}
	return strings.TrimSpace(string(payload))
}

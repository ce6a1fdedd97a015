package keywords

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/job-match-engine/internal/types"
)

const (
	// DefaultTimeout is the per-request timeout against the provider.
	DefaultTimeout = 15 * time.Second

	maxAttempts  = 3
	backoffBase  = 500 * time.Millisecond
	maxBodyBytes = 16 << 20
)

// ProviderError is returned when the keyword provider could not be reached
// or returned an unusable response after all retries.
type ProviderError struct {
	URL      string
	Attempts int
	Cause    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("keyword provider %s failed after %d attempts: %v", e.URL, e.Attempts, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Provider fetches the keyword table from the external keyword service.
type Provider struct {
	url    string
	client *http.Client
}

// NewProvider creates a provider client for the given endpoint URL.
func NewProvider(url string) *Provider {
	return &Provider{
		url:    url,
		client: &http.Client{Timeout: DefaultTimeout},
	}
}

// Fetch retrieves the current keyword entries. Transient failures are retried
// with bounded exponential backoff; on exhaustion a ProviderError is returned
// and the caller falls back to the previous run's index.
func (p *Provider) Fetch(ctx context.Context) ([]types.KeywordEntry, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := backoffBase << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, &ProviderError{URL: p.url, Attempts: attempt, Cause: ctx.Err()}
			case <-time.After(delay):
			}
		}

		entries, err := p.fetchOnce(ctx)
		if err == nil {
			return entries, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, &ProviderError{URL: p.url, Attempts: attempt + 1, Cause: ctx.Err()}
		}
	}
	return nil, &ProviderError{URL: p.url, Attempts: maxAttempts, Cause: lastErr}
}

func (p *Provider) fetchOnce(ctx context.Context) ([]types.KeywordEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var entries []types.KeywordEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode keyword entries: %w", err)
	}
	return entries, nil
}

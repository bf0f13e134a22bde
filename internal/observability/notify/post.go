package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 5 * time.Second
	retryStep      = 200 * time.Millisecond
	maxErrorBody   = 4 << 10
)

// Poster sends JSON bodies to a webhook-style endpoint, retrying failures
// with a linearly growing delay.
type Poster struct {
	// Name prefixes every error, e.g. "slack".
	Name    string
	Client  *http.Client
	Retries int
	// Step is the delay before the first retry; later retries wait n*Step.
	Step time.Duration
}

// NewPoster returns a Poster with a default client when hc is nil.
func NewPoster(name string, hc *http.Client, timeout time.Duration, retries int) *Poster {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &Poster{Name: name, Client: hc, Retries: max(retries, 0), Step: retryStep}
}

// PostJSON encodes v once and posts it until a 2xx arrives, the retries run
// out, or ctx ends. Client errors (4xx other than 429) are not retried.
func (p *Poster) PostJSON(ctx context.Context, endpoint string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: encode payload: %w", p.Name, err)
	}

	var lastErr error
	for attempt := 0; attempt <= p.Retries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, time.Duration(attempt)*p.Step); err != nil {
				return err
			}
		}
		lastErr = p.post(ctx, endpoint, body)
		if lastErr == nil {
			return nil
		}
		var se *StatusError
		if errors.As(lastErr, &se) && !se.Retryable() {
			return lastErr
		}
	}
	return lastErr
}

func (p *Poster) post(ctx context.Context, endpoint string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", p.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: send: %w", p.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Sink: p.Name, Status: resp.Status, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Sink   string
	Status string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %s", e.Sink, e.Status)
	}
	return fmt.Sprintf("%s: %s: %s", e.Sink, e.Status, e.Body)
}

// Retryable is true for throttling and server errors.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Or returns value, or fallback when value is blank.
func Or(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

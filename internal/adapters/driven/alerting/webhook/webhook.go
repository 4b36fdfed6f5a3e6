// Package webhook delivers alerts as JSON batches to an HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

// Ensure Notifier implements the interface.
var _ driven.AlertNotifier = (*Notifier)(nil)

const (
	// MaxBatchSize caps the alerts sent in one request.
	MaxBatchSize = 1000

	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3
	defaultBackoff    = time.Second
	defaultRetryAfter = 30 * time.Second
)

// Payload is the request body.
type Payload struct {
	Count  int            `json:"count"`
	SentAt time.Time      `json:"sent_at"`
	Alerts []domain.Alert `json:"alerts"`
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithRate limits requests per second. Zero or less disables the limit.
func WithRate(perSecond float64) Option {
	return func(n *Notifier) {
		if perSecond <= 0 {
			n.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		n.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithHeaders sets headers sent with every request.
func WithHeaders(h map[string]string) Option {
	return func(n *Notifier) { n.headers = h }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) { n.client = c }
}

// WithRetries sets the retry count and the base backoff for 5xx responses.
func WithRetries(n int, backoff time.Duration) Option {
	return func(w *Notifier) {
		w.maxRetries = n
		w.backoff = backoff
	}
}

// Notifier POSTs alert batches. Requests are throttled by a token bucket;
// 5xx responses are retried with exponential backoff and a 429 pauses
// all requests until its Retry-After has passed.
type Notifier struct {
	client     *http.Client
	url        string
	headers    map[string]string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration

	mu      sync.Mutex
	retryAt time.Time
	now     func() time.Time
}

// New creates a notifier for url. The default rate is one request per second.
func New(url string, opts ...Option) *Notifier {
	n := &Notifier{
		client:     &http.Client{Timeout: defaultTimeout},
		url:        url,
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify sends alerts in batches of at most MaxBatchSize.
func (n *Notifier) Notify(ctx context.Context, alerts []domain.Alert) error {
	for start := 0; start < len(alerts); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(alerts))
		if err := n.send(ctx, alerts[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op; requests are synchronous.
func (n *Notifier) Close() error {
	return nil
}

func (n *Notifier) send(ctx context.Context, batch []domain.Alert) error {
	body, err := json.Marshal(Payload{Count: len(batch), SentAt: n.now().UTC(), Alerts: batch})
	if err != nil {
		return fmt.Errorf("webhook: marshal: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, n.backoff<<(attempt-1)); err != nil {
				return err
			}
		}
		if err := n.wait(ctx); err != nil {
			return err
		}

		status, err := n.post(ctx, body)
		if err != nil {
			return err
		}
		if status.code >= 200 && status.code < 300 {
			return nil
		}

		lastErr = fmt.Errorf("webhook: HTTP %d", status.code)
		switch {
		case status.code == http.StatusTooManyRequests:
			n.pause(status.retryAfter)
		case status.code < 500:
			return lastErr
		}
	}
	return lastErr
}

type response struct {
	code       int
	retryAfter time.Duration
}

func (n *Notifier) post(ctx context.Context, body []byte) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return response{}, fmt.Errorf("webhook: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range n.headers {
		req.Header.Set(k, v)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	r := response{code: resp.StatusCode}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs >= 0 {
		r.retryAfter = time.Duration(secs) * time.Second
	}
	return r, nil
}

// wait blocks for any Retry-After pause and then for a limiter token.
func (n *Notifier) wait(ctx context.Context) error {
	n.mu.Lock()
	retryAt := n.retryAt
	n.mu.Unlock()

	if d := retryAt.Sub(n.now()); d > 0 {
		if err := sleep(ctx, d); err != nil {
			return err
		}
	}
	return n.limiter.Wait(ctx)
}

func (n *Notifier) pause(d time.Duration) {
	if d <= 0 {
		d = defaultRetryAfter
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.retryAt = n.now().Add(d)
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

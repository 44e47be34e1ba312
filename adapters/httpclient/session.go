// Package httpclient provides the retry-aware HTTP session shared by
// all acquisition components.
package httpclient

import (
	"context"
	stderrors "errors"
	"io"
	"math/rand"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"vmcatalog/internal/config"
	"vmcatalog/internal/errors"
	"vmcatalog/internal/logging"
)

// RetryPolicy configures automatic retries for transient transport
// failures. Retries apply only to transport and status failures, never
// to application-level errors.
type RetryPolicy struct {
	// MaxRetries is the number of automatic retries after the first attempt
	MaxRetries int

	// RetryStatusCodes are the HTTP statuses treated as transient
	RetryStatusCodes []int

	// BackoffFactor is the base delay; attempt n waits factor * 2^n
	BackoffFactor time.Duration

	// BackoffMax caps the delay between attempts
	BackoffMax time.Duration

	// RetryMethods are the HTTP methods eligible for automatic retry.
	// Only idempotent methods belong here.
	RetryMethods []string

	// Timeout is the per-request timeout
	Timeout time.Duration
}

// DefaultRetryPolicy returns the standard acquisition policy.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:       5,
		RetryStatusCodes: []int{429, 500, 502, 503, 504},
		BackoffFactor:    5 * time.Second,
		BackoffMax:       2 * time.Minute,
		RetryMethods:     []string{http.MethodGet},
		Timeout:          60 * time.Second,
	}
}

// PolicyFromConfig builds a RetryPolicy from session configuration.
func PolicyFromConfig(cfg config.SessionConfig) *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:       cfg.MaxRetries,
		RetryStatusCodes: cfg.RetryStatusCodes,
		BackoffFactor:    time.Duration(cfg.BackoffFactorSeconds * float64(time.Second)),
		BackoffMax:       time.Duration(cfg.BackoffMaxSeconds) * time.Second,
		RetryMethods:     []string{http.MethodGet},
		Timeout:          time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

func (p *RetryPolicy) validate() error {
	if p.MaxRetries < 0 {
		return errors.Config("retry count must not be negative")
	}
	if p.Timeout <= 0 {
		return errors.Config("request timeout must be positive")
	}
	if p.BackoffFactor < 0 || p.BackoffMax < 0 {
		return errors.Config("backoff durations must not be negative")
	}
	return nil
}

// Session is an HTTP client bound to a retry policy. It serves both
// http and https URLs and is safe for sequential reuse across many
// fetch operations; concurrent use is not specified.
type Session struct {
	client      *http.Client
	policy      RetryPolicy
	retryStatus map[int]bool
	retryMethod map[string]bool
}

// NewSession builds a session for the given policy. A nil policy uses
// defaults. The factory performs no network I/O; invalid configuration
// fails fast with a configuration error.
func NewSession(policy *RetryPolicy) (*Session, error) {
	if policy == nil {
		policy = DefaultRetryPolicy()
	}
	if err := policy.validate(); err != nil {
		return nil, err
	}

	s := &Session{
		client:      &http.Client{Timeout: policy.Timeout},
		policy:      *policy,
		retryStatus: make(map[int]bool, len(policy.RetryStatusCodes)),
		retryMethod: make(map[string]bool, len(policy.RetryMethods)),
	}
	for _, code := range policy.RetryStatusCodes {
		s.retryStatus[code] = true
	}
	for _, method := range policy.RetryMethods {
		s.retryMethod[method] = true
	}
	return s, nil
}

// Get issues a GET through the session's retry policy. The response is
// returned only for 2xx statuses; the caller owns the body.
func (s *Session) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Network("failed to create request", err)
	}
	return s.Do(req)
}

// Do executes a request, retrying transient transport failures and
// retryable statuses with exponential backoff. Methods outside the
// policy's allowlist get exactly one attempt. Timeouts are classified
// and returned without session-level retry.
func (s *Session) Do(req *http.Request) (*http.Response, error) {
	maxRetries := s.policy.MaxRetries
	if !s.retryMethod[req.Method] {
		maxRetries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			logging.Debug("retrying request",
				zap.String("url", req.URL.String()),
				zap.Int("attempt", attempt),
				zap.Int("max_retries", maxRetries),
				zap.Error(lastErr))

			backoff := s.backoff(attempt - 1)
			select {
			case <-time.After(backoff):
			case <-req.Context().Done():
				return nil, errors.Network("request cancelled during backoff", req.Context().Err())
			}
		}

		resp, err := s.client.Do(req.Clone(req.Context()))
		if err != nil {
			if isTimeout(err) {
				return nil, errors.Timeout("request timed out", err)
			}
			if stderrors.Is(err, context.Canceled) {
				return nil, errors.Network("request cancelled", err)
			}
			lastErr = err
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		drain(resp)
		if s.retryStatus[resp.StatusCode] {
			lastErr = errors.Newf(errors.TypeNetwork, "source returned status %d", resp.StatusCode)
			continue
		}
		return nil, errors.Newf(errors.TypeNetwork, "source returned status %d", resp.StatusCode)
	}

	return nil, errors.Wrapf(errors.TypeNetwork, lastErr, "retries exhausted after %d attempts", maxRetries+1)
}

// backoff computes factor * 2^attempt capped at the policy maximum,
// with ±20% jitter to avoid thundering herds.
func (s *Session) backoff(attempt int) time.Duration {
	d := s.policy.BackoffFactor * time.Duration(1<<uint(attempt))
	if s.policy.BackoffMax > 0 && d > s.policy.BackoffMax {
		d = s.policy.BackoffMax
	}
	return time.Duration(float64(d) * (0.8 + 0.4*rand.Float64()))
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return stderrors.As(err, &ne) && ne.Timeout()
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// HTTPClientConfig bundles the HTTP client and circuit breaker used by a provider.
type HTTPClientConfig struct {
	Client  *http.Client
	Breaker BreakerConfig
}

// BreakerConfig controls when the circuit opens and how long it stays open.
type BreakerConfig struct {
	// ConsecutiveFailures trips the breaker; 0 means 5.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before half-opening;
	// 0 means DefaultOpenTimeout. Calls made while open send no request.
	OpenTimeout time.Duration
}

// DefaultOpenTimeout keeps a recovered provider unreachable for at most this long.
const DefaultOpenTimeout = 15 * time.Second

// maxErrorBody caps how much of a 5xx body is kept for error decoding.
const maxErrorBody = 64 << 10

var (
	errServerError  = errors.New("server error")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// statusError is a 5xx response. Body holds the start of the response body,
// which may still carry the provider's own error object.
type statusError struct {
	StatusCode int
	Body       []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%v: %d", errServerError, e.StatusCode)
}

func (e *statusError) Unwrap() error {
	return errServerError
}

func newBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}
	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = DefaultOpenTimeout
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
	})
}

// doRequest executes a single HTTP request through the circuit breaker.
// Responses below 500 are returned to the caller, who owns the body; the
// provider may report its own errors in 4xx bodies. 5xx responses count as
// breaker failures and come back as *statusError. Nothing is retried.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	buildRequest func(ctx context.Context) (*http.Request, error),
) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	req, err := buildRequest(ctx)
	if err != nil {
		return nil, err
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode >= 500 {
			defer resp.Body.Close()
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			return nil, &statusError{StatusCode: resp.StatusCode, Body: body}
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}

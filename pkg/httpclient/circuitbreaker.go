package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

// CircuitBreakerConfig tunes a breaker guarding one upstream.
type CircuitBreakerConfig struct {
	Name string

	// HalfOpenProbes requests are let through after OpenTimeout elapses.
	HalfOpenProbes uint32
	// CountWindow resets the closed-state counters; 0 keeps them forever.
	CountWindow time.Duration
	OpenTimeout time.Duration

	// The breaker opens once MinSamples requests were seen in the window and
	// at least FailureRatio of them failed.
	FailureRatio float64
	MinSamples   uint32
}

// DefaultCircuitBreakerConfig returns the settings used for the catalog.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:           name,
		HalfOpenProbes: 1,
		CountWindow:    time.Minute,
		OpenTimeout:    30 * time.Second,
		FailureRatio:   0.5,
		MinSamples:     5,
	}
}

// ErrCircuitOpen is returned while the breaker rejects requests.
var ErrCircuitOpen = gobreaker.ErrOpenState

var breakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "upstream_circuit_breaker_state",
		Help: "Upstream circuit breaker state (0=closed, 1=half-open, 2=open)",
	},
	[]string{"upstream"},
)

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// CircuitBreakerClient sends requests through a Client unless the upstream
// has been failing.
type CircuitBreakerClient struct {
	client  *Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

// NewCircuitBreakerClient wraps client with a breaker configured by cfg.
func NewCircuitBreakerClient(client *Client, cfg CircuitBreakerConfig, logger *slog.Logger) *CircuitBreakerClient {
	breakerState.WithLabelValues(cfg.Name).Set(stateValue(gobreaker.StateClosed))

	return &CircuitBreakerClient{
		client: client,
		breaker: gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name:         cfg.Name,
			MaxRequests:  cfg.HalfOpenProbes,
			Interval:     cfg.CountWindow,
			Timeout:      cfg.OpenTimeout,
			ReadyToTrip:  tripOnRatio(cfg.MinSamples, cfg.FailureRatio),
			IsSuccessful: countsAsSuccess,
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("upstream circuit breaker changed state",
					slog.String("upstream", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()),
				)
				breakerState.WithLabelValues(name).Set(stateValue(to))
			},
		}),
	}
}

func tripOnRatio(minSamples uint32, ratio float64) func(gobreaker.Counts) bool {
	return func(c gobreaker.Counts) bool {
		if c.Requests < minSamples {
			return false
		}
		return float64(c.TotalFailures)/float64(c.Requests) >= ratio
	}
}

// A request the caller cancelled says nothing about the upstream.
func countsAsSuccess(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// Do sends req. 5xx answers count as failures and are returned as a
// *StatusError with the body already closed; any other response is the
// caller's to close.
func (c *CircuitBreakerClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.client.Do(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, NewStatusError(resp)
		}
		return resp, nil
	})
}

// Get sends a GET to url.
func (c *CircuitBreakerClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create GET request: %w", err)
	}
	return c.Do(ctx, req)
}

// Post sends body to url with the given content type.
func (c *CircuitBreakerClient) Post(ctx context.Context, url, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create POST request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(ctx, req)
}

func (c *CircuitBreakerClient) State() gobreaker.State {
	return c.breaker.State()
}

// Open reports whether requests are currently being rejected.
func (c *CircuitBreakerClient) Open() bool {
	return c.breaker.State() == gobreaker.StateOpen
}

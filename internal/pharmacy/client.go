package pharmacy

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pharmscan/internal/common"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestInterval is the default spacing between requests.
	// The remote service is assumed to rate-limit aggressively.
	DefaultRequestInterval = 6 * time.Second

	// DefaultBatchSize is the number of store ids per stock lookup.
	DefaultBatchSize = 10
)

// Client is a retailer stock-checker API client. All requests pass
// through a shared rate limiter so the three endpoints are never hit
// faster than the configured interval.
type Client struct {
	geocoderURL       string
	storeSearchURL    string
	stockURL          string
	batchSize         int
	dropTrailingBatch bool
	httpClient        *http.Client
	logger            arbor.ILogger
	limiter           *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRequestInterval sets the minimum spacing between requests.
// A zero or negative interval disables rate limiting (used in tests).
func WithRequestInterval(interval time.Duration) ClientOption {
	return func(c *Client) {
		c.limiter = newLimiter(interval)
	}
}

// WithLimiter injects a shared rate limiter.
func WithLimiter(limiter *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = limiter
	}
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// NewClient creates a new stock-checker API client from configuration.
func NewClient(config *common.APIConfig, opts ...ClientOption) *Client {
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	c := &Client{
		geocoderURL:       config.GeocoderURL,
		storeSearchURL:    config.StoreSearchURL,
		stockURL:          config.StockURL,
		batchSize:         batchSize,
		dropTrailingBatch: config.DropTrailingBatch,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: newLimiter(config.RequestInterval),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/ecocart/backend/internal/domain"
)

// maxBodyBytes caps how much of an upstream response is read
const maxBodyBytes = 2 << 20

// Client handles communication with the Open Food Facts product API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	attempts    int
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Open Food Facts client. attempts is the total number
// of tries per lookup; 1 disables retries.
func NewClient(baseURL string, timeout time.Duration, attempts int, ratePerSecond float64) *Client {
	if attempts < 1 {
		attempts = 1
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if ratePerSecond <= 0 {
		ratePerSecond = 10
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		attempts:    attempts,
		rateLimiter: rate.NewLimiter(rate.Limit(ratePerSecond), 10),
	}
}

// SetDebug enables or disables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Debug().Str("component", "openfoodfacts").Msgf(format, args...)
	}
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "EcoCart/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnreachable, err)
	}

	return resp, nil
}

// LookupBarcode fetches a product by barcode. It returns domain.ErrNotFound
// when the database reports no product and domain.ErrUpstreamUnreachable when
// the database cannot be reached or answers with a failure status.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*domain.BarcodeProduct, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.ErrInvalidRequest
	}

	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(barcode))
	c.debugLog("LookupBarcode %q -> %s", barcode, reqURL)

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(exponentialBackoff(attempt - 1)):
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			c.debugLog("request error (attempt %d): %v", attempt, err)
			lastErr = err
			if ctx.Err() != nil {
				return nil, lastErr
			}
			continue
		}

		body, err := readLimitedBody(resp.Body, maxBodyBytes)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: reading body: %v", domain.ErrUpstreamUnreachable, err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			c.debugLog("API error (attempt %d) - Status: %d", attempt, resp.StatusCode)
			if resp.StatusCode == http.StatusNotFound {
				return nil, domain.ErrNotFound
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrUpstreamUnreachable, resp.StatusCode)
			if !retryable(resp.StatusCode) {
				return nil, lastErr
			}
			continue
		}

		var payload productResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		if payload.Status != 1 || payload.Product == nil {
			log.Info().Str("barcode", barcode).Str("status", payload.StatusVerbose).Msg("barcode not found in product database")
			return nil, domain.ErrNotFound
		}

		return MapToBarcodeProduct(payload.Product), nil
	}

	log.Warn().Err(lastErr).Str("barcode", barcode).Int("attempts", c.attempts).Msg("product database lookup failed")
	return nil, lastErr
}

// retryable reports whether a failed status is worth another attempt
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// exponentialBackoff returns the wait before the given retry (1-based)
func exponentialBackoff(retry int) time.Duration {
	return time.Duration(500*(1<<(retry-1))) * time.Millisecond
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

package zigchain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultLCDBase = "https://public-zigchain-lcd.numia.xyz"

	// The public LCD tolerates ~20 req/s per IP; with two 1-2s pollers plus
	// ad-hoc balance and registry queries we stay well under half of that.
	lcdRatePerSec = 10

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Client is the ZigChain LCD (REST) client with rate limiting and retries.
// Transaction signing does not go through here; see TxClient.
type Client struct {
	http    *http.Client
	lcdBase string
	limiter *rate.Limiter
}

// NewClient creates a Client for the given LCD base URL.
// An empty lcdBase falls back to the public endpoint.
func NewClient(lcdBase string) *Client {
	if lcdBase == "" {
		lcdBase = defaultLCDBase
	}
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		lcdBase: lcdBase,
		limiter: rate.NewLimiter(lcdRatePerSec, 5),
	}
}

// get does a GET with rate limiting and retries, decoding JSON into out.
func (c *Client) get(ctx context.Context, url string, out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			slog.Warn("rate limited by LCD", "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep waits with exponential backoff, respecting the context.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}

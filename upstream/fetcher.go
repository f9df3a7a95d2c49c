// Package upstream holds the HTTP plumbing shared by the RxNorm and OpenFDA
// clients: an outbound token bucket, per-call timeouts, status mapping,
// charset repair and latency metrics.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/juju/ratelimit"
	"golang.org/x/text/encoding/charmap"

	"github.com/eczane/pharmacy-api/logging"
	"github.com/eczane/pharmacy-api/metrics"
)

// ErrNotFound is returned when the upstream answers 404
var ErrNotFound = errors.New("upstream: not found")

const maxBodySize = 8 << 20

// StatusError is a non-2xx, non-404 answer
type StatusError struct {
	Upstream string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.Upstream, e.Code)
}

// NewBucket builds the outbound bucket shared by every client: rate tokens
// per second with a burst of the same size (at least 1).
func NewBucket(rate float64) *ratelimit.Bucket {
	capacity := int64(rate)
	if capacity < 1 {
		capacity = 1
	}
	return ratelimit.NewBucketWithRate(rate, capacity)
}

// Fetcher performs throttled GET requests against one upstream
type Fetcher struct {
	name   string
	client *http.Client
	bucket *ratelimit.Bucket
}

// NewFetcher returns a fetcher labelled name. A nil client uses a pooled
// default and a nil bucket disables throttling.
func NewFetcher(name string, client *http.Client, bucket *ratelimit.Bucket) *Fetcher {
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &Fetcher{name: name, client: client, bucket: bucket}
}

func (f *Fetcher) Name() string { return f.name }

// wait takes one token from the shared bucket, giving up when ctx ends
func (f *Fetcher) wait(ctx context.Context) error {
	if f.bucket == nil {
		return nil
	}
	d := f.bucket.Take(1)
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetJSON fetches rawURL within timeout and decodes the body into dst
func (f *Fetcher) GetJSON(ctx context.Context, rawURL string, timeout time.Duration, dst any) error {
	body, err := f.get(ctx, rawURL, timeout)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode %s response: %w", f.name, err)
	}
	return nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	if err := f.wait(ctx); err != nil {
		return nil, fmt.Errorf("%s throttle: %w", f.name, err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", f.name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "pharmacy-api/1.0")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		metrics.UpstreamRequestDuration.WithLabelValues(f.name, metrics.StatusClass(0)).Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("%s request failed: %w", f.name, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "upstream", f.name, "error", err)
		}
	}()
	metrics.UpstreamRequestDuration.WithLabelValues(f.name, metrics.StatusClass(resp.StatusCode)).Observe(time.Since(start).Seconds())

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", f.name, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{Upstream: f.name, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", f.name, err)
	}

	// Some label texts arrive in latin-1
	if !utf8.Valid(body) {
		decoded, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(body)))
		if err != nil {
			return nil, fmt.Errorf("decode %s charset: %w", f.name, err)
		}
		body = decoded
	}
	return body, nil
}

// Probe reports whether the upstream answers rawURL with anything below 500
func (f *Fetcher) Probe(ctx context.Context, rawURL string, timeout time.Duration) error {
	_, err := f.get(ctx, rawURL, timeout)
	var se *StatusError
	switch {
	case err == nil, errors.Is(err, ErrNotFound):
		return nil
	case errors.As(err, &se) && se.Code < 500:
		return nil
	default:
		return err
	}
}

// Truncate cuts s to at most n characters
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

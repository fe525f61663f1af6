package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xaenox/bdc-edge/internal/metrics"
)

const (
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultAccept       = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	defaultLanguage     = "en-US,en;q=0.5"
	defaultEncoding     = "gzip, deflate, br"
	defaultMaxBodyBytes = 10 * 1024 * 1024
)

type FetcherConfig struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
	// RateLimit is requests per second across all hosts; zero or less disables limiting
	RateLimit float64
	Burst     int
}

// Fetcher downloads listing pages with browser-like headers. It never retries.
type Fetcher struct {
	client       *http.Client
	limiter      *rate.Limiter
	userAgent    string
	maxBodyBytes int64
	logger       *zap.Logger
}

func NewFetcher(cfg FetcherConfig, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Fetcher{
		client:       &http.Client{Timeout: cfg.Timeout},
		limiter:      limiter,
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
		logger:       logger,
	}
}

// Fetch returns the decoded body of rawURL. A non-2xx answer is a FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", defaultAccept)
	req.Header.Set("Accept-Language", defaultLanguage)
	req.Header.Set("Accept-Encoding", defaultEncoding)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		metrics.FetchLatency.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	metrics.FetchLatency.WithLabelValues(strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Warn("Listing page returned non-success status",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode))
		return "", &FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
		}
	}

	body, err := decodeBody(resp)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, f.maxBodyBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if int64(len(data)) > f.maxBodyBytes {
		f.logger.Warn("Listing page exceeds body limit, truncating",
			zap.String("url", rawURL),
			zap.Int64("max_body_bytes", f.maxBodyBytes))
		data = data[:f.maxBodyBytes]
	}

	f.logger.Debug("Fetched listing page",
		zap.String("url", rawURL),
		zap.Int("bytes", len(data)),
		zap.Duration("latency", time.Since(start)))

	return string(data), nil
}

// decodeBody undoes the Content-Encoding; setting Accept-Encoding ourselves turns off
// the transport's transparent gzip handling.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "", "identity":
		return resp.Body, nil
	case "gzip", "x-gzip":
		r, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("decoding gzip body: %w", err)
		}
		return r, nil
	case "deflate":
		r, err := zlib.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("decoding deflate body: %w", err)
		}
		return r, nil
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}
}

// statusText strips the numeric code from resp.Status
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

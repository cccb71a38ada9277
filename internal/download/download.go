// Package download fetches dictionary pages and media files over HTTP.
//
// All requests go through a circuit breaker: once a site keeps failing the
// downloader stops hitting it for a while and fails fast instead. Nothing is
// retried.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/text/encoding/htmlindex"

	"codeberg.org/snonux/copywords/internal/logging"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultUserAgent   = "copywords/1.0 (+https://codeberg.org/snonux/copywords)"
	defaultMaxFailures = 5
	defaultOpenTimeout = 60 * time.Second

	maxPageBytes = 10 * 1024 * 1024 // 10MB
)

// ErrTooLarge is returned when a file exceeds the size limit passed to DownloadFile
var ErrTooLarge = errors.New("download exceeds maximum size")

// StatusError is returned for non-2xx responses other than 404 on pages
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Options configures the downloader
type Options struct {
	Timeout     time.Duration // Per request timeout
	UserAgent   string
	MaxFailures uint32        // Consecutive failures before the breaker opens
	OpenTimeout time.Duration // How long the breaker stays open
}

// DefaultOptions returns sensible defaults for talking to dictionary sites
func DefaultOptions() *Options {
	return &Options{
		Timeout:     defaultTimeout,
		UserAgent:   defaultUserAgent,
		MaxFailures: defaultMaxFailures,
		OpenTimeout: defaultOpenTimeout,
	}
}

// Downloader performs GET requests guarded by a circuit breaker
type Downloader struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	userAgent  string
	log        *slog.Logger
}

// New creates a downloader. A nil options uses DefaultOptions, a nil
// logger discards log output.
func New(options *Options, log *slog.Logger) *Downloader {
	if options == nil {
		options = DefaultOptions()
	}
	return NewWithClient(&http.Client{Timeout: options.Timeout}, options, log)
}

// NewWithClient creates a downloader with a custom HTTP client
func NewWithClient(client *http.Client, options *Options, log *slog.Logger) *Downloader {
	if options == nil {
		options = DefaultOptions()
	}
	if log == nil {
		log = logging.Discard()
	}

	maxFailures := options.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultMaxFailures
	}
	userAgent := options.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "download",
		Timeout: options.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// Client errors say nothing about the health of the site
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return se.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &Downloader{
		httpClient: client,
		breaker:    breaker,
		userAgent:  userAgent,
		log:        log,
	}
}

// DownloadPage fetches a page and decodes it from the named charset ("" or
// "utf-8" for UTF-8). A 404 yields an empty string and no error.
func (d *Downloader) DownloadPage(ctx context.Context, url, encoding string) (string, error) {
	result, err := d.breaker.Execute(func() (interface{}, error) {
		return d.fetchPage(ctx, url, encoding)
	})
	if err != nil {
		return "", fmt.Errorf("failed to download page: %w", err)
	}

	return result.(string), nil
}

func (d *Downloader) fetchPage(ctx context.Context, url, encoding string) (string, error) {
	resp, err := d.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		d.log.Debug("page not found", "url", url)
		return "", nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	var body io.Reader = io.LimitReader(resp.Body, maxPageBytes)
	if encoding != "" && !strings.EqualFold(encoding, "utf-8") {
		enc, err := htmlindex.Get(encoding)
		if err != nil {
			return "", fmt.Errorf("unsupported encoding %q: %w", encoding, err)
		}
		body = enc.NewDecoder().Reader(body)
	}

	content, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	d.log.Debug("page downloaded", "url", url, "bytes", len(content))
	return string(content), nil
}

// DownloadFile streams url into path. Files larger than maxBytes are
// rejected with ErrTooLarge, maxBytes 0 means no limit. Nothing is left
// behind at path when the download fails.
func (d *Downloader) DownloadFile(ctx context.Context, url, path string, maxBytes int64) error {
	_, err := d.breaker.Execute(func() (interface{}, error) {
		return nil, d.fetchFile(ctx, url, path, maxBytes)
	})
	if err != nil {
		return fmt.Errorf("failed to download file: %w", err)
	}
	return nil
}

func (d *Downloader) fetchFile(ctx context.Context, url, path string, maxBytes int64) error {
	resp, err := d.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	var reader io.Reader = resp.Body
	if maxBytes > 0 {
		// Read one byte past the limit to detect oversized files
		reader = io.LimitReader(resp.Body, maxBytes+1)
	}

	written, err := io.Copy(file, reader)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err == nil && maxBytes > 0 && written > maxBytes {
		err = fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, maxBytes)
	}
	if err != nil {
		os.Remove(path) // Clean up partial file
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	d.log.Debug("file downloaded", "url", url, "path", path, "bytes", written)
	return nil
}

func (d *Downloader) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	d.log.Debug("GET", "url", url)
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"seoaudit/internal/limiter"
)

const (
	// DefaultUserAgent is a browser-like agent; some sites refuse unknown clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	maxBodyBytes = 10 << 20
)

var errInvalidRequest = errors.New("invalid request")

// Kind classifies why a fetch failed.
type Kind string

const (
	KindInvalid Kind = "invalid"
	KindNetwork Kind = "network"
	KindTimeout Kind = "timeout"
	KindStatus  Kind = "status"
	KindDecode  Kind = "decode"
)

// Error is the failure side of a fetch. StatusCode is set only for KindStatus.
type Error struct {
	Kind       Kind
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("fetch %s: %s", e.URL, statusText(e.StatusCode))
	}

	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Page contains a fetched response decoded to UTF-8.
// Size is the raw body length in bytes; Elapsed covers request and body read.
type Page struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       string
	Size       int
	Elapsed    time.Duration
}

// Config holds per-fetcher settings.
type Config struct {
	Timeout   time.Duration
	UserAgent string
	Limiter   *limiter.Limiter
	Clock     limiter.Timer
}

// Fetcher performs single-attempt GET requests. There are no retries.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	limiter   *limiter.Limiter
	clock     limiter.Timer
}

// New creates a Fetcher with the provided configuration.
func New(client *http.Client, cfg Config) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	if cfg.Clock == nil {
		cfg.Clock = limiter.Clock{}
	}

	return &Fetcher{
		client:    client,
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		limiter:   cfg.Limiter,
		clock:     cfg.Clock,
	}
}

// Fetch performs a GET and treats any non-2xx status as a failure.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	page, err := f.Get(ctx, rawURL)
	if err != nil {
		return page, err
	}

	if page.StatusCode < http.StatusOK || page.StatusCode >= http.StatusMultipleChoices {
		return page, &Error{Kind: KindStatus, URL: rawURL, StatusCode: page.StatusCode}
	}

	return page, nil
}

// Get performs a GET and returns the response whatever its status.
// Only transport, timeout and decoding problems are errors.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (Page, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return Page{URL: rawURL}, classify(rawURL, err)
		}
	}

	requestCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		requestCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return Page{URL: rawURL}, classify(rawURL, fmt.Errorf("%w: %v", errInvalidRequest, err))
	}

	if parsedURL.Path == "" {
		parsedURL.Path = "/"
	}

	request, err := http.NewRequestWithContext(requestCtx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return Page{URL: rawURL}, classify(rawURL, fmt.Errorf("%w: %v", errInvalidRequest, err))
	}

	request.Header.Set("User-Agent", f.userAgent)

	start := f.clock.Now()

	response, err := f.client.Do(request)
	if err != nil {
		return Page{URL: rawURL}, classify(rawURL, err)
	}
	defer func() {
		_ = response.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxBodyBytes))
	if err != nil {
		return Page{URL: rawURL, StatusCode: response.StatusCode}, classify(rawURL, fmt.Errorf("read body: %w", err))
	}

	elapsed := limiter.Elapsed(f.clock, start)

	body, err := decode(raw, response.Header.Get("Content-Type"))
	if err != nil {
		return Page{URL: rawURL, StatusCode: response.StatusCode}, &Error{Kind: KindDecode, URL: rawURL, Err: err}
	}

	return Page{
		URL:        rawURL,
		StatusCode: response.StatusCode,
		Header:     response.Header,
		Body:       body,
		Size:       len(raw),
		Elapsed:    elapsed,
	}, nil
}

func decode(raw []byte, contentType string) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	reader, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", fmt.Errorf("detect charset: %w", err)
	}

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}

	if !utf8.Valid(decoded) {
		return "", errors.New("body is not valid text")
	}

	return string(decoded), nil
}

func classify(rawURL string, err error) *Error {
	kind := KindNetwork

	switch {
	case errors.Is(err, errInvalidRequest):
		kind = KindInvalid
	case isTimeout(err):
		kind = KindTimeout
	}

	return &Error{Kind: kind, URL: rawURL, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

func statusText(statusCode int) string {
	text := http.StatusText(statusCode)
	if text == "" {
		return fmt.Sprintf("http status %d", statusCode)
	}

	return fmt.Sprintf("http status %d %s", statusCode, text)
}

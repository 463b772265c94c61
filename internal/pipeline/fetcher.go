package pipeline

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/casematch/internal/logger"
	"github.com/ppiankov/casematch/internal/model"
	"github.com/ppiankov/casematch/internal/textnorm"
	"github.com/ppiankov/casematch/internal/util"
	"github.com/ppiankov/casematch/internal/worker"
)

const fetchAttempts = 3

// ErrDisallowed is returned when robots.txt forbids fetching a document
var ErrDisallowed = errors.New("fetch disallowed by robots.txt")

// fetchRetryBase is the first retry backoff; it doubles per attempt
var fetchRetryBase = time.Second

// StatusError is a non-2xx response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

// Fetcher retrieves case documents (judgments, FIRs, orders) by URL
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsPolicy
	hosts      *worker.Limiter // Paces requests per host (robots.txt crawl delay)
}

// NewFetcher creates a fetcher from the fetch configuration
func NewFetcher(cfg model.FetchConfig) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		hosts:      worker.NewLimiter(0, 1),
	}
	if f.maxBytes <= 0 {
		f.maxBytes = 2_000_000
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsPolicy(client, cfg.UserAgent)
	}
	return f
}

// CaseDocument is a fetched case narrative
type CaseDocument struct {
	URL          string
	Subject      string
	ContentType  string
	LastModified string
	Text         string // Visible text, markup stripped
}

// FetchWithRetry fetches rawURL, retrying transient failures (network
// errors, 429 and 5xx) with exponential backoff. Requests to a host whose
// robots.txt sets a crawl delay are spaced by that delay.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*CaseDocument, error) {
	host := hostKey(rawURL)

	if f.robots != nil {
		allowed, delay, err := f.robots.Allowed(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
		if delay > 0 {
			logger.Debug("robots.txt asks for %s crawl delay on %s", delay, host)
			f.hosts.SetRate(host, 1/delay.Seconds(), 1)
		}
	}

	var lastErr error
	var backoff time.Duration
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		if err := f.hosts.WaitWithDelay(ctx, host, backoff); err != nil {
			return nil, err
		}

		doc, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) || attempt == fetchAttempts {
			break
		}
		backoff = fetchRetryBase << (attempt - 1)
		logger.Debug("fetch attempt %d failed (%v), retrying in %s", attempt, err, backoff)
	}
	return nil, lastErr
}

func hostKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.ToLower(u.Host)
}

// Fetch performs a single request
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*CaseDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-IN,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	text := string(body)
	if strings.Contains(contentType, "html") || textnorm.LooksLikeHTML(text) {
		if text, err = textnorm.VisibleText(text); err != nil {
			return nil, fmt.Errorf("extract text: %w", err)
		}
	}

	finalURL := resp.Request.URL.String()
	return &CaseDocument{
		URL:          finalURL,
		Subject:      extractSubject(finalURL),
		ContentType:  contentType,
		LastModified: resp.Header.Get("Last-Modified"),
		Text:         strings.TrimSpace(text),
	}, nil
}

func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return strings.HasPrefix(err.Error(), "fetch: ")
}

// extractSubject derives a readable name from the URL's last path segment
func extractSubject(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}
	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")

	return last
}

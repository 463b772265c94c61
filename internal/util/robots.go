package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsPolicy answers whether a case document URL may be fetched.
// Parsed robots.txt files are cached per host for the life of the policy.
type RobotsPolicy struct {
	client *http.Client
	agent  string

	mu    sync.RWMutex
	hosts map[string]*robotstxt.RobotsData
}

// NewRobotsPolicy creates a policy that identifies as userAgent. The client
// is shared with the document fetcher so proxy and TLS settings match.
func NewRobotsPolicy(client *http.Client, userAgent string) *RobotsPolicy {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RobotsPolicy{
		client: client,
		agent:  userAgent,
		hosts:  make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether rawURL may be fetched and the crawl delay the host
// asks for. An unreachable robots.txt allows the fetch.
func (p *RobotsPolicy) Allowed(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}
	if parsed.Host == "" {
		return false, 0, fmt.Errorf("parse URL: missing host in %q", rawURL)
	}

	data, err := p.robots(ctx, parsed)
	if err != nil {
		return true, 0, nil
	}

	agent := ProductToken(p.agent)
	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}

	var delay time.Duration
	if group := data.FindGroup(agent); group != nil {
		delay = group.CrawlDelay
	}
	return data.TestAgent(path, agent), delay, nil
}

func (p *RobotsPolicy) robots(ctx context.Context, target *url.URL) (*robotstxt.RobotsData, error) {
	p.mu.RLock()
	data, ok := p.hosts[target.Host]
	p.mu.RUnlock()
	if ok {
		return data, nil
	}

	robotsURL := target.Scheme + "://" + target.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.agent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	p.mu.Lock()
	p.hosts[target.Host] = data
	p.mu.Unlock()

	return data, nil
}

// ProductToken reduces a User-Agent to the product name robots.txt groups
// match on: "casematch/0.1 (+url)" -> "casematch"
func ProductToken(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) == 0 {
		return ua
	}
	return strings.SplitN(parts[0], "/", 2)[0]
}

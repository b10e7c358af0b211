package transfermarkt

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/swos-squad-import/internal/domain/club"
	"github.com/riskibarqy/swos-squad-import/internal/platform/cache"
	"github.com/riskibarqy/swos-squad-import/internal/platform/logging"
	"github.com/valyala/fasthttp"
)

const (
	DefaultBaseURL   = "https://www.transfermarkt.com"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	defaultTimeout = 30 * time.Second
	maxRedirects   = 5
)

type ClientConfig struct {
	BaseURL      string
	UserAgent    string
	Timeout      time.Duration
	PageCacheTTL time.Duration
	Logger       *logging.Logger
	HTTPClient   *fasthttp.Client
}

// Client fetches pages from the source site. Each absolute URL is fetched
// at most once per cache lifetime, even when clubs run concurrently.
type Client struct {
	http      *fasthttp.Client
	baseURL   *url.URL
	userAgent string
	timeout   time.Duration
	pages     *cache.Store[[]byte]
	logger    *logging.Logger
}

func NewClient(cfg ClientConfig) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	rawBase := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if rawBase == "" {
		rawBase = DefaultBaseURL
	}
	baseURL, err := url.Parse(rawBase)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                     userAgent,
			ReadTimeout:              timeout,
			WriteTimeout:             timeout,
			MaxIdleConnDuration:      time.Minute,
			NoDefaultUserAgentHeader: true,
		}
	}

	return &Client{
		http:      httpClient,
		baseURL:   baseURL,
		userAgent: userAgent,
		timeout:   timeout,
		pages:     cache.NewStore[[]byte](cfg.PageCacheTTL),
		logger:    logger,
	}, nil
}

// Resolve turns a site-relative href into an absolute URL.
func (c *Client) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty page reference")
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse page reference %q: %w", ref, err)
	}
	return c.baseURL.ResolveReference(parsed).String(), nil
}

// Page returns the body of ref. Failures wrap club.ErrSourceUnavailable.
func (c *Client) Page(ctx context.Context, ref string) ([]byte, error) {
	target, err := c.Resolve(ref)
	if err != nil {
		return nil, crerr.Wrapf(club.ErrSourceUnavailable, "%v", err)
	}

	return c.pages.GetOrLoad(ctx, target, func(ctx context.Context) ([]byte, error) {
		return c.fetch(ctx, target)
	})
}

// CacheStats reports page cache hits and network fetches.
func (c *Client) CacheStats() (hits, fetches int64) {
	return c.pages.Stats()
}

func (c *Client) fetch(ctx context.Context, target string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, crerr.Wrapf(club.ErrSourceUnavailable, "get %s: %v", target, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(target)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(c.userAgent)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Accept-Language", "en")

	start := time.Now()
	if err := c.http.DoRedirects(req, resp, maxRedirects); err != nil {
		c.logger.WarnContext(ctx, "page fetch failed", "url", target, "error", err)
		return nil, crerr.Wrapf(club.ErrSourceUnavailable, "get %s: %v", target, err)
	}

	status := resp.StatusCode()
	if status != fasthttp.StatusOK {
		c.logger.WarnContext(ctx, "page fetch rejected", "url", target, "status", status)
		return nil, crerr.Wrapf(club.ErrSourceUnavailable, "get %s: unexpected status %d", target, status)
	}

	body := append([]byte(nil), resp.Body()...)
	c.logger.DebugContext(ctx, "page fetched",
		"url", target,
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return body, nil
}

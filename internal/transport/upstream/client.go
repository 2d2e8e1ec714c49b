// Package upstream is the HTTP client of the catalog API used to enrich
// documents before they are indexed.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/bizsearch/internal/domain"
	"github.com/kailas-cloud/bizsearch/internal/metrics"
)

// DefaultTimeout bounds a single lookup when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

const categoryPath = "api/catalogManagement/v2/category"

// Lookup kinds, used as metric labels.
const (
	KindCategory = "category"
	KindOffering = "offering"
)

// Endpoint locates a backend API.
type Endpoint struct {
	Host string
	Port int
	Path string
	SSL  bool
}

// BaseURL returns scheme://host:port of the endpoint.
func (e Endpoint) BaseURL() *url.URL {
	scheme := "http"
	if e.SSL {
		scheme = "https"
	}
	return &url.URL{Scheme: scheme, Host: net.JoinHostPort(e.Host, strconv.Itoa(e.Port))}
}

// Config holds the catalog client settings.
type Config struct {
	Catalog Endpoint
	Timeout time.Duration
	// RateLimit caps lookups per second; zero disables limiting.
	RateLimit float64
	Burst     int
	Client    *http.Client
	Logger    *zap.Logger
}

// Client fetches categories and offering details from the catalog API.
type Client struct {
	catalog Endpoint
	http    *http.Client
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a catalog API client.
func NewClient(cfg Config) *Client {
	c := &Client{
		catalog: cfg.Catalog,
		http:    cfg.Client,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c
}

// CategoryURL returns the category endpoint of id.
func (c *Client) CategoryURL(id domain.ID) string {
	u := c.catalog.BaseURL()
	u.Path = path.Join("/", c.catalog.Path, categoryPath, id.String())
	return u.String()
}

// OfferingURL resolves the path of an offering href against the catalog
// endpoint.
func (c *Client) OfferingURL(href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse offering href %q: %w", href, domain.ErrInvalidEntity)
	}
	u := c.catalog.BaseURL()
	u.Path = ref.Path
	u.RawQuery = ref.RawQuery
	return u.String(), nil
}

// Category fetches the category id.
func (c *Client) Category(ctx context.Context, id domain.ID) (domain.Category, error) {
	var out domain.Category
	if err := c.get(ctx, KindCategory, c.CategoryURL(id), &out); err != nil {
		return domain.Category{}, err
	}
	return out, nil
}

// OfferingDetail fetches the name and description of the offering at href.
func (c *Client) OfferingDetail(ctx context.Context, href string) (domain.OfferingDetail, error) {
	target, err := c.OfferingURL(href)
	if err != nil {
		return domain.OfferingDetail{}, err
	}
	var out domain.OfferingDetail
	if err := c.get(ctx, KindOffering, target, &out); err != nil {
		return domain.OfferingDetail{}, err
	}
	return out, nil
}

// HealthCheck dials the catalog endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.catalog.BaseURL().Host)
	if err != nil {
		return fmt.Errorf("dial catalog: %w", err)
	}
	return conn.Close()
}

func (c *Client) get(ctx context.Context, kind, target string, v any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s lookup %s: %w", kind, target, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", kind, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.EnrichmentRequestDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EnrichmentRequestsTotal.WithLabelValues(kind, "error").Inc()
		return fmt.Errorf("GET %s: %w: %w", target, domain.ErrLookupFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.EnrichmentRequestsTotal.WithLabelValues(kind, strconv.Itoa(resp.StatusCode)).Inc()
		c.logger.Warn("Enrichment lookup rejected",
			zap.String("kind", kind), zap.String("url", target), zap.Int("status", resp.StatusCode))
		return domain.NewLookupError(target, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		metrics.EnrichmentRequestsTotal.WithLabelValues(kind, "invalid").Inc()
		return fmt.Errorf("decode %s: %w: %w", target, domain.ErrLookupFailed, err)
	}
	metrics.EnrichmentRequestsTotal.WithLabelValues(kind, "success").Inc()
	return nil
}

package inat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/yourorg/taxa-api/internal/metrics"
)

const DefaultBaseURL = "https://api.inaturalist.org/v1"

// APIError is a non-success upstream status. The body is deliberately not
// carried: upstream payloads must never leak to our callers.
type APIError struct {
	Endpoint string
	Status   int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("inaturalist %s: status %d", e.Endpoint, e.Status)
}

type ClientConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	RetryMax  int
	// Outbound throttle; iNaturalist asks clients to stay around 1 req/s.
	RequestsPerSecond float64
	Burst             int
}

type Client struct {
	baseURL   string
	userAgent string
	http      *retryablehttp.Client
	limiter   *rate.Limiter
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.RetryMax < 0 {
		cfg.RetryMax = 0
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 2
	}

	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = cfg.RetryMax
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = nil

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      rc,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// SearchTaxa queries /taxa by name, restricted to the given ranks and
// optionally an iconic taxon group (e.g. "Insecta").
func (c *Client) SearchTaxa(ctx context.Context, q string, ranks []string, iconicTaxon string, perPage int) ([]byte, error) {
	v := url.Values{}
	v.Set("q", q)
	if len(ranks) > 0 {
		v.Set("rank", strings.Join(ranks, ","))
	}
	if iconicTaxon != "" {
		v.Set("iconic_taxa", iconicTaxon)
	}
	if perPage > 0 {
		v.Set("per_page", fmt.Sprintf("%d", perPage))
	}
	return c.get(ctx, "taxa", fmt.Sprintf("%s/taxa?%s", c.baseURL, v.Encode()))
}

// SearchObservations queries /observations under a taxon, pinned to
// research-grade photographed records in stable vote order.
func (c *Client) SearchObservations(ctx context.Context, taxonID, perPage, page int) ([]byte, error) {
	v := url.Values{}
	v.Set("taxon_id", fmt.Sprintf("%d", taxonID))
	v.Set("quality_grade", "research")
	v.Set("photos", "true")
	v.Set("order_by", "votes")
	v.Set("order", "desc")
	if perPage > 0 {
		v.Set("per_page", fmt.Sprintf("%d", perPage))
	}
	if page > 0 {
		v.Set("page", fmt.Sprintf("%d", page))
	} else {
		v.Set("page", "1")
	}
	return c.get(ctx, "observations", fmt.Sprintf("%s/observations?%s", c.baseURL, v.Encode()))
}

func (c *Client) get(ctx context.Context, endpoint, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.ObserveUpstream(endpoint, time.Since(start), err == nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &APIError{Endpoint: endpoint, Status: resp.StatusCode}
	}
	return readAllLimit(resp.Body, 4<<20) // 4MB guard
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}

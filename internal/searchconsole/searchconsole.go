// Package searchconsole wraps the Search Console API behind one-call-per-operation
// methods that return plain local types.
package searchconsole

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"google.golang.org/api/option"
	sc "google.golang.org/api/searchconsole/v1"
)

// Client issues Search Console API requests through an authenticated HTTP client.
type Client struct {
	service  *sc.Service
	validate *validator.Validate
}

// New creates a Client. httpClient must already sign requests; opts are appended
// after it, so tests can redirect the endpoint with option.WithEndpoint.
func New(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("missing HTTP client")
	}

	clientOpts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	service, err := sc.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create search console service: %w", err)
	}

	return &Client{
		service:  service,
		validate: validator.New(),
	}, nil
}

// ListSites returns every property the authorized account can access.
func (c *Client) ListSites(ctx context.Context) ([]Site, error) {
	resp, err := c.service.Sites.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}

	sites := make([]Site, 0, len(resp.SiteEntry))
	for _, entry := range resp.SiteEntry {
		if entry == nil {
			continue
		}
		sites = append(sites, siteFromAPI(entry))
	}
	return sites, nil
}

// GetSite returns a single property.
func (c *Client) GetSite(ctx context.Context, siteURL string) (Site, error) {
	entry, err := c.service.Sites.Get(siteURL).Context(ctx).Do()
	if err != nil {
		return Site{}, fmt.Errorf("failed to get site information: %w", err)
	}
	return siteFromAPI(entry), nil
}

// Query runs a search analytics query. The request is checked locally before any
// network call.
func (c *Client) Query(ctx context.Context, siteURL string, req QueryRequest) (*AnalyticsReport, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	resp, err := c.service.Searchanalytics.Query(siteURL, &sc.SearchAnalyticsQueryRequest{
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Dimensions: req.Dimensions,
		RowLimit:   int64(req.RowLimit),
		Type:       req.SearchType,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to query search analytics: %w", err)
	}

	report := &AnalyticsReport{
		SiteURL: siteURL,
		DateRange: DateRange{
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
		},
		Rows: make([]AnalyticsRow, 0, len(resp.Rows)),
	}
	for _, row := range resp.Rows {
		if row == nil {
			continue
		}
		keys := row.Keys
		if keys == nil {
			keys = []string{}
		}
		report.Rows = append(report.Rows, AnalyticsRow{
			Keys:        keys,
			Clicks:      row.Clicks,
			Impressions: row.Impressions,
			CTR:         row.Ctr,
			Position:    row.Position,
		})
	}
	return report, nil
}

// ListSitemaps returns the sitemaps submitted for a property.
func (c *Client) ListSitemaps(ctx context.Context, siteURL string) ([]Sitemap, error) {
	resp, err := c.service.Sitemaps.List(siteURL).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list sitemaps: %w", err)
	}

	sitemaps := make([]Sitemap, 0, len(resp.Sitemap))
	for _, s := range resp.Sitemap {
		if s == nil {
			continue
		}
		sitemaps = append(sitemaps, sitemapFromAPI(s))
	}
	return sitemaps, nil
}

// GetSitemap returns a single sitemap by its feed path.
func (c *Client) GetSitemap(ctx context.Context, siteURL, feedpath string) (Sitemap, error) {
	s, err := c.service.Sitemaps.Get(siteURL, feedpath).Context(ctx).Do()
	if err != nil {
		return Sitemap{}, fmt.Errorf("failed to get sitemap information: %w", err)
	}
	return sitemapFromAPI(s), nil
}

// SubmitSitemap submits a sitemap for a property.
func (c *Client) SubmitSitemap(ctx context.Context, siteURL, feedpath string) error {
	if err := c.service.Sitemaps.Submit(siteURL, feedpath).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to submit sitemap: %w", err)
	}
	return nil
}

// DeleteSitemap removes a sitemap from a property.
func (c *Client) DeleteSitemap(ctx context.Context, siteURL, feedpath string) error {
	if err := c.service.Sitemaps.Delete(siteURL, feedpath).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete sitemap: %w", err)
	}
	return nil
}

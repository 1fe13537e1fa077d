package searchconsole

import (
	sc "google.golang.org/api/searchconsole/v1"
)

// Site is a Search Console property.
type Site struct {
	URL             string `json:"siteUrl"`
	PermissionLevel string `json:"permissionLevel"`
}

func siteFromAPI(s *sc.WmxSite) Site {
	return Site{
		URL:             s.SiteUrl,
		PermissionLevel: s.PermissionLevel,
	}
}

// Sitemap describes a submitted sitemap and its processing state.
type Sitemap struct {
	Path            string           `json:"path"`
	Type            string           `json:"type,omitempty"`
	IsPending       bool             `json:"isPending"`
	IsSitemapsIndex bool             `json:"isSitemapsIndex"`
	LastSubmitted   string           `json:"lastSubmitted,omitempty"`
	LastDownloaded  string           `json:"lastDownloaded,omitempty"`
	Errors          int64            `json:"errors"`
	Warnings        int64            `json:"warnings"`
	Contents        []SitemapContent `json:"contents,omitempty"`
}

// Status is "Pending" until Google has processed the sitemap.
func (s Sitemap) Status() string {
	if s.IsPending {
		return "Pending"
	}
	return "Processed"
}

// SitemapContent counts the URLs of one content type in a sitemap.
type SitemapContent struct {
	Type      string `json:"type"`
	Submitted int64  `json:"submitted"`
	Indexed   int64  `json:"indexed"`
}

func sitemapFromAPI(s *sc.WmxSitemap) Sitemap {
	out := Sitemap{
		Path:            s.Path,
		Type:            s.Type,
		IsPending:       s.IsPending,
		IsSitemapsIndex: s.IsSitemapsIndex,
		LastSubmitted:   s.LastSubmitted,
		LastDownloaded:  s.LastDownloaded,
		Errors:          s.Errors,
		Warnings:        s.Warnings,
	}
	for _, c := range s.Contents {
		if c == nil {
			continue
		}
		out.Contents = append(out.Contents, SitemapContent{
			Type:      c.Type,
			Submitted: c.Submitted,
			Indexed:   c.Indexed,
		})
	}
	return out
}

// QueryRequest selects the search analytics data to return. Dates are
// YYYY-MM-DD in Pacific time, as the API interprets them.
type QueryRequest struct {
	StartDate  string   `validate:"required,datetime=2006-01-02"`
	EndDate    string   `validate:"required,datetime=2006-01-02"`
	Dimensions []string `validate:"dive,oneof=country device page query searchAppearance date hour"`
	RowLimit   int      `validate:"min=1,max=25000"`
	// SearchType filters by search surface (web, image, video, news, discover,
	// googleNews). Empty means web.
	SearchType string `validate:"omitempty,oneof=web image video news discover googleNews"`
}

// DateRange is the inclusive range a report covers.
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// AnalyticsReport is the result of a search analytics query.
type AnalyticsReport struct {
	SiteURL   string         `json:"siteUrl"`
	DateRange DateRange      `json:"dateRange"`
	Rows      []AnalyticsRow `json:"data"`
}

// AnalyticsRow holds the metrics for one combination of dimension values.
type AnalyticsRow struct {
	Keys        []string `json:"keys"`
	Clicks      float64  `json:"clicks"`
	Impressions float64  `json:"impressions"`
	CTR         float64  `json:"ctr"`
	Position    float64  `json:"position"`
}

// Metric returns the named metric, and false for an unknown name.
func (r AnalyticsRow) Metric(name string) (float64, bool) {
	switch name {
	case MetricClicks:
		return r.Clicks, true
	case MetricImpressions:
		return r.Impressions, true
	case MetricCTR:
		return r.CTR, true
	case MetricPosition:
		return r.Position, true
	default:
		return 0, false
	}
}

// Metric names returned for every analytics row.
const (
	MetricClicks      = "clicks"
	MetricImpressions = "impressions"
	MetricCTR         = "ctr"
	MetricPosition    = "position"
)

// Metrics lists all metric names in API order.
var Metrics = []string{MetricClicks, MetricImpressions, MetricCTR, MetricPosition}

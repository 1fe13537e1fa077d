package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/florianilch/gsc-cli/internal/searchconsole"
)

// ParseMetrics splits a comma-separated metric list and rejects unknown names.
// Empty selects every metric.
func ParseMetrics(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return append([]string(nil), searchconsole.Metrics...), nil
	}

	var metrics []string
	for _, m := range strings.Split(s, ",") {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		if _, ok := (searchconsole.AnalyticsRow{}).Metric(m); !ok {
			return nil, fmt.Errorf("unknown metric %q (expected %s)", m, strings.Join(searchconsole.Metrics, ","))
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

// SplitList splits a comma-separated list, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Sites renders a property list.
func Sites(sites []searchconsole.Site) Result {
	t := Table{
		Headers: []string{"site", "permission"},
		Empty:   "No sites found in your Google Search Console account.",
	}
	for _, s := range sites {
		t.Rows = append(t.Rows, []string{s.URL, s.PermissionLevel})
	}
	return Result{Data: sites, Table: t}
}

// Site renders a single property.
func Site(site searchconsole.Site) Result {
	return Result{
		Data: site,
		Table: Table{
			Headers: []string{"site", "permission"},
			Rows:    [][]string{{site.URL, site.PermissionLevel}},
		},
	}
}

// Analytics renders a report with one column per dimension value list and
// one per selected metric.
func Analytics(report *searchconsole.AnalyticsReport, metrics []string) Result {
	t := Table{
		Title: []string{
			"Search Analytics Data for " + report.SiteURL + ":",
			"Date range: " + report.DateRange.StartDate + " to " + report.DateRange.EndDate,
			"---",
		},
		Headers: append([]string{"keys"}, metrics...),
		Empty:   "No search analytics data found for the specified criteria.",
	}
	for _, row := range report.Rows {
		cells := []string{strings.Join(row.Keys, ", ")}
		for _, m := range metrics {
			v, _ := row.Metric(m)
			cells = append(cells, formatMetric(m, v))
		}
		t.Rows = append(t.Rows, cells)
	}
	return Result{Data: report, Table: t}
}

// formatMetric keeps ctr as a ratio and rounds position to one decimal.
func formatMetric(name string, v float64) string {
	switch name {
	case searchconsole.MetricPosition:
		return strconv.FormatFloat(v, 'f', 1, 64)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// Sitemaps renders a sitemap list.
func Sitemaps(siteURL string, sitemaps []searchconsole.Sitemap) Result {
	t := Table{
		Title:   []string{"Sitemaps for " + siteURL + ":"},
		Headers: sitemapHeaders,
		Empty:   "No sitemaps found for this site.",
	}
	for _, s := range sitemaps {
		t.Rows = append(t.Rows, sitemapRow(s))
	}
	return Result{Data: sitemaps, Table: t}
}

// Sitemap renders a single sitemap.
func Sitemap(s searchconsole.Sitemap) Result {
	return Result{
		Data: s,
		Table: Table{
			Headers: sitemapHeaders,
			Rows:    [][]string{sitemapRow(s)},
		},
	}
}

var sitemapHeaders = []string{"path", "type", "status", "last_submitted", "errors", "warnings"}

func sitemapRow(s searchconsole.Sitemap) []string {
	return []string{
		s.Path,
		s.Type,
		s.Status(),
		s.LastSubmitted,
		strconv.FormatInt(s.Errors, 10),
		strconv.FormatInt(s.Warnings, 10),
	}
}

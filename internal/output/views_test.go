package output

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/florianilch/gsc-cli/internal/searchconsole"
)

func TestParseMetrics(t *testing.T) {
	tests := []struct {
		input   string
		want    []string
		wantErr bool
	}{
		{"", []string{"clicks", "impressions", "ctr", "position"}, false},
		{"clicks,ctr", []string{"clicks", "ctr"}, false},
		{" Position , clicks,", []string{"position", "clicks"}, false},
		{"clicks,revenue", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMetrics(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMetrics(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseMetrics(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" query, page ,,device")
	want := []string{"query", "page", "device"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitList() = %v, want %v", got, want)
	}
	if SplitList(" ") != nil {
		t.Error("SplitList of blank input should be nil")
	}
}

var report = &searchconsole.AnalyticsReport{
	SiteURL:   "sc-domain:example.com",
	DateRange: searchconsole.DateRange{StartDate: "2024-01-01", EndDate: "2024-01-28"},
	Rows: []searchconsole.AnalyticsRow{
		{Keys: []string{"golang", "DESKTOP"}, Clicks: 12, Impressions: 340, CTR: 0.035, Position: 4.24},
	},
}

func TestAnalyticsColumnsFollowMetrics(t *testing.T) {
	r := Analytics(report, []string{"clicks", "position"})

	if want := []string{"keys", "clicks", "position"}; !reflect.DeepEqual(r.Table.Headers, want) {
		t.Errorf("headers = %v, want %v", r.Table.Headers, want)
	}
	if want := [][]string{{"golang, DESKTOP", "12", "4.2"}}; !reflect.DeepEqual(r.Table.Rows, want) {
		t.Errorf("rows = %v, want %v", r.Table.Rows, want)
	}
}

func TestAnalyticsCSV(t *testing.T) {
	got := render(t, FormatCSV, Analytics(report, []string{"clicks", "impressions", "ctr", "position"}))
	want := "keys,clicks,impressions,ctr,position\n\"golang, DESKTOP\",12,340,0.035,4.2\n"
	if got != want {
		t.Errorf("csv =\n%s\nwant\n%s", got, want)
	}
}

func TestAnalyticsJSONShape(t *testing.T) {
	out := render(t, FormatJSON, Analytics(report, []string{"clicks"}))

	var decoded struct {
		SiteURL   string `json:"siteUrl"`
		DateRange struct {
			StartDate string `json:"startDate"`
			EndDate   string `json:"endDate"`
		} `json:"dateRange"`
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded.SiteURL != "sc-domain:example.com" || decoded.DateRange.StartDate != "2024-01-01" || decoded.DateRange.EndDate != "2024-01-28" {
		t.Errorf("header = %+v", decoded)
	}
	// JSON always carries every metric regardless of the column selection
	if len(decoded.Data) != 1 || len(decoded.Data[0]) != 5 {
		t.Errorf("data = %v", decoded.Data)
	}
}

func TestAnalyticsEmpty(t *testing.T) {
	empty := &searchconsole.AnalyticsReport{SiteURL: "sc-domain:example.com"}
	got := render(t, FormatTable, Analytics(empty, []string{"clicks"}))
	if got != "No search analytics data found for the specified criteria.\n" {
		t.Errorf("output = %q", got)
	}
}

func TestSitemapsTable(t *testing.T) {
	sitemaps := []searchconsole.Sitemap{
		{Path: "https://example.com/sitemap.xml", Type: "sitemap", IsPending: true, Errors: 1},
		{Path: "https://example.com/news.xml", Type: "sitemap", LastSubmitted: "2024-01-02T03:04:05Z"},
	}
	r := Sitemaps("sc-domain:example.com", sitemaps)

	want := [][]string{
		{"https://example.com/sitemap.xml", "sitemap", "Pending", "", "1", "0"},
		{"https://example.com/news.xml", "sitemap", "Processed", "2024-01-02T03:04:05Z", "0", "0"},
	}
	if !reflect.DeepEqual(r.Table.Rows, want) {
		t.Errorf("rows = %v, want %v", r.Table.Rows, want)
	}

	var buf bytes.Buffer
	p, _ := NewPrinter(&buf, FormatTable)
	if err := p.Print(Sitemaps("sc-domain:example.com", nil)); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "No sitemaps found for this site.\n" {
		t.Errorf("empty output = %q", buf.String())
	}
}

func TestSites(t *testing.T) {
	r := Sites([]searchconsole.Site{{URL: "sc-domain:example.com", PermissionLevel: "siteOwner"}})
	if want := [][]string{{"sc-domain:example.com", "siteOwner"}}; !reflect.DeepEqual(r.Table.Rows, want) {
		t.Errorf("rows = %v, want %v", r.Table.Rows, want)
	}
	if Site(searchconsole.Site{URL: "x"}).Table.Rows[0][0] != "x" {
		t.Error("Site() row does not carry the URL")
	}
}

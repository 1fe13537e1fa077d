package commands

import (
	"context"
	"errors"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/gsc-cli/internal/output"
	"github.com/florianilch/gsc-cli/internal/searchconsole"
)

// apiAction is a command body that runs with an authorized API client.
type apiAction func(ctx context.Context, cmd *cli.Command, s *session, client *searchconsole.Client, siteURL string) error

// withAPI creates a session, resolves the site argument when needsSite is set,
// then authorizes and runs fn.
func (r *runner) withAPI(needsSite bool, fn apiAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		s, err := r.newSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer s.close(ctx)

		var siteURL string
		if needsSite {
			if siteURL, err = s.siteArg(cmd); err != nil {
				return err
			}
		}

		client, err := s.app.SearchConsole(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, cmd, s, client, siteURL)
	}
}

// siteArg returns the site URL argument, falling back to the defaultSite preference.
func (s *session) siteArg(cmd *cli.Command) (string, error) {
	if cmd.NArg() > 0 {
		return cmd.Args().First(), nil
	}
	if s.prefs.DefaultSite != "" {
		return s.prefs.DefaultSite, nil
	}
	return "", errors.New("missing argument <url> (or set a default with: gsc config set defaultSite <url>)")
}

func (r *runner) sitesCommand() *cli.Command {
	return &cli.Command{
		Name:  "sites",
		Usage: "List all sites in Google Search Console",
		Action: r.withAPI(false, func(ctx context.Context, _ *cli.Command, s *session, client *searchconsole.Client, _ string) error {
			sites, err := client.ListSites(ctx)
			if err != nil {
				return err
			}
			return s.printer.Print(output.Sites(sites))
		}),
	}
}

func (r *runner) siteCommand() *cli.Command {
	return &cli.Command{
		Name:      "site",
		Usage:     "Get information about a specific site",
		ArgsUsage: "[url]",
		Action: r.withAPI(true, func(ctx context.Context, _ *cli.Command, s *session, client *searchconsole.Client, siteURL string) error {
			site, err := client.GetSite(ctx, siteURL)
			if err != nil {
				return err
			}
			return s.printer.Print(output.Site(site))
		}),
	}
}

func (r *runner) queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Query search analytics data for a site",
		ArgsUsage: "[url]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "start-date",
				Aliases: []string{"s"},
				Usage:   "start date (YYYY-MM-DD), defaults to defaultStartDaysAgo days ago",
			},
			&cli.StringFlag{
				Name:    "end-date",
				Aliases: []string{"e"},
				Usage:   "end date (YYYY-MM-DD), defaults to defaultEndDaysAgo days ago",
			},
			&cli.StringFlag{
				Name:    "dimensions",
				Aliases: []string{"d"},
				Usage:   "dimensions to group by (comma-separated)",
			},
			&cli.StringFlag{
				Name:    "metrics",
				Aliases: []string{"m"},
				Usage:   "metrics to include (comma-separated)",
			},
			&cli.IntFlag{
				Name:    "row-limit",
				Aliases: []string{"r"},
				Usage:   "maximum number of rows to return",
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "search type (web|image|video|news|discover|googleNews)",
			},
		},
		Action: r.withAPI(true, func(ctx context.Context, cmd *cli.Command, s *session, client *searchconsole.Client, siteURL string) error {
			req, metrics, err := s.queryRequest(cmd, time.Now())
			if err != nil {
				return err
			}
			report, err := client.Query(ctx, siteURL, req)
			if err != nil {
				return err
			}
			return s.printer.Print(output.Analytics(report, metrics))
		}),
	}
}

// queryRequest merges the query flags over the stored preferences.
func (s *session) queryRequest(cmd *cli.Command, now time.Time) (searchconsole.QueryRequest, []string, error) {
	start, end := s.prefs.DateRange(now)
	if cmd.IsSet("start-date") {
		start = cmd.String("start-date")
	}
	if cmd.IsSet("end-date") {
		end = cmd.String("end-date")
	}

	dimensions := s.prefs.DefaultDimensions
	if cmd.IsSet("dimensions") {
		dimensions = cmd.String("dimensions")
	}

	metricNames := s.prefs.DefaultMetrics
	if cmd.IsSet("metrics") {
		metricNames = cmd.String("metrics")
	}
	metrics, err := output.ParseMetrics(metricNames)
	if err != nil {
		return searchconsole.QueryRequest{}, nil, err
	}

	rowLimit := s.prefs.DefaultRowLimit
	if cmd.IsSet("row-limit") {
		rowLimit = cmd.Int("row-limit")
	}

	return searchconsole.QueryRequest{
		StartDate:  start,
		EndDate:    end,
		Dimensions: output.SplitList(dimensions),
		RowLimit:   rowLimit,
		SearchType: cmd.String("type"),
	}, metrics, nil
}

func (r *runner) sitemapsCommand() *cli.Command {
	return &cli.Command{
		Name:      "sitemaps",
		Usage:     "List sitemaps for a site",
		ArgsUsage: "[url]",
		Action: r.withAPI(true, func(ctx context.Context, _ *cli.Command, s *session, client *searchconsole.Client, siteURL string) error {
			sitemaps, err := client.ListSitemaps(ctx, siteURL)
			if err != nil {
				return err
			}
			return s.printer.Print(output.Sitemaps(siteURL, sitemaps))
		}),
	}
}

// sitemapArgs requires both the site URL and the sitemap path.
func sitemapArgs(cmd *cli.Command) (siteURL, feedpath string, err error) {
	args, err := requireArgs(cmd, "url", "sitemap-path")
	if err != nil {
		return "", "", err
	}
	return args[0], args[1], nil
}

func (r *runner) sitemapCommand() *cli.Command {
	return &cli.Command{
		Name:      "sitemap",
		Usage:     "Get information about a sitemap",
		ArgsUsage: "<url> <sitemap-path>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			siteURL, feedpath, err := sitemapArgs(cmd)
			if err != nil {
				return err
			}
			return r.withAPI(false, func(ctx context.Context, _ *cli.Command, s *session, client *searchconsole.Client, _ string) error {
				sitemap, err := client.GetSitemap(ctx, siteURL, feedpath)
				if err != nil {
					return err
				}
				return s.printer.Print(output.Sitemap(sitemap))
			})(ctx, cmd)
		},
	}
}

func (r *runner) submitSitemapCommand() *cli.Command {
	return &cli.Command{
		Name:      "submit-sitemap",
		Usage:     "Submit a sitemap for a site",
		ArgsUsage: "<url> <sitemap-path>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			siteURL, feedpath, err := sitemapArgs(cmd)
			if err != nil {
				return err
			}
			return r.withAPI(false, func(ctx context.Context, _ *cli.Command, s *session, client *searchconsole.Client, _ string) error {
				if err := client.SubmitSitemap(ctx, siteURL, feedpath); err != nil {
					return err
				}
				s.ui.Success("Sitemap submitted successfully: %s", feedpath)
				return nil
			})(ctx, cmd)
		},
	}
}

func (r *runner) deleteSitemapCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete-sitemap",
		Usage:     "Delete a sitemap for a site",
		ArgsUsage: "<url> <sitemap-path>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			siteURL, feedpath, err := sitemapArgs(cmd)
			if err != nil {
				return err
			}
			return r.withAPI(false, func(ctx context.Context, _ *cli.Command, s *session, client *searchconsole.Client, _ string) error {
				if err := client.DeleteSitemap(ctx, siteURL, feedpath); err != nil {
					return err
				}
				s.ui.Success("Sitemap deleted successfully: %s", feedpath)
				return nil
			})(ctx, cmd)
		},
	}
}

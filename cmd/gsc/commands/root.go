package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/gsc-cli/internal/app"
	"github.com/florianilch/gsc-cli/internal/auth"
	"github.com/florianilch/gsc-cli/internal/observability"
	"github.com/florianilch/gsc-cli/internal/output"
	"github.com/florianilch/gsc-cli/internal/preferences"
	"github.com/florianilch/gsc-cli/internal/ui"
)

// Option configures Execute.
type Option func(*runner)

// WithIO replaces the standard streams.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(r *runner) {
		r.in, r.out, r.errOut = in, out, errOut
	}
}

// WithEnviron replaces the environment used for configuration.
func WithEnviron(environ func() []string) Option {
	return func(r *runner) {
		r.environ = environ
	}
}

// WithAppOptions passes options through to every App the commands create.
func WithAppOptions(opts ...app.Option) Option {
	return func(r *runner) {
		r.appOpts = append(r.appOpts, opts...)
	}
}

// runner holds what the command actions share across one invocation.
type runner struct {
	in          io.Reader
	out, errOut io.Writer
	environ     func() []string
	appOpts     []app.Option
}

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string, opts ...Option) error {
	r := &runner{
		in:      os.Stdin,
		out:     os.Stdout,
		errOut:  os.Stderr,
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r.rootCommand().Run(ctx, args)
}

func (r *runner) rootCommand() *cli.Command {
	return &cli.Command{
		Name:      "gsc",
		Usage:     "Google Search Console CLI tool",
		Version:   app.Version,
		Reader:    r.in,
		Writer:    r.out,
		ErrWriter: r.errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file (TOML)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: slog.LevelWarn.String(),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json|otlp)",
				Value: string(app.DefaultConfigLogFormat),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output format (" + strings.Join(output.Formats, "|") + "), defaults to the outputFormat preference",
			},
			&cli.StringFlag{
				Name:  "jq",
				Usage: "jq expression applied to JSON output",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored status messages",
			},
			&cli.StringFlag{
				Name:  "auth--storage",
				Usage: "credential storage (file|keyring|env)",
				Value: string(app.DefaultConfigAuthStorage),
			},
			&cli.StringFlag{
				Name:  "auth--file",
				Usage: "credential file for file storage (default ~/.gsc-cli/token.json)",
			},
			&cli.StringFlag{
				Name:  "auth--keyring-user",
				Usage: "keyring user for keyring storage (default current user)",
			},
			&cli.StringFlag{
				Name:  "auth--env-key",
				Usage: "environment variable holding a refresh token for env storage",
			},
			&cli.StringFlag{
				Name:  "preferences-file",
				Usage: "preferences file (default ~/.gsc-cli/config.json)",
			},
		},
		Commands: []*cli.Command{
			r.authCommand(),
			r.revokeCommand(),
			r.statusCommand(),
			r.sitesCommand(),
			r.siteCommand(),
			r.queryCommand(),
			r.sitemapsCommand(),
			r.sitemapCommand(),
			r.submitSitemapCommand(),
			r.deleteSitemapCommand(),
			r.configCommand(),
		},
	}
}

// session is the per-invocation state a command action works with.
type session struct {
	app      *app.App
	ui       *ui.UI
	prefs    preferences.Preferences
	printer  *output.Printer
	shutdown observability.ShutdownFunc
}

// close flushes logs; failures are reported but never change the exit status.
func (s *session) close(ctx context.Context) {
	if err := s.shutdown(ctx); err != nil {
		s.ui.Warning("failed to flush logs: %v", err)
	}
}

// newSession loads configuration, installs logging and builds the App.
func (r *runner) newSession(ctx context.Context, cmd *cli.Command, sessionOpts ...auth.Option) (*session, error) {
	cfg, err := loadConfig(cmd.String("config"), cmd, r.environ)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	shutdown, err := observability.Instrument(ctx, cfg.LogLevel, string(cfg.LogFormat),
		observability.WithWriter(r.errOut),
		observability.WithGetenv(r.getenv),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up observability layer: %w", err)
	}

	colorMode := ui.ColorAuto
	if cmd.Bool("no-color") {
		colorMode = ui.ColorNever
	}
	u := ui.New(r.errOut, colorMode)

	baseOpts := []auth.Option{
		auth.WithPrompter(auth.NewTerminalPrompter(r.in, r.errOut)),
		auth.WithOutput(r.errOut),
	}
	appOpts := append([]app.Option{app.WithSessionOptions(append(baseOpts, sessionOpts...)...)}, r.appOpts...)

	application, err := app.New(cfg, appOpts...)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("failed to create app: %w", err)
	}

	prefs := application.Preferences().Load(ctx)

	formatName := prefs.OutputFormat
	if cmd.IsSet("output") {
		formatName = cmd.String("output")
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	printer, err := output.NewPrinter(r.out, format, output.WithQuery(cmd.String("jq")))
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	return &session{
		app:      application,
		ui:       u,
		prefs:    prefs,
		printer:  printer,
		shutdown: shutdown,
	}, nil
}

// getenv looks up key in the runner's environment.
func (r *runner) getenv(key string) string {
	for _, kv := range r.environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v
		}
	}
	return ""
}

// requireArgs returns the first len(names) positional arguments.
func requireArgs(cmd *cli.Command, names ...string) ([]string, error) {
	if cmd.NArg() < len(names) {
		return nil, fmt.Errorf("missing argument <%s>", names[cmd.NArg()])
	}
	args := make([]string, len(names))
	for i := range names {
		args[i] = cmd.Args().Get(i)
	}
	return args, nil
}

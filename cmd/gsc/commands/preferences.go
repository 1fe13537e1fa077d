package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/gsc-cli/internal/output"
	"github.com/florianilch/gsc-cli/internal/preferences"
)

func (r *runner) configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or change stored preferences",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective preferences",
				Action: r.configShowAction,
			},
			{
				Name:   "path",
				Usage:  "Print the preferences file location",
				Action: r.configPathAction,
			},
			{
				Name:      "set",
				Usage:     "Set a preference",
				ArgsUsage: "<key> <value>",
				Description: "Keys: defaultSite, defaultDimensions, defaultMetrics, defaultRowLimit,\n" +
					"defaultStartDaysAgo, defaultEndDaysAgo, outputFormat",
				Action: r.configSetAction,
			},
		},
	}
}

func (r *runner) configShowAction(ctx context.Context, cmd *cli.Command) error {
	s, err := r.newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	return s.printer.Print(preferencesResult(s.prefs))
}

func (r *runner) configPathAction(ctx context.Context, cmd *cli.Command) error {
	s, err := r.newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	_, err = fmt.Fprintln(r.out, s.app.Preferences().Path())
	return err
}

func (r *runner) configSetAction(ctx context.Context, cmd *cli.Command) error {
	args, err := requireArgs(cmd, "key", "value")
	if err != nil {
		return err
	}

	s, err := r.newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	prefs := s.prefs
	if err := prefs.Set(args[0], args[1]); err != nil {
		return err
	}

	file := s.app.Preferences()
	if err := file.Save(ctx, prefs); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	s.ui.Success("Configuration saved to: %s", file.Path())
	return nil
}

func preferencesResult(p preferences.Preferences) output.Result {
	return output.Result{
		Data: p,
		Table: output.Table{
			Headers: []string{"key", "value"},
			Rows: [][]string{
				{"defaultSite", p.DefaultSite},
				{"defaultDimensions", p.DefaultDimensions},
				{"defaultMetrics", p.DefaultMetrics},
				{"defaultRowLimit", strconv.Itoa(p.DefaultRowLimit)},
				{"defaultStartDaysAgo", strconv.Itoa(p.DefaultStartDaysAgo)},
				{"defaultEndDaysAgo", strconv.Itoa(p.DefaultEndDaysAgo)},
				{"outputFormat", p.OutputFormat},
			},
		},
	}
}

package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/gsc-cli/internal/app"
	"github.com/florianilch/gsc-cli/internal/auth"
	"github.com/florianilch/gsc-cli/internal/output"
)

func (r *runner) authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with Google Search Console",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "code",
				Usage: "authorization code obtained earlier, skips the prompt",
			},
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "print the authorization URL without opening a browser",
			},
		},
		Action: r.authAction,
	}
}

func (r *runner) authAction(ctx context.Context, cmd *cli.Command) error {
	var opts []auth.Option
	if cmd.IsSet("code") {
		opts = append(opts, auth.WithPrompter(auth.StaticCode(cmd.String("code"))))
	}
	if cmd.Bool("no-browser") {
		opts = append(opts, auth.WithBrowserOpener(nil))
	}

	s, err := r.newSession(ctx, cmd, opts...)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	if _, err := s.app.Authorize(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	s.ui.Success("Authentication successful!")
	return nil
}

func (r *runner) revokeCommand() *cli.Command {
	return &cli.Command{
		Name:   "revoke",
		Usage:  "Revoke stored authentication tokens",
		Action: r.revokeAction,
	}
}

func (r *runner) revokeAction(ctx context.Context, cmd *cli.Command) error {
	s, err := r.newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	outcome, err := s.app.Revoke(ctx)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	switch outcome {
	case auth.RevokeNothingStored:
		s.ui.Info("No stored token found.")
	case auth.RevokeLocalOnly:
		s.ui.Warning("Token could not be revoked with Google.")
		s.ui.Success("Stored token removed.")
	case auth.RevokeComplete:
		s.ui.Success("Token revoked successfully.")
		s.ui.Success("Stored token removed.")
	}
	return nil
}

func (r *runner) statusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show the stored credential without contacting Google",
		Action: r.statusAction,
	}
}

func (r *runner) statusAction(ctx context.Context, cmd *cli.Command) error {
	s, err := r.newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	status, err := s.app.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read credential: %w", err)
	}
	return s.printer.Print(statusResult(status))
}

func statusResult(s *app.CredentialStatus) output.Result {
	expiry := "-"
	if s.Expiry != nil {
		expiry = s.Expiry.Local().Format(time.RFC3339)
		if s.Expired {
			expiry += " (expired)"
		}
	}

	stored := strconv.FormatBool(s.Stored)
	if s.Corrupt {
		stored = "unreadable"
	}

	return output.Result{
		Data: s,
		Table: output.Table{
			Headers: []string{"field", "value"},
			Rows: [][]string{
				{"storage", string(s.Storage)},
				{"location", s.Location},
				{"client configured", strconv.FormatBool(s.ClientConfigured)},
				{"stored", stored},
				{"access token", strconv.FormatBool(s.HasAccessToken)},
				{"refresh token", strconv.FormatBool(s.HasRefreshToken)},
				{"expiry", expiry},
				{"scope", s.Scope},
			},
		},
	}
}

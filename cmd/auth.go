package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytlikes/internal/formatter"
	"github.com/desertthunder/ytlikes/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthStatus checks current authentication state by calling the /health endpoint.
//
// The local browser.json is sent along when present so the proxy reports on it.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking auth status")

	if err := r.authenticate(ctx); err != nil {
		r.logger.Warn("no local auth file", "error", err)
	}

	health, err := r.youtube.Health(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if !health.OK() {
		return fmt.Errorf("%w: proxy reported status %q", shared.ErrServiceUnavailable, health.Status)
	}

	r.writePlain("%s\n", formatter.Status(true, "Service is healthy"))
	r.writePlain("Status: %s\n", health.Status)
	if health.Version != "" {
		r.writePlain("Version: %s\n", health.Version)
	}
	r.writePlain("Authentication: %s\n", formatter.Status(health.Authenticated, authLabel(health.Authenticated)))
	return nil
}

func authLabel(ok bool) string {
	if ok {
		return "Authenticated"
	}
	return "Not authenticated"
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sealchat/internal/app"
	"sealchat/internal/domain"
)

// connect [endpoint]: interactive chat session.
func connectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect [endpoint]",
		Short: "Join a chat server (defaults to the remembered endpoint)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The screen owns the terminal, so the session logs to a file.
			f, err := app.OpenLogFile(cfg.StateDir)
			if err != nil {
				return err
			}
			defer f.Close()
			log, err := app.NewLoggerTo(f, cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}

			w, err := app.NewWire(cfg, log)
			if err != nil {
				return err
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.MetricsAddr != "" {
				if err := app.ServeMetrics(ctx, cfg.MetricsAddr, w.Metrics.Handler(), log); err != nil {
					return fmt.Errorf("metrics listener: %w", err)
				}
			}

			scr := newScreen(newConsole(w.Chat, cfg.RenameTimeout))
			scr.setStatus(startSession(ctx, w.Chat, args))
			return scr.run(ctx)
		},
	}
}

// startSession connects to the given endpoint or resumes the remembered one,
// returning the line to show the user.
func startSession(ctx context.Context, chat domain.ChatService, args []string) string {
	dialCtx, cancel := context.WithTimeout(ctx, cfg.RenameTimeout)
	defer cancel()

	if len(args) == 1 {
		if err := chat.Connect(dialCtx, domain.Endpoint(args[0])); err != nil {
			return describe(err)
		}
		return ""
	}
	ok, err := chat.Resume(dialCtx)
	switch {
	case err != nil:
		return describe(err)
	case !ok:
		return "no remembered endpoint; use /connect <host:port>"
	}
	return ""
}

// errQuit ends the screen without an error.
var errQuit = errors.New("quit")

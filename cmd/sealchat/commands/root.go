package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sealchat/internal/app"
)

var (
	cfg    = app.DefaultConfig()
	logger = zerolog.Nop()
)

func Execute() error {
	return rootCmd().Execute()
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "sealchat",
		Short:        "Terminal client for an encrypted group chat",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			l, err := app.NewLogger(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "session-scoped state directory")
	f.StringVar(&cfg.Store, "store", cfg.Store, "endpoint store backend (pebble|file)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace|debug|info|warn|error)")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text|json)")
	f.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address (e.g. 127.0.0.1:9090)")
	f.IntVar(&cfg.MaxMessages, "max-messages", cfg.MaxMessages, "messages kept in the log (0 keeps all)")
	f.Float64Var(&cfg.SendRate, "send-rate", cfg.SendRate, "messages per second before sends are dropped (0 disables)")
	f.IntVar(&cfg.SendBurst, "send-burst", cfg.SendBurst, "messages allowed in a burst")
	f.StringVar(&cfg.SocketPath, "socket-path", cfg.SocketPath, "WebSocket path on the server")
	f.DurationVar(&cfg.RenameTimeout, "rename-timeout", cfg.RenameTimeout, "how long to wait for the server to accept a new name")

	root.AddCommand(connectCmd(), endpointCmd(), forgetCmd(), sealCmd(), openCmd())
	return root
}

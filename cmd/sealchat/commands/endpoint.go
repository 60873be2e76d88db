package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sealchat/internal/app"
)

// endpoint: print the remembered endpoint.
func endpointCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoint",
		Short: "Print the remembered chat server endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.OpenStore(cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			ep, ok, err := st.LoadEndpoint()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no endpoint remembered")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ep)
			return nil
		},
	}
}

// forget: clear the remembered endpoint.
func forgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Forget the remembered chat server endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.NewWire(cfg, logger)
			if err != nil {
				return err
			}
			defer w.Close()

			if err := w.Chat.Forget(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "forgotten")
			return nil
		},
	}
}

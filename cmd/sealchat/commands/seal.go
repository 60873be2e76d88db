package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/services/codec"
)

// seal <text>: encrypt with a fresh secret and print the message payload.
func sealCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seal <text>",
		Short: "Encrypt text with a fresh secret and print the message payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := crypto.NewKeyring()
			if err != nil {
				return err
			}
			out, err := codec.New().Seal(keys, args[0])
			if err != nil {
				return err
			}
			b, err := json.Marshal(out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

// open --key <key> <ciphertext>: decrypt a payload offline.
func openCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "open <ciphertext>",
		Short: "Decrypt a message payload with its key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := codec.New().Open(domain.Message{Value: args[0], Key: key})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "encoded secret carried with the message")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

// AngelaMos | 2026
// cmd_keys.go

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agrourbano/farmdash/internal/auth"
)

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the token signing keys.",
	}

	var privatePath, publicPath string
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Write a new ES256 key pair in PEM form.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, p := range []string{privatePath, publicPath} {
				if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
					return fmt.Errorf("create key directory: %w", err)
				}
			}
			if err := auth.GenerateKeyPair(privatePath, publicPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", privatePath, publicPath)
			return nil
		},
	}
	generate.Flags().StringVar(&privatePath, "private", "keys/private.pem", "private key output path")
	generate.Flags().StringVar(&publicPath, "public", "keys/public.pem", "public key output path")

	cmd.AddCommand(generate)
	return cmd
}

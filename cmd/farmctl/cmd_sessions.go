// AngelaMos | 2026
// cmd_sessions.go

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agrourbano/farmdash/internal/auth"
)

func newSessionsCmd(env *rootEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Maintain refresh token sessions.",
	}

	var grace time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete refresh tokens that expired more than --grace ago.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := env.database(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // process exits next

			n, err := auth.NewRepository(db.DB).DeleteExpired(cmd.Context(), grace)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired refresh tokens\n", n)
			return nil
		},
	}
	prune.Flags().DurationVar(&grace, "grace", 24*time.Hour, "keep tokens expired for less than this")

	cmd.AddCommand(prune)
	return cmd
}

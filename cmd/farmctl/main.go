// AngelaMos | 2026
// main.go

// Command farmctl runs operator tasks against a farmdash deployment.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agrourbano/farmdash/internal/config"
	"github.com/agrourbano/farmdash/internal/core"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}

type rootEnv struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	env := &rootEnv{}

	cmd := &cobra.Command{
		Use:           "farmctl",
		Short:         "Operator tasks for the farm dashboard API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&env.configPath, "config", "config.yaml", "path to config file")

	cmd.AddCommand(
		newMigrateCmd(env),
		newKeysCmd(),
		newSessionsCmd(env),
		newStatsCmd(env),
	)

	return cmd
}

func (e *rootEnv) config() (*config.Config, error) {
	return config.Load(e.configPath)
}

// database connects with the configured pool settings. Callers close it.
func (e *rootEnv) database(ctx context.Context) (*core.Database, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	return core.NewDatabase(ctx, cfg.Database)
}

// Package cli implements the performate command tree: serving the dashboard
// and driving actors from the terminal.
package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/performate/performate/internal/apify"
	"github.com/performate/performate/internal/catalog"
	"github.com/performate/performate/internal/config"
	"github.com/performate/performate/internal/logging"
	"github.com/performate/performate/pkg/form"
)

// actorSource mirrors the surface both the remote client and the demo
// catalog expose.
type actorSource interface {
	ListActors(ctx context.Context) ([]apify.Actor, error)
	ActorDetail(ctx context.Context, username, name string) (*apify.ActorDetail, error)
	StartRun(ctx context.Context, actorID string, values form.ValueMap, buildTag string) (*apify.RunDescriptor, error)
}

var (
	cfgFile   string
	flagToken string

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "performate",
	Short:         "Run platform actors from a schema-driven dashboard",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		if flagToken != "" {
			cfg.Apify.Token = flagToken
		}
		log = logging.New(logging.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: cmd.ErrOrStderr(),
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default performate.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "platform API token (overrides config)")
}

// Execute runs the command tree.
func Execute(version string) error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

// terminalSource builds the actor source the terminal commands talk to:
// the demo catalog when demo mode is on, the remote platform otherwise.
func terminalSource() (actorSource, error) {
	if cfg.Demo.Enabled {
		return catalog.Load(cfg.Demo.CatalogPath)
	}
	return apify.New(apify.Config{
		BaseURL: cfg.Apify.BaseURL,
		Token:   cfg.Apify.Token,
	}), nil
}

package cmd

import (
	"context"
	"fmt"

	"github.com/nuts-foundation/charm-calculator/component/status"
	"github.com/nuts-foundation/charm-calculator/lib/logging"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Execute runs the CLI with the given arguments. Without a subcommand, the server is started.
func Execute(ctx context.Context, args []string) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var configFile string
	serve := func(cmd *cobra.Command, _ []string) error {
		config, err := LoadConfigFile(configFile)
		if err != nil {
			return err
		}
		slogLevel, zerologLevel, err := config.Core.Level()
		if err != nil {
			return errors.Wrap(err, "invalid core configuration")
		}
		zerolog.SetGlobalLevel(zerologLevel)
		logging.Init(slogLevel)
		return Start(cmd.Context(), config)
	}

	rootCmd := &cobra.Command{
		Use:   "charm",
		Short: "CHARM score calculator",
		Long: `Predicts in-hospital mortality of patients with suspected sepsis using the CHARM score
(Chills, Hypothermia, Anemia, RDW, Malignancy).

The risk factors can be entered manually, or pre-populated from a patient's Observations on a FHIR server.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          serve,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", DefaultConfigFile, "config file, ignored when it doesn't exist")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the calculator web service (default)",
		Args:  cobra.NoArgs,
		RunE:  serve,
	})
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), status.BuildInfo())
		},
	})
	return rootCmd
}


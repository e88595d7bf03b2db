package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hulquest/ansibullbot/internal/config"
	"github.com/hulquest/ansibullbot/internal/github"
	"github.com/hulquest/ansibullbot/internal/logging"
	"github.com/hulquest/ansibullbot/internal/rpc"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	apiClient github.Client
)

var rootCmd = &cobra.Command{
	Use:   "ansibullbot",
	Short: "Issue history query server for triage automation",
	Long: `A query layer over the heterogeneous event log of an issue or pull request
(events, comments, reactions, reviews, commits) with a per-issue disk cache,
exposed as JSON-RPC tools over stdio.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		// Initialize API client
		apiClient = github.NewClient(cfg.GitHub)

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("ansibullbot starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Info().Msg("History query server starting Stdio loop")
		server := rpc.NewServer(cfg, apiClient)
		return server.Serve()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

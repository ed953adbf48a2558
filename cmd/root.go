package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/muderick/searchfav/internal/config"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig  string
	flagBaseURL string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "searchfav",
	Short: "Search items and keep a list of favorites",
	Long:  "searchfav searches a remote item collection as you type and keeps the items you favorite across sessions.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine
		_ = godotenv.Load()
		return nil
	},
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "item endpoint base URL (overrides config and "+config.BaseURLEnv+")")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "searchfav %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// loadConfig applies the --base-url flag on top of the loaded config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagBaseURL != "" {
		if err := cfg.SetBaseURL(flagBaseURL); err != nil {
			return nil, fmt.Errorf("--base-url: %w", err)
		}
	}
	return cfg, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

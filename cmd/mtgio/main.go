package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/mtgio/cmd/mtgio/commands"
	"github.com/fivetwenty-io/mtgio/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "mtgio",
	Short: "Magic: The Gathering API CLI",
	Long: `A command-line interface for the magicthegathering.io API.

Browse sets, open booster packs, look up cards and list the card type
and format catalogs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.mtgio/config.yml)")
	rootCmd.PersistentFlags().StringP("api", "a", "", "API endpoint URL (default "+constants.DefaultAPIEndpoint+")")
	rootCmd.PersistentFlags().StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Int("retry-max", constants.DefaultRetryMax, "maximum retries for throttled or failed requests")
	rootCmd.PersistentFlags().Int("rate-limit", 0, "client-side request limit per second (0 = unlimited)")
	rootCmd.PersistentFlags().Duration("timeout", commands.DefaultTimeout, "timeout for the whole command")

	// Bind flags to viper
	for _, name := range []string{"config", "api", "output", "verbose", "no-color", "retry-max", "rate-limit", "timeout"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewSetsCommand())
	rootCmd.AddCommand(commands.NewCardsCommand())
	rootCmd.AddCommand(commands.NewCatalogCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.mtgio/config.yml
		viper.AddConfigPath(filepath.Join(home, ".mtgio"))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// MTGIO_CACHE_NATS_URL overrides cache.nats.url, MTGIO_RETRY_MAX overrides retry-max
	viper.SetEnvPrefix("MTGIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

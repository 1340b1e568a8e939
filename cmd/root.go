// Package cmd defines and implements the CLI commands for the hikmet-crawler
// executable.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hikmet-crawler",
		Short: "Literary corpus crawler for the Nazim Hikmet archive.",
		Long: `hikmet-crawler ingests poems, books, plays, and news coverage from the
configured web and PDF sources, normalizes and deduplicates the raw records,
and upserts the resulting documents into Postgres.`,
	}

	cobra.OnInitialize(initConfig)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./crawler.yaml)")
	cmd.PersistentFlags().Bool("dev", false, "use the development logger")
	_ = viper.BindPFlag("log.development", cmd.PersistentFlags().Lookup("dev"))

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newSourcesCmd())
	return cmd
}

// initConfig wires Viper to the config file and the CRAWLER_* environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("crawler")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.hikmet-crawler")
	}

	viper.SetEnvPrefix("CRAWLER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "read config: %v\n", err)
		}
	}
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

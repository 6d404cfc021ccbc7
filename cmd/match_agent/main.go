// Package main provides the command line entry point and HTTP server for the résumé matcher.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const appName = "match_agent"

var (
	cfgFile string
	verbose bool

	rootCmd = &cobra.Command{
		Use:           appName,
		Short:         "Résumé and job matching engine",
		Long:          "match_agent extracts skills from job postings, scores résumés against jobs, analyzes skill gaps, ranks candidates and tailors résumés. Run `serve` for the REST API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print human-readable summaries to stderr")

	_ = viper.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("log.json", rootCmd.PersistentFlags().Lookup("json"))
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

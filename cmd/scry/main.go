package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "scry",
	Short: "Scry - multi-provider stock analysis with an LLM second opinion",
	Long: `Scry reconciles live quotes across market data vendors, resolves daily
history, scores the technical setup of a symbol and can blend in an
LLM-written narrative assessment.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose console logging")
}

func main() {
	// A local .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

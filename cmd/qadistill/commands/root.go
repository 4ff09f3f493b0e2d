// Package commands implements the CLI commands for qadistill.
package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/qadistill/qadistill/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "qadistill",
	Short: "Distill scraped Q&A corpora into closed-book QA training data",
	Long: `Qadistill converts a web-scraped question/answer corpus (one JSON
record per line, with HTML markup in the text fields) into flat mappings
from cleaned question text to cleaned candidate answers, one output file
per input file.

Examples:
  # Convert a corpus, English records only
  qadistill convert --input-folder ./corpus --output-folder ./qa \
      --only-english

  # Keep markup, fan out across 8 workers
  qadistill convert --input-folder ./corpus --output-folder ./qa \
      --keep-markup --workers 8`,
	Version: version.String(),
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.qadistill.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	rootCmd.SetVersionTemplate(version.Full() + "\n")
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".qadistill")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("QADISTILL")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

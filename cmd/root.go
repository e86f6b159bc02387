package cmd

import (
	"fmt"
	"os"

	"github.com/mnemovox/recorder/pkg/config"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recorder",
	Short: "Audio recording ingestion and transcription server",
	Long: `Recorder watches a drop directory for audio files, moves them into
date-partitioned storage, transcribes them with whisper and keeps a
full-text index of the transcripts in lockstep with the database.

Features:
  - Directory watching for .wav, .mp3 and .m4a files
  - Multipart uploads through the HTTP API
  - Bounded-concurrency whisper transcription
  - Full-text transcript search with highlighted excerpts`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

// loadConfig initializes the configuration. Commands that need config call
// this lazily so version and help stay usable with a broken config file.
func loadConfig() (*config.Config, error) {
	if err := config.Init(); err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

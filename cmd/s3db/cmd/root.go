/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "s3db",
	Short: "s3db - metadata-first document storage for S3-compatible backends",
	Long: `s3db stores documents inside S3 custom metadata instead of object
bodies, with typed compaction codecs and partition index keys. The CLI
plans and inspects writes against a schema file, and can execute them
against a local store for development.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ~/.config/s3db/config.yaml when present)")
	rootCmd.PersistentFlags().StringP("schema", "s", "schema.yaml", "Schema file describing the resource")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// logger returns a console logger honoring the global level.
func logger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

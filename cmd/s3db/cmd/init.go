/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/forattini-dev/s3db/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize an s3db configuration",
	Long: `Initialize an s3db configuration file with a generated secrets
passphrase.

This command will:
- Create the config directory
- Generate a passphrase for secret-typed attributes
- Write the configuration with restrictive permissions

Examples:
  s3db init
  s3db init --data-dir=./data --config=./s3db.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Config already exists at %s. Use --force to overwrite.\n", configPath)
			return
		}

		cfg, err := config.BootstrapConfig(configPath, dataDir)
		if err != nil {
			cmd.Printf("Error initializing config: %v\n", err)
			os.Exit(1)
		}

		cmd.Printf("Config written to %s\n", configPath)
		cmd.Printf("Data directory: %s\n", cfg.DataDir)
		cmd.Printf("Metadata limit: %d bytes\n", cfg.Metadata.Limit)
		cmd.Printf("Default behavior: %s\n", cfg.Metadata.DefaultBehavior)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("data-dir", "", "Data directory for local stores (default ./data)")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

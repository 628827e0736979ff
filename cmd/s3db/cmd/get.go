/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch and decode a record from the local store",
	Long: `Fetch a record by id, decode its metadata and body under the schema
version it was written with, and print it as JSON.

Example:
  s3db get 31V7x2Kq --schema=schema.yaml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		eng, cfg, _, err := buildEngine(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}
		store, err := openStore(cfg)
		if err != nil {
			cmd.Printf("Error opening store: %v\n", err)
			return
		}
		defer store.Close()

		key := eng.PathResolver().MainKey(args[0])
		metadata, body, err := store.GetObject(cmd.Context(), key)
		if err != nil {
			cmd.Printf("Error getting record: %v\n", err)
			return
		}

		record, err := eng.Decode(metadata, body)
		if err != nil {
			cmd.Printf("Error decoding record: %v\n", err)
			return
		}

		out, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			cmd.Printf("Error rendering record: %v\n", err)
			return
		}
		cmd.Printf("%s\n", out)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/forattini-dev/s3db/pkg/storage"
)

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put <record-json>",
	Short: "Write a record to the local store",
	Long: `Plan a record against the schema and execute the plan against the
local development store: the main object plus its partition entries.

Example:
  s3db put '{"event":"click","region":"US"}' --schema=schema.yaml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		eng, cfg, recorder, err := buildEngine(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}
		record, err := readRecord(args[0])
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

		ctx := cmd.Context()
		var prev map[string]any
		if id, _ := record["id"].(string); id != "" {
			metadata, body, err := store.GetObject(ctx, eng.PathResolver().MainKey(id))
			if err == nil {
				if prev, err = eng.Decode(metadata, body); err != nil {
					cmd.Printf("Error decoding existing record: %v\n", err)
					return
				}
			}
		}

		writePlan, err := planRecord(eng, record, prev)
		if err != nil {
			cmd.Printf("Error planning write: %v\n", err)
			return
		}

		if err := storage.Apply(ctx, store, writePlan); err != nil {
			cmd.Printf("Error writing record: %v\n", err)
			return
		}

		printEvents(cmd, recorder)
		cmd.Printf("Wrote %s (%s)\n", writePlan.MainKey, writePlan.State)
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/forattini-dev/s3db/pkg/storage"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a record and its partition entries",
	Long: `Delete a record from the local store by id. The stored record is
decoded first so every partition entry it produced can be removed
with it.

Example:
  s3db delete 31V7x2Kq --schema=schema.yaml`,
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

		ctx := cmd.Context()
		key := eng.PathResolver().MainKey(args[0])
		metadata, body, err := store.GetObject(ctx, key)
		if err != nil {
			cmd.Printf("Error getting record: %v\n", err)
			return
		}
		record, err := eng.Decode(metadata, body)
		if err != nil {
			cmd.Printf("Error decoding record: %v\n", err)
			return
		}

		plan, err := eng.PlanDelete(record)
		if err != nil {
			cmd.Printf("Error planning delete: %v\n", err)
			return
		}
		if err := storage.ApplyDelete(ctx, store, plan.MainKey, plan.PartitionRemoves); err != nil {
			cmd.Printf("Error deleting record: %v\n", err)
			return
		}
		cmd.Printf("Deleted %s\n", plan.MainKey)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

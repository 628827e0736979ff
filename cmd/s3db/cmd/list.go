/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [partition] [values...]",
	Short: "List record keys in the local store",
	Long: `List keys in the local store. With no arguments, lists every main
record key. With a partition name and a prefix of its field values,
lists the matching partition entries.

Examples:
  s3db list --schema=schema.yaml
  s3db list byEventAndRegion click --schema=schema.yaml
  s3db list byEventAndRegion click US --schema=schema.yaml`,
	Args: cobra.ArbitraryArgs,
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

		paths := eng.PathResolver()
		var prefix string
		if len(args) == 0 {
			prefix = paths.DataPrefix()
		} else {
			values := make([]any, len(args)-1)
			for i, v := range args[1:] {
				values[i] = v
			}
			prefix, err = paths.QueryPrefix(args[0], values...)
			if err != nil {
				cmd.Printf("Error: %v\n", err)
				return
			}
		}

		keys, err := store.ListKeys(cmd.Context(), prefix)
		if err != nil {
			cmd.Printf("Error listing keys: %v\n", err)
			return
		}
		for _, key := range keys {
			cmd.Printf("%s\n", key)
		}
		cmd.Printf("%d key(s)\n", len(keys))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

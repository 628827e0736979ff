/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/forattini-dev/s3db/pkg/schema"
)

// keysCmd represents the keys command
var keysCmd = &cobra.Command{
	Use:   "keys <record-json>",
	Short: "Show the storage keys a record maps to",
	Long: `Resolve a record's main key and every partition key from the schema's
partition definitions.

Example:
  s3db keys '{"id":"X","event":"click","region":"US"}' --schema=schema.yaml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		eng, _, _, err := buildEngine(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}
		record, err := readRecord(args[0])
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}

		id, _ := record[schema.IDField].(string)
		if id == "" {
			cmd.Printf("Error: record needs a string id\n")
			return
		}

		paths := eng.PathResolver()
		cmd.Printf("Main: %s\n", paths.MainKey(id))
		for _, p := range eng.Schema().Partitions {
			key, ok := paths.PartitionKey(p.Name, record, id)
			if !ok {
				cmd.Printf("%s: (skipped, missing fields)\n", p.Name)
				continue
			}
			cmd.Printf("%s: %s\n", p.Name, key)
		}
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

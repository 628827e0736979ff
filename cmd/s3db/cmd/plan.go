/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/forattini-dev/s3db/pkg/resolver"
)

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan <record-json>",
	Short: "Show the write plan for a record without writing it",
	Long: `Plan a record against the schema and print where every field would
land: metadata, body, or cut by truncation. The record is JSON, given
inline, as @file, or as - for stdin.

Example:
  s3db plan '{"event":"click","region":"US"}' --schema=schema.yaml`,
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

		plan, err := eng.PlanInsert(record)
		if err != nil {
			cmd.Printf("Plan rejected: %v\n", err)
			return
		}

		limits := cfg.Limits()
		cmd.Printf("State:    %s\n", plan.State)
		cmd.Printf("Main key: %s\n", plan.MainKey)
		cmd.Printf("Metadata: %d bytes of %d\n", resolver.MetadataSize(plan.Metadata, limits), limits.MetadataLimit)
		if len(plan.Body) > 0 {
			cmd.Printf("Body:     %d bytes\n", len(plan.Body))
		}

		fields := make([]string, 0, len(plan.Metadata))
		for k := range plan.Metadata {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		for _, k := range fields {
			cmd.Printf("  %s = %s (%d bytes)\n", k, plan.Metadata[k], resolver.FieldSize(k, plan.Metadata[k], limits))
		}

		for _, key := range plan.PartitionAdds {
			cmd.Printf("Partition add: %s\n", key)
		}
		printEvents(cmd, recorder)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}

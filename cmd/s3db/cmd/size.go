/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/forattini-dev/s3db/pkg/resolver"
	"github.com/forattini-dev/s3db/pkg/schema"
)

// sizeCmd represents the size command
var sizeCmd = &cobra.Command{
	Use:   "size <record-json>",
	Short: "Report a record's encoded metadata footprint",
	Long: `Encode a record with the schema's codecs and report the per-field
and total byte footprint against the metadata limit, before any
behavior runs.

Example:
  s3db size '{"event":"click","region":"US"}' --schema=schema.yaml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		eng, cfg, _, err := buildEngine(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}
		record, err := readRecord(args[0])
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}

		s := eng.Schema()
		limits := cfg.Limits()
		sizes := map[string]int{}
		total := resolver.FieldSize(schema.VersionKey, "1", limits)

		for _, attr := range s.Attributes {
			value, ok := record[attr.Name]
			if !ok {
				continue
			}
			encoded, err := attr.Codec.Encode(attr.Name, value)
			if err != nil {
				cmd.Printf("Error encoding %s: %v\n", attr.Name, err)
				return
			}
			size := resolver.FieldSize(attr.Name, encoded, limits)
			sizes[attr.Name] = size
			total += size
		}

		names := make([]string, 0, len(sizes))
		for name := range sizes {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if sizes[names[i]] != sizes[names[j]] {
				return sizes[names[i]] > sizes[names[j]]
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			cmd.Printf("%6d  %s\n", sizes[name], name)
		}

		cmd.Printf("Total: %d of %d bytes", total, limits.MetadataLimit)
		if total > limits.MetadataLimit {
			cmd.Printf(" (%d over; behavior %s would apply)", total-limits.MetadataLimit, s.Behavior)
		}
		cmd.Printf("\n")
	},
}

func init() {
	rootCmd.AddCommand(sizeCmd)
}

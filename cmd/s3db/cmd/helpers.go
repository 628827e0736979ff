package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/forattini-dev/s3db/pkg/config"
	"github.com/forattini-dev/s3db/pkg/engine"
	"github.com/forattini-dev/s3db/pkg/events"
	"github.com/forattini-dev/s3db/pkg/resolver"
	"github.com/forattini-dev/s3db/pkg/schema"
	"github.com/forattini-dev/s3db/pkg/storage/pebblestore"
)

// schemaFile is the YAML shape of a schema definition on disk.
type schemaFile struct {
	Resource   string `yaml:"resource"`
	Version    int    `yaml:"version"`
	Attributes []struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	} `yaml:"attributes"`
	Partitions []struct {
		Name   string   `yaml:"name"`
		Fields []string `yaml:"fields"`
	} `yaml:"partitions"`
	Behavior schema.Behavior `yaml:"behavior"`
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.LoadConfig(path)
	}
	defaultPath := config.GetDefaultConfigPath()
	if config.ConfigExists(defaultPath) {
		return config.LoadConfig(defaultPath)
	}
	return config.DefaultConfig(), nil
}

func loadSchema(cmd *cobra.Command, cfg *config.Config) (*schema.RecordSchema, error) {
	path, _ := cmd.Flags().GetString("schema")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}
	if file.Version == 0 {
		file.Version = 1
	}
	if file.Behavior == "" {
		file.Behavior = cfg.Metadata.DefaultBehavior
	}

	schemaCfg := schema.Config{
		Resource:   file.Resource,
		Version:    file.Version,
		Behavior:   file.Behavior,
		Iterations: cfg.Secrets.Iterations,
	}
	if cfg.Secrets.Passphrase != "auto" {
		schemaCfg.Passphrase = cfg.Secrets.Passphrase
	}
	for _, a := range file.Attributes {
		schemaCfg.Attributes = append(schemaCfg.Attributes, schema.Definition{Name: a.Name, Type: a.Type})
	}
	for _, p := range file.Partitions {
		schemaCfg.Partitions = append(schemaCfg.Partitions, schema.PartitionDefinition{Name: p.Name, Fields: p.Fields})
	}
	return schema.New(schemaCfg)
}

// buildEngine wires config, schema and a notification recorder into an
// engine. The recorder lets commands print what a behavior did.
func buildEngine(cmd *cobra.Command) (*engine.Engine, *config.Config, *events.Recorder, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := loadSchema(cmd, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	registry, err := schema.NewRegistry(s)
	if err != nil {
		return nil, nil, nil, err
	}
	recorder := &events.Recorder{}
	eng, err := engine.New(engine.Config{
		Registry: registry,
		Limits:   cfg.Limits(),
		Notifier: recorder,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return eng, cfg, recorder, nil
}

func openStore(cfg *config.Config) (*pebblestore.Store, error) {
	return pebblestore.Open(pebblestore.Config{
		Path:   filepath.Join(cfg.DataDir, "objects"),
		Limits: cfg.Limits(),
		Logger: logger(),
	})
}

// readRecord parses a record argument: inline JSON, @file, or - for stdin.
func readRecord(arg string) (map[string]any, error) {
	var data []byte
	var err error
	switch {
	case arg == "-":
		data, err = io.ReadAll(os.Stdin)
	case strings.HasPrefix(arg, "@"):
		data, err = os.ReadFile(arg[1:])
	default:
		data = []byte(arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	var record map[string]any
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.UseNumber()
	if err := decoder.Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to parse record JSON: %w", err)
	}
	normalizeNumbers(record)
	return record, nil
}

// normalizeNumbers converts json.Number values to int64 when integral,
// float64 otherwise, so records round trip through the typed codecs.
func normalizeNumbers(record map[string]any) {
	for k, v := range record {
		switch val := v.(type) {
		case json.Number:
			record[k] = normalizeNumber(val)
		case []any:
			for i, elem := range val {
				if num, ok := elem.(json.Number); ok {
					val[i] = normalizeNumber(num)
				}
			}
		}
	}
}

func normalizeNumber(num json.Number) any {
	if i, err := num.Int64(); err == nil {
		return i
	}
	if f, err := num.Float64(); err == nil {
		return f
	}
	return num.String()
}

// planRecord plans an insert, or an update when a stored version of the
// record exists.
func planRecord(eng *engine.Engine, record, prev map[string]any) (*resolver.WritePlan, error) {
	if prev != nil {
		return eng.PlanUpdate(record, prev)
	}
	return eng.PlanInsert(record)
}

// printEvents reports what the size behavior did while planning.
func printEvents(cmd *cobra.Command, recorder *events.Recorder) {
	for _, e := range recorder.ExceedsLimits {
		cmd.Printf("warning: metadata is %d bytes, %d over the %d limit; written anyway\n",
			e.TotalSize, e.Excess, e.Limit)
	}
	for _, e := range recorder.Truncates {
		cmd.Printf("truncated %d field(s): %d -> %d bytes\n",
			len(e.Fields), e.TotalBefore, e.TotalAfter)
		for _, f := range e.Fields {
			cmd.Printf("  %s: %d -> %d bytes\n", f.Name, f.Before, f.After)
		}
	}
	for _, e := range recorder.Overflows {
		cmd.Printf("overflowed to body: metadata %d bytes, body %d bytes\n",
			e.MetadataSize, e.BodySize)
	}
}

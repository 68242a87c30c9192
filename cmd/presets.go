package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"imgcache/domain"
	"imgcache/internal/output"
)

var presetsOutput string

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the configured presets",
	Long: `List the presets served by this configuration.

The yaml output can be pasted into the presets section of .imgcache.yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		registry, err := cfg.PresetRegistry()
		if err != nil {
			return err
		}
		return printPresets(cmd, registry.All())
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
	presetsCmd.Flags().StringVarP(&presetsOutput, "output", "o", "table", "output format: table, json or yaml")
}

func printPresets(cmd *cobra.Command, presets []domain.Preset) error {
	w := cmd.OutOrStdout()
	switch presetsOutput {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(presets)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string][]domain.Preset{"presets": presets}); err != nil {
			return err
		}
		return enc.Close()
	case "table":
		table := output.NewTable(w, []string{"name", "max width", "max height", "quality"})
		for _, p := range presets {
			table.AddRow(p.Name, strconv.Itoa(p.MaxWidth), strconv.Itoa(p.MaxHeight), strconv.Itoa(p.Quality))
		}
		return table.Render()
	default:
		return fmt.Errorf("unknown output format %q: must be table, json or yaml", presetsOutput)
	}
}

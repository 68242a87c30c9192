package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"imgcache/gateway/transcode_gateway"
)

var (
	commit    = "unknown"
	buildTime = "unknown"
)

// SetBuildInfo sets the commit hash and build time
func SetBuildInfo(c, bt string) {
	commit = c
	buildTime = bt
}

type versionInfo struct {
	Version     string   `json:"version"`
	Commit      string   `json:"commit"`
	Built       string   `json:"built"`
	GoVersion   string   `json:"goVersion"`
	Platform    string   `json:"platform"`
	WebPEncoder string   `json:"webpEncoder"`
	Decoders    []string `json:"decoders"`
	Presets     int      `json:"presets"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version, codec and preset information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := cmd.OutOrStdout()
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Fprintln(w, version)
			return nil
		}

		info, err := collectVersionInfo()
		if err != nil {
			return err
		}
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}
		writeVersionInfo(w, info)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().Bool("short", false, "print version string only")
	versionCmd.Flags().Bool("json", false, "output as JSON")
}

func collectVersionInfo() (versionInfo, error) {
	registry, err := cfg.PresetRegistry()
	if err != nil {
		return versionInfo{}, err
	}
	return versionInfo{
		Version:     version,
		Commit:      commit,
		Built:       buildTime,
		GoVersion:   runtime.Version(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
		WebPEncoder: moduleVersion(transcode_gateway.WebPEncoderModule),
		Decoders:    transcode_gateway.DecodedFormats,
		Presets:     len(registry.All()),
	}, nil
}

// moduleVersion looks up a dependency in the embedded build info.
func moduleVersion(path string) string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range bi.Deps {
		if dep.Path != path {
			continue
		}
		if dep.Replace != nil {
			dep = dep.Replace
		}
		if dep.Version == "" {
			return "unknown"
		}
		return dep.Version
	}
	return "unknown"
}

func writeVersionInfo(w io.Writer, info versionInfo) {
	fmt.Fprintf(w, "imgcache %s (%s, built %s)\n", info.Version, info.Commit, info.Built)
	fmt.Fprintf(w, "  runtime:  %s %s\n", info.GoVersion, info.Platform)
	fmt.Fprintf(w, "  webp:     %s@%s\n", transcode_gateway.WebPEncoderModule, info.WebPEncoder)
	fmt.Fprintf(w, "  decoders: %s\n", strings.Join(info.Decoders, ", "))
	fmt.Fprintf(w, "  presets:  %d\n", info.Presets)
}

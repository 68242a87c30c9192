package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"imgcache/di"
)

var warmAccept string

var warmCmd = &cobra.Command{
	Use:   "warm <preset> <path>...",
	Short: "Pre-generate cached variants",
	Long: `Pre-generate the variant of each source path for a preset.

The output format is chosen from --accept exactly as it would be for a
browser sending that Accept header. Variants that are already fresh are
reported as cache hits and left untouched.

Examples:
  imgcache warm thumb albums/beach.jpg albums/dunes.jpg
  imgcache warm medium logo.png --accept ""`,
	Args: cobra.MinimumNArgs(2),
	RunE: runWarm,
}

func init() {
	rootCmd.AddCommand(warmCmd)
	warmCmd.Flags().StringVar(&warmAccept, "accept", "image/webp,image/*", "Accept header used to negotiate the output format")
}

func runWarm(cmd *cobra.Command, args []string) error {
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	container, err := di.NewApplicationComponents(cfg, log)
	if err != nil {
		return err
	}

	presetName, sources := args[0], args[1:]
	printer.Header(fmt.Sprintf("Warming %s (%d sources)", presetName, len(sources)))

	failed, hits := 0, 0
	var written uint64
	for _, src := range sources {
		v, err := container.ImageVariantUsecase.Warm(cmd.Context(), presetName, src, warmAccept)
		if err != nil {
			printer.Error("%s: %v", src, err)
			failed++
			continue
		}

		printer.Success("%s %s -> %s (%s, %s)",
			printer.CacheBadge(v.CacheHit),
			src,
			v.CachePath,
			v.Format,
			humanize.Bytes(uint64(len(v.Data))),
		)
		if v.CacheHit {
			hits++
		} else {
			written += uint64(len(v.Data))
		}
		if !v.Persisted {
			printer.Warning("%s: variant generated but not stored", src)
		}
	}

	printer.Info("%d transcoded (%s), %d already cached, %d failed",
		len(sources)-hits-failed, humanize.Bytes(written), hits, failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d variants failed", failed, len(sources))
	}
	return nil
}

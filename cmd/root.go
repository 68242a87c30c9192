// Package cmd contains the imgcache CLI commands
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"imgcache/config"
	"imgcache/internal/output"
	"imgcache/utils/logger"
)

var (
	cfgFile   string
	verbose   bool
	quiet     bool
	colorFlag string
	cfg       *config.Config
	log       *slog.Logger
	version   = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "imgcache",
	Short: "Derived-image cache and transcoding server",
	Long: `imgcache serves resized, re-encoded variants of source images.

Variants are requested as /img/{preset}/{path}. The first request transcodes
the source and stores the result under the cache root; later requests are
served from the stored artifact until the source changes.

Example usage:
  imgcache serve                         # Start the HTTP server
  imgcache warm thumb albums/beach.jpg   # Pre-generate a variant
  imgcache presets                       # List configured presets`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .imgcache.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "color output: auto, always or never")
}

// initConfig loads .env, the config file and the environment, then builds
// the process logger.
func initConfig(cmd *cobra.Command) error {
	// .env is optional
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	log = logger.Init(logger.Options{
		Level:      level,
		Format:     cfg.Logging.Format,
		EnableOTel: cfg.OTel.Enabled,
		Output:     cmd.ErrOrStderr(),
	})

	log.Debug("configuration loaded",
		"backend", cfg.Storage.Backend,
		"cache_root", cfg.Storage.CacheRoot,
		"max_concurrency", cfg.Transcode.MaxConcurrency,
	)
	return nil
}

func newPrinter(cmd *cobra.Command) (*output.Printer, error) {
	mode, err := output.ParseColorMode(colorFlag)
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(output.PrinterOptions{
		ColorMode: mode,
		Quiet:     quiet,
		Out:       cmd.OutOrStdout(),
		Err:       cmd.ErrOrStderr(),
	}), nil
}

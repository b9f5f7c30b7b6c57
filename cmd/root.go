package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/RyanBlaney/mapdata/config"
	"github.com/RyanBlaney/mapdata/logging"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	divisor    int
	colorMode  string
)

var rootCmd = &cobra.Command{
	Use:   "mapdata",
	Short: "Builds osu! beatmap training data",
	Long: `mapdata converts osu! beatmaps and their audio into .npz training archives:
note rows, flow events, per-tick spectra and hitsound tables.

Running without a subcommand is the same as "mapdata prepare".`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPrepare(cmd)
	},
}

func init() {
	addConfigFlags(rootCmd)
	addPrepareFlags(rootCmd)
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "JSON config file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	cmd.PersistentFlags().IntVarP(&divisor, "divisor", "d", 4, "ticks per beat")
	cmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colored log output: auto, always or never")
}

// Execute runs the root command until it finishes or the process is interrupted
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

// loadConfig merges defaults, the config file, MAPDATA_* variables and explicitly set
// flags, in that order, and configures the global logger
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("divisor") {
		cfg.Divisor = divisor
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("map-list") {
		cfg.MapList = mapList
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.SetLevel(level)

	switch colorMode {
	case "always":
		logging.EnableColors()
	case "never":
		logging.DisableColors()
	case "auto":
	default:
		return nil, fmt.Errorf("unknown color mode %q", colorMode)
	}

	return cfg, nil
}

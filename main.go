package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/decker502/neonengine/pkg/app"
	"github.com/decker502/neonengine/pkg/config"
	"github.com/decker502/neonengine/pkg/embedded"
	"github.com/decker502/neonengine/pkg/telemetry"
)

var (
	configFile string
	verbose    bool
	seed       uint64
	assetsDir  string
	fullscreen bool

	traceOpts  = telemetry.DefaultTraceOptions()
	plotWidth  int
	plotHeight int
)

// main registers the commands and runs the root command.
// It exits with status 1 when the command returns an error.
func main() {
	embedded.Init(dataFS)

	rootCmd := &cobra.Command{
		Use:          "neonengine",
		Short:        "neon piston engine toy",
		SilenceUsage: true,
		RunE:         runWindow,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "engine config file (yaml); built-in defaults when empty")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable log output")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "random seed (0 = time based)")
	rootCmd.Flags().StringVar(&assetsDir, "assets", "assets", "audio asset directory")
	rootCmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "start in fullscreen")

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "run the engine headless and plot the rpm curve",
		RunE:  runTrace,
	}
	traceCmd.Flags().IntVar(&traceOpts.Ticks, "ticks", traceOpts.Ticks, "frames to simulate")
	traceCmd.Flags().IntVar(&traceOpts.IgniteAt, "ignite-at", traceOpts.IgniteAt, "frame to press ignite (-1 = never)")
	traceCmd.Flags().IntVar(&traceOpts.ReleaseAt, "release-at", traceOpts.ReleaseAt, "frame to release ignite (-1 = never)")
	traceCmd.Flags().IntVar(&traceOpts.FocusLossAt, "blur-at", traceOpts.FocusLossAt, "frame to simulate focus loss (-1 = never)")
	traceCmd.Flags().Float64Var(&traceOpts.Width, "width", traceOpts.Width, "viewport width")
	traceCmd.Flags().Float64Var(&traceOpts.Height, "height", traceOpts.Height, "viewport height")
	traceCmd.Flags().IntVar(&plotWidth, "plot-width", 80, "plot width")
	traceCmd.Flags().IntVar(&plotHeight, "plot-height", 12, "plot height")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "live terminal dashboard (space: throttle, b: blur, q: quit)",
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return telemetry.RunWatch(cfg, seedOrDefault(1))
		},
	}

	rootCmd.AddCommand(traceCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	if !verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}
}

// loadConfig reads --config, or the built-in data/engine.yaml.
func loadConfig() (*config.EngineConfig, error) {
	if configFile != "" {
		return config.LoadEngineConfig(configFile)
	}
	data, err := embedded.EngineConfig()
	if err != nil {
		log.Printf("[Config] %v, using defaults", err)
		return config.DefaultEngineConfig(), nil
	}
	return config.ParseEngineConfig(data)
}

func seedOrDefault(def uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return def
}

func runWindow(cmd *cobra.Command, args []string) error {
	setupLogging()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	appCfg := app.Config{
		Verbose:    verbose,
		Engine:     cfg,
		Seed:       seed,
		Fullscreen: fullscreen,
	}
	if info, err := os.Stat(assetsDir); err == nil && info.IsDir() {
		appCfg.Assets = os.DirFS(assetsDir)
	} else {
		log.Printf("[App] Asset directory %q not found, running without audio", assetsDir)
	}

	engineApp, err := app.NewApp(appCfg)
	if err != nil {
		return err
	}
	return engineApp.Run()
}

func runTrace(cmd *cobra.Command, args []string) error {
	setupLogging()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	traceOpts.Seed = seedOrDefault(traceOpts.Seed)
	tr, err := telemetry.RunTrace(cfg, traceOpts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, tr.Plot(plotWidth, plotHeight))
	fmt.Fprintln(out)
	fmt.Fprintln(out, tr.Summary())
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ravlen/nervescope/internal/config"
	"github.com/ravlen/nervescope/internal/gui"
	"github.com/ravlen/nervescope/internal/nerve"
	"github.com/ravlen/nervescope/internal/signal"
	"github.com/ravlen/nervescope/internal/viz"
)

var (
	endpoint   string
	interval   time.Duration
	timeout    time.Duration
	smoothing  float64
	fps        int
	seed       int64
	sceneName  string
	configFile string
	verbose    bool
	offline    bool
)

// main registers commands and flags; with no subcommand the native GUI
// launches. Exits with status 1 on command error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "nervescope",
		Short: "risk signal visualizer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", config.DefaultEndpoint, "risk signal endpoint")
	rootCmd.PersistentFlags().DurationVar(&interval, "interval", config.DefaultPollInterval, "live poll interval")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", config.DefaultFetchTimeout, "fetch timeout")
	rootCmd.PersistentFlags().Float64Var(&smoothing, "smoothing", config.DefaultSmoothing, "per-frame smoothing factor")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log fetch failures")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "simulation only, never touch the network")

	guiCmd := &cobra.Command{
		Use:   "gui [scene]",
		Short: "run the native scene renderer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	guiCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "target frame rate")
	guiCmd.Flags().StringVar(&sceneName, "scene", "", "starting scene (ocean, clock, fracture, pulse)")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the terminal dashboard",
		RunE:  runTUI,
	}

	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "fetch the endpoint once and print the reading",
		RunE:  runProbe,
	}

	ladderCmd := &cobra.Command{
		Use:   "ladder",
		Short: "list the simulation ladder",
		RunE:  runLadder,
	}

	rootCmd.AddCommand(guiCmd, tuiCmd, probeCmd, ladderCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges the config file (if any) with CLI flags; flags that were
// set explicitly win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = endpoint
	}
	if flags.Changed("interval") {
		cfg.PollInterval = interval
	}
	if flags.Changed("timeout") {
		cfg.FetchTimeout = timeout
	}
	if flags.Changed("smoothing") {
		cfg.Smoothing = smoothing
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("scene") && sceneName != "" {
		cfg.Scene = sceneName
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newNerve builds the shared reconciler for the GUI and TUI.
func newNerve(cfg *config.Config) *nerve.Nerve {
	var src nerve.Fetcher
	if !offline && cfg.Endpoint != "" {
		s := signal.NewSource(cfg.Endpoint)
		s.SetTimeout(cfg.FetchTimeout)
		src = s
	}
	n := nerve.New(src)
	n.SetSmoothing(cfg.Smoothing)
	n.SetPollInterval(cfg.PollInterval)
	n.SetVerbose(cfg.Verbose)
	return n
}

func runGUI(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		sceneName = args[0]
		cmd.Flags().Set("scene", args[0])
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	gui.Run(newNerve(cfg), cfg)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(newNerve(cfg))
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	src := signal.NewSource(cfg.Endpoint)
	src.SetTimeout(cfg.FetchTimeout)

	start := time.Now()
	snap, err := src.Fetch(context.Background())
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("probe failed after %v: %w", elapsed, err)
	}

	fmt.Printf("probe ok in %v\n\n", elapsed)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "edge score\t%.4f\n", snap.EdgeScore)
	fmt.Fprintf(w, "regime\t%s\n", snap.Regime)
	fmt.Fprintf(w, "fragility\t%.4f\n", snap.Fragility)
	fmt.Fprintf(w, "momentum\t%+.4f\n", snap.Momentum)
	if snap.Timestamp != "" {
		fmt.Fprintf(w, "timestamp\t%s\n", snap.Timestamp)
	}
	for d := signal.Domain(0); d < signal.NumDomains; d++ {
		if snap.HasDomain[d] {
			fmt.Fprintf(w, "%s\t%.4f\n", d, snap.Domains[d])
		} else {
			fmt.Fprintf(w, "%s\t(absent)\n", d)
		}
	}
	return w.Flush()
}

func runLadder(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUNG\tNAME\tEDGE\tREGIME\tFRAGILITY\tMOMENTUM")
	for i, rung := range nerve.Ladder {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%.2f\t%+.2f\n",
			i+1, rung.Name, rung.Snap.EdgeScore, rung.Snap.Regime,
			rung.Snap.Fragility, rung.Snap.Momentum)
	}
	return w.Flush()
}

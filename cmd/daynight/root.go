package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lixenwraith/daynight/config"
)

type flagValues struct {
	configPath  string
	rate        float64
	start       string
	fps         int
	maxFrames   uint64
	name        string
	latitude    float64
	longitude   float64
	color       string
	noAudio     bool
	metrics     bool
	metricsPort int
	headless    bool
	reportEvery time.Duration
	debug       bool
}

func newRootCmd() *cobra.Command {
	var fv flagValues

	cmd := &cobra.Command{
		Use:   AppName,
		Short: "Animate the day/night terminator at an accelerated simulated clock",
		Long: "Renders the sunlit half of the globe in the terminal. Simulated time advances\n" +
			"by real elapsed time multiplied by --rate, independent of frame rate.\n\n" +
			"Keys: space pause, +/- rate, r reset, q quit.\n" +
			"Layers: 1 shading, 2 grid, 3 observer, 4 sun, 5 status.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &fv)
			if err != nil {
				return err
			}

			logFile, err := setupLogging(afero.NewOsFs(), cfg.Debug)
			if err != nil {
				return err
			}
			if logFile != nil {
				defer logFile.Close()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			interactive := !cfg.Headless.Force && term.IsTerminal(int(os.Stdout.Fd()))
			return run(ctx, cfg, cmd.OutOrStdout(), interactive)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&fv.configPath, "config", "c", "", "TOML config file")
	f.Float64VarP(&fv.rate, "rate", "r", 0, "simulated ms per real ms (default 10800)")
	f.StringVar(&fv.start, "start", "", `simulation start, RFC3339 or "now"`)
	f.IntVar(&fv.fps, "fps", 0, "target frames per second (default 60)")
	f.Uint64Var(&fv.maxFrames, "max-frames", 0, "stop after n frames, 0 runs until quit")
	f.StringVar(&fv.name, "name", "", "observer name")
	f.Float64Var(&fv.latitude, "lat", 0, "observer latitude")
	f.Float64Var(&fv.longitude, "lon", 0, "observer longitude")
	f.StringVar(&fv.color, "color", "", "color mode: auto, truecolor, 256")
	f.BoolVar(&fv.noAudio, "no-audio", false, "disable sunrise/sunset chimes")
	f.BoolVar(&fv.metrics, "metrics", false, "serve prometheus metrics")
	f.IntVar(&fv.metricsPort, "metrics-port", 0, "metrics listen port (default 9108)")
	f.BoolVar(&fv.headless, "headless", false, "print text lines instead of drawing")
	f.DurationVar(&fv.reportEvery, "report-every", 0, "headless: simulated time between lines (default 1h)")
	f.BoolVar(&fv.debug, "debug", false, "write debug log to logs/")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", AppName, Version)
		},
	}
}

// loadConfig layers explicitly set flags over file and environment configuration
func loadConfig(cmd *cobra.Command, fv *flagValues) (*config.Config, error) {
	cfg, err := config.Load(fv.configPath)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("rate") {
		cfg.Clock.Rate = fv.rate
	}
	if f.Changed("start") {
		cfg.Clock.Start = fv.start
	}
	if f.Changed("fps") {
		cfg.Loop.FPS = fv.fps
	}
	if f.Changed("max-frames") {
		cfg.Loop.MaxFrames = fv.maxFrames
	}
	if f.Changed("name") {
		cfg.Observer.Name = fv.name
	}
	if f.Changed("lat") {
		cfg.Observer.Latitude = fv.latitude
	}
	if f.Changed("lon") {
		cfg.Observer.Longitude = fv.longitude
	}
	if f.Changed("color") {
		cfg.Display.Color = fv.color
	}
	if f.Changed("no-audio") {
		cfg.Audio.Enabled = !fv.noAudio
	}
	if f.Changed("metrics") {
		cfg.Metrics.Enabled = fv.metrics
	}
	if f.Changed("metrics-port") {
		cfg.Metrics.Port = fv.metricsPort
	}
	if f.Changed("headless") {
		cfg.Headless.Force = fv.headless
	}
	if f.Changed("report-every") {
		cfg.Headless.ReportEvery = fv.reportEvery
	}
	if f.Changed("debug") {
		cfg.Debug = fv.debug
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// shutdownContext bounds cleanup work after the loop has stopped
func shutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}

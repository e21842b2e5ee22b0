package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jonboulle/clockwork"

	"github.com/lixenwraith/daynight/audio"
	"github.com/lixenwraith/daynight/config"
	"github.com/lixenwraith/daynight/core"
	"github.com/lixenwraith/daynight/engine"
	"github.com/lixenwraith/daynight/render"
	"github.com/lixenwraith/daynight/simclock"
	"github.com/lixenwraith/daynight/solar"
	"github.com/lixenwraith/daynight/status"
)

// run wires the clock driver, tick source and sink, then blocks until the loop ends
func run(ctx context.Context, cfg *config.Config, stdout io.Writer, interactive bool) error {
	return runWithClock(ctx, clockwork.NewRealClock(), cfg, stdout, interactive)
}

func runWithClock(ctx context.Context, clock clockwork.Clock, cfg *config.Config, stdout io.Writer, interactive bool) error {
	start, err := cfg.StartTime(clock.Now())
	if err != nil {
		return err
	}

	driver, err := simclock.NewAt(start, cfg.Clock.Rate)
	if err != nil {
		return err
	}

	observer := solar.Observer{
		Name:      cfg.Observer.Name,
		Latitude:  cfg.Observer.Latitude,
		Longitude: cfg.Observer.Longitude,
	}
	stats := status.NewRegistry()

	opts := []engine.Option{
		engine.WithFPS(cfg.Loop.FPS),
		engine.WithMaxFrames(cfg.Loop.MaxFrames),
		engine.WithResetTime(start),
		engine.WithObserver(stats.Observe),
	}

	if cfg.Metrics.Enabled {
		exporter := status.NewExporter(stats)
		opts = append(opts, engine.WithObserver(exporter.Observe))

		srv := status.NewServer(cfg.MetricsAddr(), exporter.Registry())
		if err := srv.Listen(); err != nil {
			return err
		}
		core.Go(func() {
			if err := srv.Start(); err != nil {
				log.Printf("metrics: %v", err)
			}
		})
		defer func() {
			sctx, cancel := shutdownContext()
			defer cancel()
			_ = srv.Stop(sctx)
		}()
	}

	chime := audio.NewChime()
	if cfg.Audio.Enabled && interactive {
		// Non-fatal, the animation runs without sound
		if err := chime.Initialize(); err != nil {
			log.Printf("audio initialization failed: %v (continuing without audio)", err)
		} else {
			defer chime.Cleanup()
		}
	}

	events := log.New(io.Discard, "", 0)
	if !interactive {
		events = log.New(stdout, "", 0)
	}

	tracker := solar.NewTracker(observer)
	opts = append(opts, engine.WithObserver(func(f engine.FrameInfo) {
		stats.Phase.Store(observer.Phase(f.Simulated).String())

		if tr := tracker.Update(f.Simulated); tr != solar.NoTransition {
			log.Printf("%s at %s, simulated %s", tr, observer.Name, f.Simulated.Format(time.RFC3339))
			events.Printf("event=%s observer=%s sim=%s", tr, observer.Name, f.Simulated.Format(time.RFC3339))
			chime.Play(tr)
		}
	}))

	var sink engine.Sink
	if interactive {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("create screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("init screen: %w", err)
		}
		defer screen.Fini()
		core.SetCrashScreen(screen)
		defer core.SetCrashScreen(nil)

		detected := render.ColorMode256
		if screen.Colors() >= 1<<24 {
			detected = render.ColorModeTrueColor
		}
		mode, err := cfg.ColorMode(detected)
		if err != nil {
			return err
		}

		commands := make(chan engine.Command, 16)
		done := make(chan struct{})
		defer close(done)
		core.Go(func() { render.PollInput(screen, commands, done) })
		opts = append(opts, engine.WithCommands(commands))

		sink = buildScene(screen, mode, cfg, observer, stats)
	} else {
		sink = render.NewHeadless(stdout, cfg.Headless.ReportEvery, &observer)
	}

	log.Printf("starting: rate=%g fps=%d start=%s interactive=%t",
		cfg.Clock.Rate, cfg.Loop.FPS, start.Format(time.RFC3339), interactive)

	loop := engine.NewFrameLoop(clock, driver, sink, opts...)
	err = loop.Run(ctx)

	log.Printf("stopped after %d frames at simulated %s", loop.Frames(), driver.Time().Format(time.RFC3339))

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// buildScene registers layers in the same order the keys 1-5 toggle them
func buildScene(screen tcell.Screen, mode render.ColorMode, cfg *config.Config, observer solar.Observer, stats *status.Registry) *render.Scene {
	scene := render.NewScene(screen, mode)
	scene.Register(render.ShadingLayer{}, render.PriorityShading, cfg.LayerEnabled(render.LayerShading))
	scene.Register(render.GridLayer{Step: 30}, render.PriorityGrid, cfg.LayerEnabled(render.LayerGrid))
	scene.Register(render.ObserverLayer{Observer: observer}, render.PriorityObserver, cfg.LayerEnabled(render.LayerObserver))
	scene.Register(render.SunLayer{}, render.PrioritySun, cfg.LayerEnabled(render.LayerSun))
	scene.Register(render.StatusLayer{Observer: &observer, Stats: stats}, render.PriorityUI, cfg.LayerEnabled(render.LayerStatus))
	return scene
}

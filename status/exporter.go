package status

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/lixenwraith/daynight/engine"
)

const namespace = "daynight"

// Exporter publishes Registry values as prometheus metrics
// Gauges read the registry at scrape time; the frame delta histogram is fed by Observe
type Exporter struct {
	registry   *prometheus.Registry
	frames     prometheus.CounterFunc
	simulated  prometheus.GaugeFunc
	rate       prometheus.GaugeFunc
	fps        prometheus.GaugeFunc
	paused     prometheus.GaugeFunc
	frameDelta prometheus.Histogram
}

// NewExporter registers all collectors against a private prometheus registry
func NewExporter(stats *Registry) *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames rendered since start.",
		}, func() float64 { return float64(stats.Frames.Load()) }),
		simulated: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "simulated_time_seconds",
			Help:      "Current simulated time as Unix seconds.",
		}, func() float64 { return stats.SimulatedMs.Get() / 1000 }),
		rate: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_multiplier",
			Help:      "Simulated milliseconds advanced per real millisecond.",
		}, stats.Rate.Get),
		fps: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frames_per_second",
			Help:      "Smoothed frame rate.",
		}, stats.FPS.Get),
		paused: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "paused",
			Help:      "1 while simulated time is frozen.",
		}, func() float64 {
			if stats.Paused.Load() {
				return 1
			}
			return 0
		}),
		frameDelta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_delta_seconds",
			Help:      "Real time between consecutive frames.",
			Buckets:   []float64{0.004, 0.008, 0.016, 0.033, 0.05, 0.1, 0.25, 1},
		}),
	}

	e.registry.MustRegister(
		collectors.NewGoCollector(),
		e.frames,
		e.simulated,
		e.rate,
		e.fps,
		e.paused,
		e.frameDelta,
	)
	return e
}

// Observe records the frame delta, first frames carry no delta and are skipped
func (e *Exporter) Observe(info engine.FrameInfo) {
	if info.Index == 0 {
		return
	}
	e.frameDelta.Observe(info.Delta.Seconds())
}

// Registry returns the prometheus registry for serving
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

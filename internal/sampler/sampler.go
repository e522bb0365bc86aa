// Package sampler drives periodic recording: on every tick it pulls one
// snapshot from a Source and appends it to the store.
package sampler

import (
	"context"
	"log/slog"
	"time"

	"ebb/internal/record"
	"ebb/internal/store"
)

// Source produces one sensor/actuator/decision snapshot per call.
// Implemented by sim.Robot and by hardware adapters.
type Source interface {
	Sample() (sensors map[string]store.SensorValue, actuators map[string]float64, decision store.Decision)
}

// Appender receives sampled snapshots. Implemented by recorder.Recorder.
type Appender interface {
	Append(sensors map[string]store.SensorValue, actuators map[string]float64, decision store.Decision) record.Record
}

// Sampler couples a Source to an Appender on a fixed interval. A tick
// that arrives while the previous sample is still being processed is
// coalesced by the ticker; at most one tick is ever pending.
type Sampler struct {
	source   Source
	sink     Appender
	interval time.Duration
	ticks    <-chan time.Time
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithTicks replaces the internal ticker with an externally driven
// channel, so tests can fire ticks deterministically.
func WithTicks(ch <-chan time.Time) Option {
	return func(s *Sampler) { s.ticks = ch }
}

// New creates a sampler that polls source every interval and appends
// each snapshot to sink.
func New(source Source, sink Appender, interval time.Duration, opts ...Option) *Sampler {
	s := &Sampler{source: source, sink: sink, interval: interval}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run samples until ctx is cancelled, then returns ctx.Err().
func (s *Sampler) Run(ctx context.Context) error {
	ticks := s.ticks
	if ticks == nil {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	slog.Info("sampler started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("sampler stopped")
			return ctx.Err()
		case <-ticks:
			sensors, actuators, decision := s.source.Sample()
			ev := s.sink.Append(sensors, actuators, decision)
			slog.Debug("event sampled", "time", ev.Time, "decision", decision.Code)
		}
	}
}

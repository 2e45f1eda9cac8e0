// Package beattrack estimates a BeatGrid from a decoded AudioBuffer.
package beattrack

import (
	"log/slog"

	"github.com/chordscope/chordscope/internal/dspengine"
	"github.com/chordscope/chordscope/internal/model"
)

const (
	minTempo      = 40.0
	maxTempo      = 208.0
	downbeatEvery = 4
	defaultTempo  = 120.0
	timeSigNum    = 4
	timeSigDen    = 4
)

// Options configures the fallback path.
type Options struct {
	// AssumedTempoOnFallback is the fixed tempo used to synthesize a beat
	// grid when the primary rhythm-extraction path fails.
	AssumedTempoOnFallback float64
}

// DefaultOptions returns the spec defaults.
func DefaultOptions() Options {
	return Options{AssumedTempoOnFallback: defaultTempo}
}

// ProgressFunc is called periodically during the rhythm estimator's window
// scan with the number of windows processed so far.
type ProgressFunc func(windowsDone int)

// Track estimates a BeatGrid for buf. The primary path uses the DSP
// engine's rhythm estimator; on failure (or fewer than two beats), it
// falls back to a fixed-interval grid. The fallback never errors — its use
// is recorded on the returned grid's Fallback field. onProgress, if
// non-nil, is forwarded to the rhythm estimator's window scan.
func Track(buf model.AudioBuffer, opts Options, onProgress ProgressFunc) model.BeatGrid {
	applyDefaults(&opts)

	engine, err := dspengine.Get()
	if err == nil {
		tempo, beats, ok := engine.DetectRhythm(buf.Samples, buf.SampleRate, minTempo, maxTempo, onProgress)
		if ok && len(beats) >= 2 {
			return model.BeatGrid{
				TempoBPM:   tempo,
				Beats:      beats,
				Downbeats:  downbeatsFrom(beats),
				TimeSigNum: timeSigNum,
				TimeSigDen: timeSigDen,
				Fallback:   false,
			}
		}
	} else {
		slog.Debug("beattrack.Track", "stage", "engine unavailable", "error", err)
	}

	slog.Debug("beattrack.Track", "stage", "fallback", "assumed tempo", opts.AssumedTempoOnFallback)

	beats := synthesizeBeats(buf.Duration, opts.AssumedTempoOnFallback)

	return model.BeatGrid{
		TempoBPM:   opts.AssumedTempoOnFallback,
		Beats:      beats,
		Downbeats:  downbeatsFrom(beats),
		TimeSigNum: timeSigNum,
		TimeSigDen: timeSigDen,
		Fallback:   true,
	}
}

func applyDefaults(opts *Options) {
	if opts.AssumedTempoOnFallback <= 0 {
		opts.AssumedTempoOnFallback = defaultTempo
	}
}

func synthesizeBeats(duration, tempo float64) []float64 {
	interval := 60.0 / tempo

	var beats []float64

	for t := 0.0; t <= duration; t += interval {
		beats = append(beats, t)
	}

	if len(beats) == 0 {
		beats = append(beats, 0)
	}

	return beats
}

func downbeatsFrom(beats []float64) []float64 {
	var downbeats []float64

	for i := 0; i < len(beats); i += downbeatEvery {
		downbeats = append(downbeats, beats[i])
	}

	return downbeats
}

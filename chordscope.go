// Package chordscope analyzes short audio clips into a beat grid, a chord
// progression, a key estimate, and a Roman-numeral harmonic analysis,
// entirely offline.
package chordscope

import (
	"context"

	"github.com/chordscope/chordscope/internal/loader"
	"github.com/chordscope/chordscope/internal/model"
	"github.com/chordscope/chordscope/internal/orchestrator"
	"github.com/chordscope/chordscope/internal/progress"
)

// Options controls both loader gates and analysis tunables.
type Options struct {
	MaxFileMB              int
	MinDurationSec         float64
	MaxDurationSec         float64
	SilenceRMS             float64
	ConfidenceThreshold    float64
	DetectExtended         bool
	AssumedTempoOnFallback float64
	SmoothingWindow        int
	Progress               progress.Sink
}

// DefaultOptions returns the library's default configuration.
func DefaultOptions() Options {
	loaderDefaults := loader.DefaultOptions()
	orchDefaults := orchestrator.DefaultOptions()

	return Options{
		MaxFileMB:              loaderDefaults.MaxFileMB,
		MinDurationSec:         loaderDefaults.MinDurationSec,
		MaxDurationSec:         loaderDefaults.MaxDurationSec,
		SilenceRMS:             loaderDefaults.SilenceRMS,
		ConfidenceThreshold:    orchDefaults.ConfidenceThreshold,
		DetectExtended:         orchDefaults.DetectExtended,
		AssumedTempoOnFallback: orchDefaults.AssumedTempoOnFallback,
		SmoothingWindow:        orchDefaults.SmoothingWindow,
	}
}

func (o Options) loaderOptions() loader.Options {
	return loader.Options{
		MaxFileMB:      o.MaxFileMB,
		MinDurationSec: o.MinDurationSec,
		MaxDurationSec: o.MaxDurationSec,
		SilenceRMS:     o.SilenceRMS,
	}
}

func (o Options) orchestratorOptions() orchestrator.Options {
	return orchestrator.Options{
		ConfidenceThreshold:    o.ConfidenceThreshold,
		DetectExtended:         o.DetectExtended,
		AssumedTempoOnFallback: o.AssumedTempoOnFallback,
		SmoothingWindow:        o.SmoothingWindow,
	}
}

// AnalyzeFile loads path from disk (via ffprobe/ffmpeg for real containers)
// and runs the full analysis pipeline over it.
func AnalyzeFile(ctx context.Context, path string, opts Options) (*model.AnalysisReport, error) {
	buf, err := loader.FromContainer(ctx, path, opts.loaderOptions())
	if err != nil {
		return nil, err
	}

	return Analyze(ctx, *buf, opts)
}

// AnalyzePCM validates and decodes already-demuxed per-channel float32
// samples, then runs the full analysis pipeline.
func AnalyzePCM(ctx context.Context, id, name string, channels [][]float32, sampleRate int, opts Options) (*model.AnalysisReport, error) {
	buf, err := loader.FromDecodedPCM(id, name, channels, sampleRate, opts.loaderOptions())
	if err != nil {
		return nil, err
	}

	return Analyze(ctx, *buf, opts)
}

// Analyze runs the beat-tracking, chroma, chord, key, and Roman-numeral
// stages over an already-validated AudioBuffer.
func Analyze(ctx context.Context, buf model.AudioBuffer, opts Options) (*model.AnalysisReport, error) {
	report, err := orchestrator.Run(ctx, buf, opts.orchestratorOptions(), opts.Progress)
	if err != nil {
		return nil, err
	}

	return report, nil
}

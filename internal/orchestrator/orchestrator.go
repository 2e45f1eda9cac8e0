// Package orchestrator drives the chordscope pipeline over an
// already-loaded AudioBuffer: track beats, extract and smooth chroma,
// recognize chords, detect key, label Roman numerals, and package the
// final report.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chordscope/chordscope/internal/beattrack"
	"github.com/chordscope/chordscope/internal/chordmatch"
	"github.com/chordscope/chordscope/internal/chroma"
	"github.com/chordscope/chordscope/internal/dspengine"
	"github.com/chordscope/chordscope/internal/fault"
	"github.com/chordscope/chordscope/internal/keydetect"
	"github.com/chordscope/chordscope/internal/model"
	"github.com/chordscope/chordscope/internal/progress"
	"github.com/chordscope/chordscope/internal/romananalyze"
)

// Options bundles the per-run tunables from the library entry point.
type Options struct {
	ConfidenceThreshold    float64
	DetectExtended         bool
	AssumedTempoOnFallback float64
	SmoothingWindow        int
}

// DefaultOptions returns the spec's default Options.
func DefaultOptions() Options {
	return Options{
		ConfidenceThreshold:    0.5,
		DetectExtended:         true,
		AssumedTempoOnFallback: 120,
		SmoothingWindow:        3,
	}
}

// Run drives the pipeline end to end for an already-validated AudioBuffer,
// pushing progress events to sink (which may be nil).
func Run(_ context.Context, buf model.AudioBuffer, opts Options, sink progress.Sink) (*model.AnalysisReport, error) {
	emit(sink, progress.StageLoading, 100, "audio buffer ready")

	emit(sink, progress.StageDetectingBeats, 0, "estimating tempo")

	grid := beattrack.Track(buf, beattrack.Options{AssumedTempoOnFallback: opts.AssumedTempoOnFallback}, progressEveryNWindows(sink))

	emit(sink, progress.StageDetectingBeats, 100, fmt.Sprintf("tempo %.1f bpm", grid.TempoBPM))

	emit(sink, progress.StageExtractingChroma, 0, "extracting chroma")

	if _, err := dspengine.Get(); err != nil {
		return nil, fmt.Errorf("%w: chroma extraction: %w", fault.ErrEngineLoadFailed, err)
	}

	frames := chroma.Extract(buf, &grid, progressEveryNFrames(sink))
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: zero usable chroma frames", fault.ErrCorruptFile)
	}

	smoothed := chroma.Smooth(frames, opts.SmoothingWindow)

	emit(sink, progress.StageExtractingChroma, 100, fmt.Sprintf("%d frames", len(smoothed)))

	emit(sink, progress.StageRecognizingChords, 0, "matching chord templates")

	chords := chordmatch.Recognize(smoothed, grid, chordmatch.Options{
		ConfidenceThreshold: opts.ConfidenceThreshold,
		DetectExtended:      opts.DetectExtended,
	})

	emit(sink, progress.StageRecognizingChords, 100, fmt.Sprintf("%d chords", len(chords)))

	key := keydetect.Detect(chords)

	roman := romananalyze.Analyze(chords, key)

	report := &model.AnalysisReport{
		BeatGrid:       grid,
		Chords:         chords,
		Key:            key,
		RomanNumerals:  roman,
		Confidence:     overallConfidence(chords),
		SourceDuration: buf.Duration,
		SourceID:       buf.ID,
		Metadata: map[string]any{
			"fallback_beats":   grid.Fallback,
			"frames_extracted": len(smoothed),
			"engine":           "chordscope-dspengine",
		},
	}

	emit(sink, progress.StageDone, 100, "analysis complete")

	slog.Debug("orchestrator.Run", "stage", "done", "chords", len(chords), "key", key.Tonic+" "+key.Mode.String())

	return report, nil
}

func overallConfidence(chords []model.DetectedChord) float64 {
	var (
		weightedSum float64
		totalBeats  float64
	)

	for _, c := range chords {
		if c.Chord == "N/C" {
			continue
		}

		weightedSum += c.Confidence * float64(c.BeatCount)
		totalBeats += float64(c.BeatCount)
	}

	if totalBeats == 0 {
		return 0
	}

	return weightedSum / totalBeats
}

func emit(sink progress.Sink, stage progress.Stage, percent int, message string) {
	if sink == nil {
		return
	}

	sink(stage, percent, message)
}

const chromaProgressEvery = 10

// progressEveryNFrames adapts the orchestrator's Sink into chroma's
// segment-count callback, firing every 10 segments as specified.
func progressEveryNFrames(sink progress.Sink) chroma.ProgressFunc {
	if sink == nil {
		return nil
	}

	return func(segmentsDone int) {
		if segmentsDone%chromaProgressEvery == 0 {
			sink(progress.StageExtractingChroma, 50, fmt.Sprintf("%d segments processed", segmentsDone))
		}
	}
}

const beatWindowProgressEvery = 20

// progressEveryNWindows adapts the orchestrator's Sink into beattrack's
// window-count callback, firing every 20 windows as specified.
func progressEveryNWindows(sink progress.Sink) beattrack.ProgressFunc {
	if sink == nil {
		return nil
	}

	return func(windowsDone int) {
		if windowsDone%beatWindowProgressEvery == 0 {
			sink(progress.StageDetectingBeats, 50, fmt.Sprintf("%d windows scanned", windowsDone))
		}
	}
}

package orchestrator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chordscope/chordscope/internal/model"
	"github.com/chordscope/chordscope/internal/progress"
)

const testSampleRate = 44100

// cMajorChordBuffer synthesizes twelve seconds of a sustained C major
// triad (C4+E4+G4) at constant amplitude (no rhythmic pulse), loud enough
// to clear the loader's silence gate.
func cMajorChordBuffer() model.AudioBuffer {
	duration := 12.0
	n := int(duration * testSampleRate)
	samples := make([]float32, n)

	freqs := []float64{261.63, 329.63, 392.00}

	for i := range samples {
		t := float64(i) / testSampleRate

		var v float64
		for _, f := range freqs {
			v += math.Sin(2 * math.Pi * f * t)
		}

		samples[i] = float32(v / float64(len(freqs)) * 0.8)
	}

	return model.AudioBuffer{
		ID:         "test-buffer",
		Name:       "test-buffer",
		Duration:   duration,
		SampleRate: testSampleRate,
		Samples:    samples,
	}
}

func TestRunProducesReportWithProgressEvents(t *testing.T) {
	buf := cMajorChordBuffer()

	var events []progress.Stage

	sink := func(stage progress.Stage, percent int, message string) {
		events = append(events, stage)
	}

	report, err := Run(nil, buf, DefaultOptions(), sink) //nolint:staticcheck // nil context acceptable, unused by Run

	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Contains(t, events, progress.StageLoading)
	assert.Contains(t, events, progress.StageDetectingBeats)
	assert.Contains(t, events, progress.StageExtractingChroma)
	assert.Contains(t, events, progress.StageRecognizingChords)
	assert.Contains(t, events, progress.StageDone)

	assert.Equal(t, "test-buffer", report.SourceID)
	assert.InDelta(t, buf.Duration, report.SourceDuration, 0.01)
	assert.Len(t, report.RomanNumerals, len(report.Chords))
}

func TestOverallConfidenceIgnoresNoChordEntries(t *testing.T) {
	chords := []model.DetectedChord{
		{Chord: "N/C", Confidence: 0, BeatCount: 4},
		{Chord: "C", Confidence: 0.8, BeatCount: 2},
	}

	conf := overallConfidence(chords)

	assert.InDelta(t, 0.8, conf, 1e-9)
}

func TestOverallConfidenceEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, overallConfidence(nil))
}

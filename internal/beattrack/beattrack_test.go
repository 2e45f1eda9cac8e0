package beattrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chordscope/chordscope/internal/model"
)

func TestTrackFallsBackForSilentBuffer(t *testing.T) {
	buf := model.AudioBuffer{
		ID:         "silent",
		Duration:   12,
		SampleRate: 44100,
		Samples:    make([]float32, 44100*12),
	}

	grid := Track(buf, DefaultOptions(), nil)

	assert.True(t, grid.Fallback)
	assert.Equal(t, defaultTempo, grid.TempoBPM)
	require.NotEmpty(t, grid.Beats)
	assert.Equal(t, timeSigNum, grid.TimeSigNum)
	assert.Equal(t, timeSigDen, grid.TimeSigDen)
}

func TestTrackReportsWindowProgressDuringPrimaryScan(t *testing.T) {
	buf := model.AudioBuffer{
		ID:         "silent",
		Duration:   12,
		SampleRate: 44100,
		Samples:    make([]float32, 44100*12),
	}

	var calls []int

	Track(buf, DefaultOptions(), func(windowsDone int) {
		calls = append(calls, windowsDone)
	})

	require.NotEmpty(t, calls, "windowedEnergy's scan should report progress even when the signal is degenerate")
}

func TestDownbeatsEveryFourthBeat(t *testing.T) {
	beats := []float64{0, 0.5, 1.0, 1.5, 2.0, 2.5, 3.0, 3.5}

	downbeats := downbeatsFrom(beats)

	assert.Equal(t, []float64{0, 2.0}, downbeats)
}

func TestSynthesizeBeatsCoversFullDuration(t *testing.T) {
	beats := synthesizeBeats(4.0, 120)

	require.NotEmpty(t, beats)
	assert.Equal(t, 0.0, beats[0])
	assert.LessOrEqual(t, beats[len(beats)-1], 4.0)
}

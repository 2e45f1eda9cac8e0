package chordmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chordscope/chordscope/internal/model"
)

func cMajorFrame(ts float64) model.ChromaFrame {
	// C major triad: C, E, G energized, rest silent.
	return model.ChromaFrame{
		Timestamp: ts,
		Vector:    [12]float64{1, 0, 0, 0, 1, 0, 0, 1, 0, 0, 0, 0},
		Energy:    0.5,
	}
}

func TestRecognizePureCMajorTriad(t *testing.T) {
	frames := []model.ChromaFrame{
		cMajorFrame(0), cMajorFrame(0.25), cMajorFrame(0.5), cMajorFrame(0.75),
	}
	grid := model.BeatGrid{TempoBPM: 120, Beats: []float64{0, 0.5, 1.0}}

	chords := Recognize(frames, grid, DefaultOptions())

	require.NotEmpty(t, chords)
	for _, c := range chords {
		assert.Equal(t, "C", c.Chord)
		assert.Equal(t, model.Major, c.Quality)
	}
}

func TestRecognizeRespectsDetectExtendedFalse(t *testing.T) {
	// Cmaj7: C, E, G, B.
	cmaj7 := model.ChromaFrame{
		Timestamp: 0,
		Vector:    [12]float64{1, 0, 0, 0, 1, 0, 0, 1, 0, 0, 0, 1},
		Energy:    0.5,
	}
	frames := []model.ChromaFrame{cmaj7, cmaj7}
	grid := model.BeatGrid{TempoBPM: 120, Beats: []float64{0, 0.5, 1.0}}

	opts := DefaultOptions()
	opts.DetectExtended = false

	chords := Recognize(frames, grid, opts)

	require.NotEmpty(t, chords)

	for _, c := range chords {
		if c.Chord == "N/C" {
			continue
		}

		assert.Equal(t, "C", c.Chord)
		assert.NotEqual(t, model.Major7, c.Quality)
	}
}

func TestRecognizeFewerThanTwoBeatsReturnsNil(t *testing.T) {
	frames := []model.ChromaFrame{cMajorFrame(0)}
	grid := model.BeatGrid{TempoBPM: 120, Beats: []float64{0}}

	chords := Recognize(frames, grid, DefaultOptions())

	assert.Nil(t, chords)
}

func TestCosineSimilarityScaleInvariant(t *testing.T) {
	a := [12]float64{1, 0, 0, 0, 1, 0, 0, 1, 0, 0, 0, 0}
	scaled := [12]float64{10, 0, 0, 0, 10, 0, 0, 10, 0, 0, 0, 0}

	simA := cosineSimilarity(l2Normalize(a), l2Normalize(a))
	simScaled := cosineSimilarity(l2Normalize(a), l2Normalize(scaled))

	assert.InDelta(t, simA, simScaled, 1e-9)
}

func TestCatalogSizeWithAndWithoutExtended(t *testing.T) {
	full := Catalog(true)
	triadsOnly := Catalog(false)

	assert.Len(t, full, 12*12)
	assert.Len(t, triadsOnly, 12*6)
}

func TestFilterOutliersDropsLowConfidenceChordSandwichedBetweenIdenticalNeighbors(t *testing.T) {
	// G(4 beats) - C(1 beat, low confidence) - G(4 beats): the interior C
	// should be dropped and absorbed into a single merged G run.
	chords := []model.DetectedChord{
		{Chord: "G", Root: "G", Quality: model.Major, Start: 0, End: 2, Confidence: 0.9, BeatCount: 4},
		{Chord: "C", Root: "C", Quality: model.Major, Start: 2, End: 2.5, Confidence: 0.3, BeatCount: 1},
		{Chord: "G", Root: "G", Quality: model.Major, Start: 2.5, End: 4.5, Confidence: 0.9, BeatCount: 4},
	}

	filtered := filterOutliers(chords, 0.5)

	require.Len(t, filtered, 1)
	assert.Equal(t, "G", filtered[0].Chord)
	assert.Equal(t, 0.0, filtered[0].Start)
	assert.Equal(t, 4.5, filtered[0].End)
}

func TestFilterOutliersKeepsLowConfidenceChordBetweenDistinctNeighbors(t *testing.T) {
	chords := []model.DetectedChord{
		{Chord: "G", Root: "G", Quality: model.Major, Start: 0, End: 2, Confidence: 0.9, BeatCount: 4},
		{Chord: "C", Root: "C", Quality: model.Major, Start: 2, End: 2.5, Confidence: 0.3, BeatCount: 1},
		{Chord: "F", Root: "F", Quality: model.Major, Start: 2.5, End: 4.5, Confidence: 0.9, BeatCount: 4},
	}

	filtered := filterOutliers(chords, 0.5)

	require.Len(t, filtered, 3)
	assert.Equal(t, "C", filtered[1].Chord)
}

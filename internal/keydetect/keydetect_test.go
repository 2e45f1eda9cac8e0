package keydetect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chordscope/chordscope/internal/model"
)

func chord(root string, quality model.Quality, start, end float64) model.DetectedChord {
	return model.DetectedChord{Chord: root, Root: root, Quality: quality, Start: start, End: end, Confidence: 0.9, BeatCount: 2}
}

func TestDetectCMajorProgression(t *testing.T) {
	// Am - F - C - G, a textbook C major (relative) progression.
	chords := []model.DetectedChord{
		chord("A", model.Minor, 0, 2),
		chord("F", model.Major, 2, 4),
		chord("C", model.Major, 4, 6),
		chord("G", model.Major, 6, 8),
	}

	key := Detect(chords)

	assert.Equal(t, "C", key.Tonic)
	assert.Equal(t, model.ModeMajor, key.Mode)
}

func TestDetectEmptyChordsReturnsDegenerateKey(t *testing.T) {
	key := Detect(nil)

	assert.Equal(t, "C", key.Tonic)
	assert.Equal(t, model.ModeMajor, key.Mode)
	assert.Equal(t, 0.0, key.Confidence)
	assert.Empty(t, key.Alternates)
}

func TestDetectAlternatesRankedBelowBest(t *testing.T) {
	chords := []model.DetectedChord{
		chord("A", model.Minor, 0, 2),
		chord("F", model.Major, 2, 4),
		chord("C", model.Major, 4, 6),
		chord("G", model.Major, 6, 8),
	}

	key := Detect(chords)

	for _, alt := range key.Alternates {
		assert.Less(t, alt.Confidence, key.Confidence)
		assert.Greater(t, alt.Confidence, alternateScoreCutoff)
	}
}

func TestDetectSkipsNoChordEntries(t *testing.T) {
	chords := []model.DetectedChord{
		{Chord: "N/C", Start: 0, End: 2},
		chord("C", model.Major, 2, 4),
		chord("G", model.Major, 4, 6),
	}

	key := Detect(chords)

	assert.Equal(t, "C", key.Tonic)
}

package romananalyze

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chordscope/chordscope/internal/model"
)

func TestAnalyzeCMajorProgression(t *testing.T) {
	chords := []model.DetectedChord{
		{Chord: "C", Root: "C", Quality: model.Major},
		{Chord: "G", Root: "G", Quality: model.Major},
		{Chord: "Am", Root: "A", Quality: model.Minor},
		{Chord: "F", Root: "F", Quality: model.Major},
	}
	key := model.KeyAnalysis{Tonic: "C", Mode: model.ModeMajor}

	labels := Analyze(chords, key)

	assert.Equal(t, []string{"I", "V", "vi", "IV"}, labels)
}

func TestAnalyzeIsTranspositionStable(t *testing.T) {
	chordsInC := []model.DetectedChord{
		{Chord: "C", Root: "C", Quality: model.Major},
		{Chord: "G", Root: "G", Quality: model.Major},
	}
	chordsInD := []model.DetectedChord{
		{Chord: "D", Root: "D", Quality: model.Major},
		{Chord: "A", Root: "A", Quality: model.Major},
	}

	labelsInC := Analyze(chordsInC, model.KeyAnalysis{Tonic: "C", Mode: model.ModeMajor})
	labelsInD := Analyze(chordsInD, model.KeyAnalysis{Tonic: "D", Mode: model.ModeMajor})

	assert.Equal(t, labelsInC, labelsInD)
}

func TestAnalyzePreservesNoChordLabel(t *testing.T) {
	chords := []model.DetectedChord{{Chord: "N/C"}}
	key := model.KeyAnalysis{Tonic: "C", Mode: model.ModeMajor}

	labels := Analyze(chords, key)

	assert.Equal(t, []string{"N/C"}, labels)
}

func TestAnalyzeAccidentalMarkerKeepsLowercase(t *testing.T) {
	// bVII major chord relative to C major: Bb major. Quality-forced
	// uppercasing must skip the 'b' accidental marker itself.
	chords := []model.DetectedChord{
		{Chord: "Bb", Root: "A#", Quality: model.Major},
	}
	key := model.KeyAnalysis{Tonic: "C", Mode: model.ModeMajor}

	labels := Analyze(chords, key)

	assert.Equal(t, []string{"bVII"}, labels)
}

func TestAnalyzeMinorKeyLowercasesTonic(t *testing.T) {
	chords := []model.DetectedChord{
		{Chord: "Am", Root: "A", Quality: model.Minor},
	}
	key := model.KeyAnalysis{Tonic: "A", Mode: model.ModeMinor}

	labels := Analyze(chords, key)

	assert.Equal(t, []string{"i"}, labels)
}

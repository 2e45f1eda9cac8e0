// Package romananalyze labels detected chords as Roman-numeral scale
// degrees relative to a chosen key.
package romananalyze

import (
	"unicode"

	"github.com/chordscope/chordscope/internal/chordmatch"
	"github.com/chordscope/chordscope/internal/model"
)

var majorDegrees = [12]string{"I", "bII", "II", "bIII", "III", "IV", "#IV", "V", "bVI", "VI", "bVII", "VII"}
var minorDegrees = [12]string{"i", "bII", "II", "bIII", "III", "iv", "#iv", "v", "VI", "vi", "VII", "vii"}

var uppercaseQualities = map[model.Quality]bool{
	model.Major:     true,
	model.Dominant7: true,
	model.Major7:    true,
	model.Augmented: true,
}

var lowercaseQualities = map[model.Quality]bool{
	model.Minor:      true,
	model.Minor7:     true,
	model.Diminished: true,
	model.Dim7:       true,
	model.HalfDim7:   true,
}

var qualitySuffix = map[model.Quality]string{
	model.Diminished: "°",
	model.Augmented:  "+",
	model.Dominant7:  "7",
	model.Minor7:     "7",
	model.Major7:     "maj7",
	model.Dim7:       "°7",
	model.HalfDim7:   "ø7",
	model.Sus2:       "sus2",
	model.Sus4:       "sus4",
}

// Analyze returns one Roman-numeral label per chord, in order.
func Analyze(chords []model.DetectedChord, key model.KeyAnalysis) []string {
	out := make([]string, len(chords))

	tonicIdx := pitchClassIndex(key.Tonic)

	for i, c := range chords {
		out[i] = labelFor(c, tonicIdx, key.Mode)
	}

	return out
}

func labelFor(c model.DetectedChord, tonicIdx int, mode model.Mode) string {
	if c.Chord == "N/C" {
		return "N/C"
	}

	rootIdx := pitchClassIndex(c.Root)
	interval := ((rootIdx - tonicIdx) % 12 + 12) % 12

	var degree string
	if mode == model.ModeMinor {
		degree = minorDegrees[interval]
	} else {
		degree = majorDegrees[interval]
	}

	degree = applyCase(degree, c.Quality)
	degree += qualitySuffix[c.Quality]

	return degree
}

// applyCase forces the case of the roman-numeral letters (I, V) in degree
// while leaving accidental markers ('b', '#') untouched, since those are
// not part of the quality-forced case convention.
func applyCase(degree string, quality model.Quality) string {
	var transform func(rune) rune

	switch {
	case uppercaseQualities[quality]:
		transform = unicode.ToUpper
	case lowercaseQualities[quality]:
		transform = unicode.ToLower
	default:
		// sus chords and anything unclassified keep the tonic-diatonic case
		// already present in the degree table.
		return degree
	}

	out := []rune(degree)
	for i, r := range out {
		if r == 'b' || r == '#' {
			continue
		}

		out[i] = transform(r)
	}

	return string(out)
}

func pitchClassIndex(name string) int {
	for i := 0; i < 12; i++ {
		if chordmatch.PitchClassName(i) == name {
			return i
		}
	}

	return 0
}

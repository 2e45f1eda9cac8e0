// Package chordmatch matches chromagram frames against a static chord
// template catalog, votes per beat, merges runs, and filters outliers.
package chordmatch

import (
	"gonum.org/v1/gonum/floats"

	"github.com/chordscope/chordscope/internal/model"
)

var pitchClassNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var qualityDefs = []struct {
	quality  model.Quality
	offsets  []int
	suffix   string
	extended bool // disabled when detectExtended == false
}{
	{model.Major, []int{0, 4, 7}, "", false},
	{model.Minor, []int{0, 3, 7}, "m", false},
	{model.Diminished, []int{0, 3, 6}, "dim", false},
	{model.Augmented, []int{0, 4, 8}, "aug", false},
	{model.Dominant7, []int{0, 4, 7, 10}, "7", true},
	{model.Major7, []int{0, 4, 7, 11}, "maj7", true},
	{model.Minor7, []int{0, 3, 7, 10}, "m7", true},
	{model.Dim7, []int{0, 3, 6, 9}, "dim7", true},
	{model.HalfDim7, []int{0, 3, 6, 10}, "m7b5", true},
	{model.Sus2, []int{0, 2, 7}, "sus2", false},
	{model.Sus4, []int{0, 5, 7}, "sus4", false},
	{model.Add9, []int{0, 2, 4, 7}, "add9", true},
}

// Template is one root/quality combination's unit-L2 pitch-class vector.
type Template struct {
	Root    int
	Quality model.Quality
	Name    string
	Vector  [12]float64
}

// BaseOffsets returns the quality's chord-tone offsets from its root, used
// by the key detector to build a pitch-class histogram without requiring a
// fully rotated Template.
func BaseOffsets(q model.Quality) ([]int, bool) {
	for _, def := range qualityDefs {
		if def.quality == q {
			return def.offsets, true
		}
	}

	return nil, false
}

// Suffix returns the catalog's label suffix for a quality.
func Suffix(q model.Quality) string {
	for _, def := range qualityDefs {
		if def.quality == q {
			return def.suffix
		}
	}

	return ""
}

// Catalog builds the full 12-root x quality template set. When
// detectExtended is false, 7th/add9 templates are omitted; triads and sus
// chords remain.
func Catalog(detectExtended bool) []Template {
	var catalog []Template

	for root := 0; root < 12; root++ {
		for _, def := range qualityDefs {
			if def.extended && !detectExtended {
				continue
			}

			catalog = append(catalog, Template{
				Root:    root,
				Quality: def.quality,
				Name:    pitchClassNames[root] + def.suffix,
				Vector:  rotatedUnitVector(def.offsets, root),
			})
		}
	}

	return catalog
}

func rotatedUnitVector(offsets []int, root int) [12]float64 {
	var v [12]float64

	for _, off := range offsets {
		idx := (off + root) % 12
		v[idx] = 1.0
	}

	norm := floats.Norm(v[:], 2)
	if norm > 0 {
		floats.Scale(1/norm, v[:])
	}

	return v
}

// PitchClassName returns the display name ("C", "C#", ...) for index i mod 12.
func PitchClassName(i int) string {
	i = ((i % 12) + 12) % 12

	return pitchClassNames[i]
}

// Package keydetect estimates the overall musical key of a chord sequence
// using the Krumhansl-Schmuckler correlation method.
package keydetect

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/chordscope/chordscope/internal/chordmatch"
	"github.com/chordscope/chordscope/internal/model"
)

// majorProfile and minorProfile are the canonical Krumhansl-Schmuckler
// reference profiles, indexed C=0..B=11.
var (
	majorProfile = []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minorProfile = []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

const alternateScoreCutoff = 0.3

type candidate struct {
	tonic int
	mode  model.Mode
	score float64
}

// Detect builds a duration-weighted pitch-class histogram from chords,
// correlates it against all 24 rotated reference profiles, and returns the
// best-ranked key plus alternates scoring above 0.3 after normalization.
func Detect(chords []model.DetectedChord) model.KeyAnalysis {
	if len(chords) == 0 {
		return model.KeyAnalysis{Tonic: chordmatch.PitchClassName(0), Mode: model.ModeMajor, Confidence: 0}
	}

	histogram := buildHistogram(chords)

	candidates := scoreCandidates(histogram)

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	normalize(candidates)

	best := candidates[0]

	result := model.KeyAnalysis{
		Tonic:      chordmatch.PitchClassName(best.tonic),
		Mode:       best.mode,
		Confidence: best.score,
	}

	for _, c := range candidates[1:4] {
		if c.score > alternateScoreCutoff {
			result.Alternates = append(result.Alternates, model.KeyCandidate{
				Tonic:      chordmatch.PitchClassName(c.tonic),
				Mode:       c.mode,
				Confidence: c.score,
			})
		}
	}

	return result
}

func buildHistogram(chords []model.DetectedChord) [12]float64 {
	var h [12]float64

	for _, c := range chords {
		if c.Chord == "N/C" {
			continue
		}

		duration := c.End - c.Start
		rootIdx := pitchClassIndex(c.Root)

		offsets, ok := chordmatch.BaseOffsets(c.Quality)
		if !ok {
			h[rootIdx] += duration

			continue
		}

		for _, off := range offsets {
			weight := 1.0 // base template value at a chord tone, before normalization
			h[(rootIdx+off)%12] += weight * duration
		}
	}

	return h
}

func pitchClassIndex(name string) int {
	for i := 0; i < 12; i++ {
		if chordmatch.PitchClassName(i) == name {
			return i
		}
	}

	return 0
}

func scoreCandidates(histogram [12]float64) []candidate {
	candidates := make([]candidate, 0, 24)

	for tonic := 0; tonic < 12; tonic++ {
		rotated := rotate(histogram, tonic)

		candidates = append(candidates,
			candidate{tonic: tonic, mode: model.ModeMajor, score: stat.Correlation(rotated, majorProfile, nil)},
			candidate{tonic: tonic, mode: model.ModeMinor, score: stat.Correlation(rotated, minorProfile, nil)},
		)
	}

	return candidates
}

// rotate shifts the histogram so that pitch class `tonic` becomes index 0,
// i.e. rotates the histogram by -tonic.
func rotate(h [12]float64, tonic int) []float64 {
	out := make([]float64, 12)
	for i := 0; i < 12; i++ {
		out[i] = h[(i+tonic)%12]
	}

	return out
}

func normalize(candidates []candidate) {
	if len(candidates) == 0 {
		return
	}

	minScore, maxScore := candidates[len(candidates)-1].score, candidates[0].score
	spread := maxScore - minScore

	for i := range candidates {
		if spread <= 0 {
			candidates[i].score = 1
			continue
		}

		candidates[i].score = (candidates[i].score - minScore) / spread
	}
}

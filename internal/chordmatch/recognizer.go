package chordmatch

import (
	"math"

	"github.com/chordscope/chordscope/internal/model"
)

const noChordLabel = "N/C"

// Options configures chord recognition.
type Options struct {
	ConfidenceThreshold float64 // default 0.5
	DetectExtended      bool    // default true
}

// DefaultOptions returns the spec defaults.
func DefaultOptions() Options {
	return Options{ConfidenceThreshold: 0.5, DetectExtended: true}
}

func applyDefaults(opts *Options) {
	if opts.ConfidenceThreshold == 0 {
		opts.ConfidenceThreshold = 0.5
	}
}

type rawMatch struct {
	timestamp  float64
	energy     float64
	label      string
	root       int
	quality    model.Quality
	confidence float64
	isChord    bool
}

// Recognize matches each chroma frame against the template catalog, votes
// per beat, merges runs, and filters outliers to produce the final
// DetectedChord sequence.
func Recognize(frames []model.ChromaFrame, grid model.BeatGrid, opts Options) []model.DetectedChord {
	applyDefaults(&opts)

	catalog := Catalog(opts.DetectExtended)
	gate := opts.ConfidenceThreshold / 2

	raw := make([]rawMatch, 0, len(frames))
	for _, f := range frames {
		raw = append(raw, matchFrame(f, catalog, gate))
	}

	beats := grid.Beats
	if len(beats) < 2 {
		return nil
	}

	voted := voteByBeat(raw, beats, grid.TempoBPM)
	merged := mergeRuns(voted)

	return filterOutliers(merged, opts.ConfidenceThreshold)
}

func matchFrame(f model.ChromaFrame, catalog []Template, gate float64) rawMatch {
	normalized := l2Normalize(f.Vector)

	var (
		bestSim  = -1.0
		bestTmpl Template
	)

	for _, tmpl := range catalog {
		sim := cosineSimilarity(normalized, tmpl.Vector)
		if sim > bestSim {
			bestSim = sim
			bestTmpl = tmpl
		}
	}

	confidence := clamp01(bestSim)

	if bestSim < gate {
		return rawMatch{timestamp: f.Timestamp, energy: f.Energy, label: noChordLabel, confidence: confidence, isChord: false}
	}

	return rawMatch{
		timestamp:  f.Timestamp,
		energy:     f.Energy,
		label:      bestTmpl.Name,
		root:       bestTmpl.Root,
		quality:    bestTmpl.Quality,
		confidence: confidence,
		isChord:    true,
	}
}

func l2Normalize(v [12]float64) [12]float64 {
	var sumSq float64

	for _, x := range v {
		sumSq += x * x
	}

	if sumSq <= 0 {
		return v
	}

	norm := math.Sqrt(sumSq)

	var out [12]float64
	for i, x := range v {
		out[i] = x / norm
	}

	return out
}

func cosineSimilarity(a, b [12]float64) float64 {
	var dot, normA, normB float64

	for i := 0; i < 12; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA <= 0 || normB <= 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}

func voteByBeat(raw []rawMatch, beats []float64, tempo float64) []model.DetectedChord {
	votes := make([]model.DetectedChord, 0, len(beats))

	for i := 0; i < len(beats); i++ {
		start := beats[i]

		var end float64
		if i+1 < len(beats) {
			end = beats[i+1]
		} else {
			end = start + 60/tempo
		}

		votes = append(votes, voteOne(raw, start, end))
	}

	return votes
}

type scoreEntry struct {
	score     float64
	confSum   float64
	confCount int
	root      int
	quality   model.Quality
}

func voteOne(raw []rawMatch, start, end float64) model.DetectedChord {
	scores := make(map[string]*scoreEntry)

	for _, m := range raw {
		if m.timestamp < start || m.timestamp >= end {
			continue
		}

		entry, ok := scores[m.label]
		if !ok {
			entry = &scoreEntry{root: m.root, quality: m.quality}
			scores[m.label] = entry
		}

		entry.score += m.confidence * m.energy
		entry.confSum += m.confidence
		entry.confCount++
	}

	winner, winnerEntry := pickWinner(scores)

	if winner == "" {
		return model.DetectedChord{Chord: noChordLabel, Start: start, End: end, Confidence: 0, BeatCount: 1}
	}

	confidence := 0.0
	if winnerEntry.confCount > 0 {
		confidence = winnerEntry.confSum / float64(winnerEntry.confCount)
	}

	var root string

	if winner != noChordLabel {
		root = PitchClassName(winnerEntry.root)
	}

	return model.DetectedChord{
		Chord:      winner,
		Root:       root,
		Quality:    winnerEntry.quality,
		Start:      start,
		End:        end,
		Confidence: confidence,
		BeatCount:  1,
	}
}

func pickWinner(scores map[string]*scoreEntry) (string, *scoreEntry) {
	var (
		bestLabel string
		bestEntry *scoreEntry
		bestScore = -1.0
	)

	for label, entry := range scores {
		if entry.score > bestScore {
			bestScore = entry.score
			bestLabel = label
			bestEntry = entry
		}
	}

	return bestLabel, bestEntry
}

func mergeRuns(votes []model.DetectedChord) []model.DetectedChord {
	if len(votes) == 0 {
		return nil
	}

	merged := []model.DetectedChord{votes[0]}

	for _, v := range votes[1:] {
		last := &merged[len(merged)-1]

		if v.Chord == last.Chord {
			last.Confidence = runningMean(last.Confidence, last.BeatCount, v.Confidence)
			last.End = v.End
			last.BeatCount++

			continue
		}

		merged = append(merged, v)
	}

	return merged
}

func runningMean(prevMean float64, prevCount int, next float64) float64 {
	total := float64(prevCount)

	return (prevMean*total + next) / (total + 1)
}

func filterOutliers(chords []model.DetectedChord, confThreshold float64) []model.DetectedChord {
	kept := applyOutlierRule(chords, confThreshold)

	return mergeRuns(kept)
}

func applyOutlierRule(chords []model.DetectedChord, confThreshold float64) []model.DetectedChord {
	var kept []model.DetectedChord

	for i, c := range chords {
		if c.Chord == noChordLabel {
			if c.BeatCount >= 2 {
				kept = append(kept, c)
			}

			continue
		}

		if c.BeatCount >= 2 {
			kept = append(kept, c)

			continue
		}

		// beatCount == 1: keep if confident enough, or not sandwiched
		// between two identical non-N/C neighbors.
		if isConfidentOrUnsandwiched(chords, i, confThreshold) {
			kept = append(kept, c)
		}
	}

	return kept
}

func isConfidentOrUnsandwiched(chords []model.DetectedChord, i int, confThreshold float64) bool {
	c := chords[i]
	if c.Confidence >= confThreshold {
		return true
	}

	if i == 0 || i == len(chords)-1 {
		return true
	}

	prev := chords[i-1]
	next := chords[i+1]

	sandwiched := prev.Chord == next.Chord && prev.Chord != noChordLabel

	return !sandwiched
}

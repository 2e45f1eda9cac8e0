// Package progress defines the optional progress-reporting sink consumed
// by the orchestrator, and a default console implementation.
package progress

import (
	"fmt"
	"io"
)

// Stage is a closed enumeration of pipeline stage markers reported to a Sink.
type Stage string

const (
	StageLoading           Stage = "loading"
	StageDetectingBeats    Stage = "detecting_beats"
	StageExtractingChroma  Stage = "extracting_chroma"
	StageRecognizingChords Stage = "recognizing_chords"
	StageDone              Stage = "done"
)

// Sink receives progress events at stage boundaries and periodic
// sub-stage intervals. percent is 0..100.
type Sink func(stage Stage, percent int, message string)

// Console returns a Sink that prints one line per event to w, in the
// style of the teacher's console report writer.
func Console(w io.Writer) Sink {
	return func(stage Stage, percent int, message string) {
		fmt.Fprintf(w, "[%3d%%] %-20s %s\n", percent, stage, message)
	}
}

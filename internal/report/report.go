// Package report renders an AnalysisReport in the CLI's supported output
// formats: console, json, and markdown.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/chordscope/chordscope/internal/model"
)

// Format names accepted by Write.
const (
	Console  = "console"
	JSON     = "json"
	Markdown = "markdown"
)

// Write renders report to w in the named format.
func Write(w io.Writer, sourcePath string, report *model.AnalysisReport, format string) error {
	switch format {
	case JSON:
		return writeJSON(w, report)
	case Markdown:
		return writeMarkdown(w, sourcePath, report)
	case Console, "":
		return writeConsole(w, sourcePath, report)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeJSON(w io.Writer, report *model.AnalysisReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(report)
}

func writeConsole(w io.Writer, sourcePath string, report *model.AnalysisReport) error {
	fmt.Fprintf(w, "%s\n", sourcePath)
	fmt.Fprintf(w, "  tempo:      %.1f bpm (fallback: %t)\n", report.BeatGrid.TempoBPM, report.BeatGrid.Fallback)
	fmt.Fprintf(w, "  key:        %s %s (confidence %.2f)\n", report.Key.Tonic, report.Key.Mode, report.Key.Confidence)

	for _, alt := range report.Key.Alternates {
		fmt.Fprintf(w, "    alt:      %s %s (confidence %.2f)\n", alt.Tonic, alt.Mode, alt.Confidence)
	}

	fmt.Fprintf(w, "  confidence: %.2f\n", report.Confidence)
	fmt.Fprintf(w, "  chords (%d):\n", len(report.Chords))

	for i, c := range report.Chords {
		roman := ""
		if i < len(report.RomanNumerals) {
			roman = report.RomanNumerals[i]
		}

		fmt.Fprintf(w, "    %6.2fs-%6.2fs  %-8s %-6s (%.2f, %d beats)\n",
			c.Start, c.End, c.Chord, roman, c.Confidence, c.BeatCount)
	}

	return nil
}

func writeMarkdown(w io.Writer, sourcePath string, report *model.AnalysisReport) error {
	fmt.Fprintf(w, "# %s\n\n", sourcePath)
	fmt.Fprintf(w, "- **Tempo:** %.1f bpm%s\n", report.BeatGrid.TempoBPM, fallbackNote(report.BeatGrid.Fallback))
	fmt.Fprintf(w, "- **Key:** %s %s (%.2f confidence)\n", report.Key.Tonic, report.Key.Mode, report.Key.Confidence)
	fmt.Fprintf(w, "- **Overall confidence:** %.2f\n\n", report.Confidence)

	fmt.Fprintf(w, "| Start | End | Chord | Roman | Confidence | Beats |\n")
	fmt.Fprintf(w, "|---|---|---|---|---|---|\n")

	for i, c := range report.Chords {
		roman := ""
		if i < len(report.RomanNumerals) {
			roman = report.RomanNumerals[i]
		}

		fmt.Fprintf(w, "| %.2f | %.2f | %s | %s | %.2f | %d |\n",
			c.Start, c.End, c.Chord, roman, c.Confidence, c.BeatCount)
	}

	return nil
}

func fallbackNote(fallback bool) string {
	if fallback {
		return " (fixed-interval fallback)"
	}

	return ""
}

// JoinProgression renders the chord sequence as a compact inline string,
// e.g. "C | G | Am | F". Labels are joined in order as given; consecutive
// repeats are not collapsed here.
func JoinProgression(chords []model.DetectedChord) string {
	labels := make([]string, len(chords))
	for i, c := range chords {
		labels[i] = c.Chord
	}

	return strings.Join(labels, " | ")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	chordscope "github.com/chordscope/chordscope"
	"github.com/chordscope/chordscope/internal/progress"
	"github.com/chordscope/chordscope/internal/report"
)

var errAnalyzeArgs = errors.New("expected exactly one argument: path to an audio file")

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Analyze an audio file (MP3/WAV/M4A) into beats, chords, key, and roman numerals",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:  "confidence-threshold",
				Usage: "Minimum match confidence to accept a chord label",
				Value: 0.5,
			},
			&cli.BoolFlag{
				Name:  "extended",
				Usage: "Detect extended qualities (7ths, add9) in addition to triads and sus chords",
				Value: true,
			},
			&cli.FloatFlag{
				Name:  "assumed-tempo",
				Usage: "Tempo (bpm) to assume when rhythm extraction falls back to a fixed grid",
				Value: 120,
			},
			&cli.IntFlag{
				Name:  "smoothing-window",
				Usage: "Odd-sized moving-average window (in frames) applied to chroma before matching",
				Value: 3,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Print a progress line for each pipeline stage",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errAnalyzeArgs, cmd.NArg())
			}

			filePath := cmd.Args().First()

			opts := chordscope.DefaultOptions()
			opts.ConfidenceThreshold = cmd.Float("confidence-threshold")
			opts.DetectExtended = cmd.Bool("extended")
			opts.AssumedTempoOnFallback = cmd.Float("assumed-tempo")
			opts.SmoothingWindow = cmd.Int("smoothing-window")

			if cmd.Bool("verbose") {
				opts.Progress = progress.Console(os.Stdout)
			}

			result, err := chordscope.AnalyzeFile(ctx, filePath, opts)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			return report.Write(os.Stdout, filePath, result, cmd.String("format"))
		},
	}
}

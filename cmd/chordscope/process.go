package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	chordscope "github.com/chordscope/chordscope"
	"github.com/chordscope/chordscope/internal/progress"
	"github.com/chordscope/chordscope/internal/report"
)

var errProcessArgs = errors.New("expected exactly one argument: file path or \"-\" for stdin")

func processCommand() *cli.Command {
	return &cli.Command{
		Name:      "process",
		Usage:     "Analyze raw mono 16-bit little-endian PCM, bypassing container sniffing",
		ArgsUsage: "<file | ->",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "sample-rate",
				Aliases:  []string{"s"},
				Usage:    "Sample rate in Hz (e.g., 44100, 48000)",
				Required: true,
			},
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
				return fmt.Errorf("%w: got %d", errProcessArgs, cmd.NArg())
			}

			inputPath := cmd.Args().First()

			raw, err := readAll(inputPath)
			if err != nil {
				return err
			}

			samples := decodeS16LE(raw)

			opts := chordscope.DefaultOptions()
			opts.ConfidenceThreshold = cmd.Float("confidence-threshold")
			opts.DetectExtended = cmd.Bool("extended")

			if cmd.Bool("verbose") {
				opts.Progress = progress.Console(os.Stdout)
			}

			result, err := chordscope.AnalyzePCM(ctx, inputPath, inputPath, [][]float32{samples}, cmd.Int("sample-rate"), opts)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			return report.Write(os.Stdout, inputPath, result, cmd.String("format"))
		},
	}
}

func readAll(source string) ([]byte, error) {
	if source == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}

		return data, nil
	}

	file, err := os.Open(source) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close() //nolint:errcheck // best-effort close after read completes

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	return buf.Bytes(), nil
}

// decodeS16LE decodes little-endian signed 16-bit mono PCM into [-1,1]
// float32 samples.
func decodeS16LE(data []byte) []float32 {
	count := len(data) / 2
	out := make([]float32, count)

	for i := 0; i < count; i++ {
		raw := int16(binary.LittleEndian.Uint16(data[i*2:]))
		out[i] = float32(raw) / 32768.0
	}

	return out
}

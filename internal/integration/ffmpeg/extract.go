package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/chordscope/chordscope/internal/fault"
	"github.com/chordscope/chordscope/internal/integration/binary"
)

// ExtractStream decodes input (fed to ffmpeg on stdin) to raw PCM in the
// given format, writing the result to output. No stream is selected
// explicitly, so ffmpeg decodes its default audio stream.
func ExtractStream(
	ctx context.Context,
	input io.Reader,
	output io.Writer,
	format PCMFormat,
) error {
	slog.Debug("ffmpeg.ExtractStream", "stage", "start")

	ffmpegPath, found := binary.Available(name)
	if !found {
		return fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-i", "-",
		"-ar", strconv.Itoa(format.SampleRate),
		"-ac", strconv.Itoa(format.Channels),
		"-f", bitDepthToSpec(format.BitDepth),
		"-acodec", "pcm_"+bitDepthToSpec(format.BitDepth),
		"-v", "quiet",
		"-",
	)

	cmd.Stdout = output
	cmd.Stdin = input

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Debug("ffmpeg.ExtractStream", "stage", "timeout")

			return fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		slog.Debug("ffmpeg.ExtractStream", "stage", "error")

		return fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	return nil
}

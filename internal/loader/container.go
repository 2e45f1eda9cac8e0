package loader

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/tcolgate/mp3"

	"github.com/chordscope/chordscope/internal/fault"
	"github.com/chordscope/chordscope/internal/integration/ffmpeg"
	"github.com/chordscope/chordscope/internal/integration/ffprobe"
	"github.com/chordscope/chordscope/internal/model"
)

// maxValue32 is the 2^31 normalization divisor for signed 32-bit PCM.
const maxValue32 = 2147483648.0

var supportedExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
	".m4a": true,
}

// FromContainer decodes a real audio file (MP3/WAV/M4A) at path into a
// validated AudioBuffer. It sniffs the container, probes its audio stream
// with ffprobe, decodes with ffmpeg, then applies the same duration/RMS
// gates as FromDecodedPCM.
func FromContainer(ctx context.Context, path string, opts Options) (*model.AudioBuffer, error) {
	applyDefaults(&opts)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrCorruptFile, err)
	}

	maxBytes := int64(opts.MaxFileMB) * 1024 * 1024
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d MB", fault.ErrFileTooLarge, info.Size(), opts.MaxFileMB)
	}

	if err := checkFormatSupported(path); err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		logMP3DurationPrecheck(path)
	}

	probeResult, err := ffprobe.Probe(ctx, path)
	if err != nil {
		return nil, classifyProbeError(err)
	}

	streamIndex, found := ffprobe.FindAudioStream(probeResult)
	if !found {
		return nil, fmt.Errorf("%w: no audio stream found", fault.ErrUnsupportedFormat)
	}

	stream := probeResult.Streams[streamIndex]

	sampleRate := 44100
	if stream.SampleRate != "" {
		if parsed, convErr := strconv.Atoi(stream.SampleRate); convErr == nil && parsed > 0 {
			sampleRate = parsed
		}
	}

	channels := stream.Channels
	if channels <= 0 {
		channels = 2
	}

	file, err := os.Open(path) //nolint:gosec // path is caller-provided media file input
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrCorruptFile, err)
	}
	defer file.Close() //nolint:errcheck // best-effort close after read completes

	var pcm bytes.Buffer

	format := ffmpeg.PCMFormat{SampleRate: sampleRate, Channels: channels, BitDepth: 32}
	if err := ffmpeg.ExtractStream(ctx, file, &pcm, format); err != nil {
		return nil, classifyDecodeError(err)
	}

	mono := decodeInterleavedS32LE(pcm.Bytes(), channels)
	if len(mono) == 0 {
		return nil, fmt.Errorf("%w: decoder produced zero-length audio", fault.ErrCorruptFile)
	}

	return buildBuffer(filepath.Base(path), filepath.Base(path), mono, sampleRate, opts)
}

func checkFormatSupported(path string) error {
	ext := strings.ToLower(filepath.Ext(path))

	file, err := os.Open(path) //nolint:gosec // path is caller-provided media file input
	if err != nil {
		return fmt.Errorf("%w: %w", fault.ErrCorruptFile, err)
	}
	defer file.Close() //nolint:errcheck // best-effort close after read completes

	meta, tagErr := tag.ReadFrom(file)
	if tagErr != nil {
		if !supportedExtensions[ext] {
			return fmt.Errorf("%w: %s", fault.ErrUnsupportedFormat, ext)
		}

		return nil
	}

	if !supportedExtensions[ext] && !knownFileType(meta.FileType()) {
		return fmt.Errorf("%w: %s", fault.ErrUnsupportedFormat, ext)
	}

	return nil
}

func knownFileType(ft tag.FileType) bool {
	switch ft {
	case tag.MP3, tag.M4A, tag.M4B, tag.M4P, tag.ALAC:
		return true
	default:
		return false
	}
}

// logMP3DurationPrecheck sums the MP3 frame durations and logs the total at
// debug level. The total is not compared against the ffprobe/ffmpeg
// duration, and this step never fails the load.
func logMP3DurationPrecheck(path string) {
	file, err := os.Open(path) //nolint:gosec // path is caller-provided media file input
	if err != nil {
		return
	}
	defer file.Close() //nolint:errcheck // best-effort close after read completes

	decoder := mp3.NewDecoder(file)

	var (
		total   time.Duration
		frame   mp3.Frame
		skipped int
	)

	for {
		if decodeErr := decoder.Decode(&frame, &skipped); decodeErr != nil {
			break
		}

		total += frame.Duration()
	}

	slog.Debug("loader.FromContainer", "stage", "mp3 precheck", "frame duration sec", total.Seconds())
}

func classifyProbeError(err error) error {
	if errors.Is(err, fault.ErrMissingRequirements) {
		return fmt.Errorf("%w: %w", fault.ErrEngineLoadFailed, err)
	}

	return fmt.Errorf("%w: %w", fault.ErrCorruptFile, err)
}

func classifyDecodeError(err error) error {
	if errors.Is(err, fault.ErrMissingRequirements) {
		return fmt.Errorf("%w: %w", fault.ErrEngineLoadFailed, err)
	}

	return fmt.Errorf("%w: %w", fault.ErrCorruptFile, err)
}

// decodeInterleavedS32LE decodes little-endian signed 32-bit interleaved
// PCM into mono float32 samples in [-1,1] by simple channel average.
func decodeInterleavedS32LE(data []byte, channels int) []float32 {
	if channels <= 0 {
		channels = 1
	}

	frameSize := 4 * channels
	frameCount := len(data) / frameSize

	mono := make([]float32, frameCount)

	for i := 0; i < frameCount; i++ {
		var sum float64

		base := i * frameSize

		for ch := 0; ch < channels; ch++ {
			offset := base + ch*4
			raw := int32(binary.LittleEndian.Uint32(data[offset:]))
			sum += float64(raw) / maxValue32
		}

		mono[i] = float32(sum / float64(channels))
	}

	return mono
}

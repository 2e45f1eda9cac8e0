// Package loader validates and decodes audio input into a model.AudioBuffer,
// applying the size/format/duration/RMS edge policies before any downstream
// stage runs.
package loader

import (
	"fmt"

	"github.com/chordscope/chordscope/internal/dsp"
	"github.com/chordscope/chordscope/internal/fault"
	"github.com/chordscope/chordscope/internal/model"
)

// Options configures the loader's validation gates.
type Options struct {
	MaxFileMB      int     // reject input larger than this many megabytes
	MinDurationSec float64 // reject decoded audio shorter than this
	MaxDurationSec float64 // reject decoded audio longer than this
	SilenceRMS     float64 // reject decoded audio quieter than this
}

// DefaultOptions returns the spec's default gate values.
func DefaultOptions() Options {
	return Options{
		MaxFileMB:      20,
		MinDurationSec: 10,
		MaxDurationSec: 600,
		SilenceRMS:     0.001,
	}
}

func applyDefaults(opts *Options) {
	if opts.MaxFileMB == 0 {
		opts.MaxFileMB = 20
	}

	if opts.MinDurationSec == 0 {
		opts.MinDurationSec = 10
	}

	if opts.MaxDurationSec == 0 {
		opts.MaxDurationSec = 600
	}

	if opts.SilenceRMS == 0 {
		opts.SilenceRMS = 0.001
	}
}

// FromDecodedPCM builds a validated AudioBuffer from already-decoded
// per-channel float32 samples (each channel the same length), applying the
// duration and RMS gates. Multichannel input is down-mixed to mono by
// simple channel average.
func FromDecodedPCM(id, name string, channels [][]float32, sampleRate int, opts Options) (*model.AudioBuffer, error) {
	applyDefaults(&opts)

	return buildBuffer(id, name, downmix(channels), sampleRate, opts)
}

// buildBuffer applies the duration and RMS gates to already-downmixed mono
// samples and constructs the final AudioBuffer.
func buildBuffer(id, name string, mono []float32, sampleRate int, opts Options) (*model.AudioBuffer, error) {
	duration := float64(len(mono)) / float64(sampleRate)

	if duration < opts.MinDurationSec {
		return nil, fmt.Errorf("%w: duration %.2fs below minimum %.2fs", fault.ErrAudioTooShort, duration, opts.MinDurationSec)
	}

	if duration > opts.MaxDurationSec {
		return nil, fmt.Errorf("%w: duration %.2fs exceeds maximum %.2fs", fault.ErrFileTooLarge, duration, opts.MaxDurationSec)
	}

	rms := dsp.RMS(mono)
	if rms < opts.SilenceRMS {
		return nil, fmt.Errorf("%w: rms %.6f below %.6f", fault.ErrAudioTooQuiet, rms, opts.SilenceRMS)
	}

	return &model.AudioBuffer{
		ID:         id,
		Name:       name,
		Duration:   duration,
		SampleRate: sampleRate,
		Samples:    mono,
	}, nil
}

func downmix(channels [][]float32) []float32 {
	if len(channels) == 0 {
		return nil
	}

	if len(channels) == 1 {
		return channels[0]
	}

	n := len(channels[0])
	mono := make([]float32, n)

	for _, ch := range channels {
		for i := 0; i < n && i < len(ch); i++ {
			mono[i] += ch[i]
		}
	}

	inv := float32(1.0 / float64(len(channels)))
	for i := range mono {
		mono[i] *= inv
	}

	return mono
}

// ExtractSegment returns the sample slice in [start,end) seconds, clamped
// to the buffer's bounds.
func ExtractSegment(buf model.AudioBuffer, start, end float64) []float32 {
	if buf.SampleRate <= 0 || len(buf.Samples) == 0 {
		return nil
	}

	startIdx := int(start * float64(buf.SampleRate))
	endIdx := int(end * float64(buf.SampleRate))

	if startIdx < 0 {
		startIdx = 0
	}

	if endIdx > len(buf.Samples) {
		endIdx = len(buf.Samples)
	}

	if startIdx >= endIdx {
		return nil
	}

	return buf.Samples[startIdx:endIdx]
}

// Downsample linearly interpolates src from fromRate to toRate. If
// toRate >= fromRate, src is returned unchanged.
func Downsample(src []float32, fromRate, toRate int) []float32 {
	if toRate >= fromRate || fromRate <= 0 || len(src) == 0 {
		return src
	}

	ratio := float64(fromRate) / float64(toRate)
	outLen := int(float64(len(src)) / ratio)
	out := make([]float32, outLen)

	for i := range out {
		srcPos := float64(i) * ratio
		idx := int(srcPos)
		frac := srcPos - float64(idx)

		if idx+1 < len(src) {
			out[i] = src[idx]*float32(1-frac) + src[idx+1]*float32(frac)
		} else {
			out[i] = src[idx]
		}
	}

	return out
}

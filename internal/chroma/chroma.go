// Package chroma extracts and smooths beat-synchronous (or fixed-hop)
// chromagram frames from a decoded AudioBuffer.
package chroma

import (
	"log/slog"

	"github.com/chordscope/chordscope/internal/dspengine"
	"github.com/chordscope/chordscope/internal/loader"
	"github.com/chordscope/chordscope/internal/model"
)

const (
	frameSize     = 4096
	silenceRMS    = 0.001
	slidingHopSec = 0.25
	slidingWinSec = 0.5
	progressEvery = 10
)

// ProgressFunc is called periodically during extraction with the number of
// segments processed so far.
type ProgressFunc func(segmentsDone int)

// Extract produces an ordered ChromaFrame sequence for buf, segmented by
// grid's beats when it has more than one beat, otherwise by a fixed
// 500ms/250ms-hop sliding window.
func Extract(buf model.AudioBuffer, grid *model.BeatGrid, onProgress ProgressFunc) []model.ChromaFrame {
	engine, err := dspengine.Get()
	if err != nil {
		slog.Debug("chroma.Extract", "stage", "engine unavailable", "error", err)

		return nil
	}

	segments := segmentBounds(buf.Duration, grid)

	frames := make([]model.ChromaFrame, 0, len(segments))

	for i, seg := range segments {
		frame, ok := extractOne(engine, buf, seg.start, seg.end)
		if ok {
			frames = append(frames, frame)
		}

		if onProgress != nil && (i+1)%progressEvery == 0 {
			onProgress(i + 1)
		}
	}

	if onProgress != nil {
		onProgress(len(segments))
	}

	return frames
}

type bounds struct {
	start, end float64
}

func segmentBounds(duration float64, grid *model.BeatGrid) []bounds {
	if grid != nil && len(grid.Beats) > 1 {
		segs := make([]bounds, 0, len(grid.Beats))

		for i := 0; i < len(grid.Beats)-1; i++ {
			segs = append(segs, bounds{start: grid.Beats[i], end: grid.Beats[i+1]})
		}

		return segs
	}

	var segs []bounds

	for start := 0.0; start < duration; start += slidingHopSec {
		end := start + slidingWinSec
		if end > duration {
			end = duration
		}

		segs = append(segs, bounds{start: start, end: end})
	}

	return segs
}

func extractOne(engine *dspengine.Engine, buf model.AudioBuffer, start, end float64) (model.ChromaFrame, bool) {
	samples := loader.ExtractSegment(buf, start, end)

	rms := engine.RMS(samples)
	if rms < silenceRMS {
		return model.ChromaFrame{}, false
	}

	asFloat64 := make([]float64, len(samples))
	for i, s := range samples {
		asFloat64[i] = float64(s)
	}

	windowed := engine.Window(asFloat64, frameSize)
	defer windowed.Release()

	spectrum := engine.Spectrum(windowed.Data)
	defer spectrum.Release()

	hpcp := engine.HPCP(spectrum.Data, buf.SampleRate, frameSize)
	defer hpcp.Release()

	var vector [12]float64

	copy(vector[:], hpcp.Data)

	return model.ChromaFrame{
		Timestamp: start,
		Vector:    vector,
		Energy:    rms,
	}, true
}

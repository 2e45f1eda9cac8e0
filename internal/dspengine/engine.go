// Package dspengine models the spec's "native DSP engine" collaborator as
// a process-wide, lazily initialized singleton: RMS, Windowing, Spectrum,
// HPCP, and a rhythm estimator standing in for RhythmExtractor2013.
//
// chordscope's engine is pure Go, so there is no real FFI boundary to
// guard — but every vector it hands out still flows through a pool and
// must be released on every exit path, matching the calling discipline a
// native-library binding would require.
package dspengine

import (
	"sync"

	"github.com/chordscope/chordscope/internal/dsp"
	"github.com/chordscope/chordscope/internal/fault"
)

// Engine is the shared DSP collaborator. Obtain it via Get.
type Engine struct {
	pool *sync.Pool
}

var (
	instance *Engine
	initOnce sync.Once
	initErr  error
)

// Get returns the process-wide Engine, initializing it on first call.
// Concurrent callers share the same in-flight initialization.
func Get() (*Engine, error) {
	initOnce.Do(func() {
		instance = &Engine{
			pool: &sync.Pool{
				New: func() any {
					return &Vector{}
				},
			},
		}
	})

	if instance == nil {
		return nil, fault.ErrEngineLoadFailed
	}

	return instance, initErr
}

// Dispose releases the singleton so a later Get reinitializes it. Optional;
// chordscope holds no OS resources, so this mainly exists to mirror the
// lifecycle a native binding would require.
func Dispose() {
	instance = nil
	initOnce = sync.Once{}
	initErr = nil
}

// Vector is a released-on-use handle around a []float64 result, pooled to
// mirror the release discipline a native engine's allocations would need.
type Vector struct {
	Data []float64
	pool *sync.Pool
}

// Release returns the vector's backing storage to the pool. Safe to call
// on a nil Vector, and safe to call more than once.
func (v *Vector) Release() {
	if v == nil || v.pool == nil {
		return
	}

	v.Data = nil
	pool := v.pool
	v.pool = nil
	pool.Put(v)
}

func (e *Engine) newVector(data []float64) *Vector {
	v, _ := e.pool.Get().(*Vector)
	v.Data = data
	v.pool = e.pool

	return v
}

// RMS returns the root-mean-square energy of samples.
func (e *Engine) RMS(samples []float32) float64 {
	return dsp.RMS(samples)
}

// Window applies a Hann window to samples, zero-padding or truncating to
// frameSize, and returns the result as a released-on-use Vector.
func (e *Engine) Window(samples []float64, frameSize int) *Vector {
	win := dsp.HannWindow(frameSize)

	return e.newVector(dsp.ApplyWindow(samples, win))
}

// Spectrum computes the magnitude spectrum of an already-windowed frame.
func (e *Engine) Spectrum(framed []float64) *Vector {
	return e.newVector(dsp.Spectrum(framed))
}

// HPCP computes a 12-bin Harmonic Pitch-Class Profile from a magnitude
// spectrum, per the reference=440Hz, range=[40,5000]Hz, split=500Hz,
// cosine-weighting, unit-sum normalization parameters of the chromagram
// extractor.
func (e *Engine) HPCP(magnitude []float64, sampleRate, frameSize int) *Vector {
	return e.newVector(computeHPCP(magnitude, sampleRate, frameSize))
}

// DetectRhythm estimates tempo and beat onset times from a mono signal
// using an energy-flux autocorrelation estimator, the pure-Go stand-in for
// RhythmExtractor2013. ok is false when the signal yields fewer than two
// onsets or a degenerate flux signal, signaling the caller to fall back.
// onWindow, if non-nil, is called periodically during the window scan.
func (e *Engine) DetectRhythm(samples []float32, sampleRate int, minTempo, maxTempo float64, onWindow func(windowsDone int)) (tempoBPM float64, beats []float64, ok bool) {
	return detectRhythm(samples, sampleRate, minTempo, maxTempo, onWindow)
}

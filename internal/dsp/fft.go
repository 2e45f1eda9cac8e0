// Package dsp provides the small numeric building blocks shared by the
// chromagram extractor and the rhythm estimator: Hann windowing, RMS
// energy, and a magnitude-spectrum wrapper over gonum's FFT.
package dsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// HannWindow returns a Hann window of the given size.
func HannWindow(size int) []float64 {
	window := make([]float64, size)
	if size == 1 {
		window[0] = 1

		return window
	}

	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}

	return window
}

// ApplyWindow multiplies samples by window into a buffer of len(window),
// zero-padding or truncating samples as needed.
func ApplyWindow(samples []float64, window []float64) []float64 {
	out := make([]float64, len(window))

	n := len(samples)
	if n > len(window) {
		n = len(window)
	}

	for i := 0; i < n; i++ {
		out[i] = samples[i] * window[i]
	}

	return out
}

// Spectrum computes the magnitude spectrum (bins 0..size/2) of a windowed,
// real-valued frame using gonum's real-input FFT.
func Spectrum(framed []float64) []float64 {
	size := len(framed)
	fft := fourier.NewFFT(size)
	coeffs := fft.Coefficients(nil, framed)

	mag := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mag[i] = math.Hypot(real(c), imag(c))
	}

	return mag
}

// BinFrequency returns the center frequency in Hz of FFT bin i for a frame
// of the given size sampled at sampleRate.
func BinFrequency(i, size, sampleRate int) float64 {
	return float64(i) * float64(sampleRate) / float64(size)
}

// RMS returns the root-mean-square of samples, or 0 for an empty slice.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sumSq float64
	for _, s := range samples {
		v := float64(s)
		sumSq += v * v
	}

	return math.Sqrt(sumSq / float64(len(samples)))
}

// RMS64 is RMS over a float64 slice, used internally once samples are
// already converted for spectral analysis.
func RMS64(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sumSq float64
	for _, s := range samples {
		sumSq += s * s
	}

	return math.Sqrt(sumSq / float64(len(samples)))
}

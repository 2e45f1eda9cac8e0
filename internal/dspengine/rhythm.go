package dspengine

import "math"

const (
	rhythmWindowSize   = 1024
	rhythmProgressStep = 20
)

// detectRhythm estimates tempo via windowed RMS energy -> half-wave
// rectified spectral flux -> autocorrelation over the lag range implied by
// [minTempo,maxTempo], then peak-picks beat onsets from the same flux
// signal used for the tempo estimate. onWindow, if non-nil, is called every
// 20 windows during the energy scan, and once more with the final count.
func detectRhythm(samples []float32, sampleRate int, minTempo, maxTempo float64, onWindow func(windowsDone int)) (float64, []float64, bool) {
	if sampleRate <= 0 || len(samples) < rhythmWindowSize*4 {
		return 0, nil, false
	}

	energy := windowedEnergy(samples, rhythmWindowSize, onWindow)
	if len(energy) < 4 {
		return 0, nil, false
	}

	flux := spectralFlux(energy)

	windowsPerSecond := float64(sampleRate) / float64(rhythmWindowSize)

	minLag := int(windowsPerSecond * 60 / maxTempo)
	if minLag < 1 {
		minLag = 1
	}

	maxLag := int(windowsPerSecond*60/minTempo) + 1
	if maxLag >= len(flux) {
		maxLag = len(flux) - 1
	}

	if maxLag <= minLag {
		return 0, nil, false
	}

	bestLag, bestScore := bestAutocorrelationLag(flux, minLag, maxLag)
	if bestLag == 0 || bestScore <= 0 {
		return 0, nil, false
	}

	bpm := windowsPerSecond * 60 / float64(bestLag)
	bpm = normalizeToOctaveRange(bpm, minTempo, maxTempo)

	periodWindows := windowsPerSecond * 60 / bpm
	periodSeconds := float64(rhythmWindowSize) / float64(sampleRate) * periodWindows

	beats := pickBeats(flux, rhythmWindowSize, sampleRate, periodSeconds)
	if len(beats) < 2 {
		return 0, nil, false
	}

	return bpm, beats, true
}

// windowedEnergy returns RMS energy per non-overlapping window, reporting
// progress every rhythmProgressStep windows.
func windowedEnergy(samples []float32, windowSize int, onWindow func(windowsDone int)) []float64 {
	count := len(samples) / windowSize
	energy := make([]float64, count)

	for w := 0; w < count; w++ {
		var sumSq float64

		start := w * windowSize
		for i := 0; i < windowSize; i++ {
			v := float64(samples[start+i])
			sumSq += v * v
		}

		energy[w] = math.Sqrt(sumSq / float64(windowSize))

		if onWindow != nil && (w+1)%rhythmProgressStep == 0 {
			onWindow(w + 1)
		}
	}

	if onWindow != nil {
		onWindow(count)
	}

	return energy
}

// spectralFlux is the half-wave rectified first difference of energy.
func spectralFlux(energy []float64) []float64 {
	flux := make([]float64, len(energy))

	for i := 1; i < len(energy); i++ {
		d := energy[i] - energy[i-1]
		if d > 0 {
			flux[i] = d
		}
	}

	return flux
}

func bestAutocorrelationLag(flux []float64, minLag, maxLag int) (int, float64) {
	var (
		bestLag   int
		bestScore float64
	)

	for lag := minLag; lag <= maxLag; lag++ {
		var score float64

		for i := lag; i < len(flux); i++ {
			score += flux[i] * flux[i-lag]
		}

		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}

	return bestLag, bestScore
}

// normalizeToOctaveRange doubles or halves bpm until it falls within
// [minTempo,maxTempo], matching the common octave-error correction for
// autocorrelation-based tempo estimators.
func normalizeToOctaveRange(bpm, minTempo, maxTempo float64) float64 {
	for bpm > maxTempo && bpm/2 >= minTempo {
		bpm /= 2
	}

	for bpm < minTempo && bpm*2 <= maxTempo {
		bpm *= 2
	}

	return bpm
}

// pickBeats selects local-maximum flux peaks above a threshold derived
// from the flux signal's own mean and standard deviation, then thins them
// to roughly one per estimated beat period.
func pickBeats(flux []float64, windowSize, sampleRate int, periodSeconds float64) []float64 {
	if len(flux) == 0 {
		return nil
	}

	mean, std := meanStd(flux)
	threshold := mean + 0.5*std

	type peak struct {
		index int
		value float64
	}

	var peaks []peak

	for i := 1; i < len(flux)-1; i++ {
		if flux[i] > threshold && flux[i] >= flux[i-1] && flux[i] >= flux[i+1] {
			peaks = append(peaks, peak{index: i, value: flux[i]})
		}
	}

	if len(peaks) == 0 {
		return nil
	}

	windowDuration := float64(windowSize) / float64(sampleRate)
	minSpacing := periodSeconds * 0.5

	var beats []float64

	lastTime := math.Inf(-1)

	for _, p := range peaks {
		t := float64(p.index) * windowDuration
		if t-lastTime < minSpacing {
			continue
		}

		beats = append(beats, t)
		lastTime = t
	}

	return beats
}

func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	mean = sum / float64(len(values))

	var sumSqDiff float64
	for _, v := range values {
		d := v - mean
		sumSqDiff += d * d
	}

	std = math.Sqrt(sumSqDiff / float64(len(values)))

	return mean, std
}

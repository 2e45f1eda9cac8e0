package dspengine

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	hpcpSize        = 12
	referenceFreq   = 440.0
	minFreq         = 40.0
	maxFreq         = 5000.0
	splitFreq       = 500.0
	cosineHalfWidth = 1.0 // semitones on each side of a pitch class center
)

// computeHPCP maps spectral energy in [minFreq, maxFreq] onto 12 pitch
// classes (index 0 = C), using cosine weighting around each pitch class
// center and a low/high band split at splitFreq so bass and treble content
// contribute proportionally rather than letting the low end (with fewer
// bins per semitone) swamp the result. Each sub-band is L2-normalized
// before being summed; the combined vector is then unit-sum normalized.
func computeHPCP(magnitude []float64, sampleRate, frameSize int) []float64 {
	low := make([]float64, hpcpSize)
	high := make([]float64, hpcpSize)

	for i, mag := range magnitude {
		if mag <= 0 || i == 0 {
			continue
		}

		freq := float64(i) * float64(sampleRate) / float64(frameSize)
		if freq < minFreq || freq > maxFreq {
			continue
		}

		// Semitones above A4, then shifted so C maps to 0.
		semitones := 12 * math.Log2(freq/referenceFreq)
		pitchClass := math.Mod(semitones+9, 12)

		if pitchClass < 0 {
			pitchClass += 12
		}

		nearest := math.Round(pitchClass)
		distance := pitchClass - nearest

		idx := int(math.Mod(nearest, 12))
		if idx < 0 {
			idx += 12
		}

		// Distribute weight to idx and its neighbor on the side distance
		// leans toward, cosine-tapered by distance within the window.
		addWeighted := func(bucket []float64, binIdx int, d float64) {
			if math.Abs(d) > cosineHalfWidth {
				return
			}

			weight := math.Cos(d * math.Pi / (2 * cosineHalfWidth))
			bucket[binIdx] += mag * weight * weight
		}

		var bucket []float64
		if freq < splitFreq {
			bucket = low
		} else {
			bucket = high
		}

		addWeighted(bucket, idx, distance)

		neighbor := idx + 1
		neighborDist := distance - 1

		if distance < 0 {
			neighbor = idx - 1
			neighborDist = distance + 1
		}

		neighbor = ((neighbor % 12) + 12) % 12
		addWeighted(bucket, neighbor, neighborDist)
	}

	l2Normalize(low)
	l2Normalize(high)

	combined := make([]float64, hpcpSize)
	for i := range combined {
		combined[i] = low[i] + high[i]
	}

	unitSumNormalize(combined)

	return combined
}

func l2Normalize(v []float64) {
	norm := floats.Norm(v, 2)
	if norm <= 0 {
		return
	}

	floats.Scale(1/norm, v)
}

func unitSumNormalize(v []float64) {
	sum := floats.Sum(v)
	if sum <= 0 {
		return
	}

	floats.Scale(1/sum, v)
}

package chroma

import (
	"gonum.org/v1/gonum/floats"

	"github.com/chordscope/chordscope/internal/model"
)

// Smooth applies an energy-weighted moving average over window W (odd).
// For frame i, members are frames in [i-W/2, i+W/2] intersected with the
// valid range. The smoothed vector is the energy-weighted average,
// component-wise; the smoothed energy is the arithmetic mean of member
// energies; the timestamp is preserved from frame i. At W=1 this returns
// frames unchanged (idempotent).
func Smooth(frames []model.ChromaFrame, window int) []model.ChromaFrame {
	if window < 1 {
		window = 1
	}

	if window%2 == 0 {
		window++
	}

	if window == 1 || len(frames) == 0 {
		out := make([]model.ChromaFrame, len(frames))
		copy(out, frames)

		return out
	}

	radius := window / 2
	out := make([]model.ChromaFrame, len(frames))

	for i := range frames {
		lo := i - radius
		if lo < 0 {
			lo = 0
		}

		hi := i + radius
		if hi >= len(frames) {
			hi = len(frames) - 1
		}

		out[i] = smoothOne(frames, lo, hi, frames[i].Timestamp)
	}

	return out
}

func smoothOne(frames []model.ChromaFrame, lo, hi int, timestamp float64) model.ChromaFrame {
	var (
		vector      [12]float64
		totalE      float64
		energySum   float64
		memberCount int
	)

	for i := lo; i <= hi; i++ {
		e := frames[i].Energy
		totalE += e
		energySum += e
		memberCount++

		for k := 0; k < 12; k++ {
			vector[k] += frames[i].Vector[k] * e
		}
	}

	if totalE > 0 {
		floats.Scale(1/totalE, vector[:])
	} else {
		vector = [12]float64{}
	}

	var avgEnergy float64
	if memberCount > 0 {
		avgEnergy = energySum / float64(memberCount)
	}

	return model.ChromaFrame{
		Timestamp: timestamp,
		Vector:    vector,
		Energy:    avgEnergy,
	}
}

package chroma

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chordscope/chordscope/internal/model"
)

func sampleFrames() []model.ChromaFrame {
	return []model.ChromaFrame{
		{Timestamp: 0, Vector: [12]float64{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, Energy: 1},
		{Timestamp: 0.5, Vector: [12]float64{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, Energy: 1},
		{Timestamp: 1.0, Vector: [12]float64{0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0}, Energy: 1},
	}
}

func TestSmoothWindowOneIsIdentity(t *testing.T) {
	in := sampleFrames()

	out := Smooth(in, 1)

	assert.Equal(t, in, out)
}

func TestSmoothEvenWindowForcedOdd(t *testing.T) {
	in := sampleFrames()

	out2 := Smooth(in, 2)
	out3 := Smooth(in, 3)

	assert.Equal(t, out3, out2)
}

func TestSmoothAveragesNeighbors(t *testing.T) {
	in := sampleFrames()

	out := Smooth(in, 3)

	assert.InDelta(t, 1.0/3.0, out[1].Vector[0], 1e-9)
	assert.InDelta(t, 1.0/3.0, out[1].Vector[1], 1e-9)
	assert.InDelta(t, 1.0/3.0, out[1].Vector[2], 1e-9)
	assert.Equal(t, 0.5, out[1].Timestamp)
}

func TestSmoothEmptyInput(t *testing.T) {
	out := Smooth(nil, 3)

	assert.Empty(t, out)
}

func TestSmoothZeroEnergyFrameYieldsZeroVector(t *testing.T) {
	frames := []model.ChromaFrame{
		{Timestamp: 0, Vector: [12]float64{}, Energy: 0},
	}

	out := Smooth(frames, 1)

	assert.Equal(t, frames, out)
}

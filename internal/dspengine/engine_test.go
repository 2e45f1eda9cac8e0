package dspengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsSameSingleton(t *testing.T) {
	Dispose()

	a, err := Get()
	require.NoError(t, err)

	b, err := Get()
	require.NoError(t, err)

	assert.Same(t, a, b)
}

func TestVectorReleaseIsNilSafeAndIdempotent(t *testing.T) {
	var v *Vector

	assert.NotPanics(t, func() {
		v.Release()
	})

	Dispose()

	e, err := Get()
	require.NoError(t, err)

	vec := e.newVector([]float64{1, 2, 3})
	vec.Release()

	assert.NotPanics(t, func() {
		vec.Release()
	})
}

func TestHPCPOutputSumsToOne(t *testing.T) {
	Dispose()

	e, err := Get()
	require.NoError(t, err)

	spectrum := make([]float64, 2048)
	spectrum[100] = 1.0
	spectrum[300] = 0.5

	hpcp := e.HPCP(spectrum, 44100, 4096)
	defer hpcp.Release()

	var sum float64
	for _, x := range hpcp.Data {
		sum += x
	}

	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Len(t, hpcp.Data, 12)
}

func TestHPCPZeroSpectrumYieldsZeroVector(t *testing.T) {
	Dispose()

	e, err := Get()
	require.NoError(t, err)

	hpcp := e.HPCP(make([]float64, 2048), 44100, 4096)
	defer hpcp.Release()

	for _, x := range hpcp.Data {
		assert.Equal(t, 0.0, x)
	}
}

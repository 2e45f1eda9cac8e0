package loader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chordscope/chordscope/internal/fault"
)

const sampleRate = 44100

func makeTone(seconds float64, amplitude float32) []float32 {
	n := int(seconds * sampleRate)
	out := make([]float32, n)

	for i := range out {
		out[i] = amplitude
	}

	return out
}

func TestFromDecodedPCMRejectsTooShort(t *testing.T) {
	samples := makeTone(9, 0.5)

	_, err := FromDecodedPCM("id", "name", [][]float32{samples}, sampleRate, DefaultOptions())

	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.ErrAudioTooShort))
}

func TestFromDecodedPCMRejectsSilence(t *testing.T) {
	samples := make([]float32, int(12*sampleRate))

	_, err := FromDecodedPCM("id", "name", [][]float32{samples}, sampleRate, DefaultOptions())

	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.ErrAudioTooQuiet))
}

func TestFromDecodedPCMAcceptsValidBuffer(t *testing.T) {
	samples := makeTone(12, 0.5)

	buf, err := FromDecodedPCM("id", "name", [][]float32{samples}, sampleRate, DefaultOptions())

	require.NoError(t, err)
	assert.InDelta(t, 12.0, buf.Duration, 0.01)
	assert.Equal(t, sampleRate, buf.SampleRate)
}

func TestFromDecodedPCMDownmixesMultichannel(t *testing.T) {
	left := makeTone(12, 0.8)
	right := makeTone(12, 0.4)

	buf, err := FromDecodedPCM("id", "name", [][]float32{left, right}, sampleRate, DefaultOptions())

	require.NoError(t, err)
	assert.InDelta(t, 12.0, buf.Duration, 0.01)

	for _, s := range buf.Samples {
		assert.InDelta(t, 0.6, s, 1e-6)
	}
}

func TestExtractSegmentClampsToBounds(t *testing.T) {
	samples := makeTone(12, 0.5)
	buf, err := FromDecodedPCM("id", "name", [][]float32{samples}, sampleRate, DefaultOptions())
	require.NoError(t, err)

	seg := ExtractSegment(*buf, -1, 100)

	assert.Len(t, seg, len(buf.Samples))
}

func TestDownsamplePassthroughWhenUpsampling(t *testing.T) {
	src := []float32{1, 2, 3}

	out := Downsample(src, 8000, 16000)

	assert.Equal(t, src, out)
}

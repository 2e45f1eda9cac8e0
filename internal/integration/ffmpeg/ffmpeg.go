// Package ffmpeg shells out to the ffmpeg binary to decode a compressed
// audio container down to raw signed-integer PCM.
package ffmpeg

import "time"

const (
	name    = "ffmpeg"
	timeout = 60 * time.Second
)

// PCMFormat describes the raw PCM layout ffmpeg is asked to produce.
type PCMFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int // 16, 24, or 32
}

// Package ffprobe shells out to the ffprobe binary to discover container
// and audio-stream properties ahead of decoding.
package ffprobe

import "time"

const (
	name    = "ffprobe"
	timeout = 60 * time.Second
)

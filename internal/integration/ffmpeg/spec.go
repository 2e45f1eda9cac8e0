package ffmpeg

import "strconv"

func bitDepthToSpec(bitDepth int) string {
	// BitDepth 32 = s32le, 24 = s24le, 16 = s16le.
	return "s" + strconv.Itoa(bitDepth) + "le"
}

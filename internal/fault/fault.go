// Package fault defines the sentinel errors wrapped throughout chordscope.
//
// Callers should compare with errors.Is against these sentinels rather than
// matching on error strings.
package fault

import "errors"

var (
	// ErrReadFailure indicates an underlying io.Reader returned a non-EOF error.
	ErrReadFailure = errors.New("read failure")

	// ErrCommandFailure indicates an external binary (ffmpeg, ffprobe) exited non-zero.
	ErrCommandFailure = errors.New("command failed")

	// ErrTimeout indicates an external command exceeded its deadline.
	ErrTimeout = errors.New("command timed out")

	// ErrMissingRequirements indicates a required external binary is not on PATH.
	ErrMissingRequirements = errors.New("missing requirement")

	// ErrInvalidJSON indicates a JSON payload from an external tool could not be parsed.
	ErrInvalidJSON = errors.New("invalid json")

	// ErrFileTooLarge indicates the input exceeds the configured size ceiling.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedFormat indicates the input's extension and sniffed container type are
	// both unsupported, or the container has no audio stream. Decoder failures are ErrCorruptFile.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrAudioTooShort indicates the decoded buffer is shorter than the minimum analyzable duration.
	ErrAudioTooShort = errors.New("audio too short")

	// ErrAudioTooQuiet indicates the decoded buffer's RMS energy falls below the silence gate.
	ErrAudioTooQuiet = errors.New("audio too quiet")

	// ErrCorruptFile indicates the input could not be parsed as valid audio data.
	ErrCorruptFile = errors.New("corrupt file")

	// ErrEngineLoadFailed indicates the DSP engine singleton failed to initialize.
	ErrEngineLoadFailed = errors.New("engine load failed")
)

package ffmpeg

import "errors"

// ErrClosed is returned by operations on a closed FFmpeg or Host.
var ErrClosed = errors.New("ffmpeg: closed")

// tooBusyError signals admission timeout/overflow for 429 mapping.
type tooBusyError struct{ stage string }

func (e tooBusyError) Error() string { return "too busy: " + e.stage }

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	var tb tooBusyError
	return errors.As(err, &tb)
}

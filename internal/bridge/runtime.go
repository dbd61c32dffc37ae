package bridge

// Runtime is the host environment that owns the log and stats entry points.
// Its handles are resolved once when the Runtime is constructed.
type Runtime interface {
	// Attach registers the calling OS thread with the host and returns the
	// environment used to call back into it. The consumer calls Attach once,
	// from a goroutine locked to its thread.
	Attach() (Env, error)
}

// Env is a thread-attached view of the host. It must only be used from the
// goroutine that attached it.
type Env interface {
	// Log delivers one log line. message is only valid during the call.
	Log(level int, message []byte)
	// Stats delivers one statistics sample.
	Stats(frame int, fps, quality float32, size int64, time int, bitrate, speed float64)
	// Detach unregisters the thread. It is called exactly once.
	Detach()
}

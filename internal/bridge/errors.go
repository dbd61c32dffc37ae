package bridge

import "errors"

var (
	// ErrNoRuntime and ErrNoHooks are setup failures: the bridge cannot be built.
	ErrNoRuntime = errors.New("bridge: host runtime is required")
	ErrNoHooks   = errors.New("bridge: engine hooks are required")
	// ErrClosed is returned by Enable after Close.
	ErrClosed = errors.New("bridge: closed")
	// ErrInCallback is returned by Enable when a host callback re-enables the
	// bridge its own consumer is stopping.
	ErrInCallback = errors.New("bridge: enable from a callback of a stopping consumer")
)

// attachError wraps a Runtime.Attach failure reported by a starting consumer.
type attachError struct{ err error }

func (e attachError) Error() string { return "bridge: attach consumer: " + e.err.Error() }

func (e attachError) Unwrap() error { return e.err }

// IsAttachFailure reports whether err comes from the consumer failing to attach
// to the host runtime.
func IsAttachFailure(err error) bool {
	var ae attachError
	return errors.As(err, &ae)
}

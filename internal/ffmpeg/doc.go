// Package ffmpeg is the host-facing API of the media bridge. An FFmpeg value
// owns an engine, a bridge.Controller and a Host; it runs jobs, toggles log and
// statistics redirection and fans delivered messages out to subscribers.
//
// Host is the bridge.Runtime implementation: it applies the active log level,
// forwards lines to the user log callback (or to zerolog when none is set) and
// folds statistics samples into the last-received record.
package ffmpeg

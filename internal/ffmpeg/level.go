package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Level is an engine log verbosity. Larger values are more verbose.
type Level int

const (
	LevelQuiet   Level = -8
	LevelPanic   Level = 0
	LevelFatal   Level = 8
	LevelError   Level = 16
	LevelWarning Level = 24
	LevelInfo    Level = 32
	LevelVerbose Level = 40
	LevelDebug   Level = 48
	LevelTrace   Level = 56
)

var levelNames = map[Level]string{
	LevelQuiet:   "quiet",
	LevelPanic:   "panic",
	LevelFatal:   "fatal",
	LevelError:   "error",
	LevelWarning: "warning",
	LevelInfo:    "info",
	LevelVerbose: "verbose",
	LevelDebug:   "debug",
	LevelTrace:   "trace",
}

// LevelFrom maps a raw engine value to a Level. Unknown values map to LevelTrace.
func LevelFrom(v int) Level {
	if _, ok := levelNames[Level(v)]; ok {
		return Level(v)
	}
	return LevelTrace
}

// ParseLevel accepts a level name ("info", "warn", ...) or its numeric value.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty log level")
	}
	if n, err := strconv.Atoi(s); err == nil {
		if _, ok := levelNames[Level(n)]; !ok {
			return 0, fmt.Errorf("unknown log level %d", n)
		}
		return Level(n), nil
	}
	if s == "warn" {
		return LevelWarning, nil
	}
	for l, name := range levelNames {
		if name == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return strconv.Itoa(int(l))
}

// MarshalText and UnmarshalText let Level appear by name in config files and
// JSON payloads.
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Level) UnmarshalText(b []byte) error {
	v, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// zerologLevel is the level used by the default log sink. Fatal and panic are
// reported as errors: engine severity must never terminate the host.
func (l Level) zerologLevel() zerolog.Level {
	switch {
	case l == LevelQuiet:
		return zerolog.Disabled
	case l <= LevelError:
		return zerolog.ErrorLevel
	case l <= LevelWarning:
		return zerolog.WarnLevel
	case l <= LevelInfo:
		return zerolog.InfoLevel
	case l <= LevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

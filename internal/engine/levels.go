package engine

import (
	"strconv"
	"strings"
)

var levelNames = []struct {
	name  string
	value int
}{
	{"quiet", -8},
	{"panic", 0},
	{"fatal", 8},
	{"error", 16},
	{"warning", 24},
	{"info", 32},
	{"verbose", 40},
	{"debug", 48},
	{"trace", 56},
}

// levelArg renders a numeric level as an ffmpeg -loglevel name when one exists.
func levelArg(level int) string {
	for _, l := range levelNames {
		if l.value == level {
			return l.name
		}
	}
	return strconv.Itoa(level)
}

// parseLevelPrefix removes the "[level] " tag printed by ffmpeg with
// -loglevel level+<n> and returns the numeric level. ffmpeg prints context
// tags such as "[libx264 @ 0x55d0]" before the level tag, so every leading
// bracket group is inspected. Lines without a known tag are reported at fallback.
func parseLevelPrefix(line string, fallback int) (int, string) {
	pos := 0
	for pos < len(line) && line[pos] == '[' {
		end := strings.IndexByte(line[pos:], ']')
		if end < 0 {
			break
		}
		tag := line[pos+1 : pos+end]
		next := pos + end + 1
		for _, l := range levelNames {
			if l.name == tag {
				rest := strings.TrimPrefix(line[next:], " ")
				return l.value, line[:pos] + rest
			}
		}
		pos = next
		for pos < len(line) && line[pos] == ' ' {
			pos++
		}
	}
	return fallback, line
}

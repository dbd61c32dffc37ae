package engine

import (
	"strconv"
	"strings"
)

// Progress is one statistics sample assembled from an ffmpeg -progress block.
type Progress struct {
	Frame   int
	FPS     float32
	Quality float32
	Size    int64
	Time    int // milliseconds
	Bitrate float64
	Speed   float64
}

// ProgressParser accumulates key=value lines written by ffmpeg -progress and
// yields a sample each time a block terminates with "progress=continue" or
// "progress=end". It is not safe for concurrent use.
type ProgressParser struct {
	cur Progress
}

// ParseLine consumes one line. It returns the completed sample and true when
// the line closes a block.
func (p *ProgressParser) ParseLine(line string) (Progress, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return Progress{}, false
	}
	value = strings.TrimSpace(value)
	switch {
	case key == "frame":
		p.cur.Frame = atoi(value)
	case key == "fps":
		p.cur.FPS = float32(atof(value))
	case strings.HasPrefix(key, "stream_") && strings.HasSuffix(key, "_q"):
		// first video stream wins
		if p.cur.Quality == 0 {
			p.cur.Quality = float32(atof(value))
		}
	case key == "total_size":
		p.cur.Size = int64(atoi(value))
	case key == "out_time_us", key == "out_time_ms":
		// both keys carry microseconds
		if us := atoi(value); us > 0 {
			p.cur.Time = us / 1000
		}
	case key == "bitrate":
		p.cur.Bitrate = atof(strings.TrimSuffix(value, "kbits/s"))
	case key == "speed":
		p.cur.Speed = atof(strings.TrimSuffix(value, "x"))
	case key == "progress":
		out := p.cur
		p.cur = Progress{}
		return out, true
	}
	return Progress{}, false
}

// atoi and atof treat "N/A" and malformed values as zero.
func atoi(s string) int {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return int(n)
}

func atof(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

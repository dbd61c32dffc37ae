package engine

import "testing"

func TestProgressParser_Block(t *testing.T) {
	lines := []string{
		"frame=10",
		"fps=25.00",
		"stream_0_0_q=1.0",
		"bitrate= 128.5kbits/s",
		"total_size=2048",
		"out_time_us=400000",
		"out_time_ms=400000",
		"out_time=00:00:00.400000",
		"dup_frames=0",
		"speed=1.0x",
		"progress=continue",
	}
	var p ProgressParser
	var got Progress
	var done bool
	for i, l := range lines {
		got, done = p.ParseLine(l)
		if done != (i == len(lines)-1) {
			t.Fatalf("line %d (%q): done=%v", i, l, done)
		}
	}
	want := Progress{Frame: 10, FPS: 25, Quality: 1, Size: 2048, Time: 400, Bitrate: 128.5, Speed: 1}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestProgressParser_NAValuesAndReset(t *testing.T) {
	var p ProgressParser
	p.ParseLine("frame=3")
	p.ParseLine("bitrate=N/A")
	p.ParseLine("speed=N/A")
	got, done := p.ParseLine("progress=end")
	if !done || got.Frame != 3 || got.Bitrate != 0 || got.Speed != 0 {
		t.Fatalf("unexpected sample %+v done=%v", got, done)
	}
	got, done = p.ParseLine("progress=end")
	if !done || got != (Progress{}) {
		t.Fatalf("expected empty sample after reset, got %+v", got)
	}
	if _, done := p.ParseLine("garbage"); done {
		t.Fatalf("line without '=' must not complete a block")
	}
}

func TestParseLevelPrefix(t *testing.T) {
	cases := []struct {
		in    string
		level int
		text  string
	}{
		{"[info] hello", 32, "hello"},
		{"[error] bad input", 16, "bad input"},
		{"[libx264 @ 0x55d0] [warning] slow preset", 24, "[libx264 @ 0x55d0] slow preset"},
		{"no prefix", 40, "no prefix"},
		{"[unknown] thing", 40, "[unknown] thing"},
		{"[unterminated", 40, "[unterminated"},
	}
	for _, c := range cases {
		level, text := parseLevelPrefix(c.in, 40)
		if level != c.level || text != c.text {
			t.Fatalf("%q -> (%d, %q), want (%d, %q)", c.in, level, text, c.level, c.text)
		}
	}
}

func TestLevelArg(t *testing.T) {
	if got := levelArg(32); got != "info" {
		t.Fatalf("levelArg(32)=%q", got)
	}
	if got := levelArg(-8); got != "quiet" {
		t.Fatalf("levelArg(-8)=%q", got)
	}
	if got := levelArg(33); got != "33" {
		t.Fatalf("levelArg(33)=%q", got)
	}
}

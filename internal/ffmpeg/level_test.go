package ffmpeg

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestLevelFrom(t *testing.T) {
	cases := map[int]Level{
		-8: LevelQuiet, 0: LevelPanic, 8: LevelFatal, 16: LevelError, 24: LevelWarning,
		32: LevelInfo, 40: LevelVerbose, 48: LevelDebug, 56: LevelTrace,
		7: LevelTrace, 1000: LevelTrace, -1: LevelTrace,
	}
	for in, want := range cases {
		if got := LevelFrom(in); got != want {
			t.Fatalf("LevelFrom(%d)=%v, want %v", in, got, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	ok := map[string]Level{
		"info": LevelInfo, " WARNING ": LevelWarning, "warn": LevelWarning,
		"quiet": LevelQuiet, "48": LevelDebug, "-8": LevelQuiet,
	}
	for in, want := range ok {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q)=%v,%v want %v", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "loud", "33"} {
		if _, err := ParseLevel(bad); err == nil {
			t.Fatalf("ParseLevel(%q) expected error", bad)
		}
	}
}

func TestLevel_TextRoundTripInJSON(t *testing.T) {
	b, err := json.Marshal(struct{ L Level }{LevelVerbose})
	if err != nil || string(b) != `{"L":"verbose"}` {
		t.Fatalf("marshal=%s err=%v", b, err)
	}
	var v struct{ L Level }
	if err := json.Unmarshal([]byte(`{"L":"error"}`), &v); err != nil || v.L != LevelError {
		t.Fatalf("unmarshal=%v err=%v", v.L, err)
	}
	if Level(99).String() != "99" {
		t.Fatalf("unknown level string=%q", Level(99).String())
	}
}

func TestLevel_ZerologMapping(t *testing.T) {
	cases := map[Level]zerolog.Level{
		LevelQuiet:   zerolog.Disabled,
		LevelPanic:   zerolog.ErrorLevel,
		LevelFatal:   zerolog.ErrorLevel,
		LevelError:   zerolog.ErrorLevel,
		LevelWarning: zerolog.WarnLevel,
		LevelInfo:    zerolog.InfoLevel,
		LevelVerbose: zerolog.DebugLevel,
		LevelDebug:   zerolog.DebugLevel,
		LevelTrace:   zerolog.TraceLevel,
	}
	for in, want := range cases {
		if got := in.zerologLevel(); got != want {
			t.Fatalf("%v -> %v, want %v", in, got, want)
		}
	}
}

package httpapi

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"mediabridge/internal/ffmpeg"
)

func TestJoinContexts_CanceledBySecond(t *testing.T) {
	b, cancelB := context.WithCancel(context.Background())
	ctx, cancel := joinContexts(context.Background(), b)
	defer cancel()
	cancelB()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatalf("joined context not canceled")
	}
}

func TestJoinContexts_CancelFuncStopsPropagation(t *testing.T) {
	a, cancelA := context.WithCancel(context.Background())
	defer cancelA()
	b, cancelB := context.WithCancel(context.Background())
	ctx, cancel := joinContexts(a, b)
	cancel()
	cancelB()
	if !errors.Is(ctx.Err(), context.Canceled) {
		t.Fatalf("ctx err=%v", ctx.Err())
	}
	if a.Err() != nil {
		t.Fatalf("parent canceled")
	}
}

func TestSetters(t *testing.T) {
	SetMaxBodyBytes(10)
	if maxBodyBytes != 10 {
		t.Fatalf("maxBodyBytes=%d", maxBodyBytes)
	}
	SetMaxBodyBytes(-1)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("default not restored: %d", maxBodyBytes)
	}
	SetExecuteTimeout(-time.Second)
	if executeTimeout != 0 {
		t.Fatalf("negative timeout kept: %v", executeTimeout)
	}
	SetExecuteTimeout(0)
	SetBaseContext(nil)
	if serverBaseCtx != context.Background() {
		t.Fatalf("base context not restored")
	}
}

func TestStatusForError(t *testing.T) {
	if got := statusForError(ffmpeg.ErrClosed); got != http.StatusServiceUnavailable {
		t.Fatalf("closed=%d", got)
	}
	if got := statusForError(errors.New("x")); got != http.StatusInternalServerError {
		t.Fatalf("plain=%d", got)
	}
}

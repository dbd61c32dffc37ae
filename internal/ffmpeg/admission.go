package ffmpeg

import (
	"context"
	"time"
)

// admit reserves a queue slot and then a run slot. Both stages share one
// maxWait deadline; running out of it is reported as too busy. Returns a
// release func to be deferred.
func (f *FFmpeg) admit(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}

	timer := time.NewTimer(f.maxWait)
	defer timer.Stop()
	select {
	case f.queueCh <- struct{}{}:
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{stage: "queue"}
	}

	acquired := false
	defer func() {
		if !acquired {
			<-f.queueCh
		}
	}()
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}
	select {
	case f.runCh <- struct{}{}:
		acquired = true
		return func() { <-f.runCh; <-f.queueCh }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{stage: "run"}
	}
}

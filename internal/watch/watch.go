// Package watch implements live progress streaming for running analysis
// sessions, backed by the council progress Pub/Sub channel with a polling
// fallback for completion.
package watch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dyluth/moot/pkg/council"
)

// Watch subscribes to progress events for the given session and writes one
// line per event to w until the session reaches a terminal stage, the timeout
// expires, or the context is cancelled. Pub/Sub is at-most-once, so the
// session hash is polled as a completion backstop alongside the stream.
func Watch(ctx context.Context, client *council.Client, sessionID string, timeout time.Duration, w io.Writer) error {
	sub, err := client.SubscribeProgress(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to progress events: %w", err)
	}
	defer sub.Close()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timeoutCh = time.After(timeout)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-timeoutCh:
			return fmt.Errorf("timeout waiting for session to complete after %v", timeout)

		case ev, ok := <-sub.Events():
			if !ok {
				return fmt.Errorf("progress stream closed")
			}
			if ev.SessionID != sessionID {
				continue
			}
			fmt.Fprintf(w, "[%s] %s: %s\n",
				time.UnixMilli(ev.EmittedAtMs).Format("15:04:05"), ev.Stage, ev.Detail)

		case err, ok := <-sub.Errors():
			if ok && err != nil {
				fmt.Fprintf(w, "warning: %v\n", err)
			}

		case <-ticker.C:
			done, err := isDone(ctx, client, sessionID)
			if err != nil {
				return err
			}
			if done {
				fmt.Fprintf(w, "session %s complete\n", sessionID)
				return nil
			}
		}
	}
}

// PollForCompletion waits for a session to reach a terminal stage without
// subscribing to events. Polls every 200ms for the specified timeout.
func PollForCompletion(ctx context.Context, client *council.Client, sessionID string, timeout time.Duration) (*council.StageState, error) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	timeoutCh := time.After(timeout)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-timeoutCh:
			return nil, fmt.Errorf("timeout waiting for session after %v", timeout)

		case <-ticker.C:
			state, err := client.GetSession(ctx, sessionID)
			if err != nil {
				if council.IsNotFound(err) {
					// Not saved yet, continue polling
					continue
				}
				return nil, fmt.Errorf("failed to query session: %w", err)
			}

			if state.Stage() == council.StageDone {
				return state, nil
			}
		}
	}
}

func isDone(ctx context.Context, client *council.Client, sessionID string) (bool, error) {
	state, err := client.GetSession(ctx, sessionID)
	if err != nil {
		if council.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to query session: %w", err)
	}
	return state.Stage() == council.StageDone, nil
}

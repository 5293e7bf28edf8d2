package cli

import (
	"bytes"
	"strings"
	"syscall"
	"testing"
	"time"
)

func TestGracefulShutdown(t *testing.T) {
	tests := []struct {
		name    string
		cleanup func(release <-chan struct{})
		timeout time.Duration
		wantLog string
	}{
		{
			name:    "cleanup finishes",
			cleanup: func(<-chan struct{}) {},
			timeout: 5 * time.Second,
			wantLog: "Shutdown complete",
		},
		{
			name:    "cleanup hangs",
			cleanup: func(release <-chan struct{}) { <-release },
			timeout: 50 * time.Millisecond,
			wantLog: "Shutdown timeout reached",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := SetupLogger("info", "test", &buf)
			release := make(chan struct{})
			defer close(release)

			cleaned := make(chan struct{})
			ctx, done := GracefulShutdown(logger, tt.timeout, func() {
				close(cleaned)
				tt.cleanup(release)
			})

			if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
				t.Fatalf("kill: %v", err)
			}

			waited := make(chan struct{})
			go func() {
				WaitForShutdown(ctx, done)
				close(waited)
			}()
			select {
			case <-waited:
			case <-time.After(5 * time.Second):
				t.Fatal("WaitForShutdown did not return")
			}

			select {
			case <-cleaned:
			case <-time.After(time.Second):
				t.Error("cleanup was not called")
			}
			if ctx.Err() == nil {
				t.Error("context not cancelled")
			}
			if !strings.Contains(buf.String(), tt.wantLog) {
				t.Errorf("log = %q, want %q", buf.String(), tt.wantLog)
			}
		})
	}
}

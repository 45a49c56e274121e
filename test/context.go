package test

import (
	"context"
	"testing"

	"github.com/flintsearch/flint/tlog"
	"time"
)

// Context returns a new testing context.
//
// The context carries a logger that forwards to the test log, so code under
// test that uses tlog produces output attributed to the test.
func Context(t *testing.T) context.Context {
	ctx := context.Background()
	return tlog.WithLogger(ctx, tlog.NewForTesting(t))
}

// ContextWithTimeout is a version of Context with a timeout.
//
// If the timeout expires, the test context is closed with
// context.DeadlineExceeded.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(Context(t), timeout)
	t.Cleanup(cancel)
	return ctx
}

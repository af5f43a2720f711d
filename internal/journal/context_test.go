package journal

import (
	"context"
	"testing"
)

// testContext returns a context that is canceled when the test finishes,
// mirroring testing.T.Context for toolchains older than Go 1.24.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

package cli

import (
	"context"
	"io"
)

// RunForTest runs the app with its output captured by stdout
func RunForTest(ctx context.Context, stdout io.Writer, args ...string) error {
	return run(ctx, append([]string{"grocery-admin"}, args...), "test", stdout, io.Discard)
}

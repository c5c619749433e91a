package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/grocerly/grocery-admin/pkg/domain/interfaces"
	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Console prints notifications as one coloured line each
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	success *color.Color
	failure *color.Color
}

var _ interfaces.Notifier = &Console{}

type ConsoleOption func(*Console)

func WithWriter(w io.Writer) ConsoleOption {
	return func(c *Console) {
		c.w = w
	}
}

// WithoutColor disables ANSI colours regardless of the terminal
func WithoutColor() ConsoleOption {
	return func(c *Console) {
		c.success.DisableColor()
		c.failure.DisableColor()
	}
}

func NewConsole(opts ...ConsoleOption) *Console {
	c := &Console{
		w:       os.Stdout,
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Console) Notify(ctx context.Context, n *model.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tag := c.success.Sprint("✔")
	if n.Level == types.NoticeLevelError {
		tag = c.failure.Sprint("✘")
	}

	if _, err := fmt.Fprintf(c.w, "%s [%s] %s\n", tag, n.Resource, n.Message); err != nil {
		return goerr.Wrap(err, "failed to write notification")
	}
	return nil
}

package config

import (
	"log/slog"
	"time"

	"github.com/grocerly/grocery-admin/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Form holds the timing flags of form controllers
type Form struct {
	resetDelay     time.Duration
	requestTimeout time.Duration
}

func (x *Form) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "reset-delay",
			Usage:       "How long a successful submission stays visible before the form resets",
			Category:    "Form",
			Value:       usecase.DefaultResetDelay,
			Sources:     cli.EnvVars("GROCERY_ADMIN_RESET_DELAY"),
			Destination: &x.resetDelay,
		},
		&cli.DurationFlag{
			Name:        "request-timeout",
			Usage:       "Deadline of one backend request",
			Category:    "Form",
			Value:       usecase.DefaultRequestTimeout,
			Sources:     cli.EnvVars("GROCERY_ADMIN_REQUEST_TIMEOUT"),
			Destination: &x.requestTimeout,
		},
	}
}

func (x Form) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("reset_delay", x.resetDelay),
		slog.Duration("request_timeout", x.requestTimeout),
	)
}

// Options converts the flags into use case options
func (x *Form) Options() []usecase.Option {
	return []usecase.Option{
		usecase.WithResetDelay(x.resetDelay),
		usecase.WithRequestTimeout(x.requestTimeout),
	}
}

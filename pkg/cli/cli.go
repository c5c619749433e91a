package cli

import (
	"context"
	"io"
	"os"

	"github.com/grocerly/grocery-admin/pkg/cli/config"
	"github.com/grocerly/grocery-admin/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	return run(ctx, args, version, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, version string, stdout, stderr io.Writer) error {
	var loggerCfg config.Logger
	var closer func()

	app := &cli.Command{
		Name:      "grocery-admin",
		Usage:     "Administration console of the grocery platform",
		Version:   version,
		Flags:     loggerCfg.Flags(),
		Writer:    stdout,
		ErrWriter: stderr,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Debug("Starting grocery-admin", "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(version),
			cmdList(),
			cmdGet(),
			cmdDelete(),
			cmdSummary(),
			cmdAdd(),
			cmdEdit(),
			cmdForm(),
			cmdSchema(),
			cmdAudit(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdList() *cli.Command {
	var rt runtime

	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List stored records of a resource as JSON",
		ArgsUsage: "<resource>",
		Flags:     rt.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			resource, err := resourceArg(c, 0)
			if err != nil {
				return err
			}
			uc, closer, err := rt.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			records, err := uc.List(ctx, resource)
			if err != nil {
				return err
			}
			if records == nil {
				records = []model.Record{}
			}
			return writeJSON(c.Root().Writer, records)
		},
	}
}

func cmdGet() *cli.Command {
	var rt runtime

	return &cli.Command{
		Name:      "get",
		Usage:     "Print one stored record as JSON",
		ArgsUsage: "<resource> <id>",
		Flags:     rt.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			resource, err := resourceArg(c, 0)
			if err != nil {
				return err
			}
			if c.Args().Len() < 2 {
				return goerr.New("record ID argument is required")
			}
			uc, closer, err := rt.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			record, err := uc.Get(ctx, resource, c.Args().Get(1))
			if err != nil {
				return err
			}
			return writeJSON(c.Root().Writer, record)
		},
	}
}

func cmdDelete() *cli.Command {
	var rt runtime

	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete one stored record",
		ArgsUsage: "<resource> <id>",
		Flags:     rt.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			resource, err := resourceArg(c, 0)
			if err != nil {
				return err
			}
			if c.Args().Len() < 2 {
				return goerr.New("record ID argument is required")
			}
			id := c.Args().Get(1)

			uc, closer, err := rt.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			if err := uc.Delete(ctx, resource, id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(c.Root().Writer, "deleted %s/%s\n", resource, id)
			return nil
		},
	}
}

func cmdSummary() *cli.Command {
	var rt runtime

	return &cli.Command{
		Name:  "summary",
		Usage: "Print the number of stored records per resource",
		Flags: rt.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := rt.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			counts, err := uc.Summary(ctx)
			if err != nil {
				return err
			}
			return writeJSON(c.Root().Writer, counts)
		},
	}
}

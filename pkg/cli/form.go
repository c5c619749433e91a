package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grocerly/grocery-admin/pkg/cli/config"
	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/grocerly/grocery-admin/pkg/tui"
	"github.com/grocerly/grocery-admin/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

var (
	ErrFormInvalid  = goerr.New("form has field errors")
	ErrInvalidInput = goerr.New("invalid form input")
)

// formInput holds the repeated field flags of add and edit
type formInput struct {
	sets   []string
	images []string
	files  []string
}

func (x *formInput) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "set",
			Usage:       "Set a field value (field=value, repeatable)",
			Destination: &x.sets,
		},
		&cli.StringSliceFlag{
			Name:        "image",
			Usage:       "Point an image field at an uploaded URL (field=url, repeatable)",
			Destination: &x.images,
		},
		&cli.StringSliceFlag{
			Name:        "file",
			Usage:       "Stage a local file for an image field (field=path, repeatable)",
			Destination: &x.files,
		},
	}
}

func splitPair(flag, s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return "", "", goerr.Wrap(ErrInvalidInput, "expected field=value",
			goerr.V(config.FlagKey, flag), goerr.V("input", s))
	}
	return k, v, nil
}

// apply fills form from the flags. Values go first so image rules that read
// other fields see them.
func (x *formInput) apply(form *usecase.FormController) error {
	for _, s := range x.sets {
		k, v, err := splitPair("set", s)
		if err != nil {
			return err
		}
		if err := form.Set(k, v); err != nil {
			return err
		}
	}

	remote := map[string][]string{}
	for _, s := range x.images {
		k, v, err := splitPair("image", s)
		if err != nil {
			return err
		}
		remote[k] = append(remote[k], v)
	}
	for _, field := range sortedKeys(remote) {
		if err := form.SetRemoteImage(field, remote[field]...); err != nil {
			return err
		}
	}

	local := map[string][]model.FileInput{}
	for _, s := range x.files {
		k, path, err := splitPair("file", s)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return goerr.Wrap(err, "failed to read file", goerr.V("path", path))
		}
		local[k] = append(local[k], model.FileInput{Name: filepath.Base(path), Data: data})
	}
	for _, field := range sortedKeys(local) {
		if _, err := form.StageFiles(field, local[field]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// submitForm submits form and reports the outcome on w
func submitForm(ctx context.Context, w io.Writer, form *usecase.FormController) error {
	status, err := form.Submit(ctx)
	if err != nil {
		return err
	}

	if status == types.SubmitStatusEditing {
		errs := form.Errors()
		for _, f := range errs.Fields() {
			_, _ = fmt.Fprintf(w, "%s: %s\n", form.Schema().Label(f), errs.Get(f))
		}
		return goerr.Wrap(ErrFormInvalid, "submission rejected",
			goerr.V(model.ResourceKey, form.Resource()), goerr.V("fields", errs.Fields()))
	}

	if n := form.Notice(); n != nil {
		_, _ = fmt.Fprintf(w, "%s (id: %s)\n", n.Message, n.RecordID)
	}
	return nil
}

func cmdAdd() *cli.Command {
	var rt runtime
	var input formInput

	return &cli.Command{
		Name:      "add",
		Usage:     "Create a record through its admin form",
		ArgsUsage: "<resource>",
		Flags:     append(rt.Flags(), input.Flags()...),
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

			form, err := uc.NewForm(resource)
			if err != nil {
				return err
			}
			defer form.Dispose()

			if err := input.apply(form); err != nil {
				return err
			}
			return submitForm(ctx, c.Root().Writer, form)
		},
	}
}

func cmdEdit() *cli.Command {
	var rt runtime
	var input formInput

	return &cli.Command{
		Name:      "edit",
		Usage:     "Update a stored record through its admin form",
		ArgsUsage: "<resource> <id>",
		Flags:     append(rt.Flags(), input.Flags()...),
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

			form, err := uc.OpenForm(ctx, resource, c.Args().Get(1))
			if err != nil {
				return err
			}
			defer form.Dispose()

			if err := input.apply(form); err != nil {
				return err
			}
			return submitForm(ctx, c.Root().Writer, form)
		},
	}
}

func cmdForm() *cli.Command {
	var rt runtime
	var notifyCfg config.Notify

	return &cli.Command{
		Name:      "form",
		Aliases:   []string{"f"},
		Usage:     "Open an interactive form (edit mode when an ID is given)",
		ArgsUsage: "<resource> [id]",
		Flags:     append(rt.Flags(), notifyCfg.Flags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			resource, err := resourceArg(c, 0)
			if err != nil {
				return err
			}

			notifier, err := notifyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure notifications")
			}
			var opts []usecase.Option
			if notifier != nil {
				opts = append(opts, usecase.WithNotifier(notifier))
			}

			uc, closer, err := rt.open(ctx, opts...)
			if err != nil {
				return err
			}
			defer closer()

			return tui.Run(ctx, uc, resource, c.Args().Get(1))
		},
	}
}

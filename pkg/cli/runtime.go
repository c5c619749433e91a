package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/grocerly/grocery-admin/pkg/cli/config"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/grocerly/grocery-admin/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// runtime is the flag set shared by every command touching records
type runtime struct {
	backend config.Backend
	schema  config.Schema
	form    config.Form
}

func (x *runtime) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.backend.Flags()...)
	flags = append(flags, x.schema.Flags()...)
	flags = append(flags, x.form.Flags()...)
	return flags
}

// open builds the use cases; the returned function releases the backend
func (x *runtime) open(ctx context.Context, opts ...usecase.Option) (*usecase.UseCases, func(), error) {
	registry, err := x.schema.Configure()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load form schemas")
	}
	backend, closer, err := x.backend.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize backend")
	}
	return usecase.New(backend, registry, append(x.form.Options(), opts...)...), closer, nil
}

func resourceArg(c *cli.Command, i int) (types.Resource, error) {
	if c.Args().Len() <= i {
		return "", goerr.New("resource argument is required")
	}
	r := types.Resource(c.Args().Get(i))
	if err := r.Validate(); err != nil {
		return "", goerr.Wrap(err, "invalid resource argument")
	}
	return r, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to write JSON output")
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/grocerly/grocery-admin/pkg/cli/config"
	domainConfig "github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/grocerly/grocery-admin/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

var ErrAuditIssues = goerr.New("stored records fail their form schema")

func cmdSchema() *cli.Command {
	var schemaCfg config.Schema

	return &cli.Command{
		Name:  "schema",
		Usage: "Print the effective form schemas",
		Flags: schemaCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			registry, err := schemaCfg.Configure()
			if err != nil {
				return err
			}
			for _, s := range registry.List() {
				printSchema(c.Root().Writer, s)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Aliases:   []string{"v"},
				Usage:     "Validate a schema override file",
				ArgsUsage: "<file>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() < 1 {
						return goerr.New("schema file argument is required")
					}
					path := c.Args().First()

					schemas, err := config.LoadSchemaFile(path)
					if err != nil {
						return goerr.Wrap(err, "schema validation failed")
					}

					logger := logging.Default()
					logger.Info("Schema validation passed", "path", path, "resource_count", len(schemas))
					for _, s := range schemas {
						logger.Info("Resource validated",
							"resource", s.Resource,
							"title", s.Title,
							"field_count", len(s.Fields),
						)
					}
					_, _ = fmt.Fprintf(c.Root().Writer, "%s: %d resource(s) OK\n", path, len(schemas))
					return nil
				},
			},
		},
	}
}

func printSchema(w io.Writer, s *domainConfig.FormSchema) {
	_, _ = fmt.Fprintf(w, "%s (%s) %s\n", s.Title, s.Resource, s.Path)
	for _, f := range s.Fields {
		var attrs []string
		if f.Required {
			attrs = append(attrs, "required")
		}
		if f.RequiredOnCreate {
			attrs = append(attrs, "required on create")
		}
		if f.Positive {
			attrs = append(attrs, "positive")
		}
		if len(f.Options) > 0 {
			attrs = append(attrs, "one of "+strings.Join(f.Options, "|"))
		}
		if f.Type == types.FieldTypeImage && f.Image != nil {
			attrs = append(attrs, fmt.Sprintf("%s* up to %d bytes", f.Image.MimePrefix, f.Image.MaxBytes))
			if f.Image.Multiple {
				attrs = append(attrs, "multiple")
			}
		}
		line := fmt.Sprintf("  %-18s %-8s", f.ID, f.Type)
		if len(attrs) > 0 {
			line += " " + strings.Join(attrs, ", ")
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func cmdAudit() *cli.Command {
	var rt runtime

	return &cli.Command{
		Name:      "audit",
		Usage:     "Check stored records against the current form schemas",
		ArgsUsage: "[resource...]",
		Flags:     rt.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			var resources []types.Resource
			for i := range c.Args().Len() {
				r, err := resourceArg(c, i)
				if err != nil {
					return err
				}
				resources = append(resources, r)
			}

			uc, closer, err := rt.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			result, err := uc.ValidateRecords(ctx, resources...)
			if err != nil {
				return goerr.Wrap(err, "record audit failed")
			}

			logger := logging.Default()
			if result.HasIssues() {
				for _, issue := range result.Issues {
					logger.Warn("Stored record fails validation",
						"resource", issue.Resource,
						"record_id", issue.RecordID,
						"fields", issue.Errors.Fields(),
					)
					_, _ = fmt.Fprintln(c.Root().Writer, issue.String())
				}
				return goerr.Wrap(ErrAuditIssues, "record audit found issues",
					goerr.V("checked", result.Checked), goerr.V("issues", len(result.Issues)))
			}

			logger.Info("Record audit passed", "checked", result.Checked)
			_, _ = fmt.Fprintf(c.Root().Writer, "%d record(s) checked, no issues\n", result.Checked)
			return nil
		},
	}
}

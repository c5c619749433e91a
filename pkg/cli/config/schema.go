package config

import (
	"os"

	"github.com/grocerly/grocery-admin/pkg/domain/model"
	domainConfig "github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// SchemaFile is the TOML layout of a form schema file. Each [[resource]]
// replaces the built-in schema of the same resource.
type SchemaFile struct {
	Resources []ResourceSchema `toml:"resource"`
}

type ResourceSchema struct {
	Resource string         `toml:"resource"`
	Title    string         `toml:"title"`
	Path     string         `toml:"path"`
	IDField  string         `toml:"id_field"`
	Fields   []FieldSchema  `toml:"field"`
	LessThan []LessThanRule `toml:"less_than"`
	Schedule *ScheduleRule  `toml:"schedule"`
	Discount *DiscountRule  `toml:"discount"`
}

type FieldSchema struct {
	ID               string     `toml:"id"`
	Label            string     `toml:"label"`
	Type             string     `toml:"type"`
	Required         bool       `toml:"required"`
	RequiredOnCreate bool       `toml:"required_on_create"`
	Positive         bool       `toml:"positive"`
	Options          []string   `toml:"options"`
	Image            *ImageSpec `toml:"image"`
}

type ImageSpec struct {
	UploadName string `toml:"upload_name"`
	MaxBytes   int64  `toml:"max_bytes"`
	MimePrefix string `toml:"mime_prefix"`
	Multiple   bool   `toml:"multiple"`
}

type LessThanRule struct {
	Field string `toml:"field"`
	Than  string `toml:"than"`
}

type ScheduleRule struct {
	StartDate string `toml:"start_date"`
	StartTime string `toml:"start_time"`
	EndDate   string `toml:"end_date"`
	EndTime   string `toml:"end_time"`
}

type DiscountRule struct {
	Offer    string `toml:"offer"`
	Original string `toml:"original"`
	Target   string `toml:"target"`
}

// ToDomain converts one resource entry into a form schema
func (r *ResourceSchema) ToDomain() *domainConfig.FormSchema {
	schema := &domainConfig.FormSchema{
		Resource: types.Resource(r.Resource),
		Title:    r.Title,
		Path:     r.Path,
		IDField:  r.IDField,
		Fields:   make([]domainConfig.FieldDefinition, len(r.Fields)),
	}
	for i, f := range r.Fields {
		fd := domainConfig.FieldDefinition{
			ID:               f.ID,
			Label:            f.Label,
			Type:             types.FieldType(f.Type),
			Required:         f.Required,
			RequiredOnCreate: f.RequiredOnCreate,
			Positive:         f.Positive,
			Options:          f.Options,
		}
		if f.Image != nil {
			upload := f.Image.UploadName
			if upload == "" {
				upload = f.ID
			}
			fd.Image = &domainConfig.ImageSpec{
				UploadName: upload,
				MaxBytes:   f.Image.MaxBytes,
				MimePrefix: f.Image.MimePrefix,
				Multiple:   f.Image.Multiple,
			}
		}
		schema.Fields[i] = fd
	}
	for _, rule := range r.LessThan {
		schema.LessThan = append(schema.LessThan, domainConfig.LessThanRule{Field: rule.Field, Than: rule.Than})
	}
	if s := r.Schedule; s != nil {
		schema.Schedule = &domainConfig.ScheduleRule{
			StartDate: s.StartDate,
			StartTime: s.StartTime,
			EndDate:   s.EndDate,
			EndTime:   s.EndTime,
		}
	}
	if d := r.Discount; d != nil {
		schema.Discount = &domainConfig.DiscountRule{Offer: d.Offer, Original: d.Original, Target: d.Target}
	}
	return schema
}

// LoadSchemaFile reads and validates a TOML schema file
func LoadSchemaFile(path string) ([]*domainConfig.FormSchema, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "schema file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read schema file", goerr.V(ConfigPathKey, path))
	}

	var file SchemaFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML schema",
			goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}
	if len(file.Resources) == 0 {
		return nil, goerr.Wrap(ErrInvalidConfig, "schema file defines no resource", goerr.V(ConfigPathKey, path))
	}

	seen := make(map[string]bool)
	schemas := make([]*domainConfig.FormSchema, 0, len(file.Resources))
	for _, r := range file.Resources {
		if seen[r.Resource] {
			return nil, goerr.Wrap(ErrDuplicateResource, "resource defined twice",
				goerr.V(ConfigPathKey, path), goerr.V(ResourceKey, r.Resource))
		}
		seen[r.Resource] = true

		schema := r.ToDomain()
		if err := schema.Validate(); err != nil {
			return nil, goerr.Wrap(err, "schema validation failed",
				goerr.V(ConfigPathKey, path), goerr.V(ResourceKey, r.Resource))
		}
		schemas = append(schemas, schema)
	}
	return schemas, nil
}

// Schema holds the flag pointing at an optional schema override file
type Schema struct {
	path string
}

func (x *Schema) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "schema",
			Aliases:     []string{"s"},
			Usage:       "TOML file overriding built-in form schemas",
			Category:    "Schema",
			Sources:     cli.EnvVars("GROCERY_ADMIN_SCHEMA"),
			Destination: &x.path,
		},
	}
}

// Configure returns the built-in schemas with the file's resources replacing
// their defaults
func (x *Schema) Configure() (*model.SchemaRegistry, error) {
	registry, err := model.NewSchemaRegistry(domainConfig.DefaultSchemas()...)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid built-in schemas")
	}
	if x.path == "" {
		return registry, nil
	}

	overrides, err := LoadSchemaFile(x.path)
	if err != nil {
		return nil, err
	}
	for _, s := range overrides {
		registry.Register(s)
	}
	return registry, nil
}

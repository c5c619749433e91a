package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/grocerly/grocery-admin/pkg/cli"
	"github.com/m-mizutani/gt"
)

// gifBytes is the smallest well-formed GIF header http.DetectContentType accepts
var gifBytes = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, content, 0o600)).Required()
	return path
}

func TestRun_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("valid customer is created", func(t *testing.T) {
		var out bytes.Buffer
		err := cli.RunForTest(ctx, &out, "add", "customer",
			"--set", "name=Ann",
			"--set", "email=ann@example.com",
			"--set", "phone=0123",
			"--set", "status=active",
		)
		gt.NoError(t, err)
		gt.String(t, out.String()).Contains("Customer created successfully")
	})

	t.Run("field errors are printed and returned", func(t *testing.T) {
		var out bytes.Buffer
		err := cli.RunForTest(ctx, &out, "add", "customer",
			"--set", "name=Ann",
			"--set", "email=not-an-email",
			"--set", "status=active",
		)
		gt.Error(t, err).Is(cli.ErrFormInvalid)
		gt.String(t, out.String()).Contains("Email must be a valid email address")
		gt.String(t, out.String()).Contains("Phone is required")
	})

	t.Run("image field takes a staged file", func(t *testing.T) {
		path := writeFile(t, "fresh.gif", gifBytes)

		var out bytes.Buffer
		err := cli.RunForTest(ctx, &out, "add", "category",
			"--set", "name=Fruits",
			"--file", "image="+path,
		)
		gt.NoError(t, err)
		gt.String(t, out.String()).Contains("Category created successfully")
	})

	t.Run("image field takes a remote URL", func(t *testing.T) {
		var out bytes.Buffer
		err := cli.RunForTest(ctx, &out, "add", "category",
			"--set", "name=Fruits",
			"--image", "image=https://cdn.example.com/fruits.png",
		)
		gt.NoError(t, err)
	})

	t.Run("rejected file fails the submission", func(t *testing.T) {
		path := writeFile(t, "banner.png", []byte("\x89PNG\r\n\x1a\n0000"))

		var out bytes.Buffer
		err := cli.RunForTest(ctx, &out, "add", "home-offer",
			"--set", "title=Diwali",
			"--set", "status=active",
			"--image", "backgroundImage=https://cdn.example.com/bg.png",
			"--file", "gif="+path,
		)
		gt.Error(t, err).Is(cli.ErrFormInvalid)
		gt.String(t, out.String()).Contains("Only GIF files are allowed")
	})

	t.Run("missing image is a field error", func(t *testing.T) {
		var out bytes.Buffer
		err := cli.RunForTest(ctx, &out, "add", "category", "--set", "name=Fruits")
		gt.Error(t, err).Is(cli.ErrFormInvalid)
		gt.String(t, out.String()).Contains("Image is required")
	})

	t.Run("malformed pair is rejected", func(t *testing.T) {
		var out bytes.Buffer
		err := cli.RunForTest(ctx, &out, "add", "customer", "--set", "name")
		gt.Error(t, err).Is(cli.ErrInvalidInput)
	})

	t.Run("unknown resource fails", func(t *testing.T) {
		var out bytes.Buffer
		err := cli.RunForTest(ctx, &out, "add", "vegetable")
		gt.Value(t, err).NotNil()
	})
}

func TestRun_Records(t *testing.T) {
	ctx := context.Background()

	t.Run("list of an empty backend is an empty array", func(t *testing.T) {
		var out bytes.Buffer
		gt.NoError(t, cli.RunForTest(ctx, &out, "list", "product"))
		gt.String(t, out.String()).Contains("[]")
	})

	t.Run("summary lists every resource", func(t *testing.T) {
		var out bytes.Buffer
		gt.NoError(t, cli.RunForTest(ctx, &out, "summary"))
		gt.String(t, out.String()).Contains(`"resource": "coin-setting"`)
		gt.String(t, out.String()).Contains(`"count": 0`)
	})

	t.Run("get of a missing record fails", func(t *testing.T) {
		var out bytes.Buffer
		err := cli.RunForTest(ctx, &out, "get", "product", "missing")
		gt.Value(t, err).NotNil()
	})

	t.Run("get requires an ID", func(t *testing.T) {
		var out bytes.Buffer
		err := cli.RunForTest(ctx, &out, "get", "product")
		gt.Value(t, err).NotNil()
	})
}

const bannerOverride = `
[[resource]]
resource = "home-offer"
title = "Home banner"
path = "/home-offer"

  [[resource.field]]
  id = "title"
  label = "Title"
  type = "text"
  required = true
`

func TestRun_Schema(t *testing.T) {
	ctx := context.Background()

	t.Run("prints built-in schemas", func(t *testing.T) {
		var out bytes.Buffer
		gt.NoError(t, cli.RunForTest(ctx, &out, "schema"))
		gt.String(t, out.String()).Contains("Deal (deal) /deal")
		gt.String(t, out.String()).Contains("originalPrice")
	})

	t.Run("prints overrides", func(t *testing.T) {
		path := writeFile(t, "schema.toml", []byte(bannerOverride))

		var out bytes.Buffer
		gt.NoError(t, cli.RunForTest(ctx, &out, "schema", "--schema", path))
		gt.String(t, out.String()).Contains("Home banner (home-offer)")
	})

	t.Run("validate accepts a valid file", func(t *testing.T) {
		path := writeFile(t, "schema.toml", []byte(bannerOverride))

		var out bytes.Buffer
		gt.NoError(t, cli.RunForTest(ctx, &out, "schema", "validate", path))
		gt.String(t, out.String()).Contains("1 resource(s) OK")
	})

	t.Run("validate rejects an unknown field type", func(t *testing.T) {
		path := writeFile(t, "schema.toml", []byte(`
[[resource]]
resource = "deal"
title = "Deal"
path = "/deal"

  [[resource.field]]
  id = "title"
  type = "colour"
`))
		var out bytes.Buffer
		gt.Value(t, cli.RunForTest(ctx, &out, "schema", "validate", path)).NotNil()
	})

	t.Run("validate rejects a missing file", func(t *testing.T) {
		var out bytes.Buffer
		path := filepath.Join(t.TempDir(), "nonexistent.toml")
		gt.Value(t, cli.RunForTest(ctx, &out, "schema", "validate", path)).NotNil()
	})
}

func TestRun_Audit(t *testing.T) {
	var out bytes.Buffer
	gt.NoError(t, cli.RunForTest(context.Background(), &out, "audit", "deal", "product"))
	gt.String(t, out.String()).Contains("0 record(s) checked, no issues")
}

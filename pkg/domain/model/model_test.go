package model_test

import (
	"context"
	"testing"

	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestRecord(t *testing.T) {
	r := model.Record{
		"name":   "Apples",
		"price":  float64(2.5),
		"stock":  12,
		"images": []any{"https://a", "", "https://b"},
		"blank":  "  ",
	}

	gt.Value(t, r.String("price")).Equal("2.5")
	gt.Value(t, r.String("stock")).Equal("12")
	gt.Value(t, r.String("missing")).Equal("")

	n, ok := r.Float("stock")
	gt.Bool(t, ok).True()
	gt.Number(t, n).Equal(12)

	_, ok = r.Float("name")
	gt.Bool(t, ok).False()

	gt.Value(t, r.Strings("images")).Equal([]string{"https://a", "https://b"})
	gt.Value(t, r.Strings("name")).Equal([]string{"Apples"})
	gt.Array(t, r.Strings("blank")).Length(0)
}

func TestRecord_CloneIsDeep(t *testing.T) {
	r := model.Record{"images": []string{"a", "b"}}
	c := r.Clone()
	c["images"].([]string)[0] = "changed"

	gt.Value(t, r.Strings("images")).Equal([]string{"a", "b"})
}

func TestFieldErrors(t *testing.T) {
	errs := model.FieldErrors{}
	gt.Bool(t, errs.Empty()).True()

	errs.Set("title", "Title is required")
	errs.Set("endDate", "End must be after start")
	gt.Value(t, errs.Fields()).Equal([]string{"endDate", "title"})

	c := errs.Clone()
	errs.Clear("title")
	gt.Bool(t, errs.Has("title")).False()
	gt.Bool(t, c.Has("title")).True()
}

func TestImageRef(t *testing.T) {
	gt.Value(t, model.EmptyImage().Kind()).Equal(types.ImageRefEmpty)
	gt.Value(t, model.ImageRef{}.Kind()).Equal(types.ImageRefEmpty)
	gt.Value(t, model.RemoteImage("", "").Kind()).Equal(types.ImageRefEmpty)
	gt.Value(t, model.StagedImage().Kind()).Equal(types.ImageRefEmpty)

	remote := model.RemoteImage("https://cdn/a.png", "")
	gt.Bool(t, remote.IsSet()).True()
	gt.Value(t, remote.URLs()).Equal([]string{"https://cdn/a.png"})
	gt.Array(t, remote.FileIDs()).Length(0)

	staged := model.StagedImage("f1", "f2")
	gt.Value(t, staged.Kind()).Equal(types.ImageRefStaged)
	gt.Value(t, staged.FileIDs()).Equal([]string{"f1", "f2"})
	gt.Array(t, staged.URLs()).Length(0)
}

func TestSchemaRegistry(t *testing.T) {
	reg, err := model.NewSchemaRegistry(config.DefaultSchemas()...)
	gt.NoError(t, err).Required()

	gt.Array(t, reg.Resources()).Length(7)
	gt.Value(t, reg.Resources()[0]).Equal(types.ResourceCategory)

	deal, err := reg.Get(types.ResourceDeal)
	gt.NoError(t, err)
	gt.Value(t, deal.Path).Equal("/deal")

	_, err = reg.Get(types.Resource("unknown"))
	gt.Error(t, err).Is(model.ErrSchemaNotFound)
}

func TestSchemaRegistry_RejectsInvalidSchema(t *testing.T) {
	_, err := model.NewSchemaRegistry(&config.FormSchema{Resource: types.ResourceDeal, Path: "/deal"})
	gt.Error(t, err).Is(config.ErrNoFields)
}

func TestFailureKindOf(t *testing.T) {
	gt.Value(t, model.FailureKindOf(nil)).Equal(types.FailureKindNone)
	gt.Value(t, model.FailureKindOf(goerr.Wrap(model.ErrTimeout, "slow"))).Equal(types.FailureKindTimeout)
	gt.Value(t, model.FailureKindOf(context.DeadlineExceeded)).Equal(types.FailureKindTimeout)
	gt.Value(t, model.FailureKindOf(goerr.Wrap(model.ErrNotFound, "gone"))).Equal(types.FailureKindNotFound)
	gt.Value(t, model.FailureKindOf(goerr.New("boom"))).Equal(types.FailureKindTransport)
}

package preview_test

import (
	"testing"

	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/grocerly/grocery-admin/pkg/service/preview"
	"github.com/m-mizutani/gt"
)

func TestRegistry_IssueLookupRevoke(t *testing.T) {
	reg := preview.New(preview.WithTokenGenerator(func() string { return "tok-1" }))
	f := model.NewStagedFileForTest("f1", "images", "a.png", "image/png", []byte("png"))

	url, err := reg.Issue(f)
	gt.NoError(t, err).Required()
	gt.Value(t, url).Equal("/api/previews/tok-1")

	got, ok := reg.Lookup("tok-1")
	gt.Bool(t, ok).True()
	gt.Value(t, got).Equal(f)

	reg.Revoke("/somewhere/else/tok-1")
	gt.Value(t, reg.Len()).Equal(1)

	reg.Revoke(url)
	gt.Value(t, reg.Len()).Equal(0)
	_, ok = reg.Lookup("tok-1")
	gt.Bool(t, ok).False()
}

func TestRegistry_CustomPrefix(t *testing.T) {
	reg := preview.New(preview.WithPathPrefix("http://localhost:8080/p/"))
	f := model.NewStagedFileForTest("f1", "images", "a.png", "image/png", []byte("png"))

	url, err := reg.Issue(f)
	gt.NoError(t, err).Required()
	gt.String(t, url).Contains("http://localhost:8080/p/")
	reg.Revoke(url)
	gt.Value(t, reg.Len()).Equal(0)
}

func TestRegistry_StagingReleasesEveryToken(t *testing.T) {
	reg := preview.New()
	staging := model.NewStaging(reg)
	field := config.FieldDefinition{
		ID:    "images",
		Label: "Images",
		Type:  types.FieldTypeImage,
		Image: &config.ImageSpec{UploadName: "images", MaxBytes: 1024, MimePrefix: "image/", Multiple: true},
	}

	staged, rejection := staging.Stage(field, []model.FileInput{
		{Name: "a.png", MimeType: "image/png", Data: []byte("a")},
		{Name: "b.png", MimeType: "image/png", Data: []byte("b")},
	})
	gt.Value(t, rejection).Equal("")
	gt.Array(t, staged).Length(2)
	gt.Value(t, reg.Len()).Equal(2)

	staging.Unstage(staged[0].ID())
	gt.Value(t, reg.Len()).Equal(1)

	staging.Reset()
	gt.Value(t, reg.Len()).Equal(0)
}

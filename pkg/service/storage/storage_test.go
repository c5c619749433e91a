package storage_test

import (
	"context"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/grocerly/grocery-admin/pkg/service/storage"
	"github.com/m-mizutani/gt"
)

func TestAssetStore_Naming(t *testing.T) {
	testCases := []struct {
		name       string
		opts       []storage.Option
		fileName   string
		wantObject string
		wantURL    string
	}{
		{
			name:       "no prefix",
			fileName:   "banner.png",
			wantObject: "home-offer/f1/banner.png",
			wantURL:    "https://storage.googleapis.com/assets/home-offer/f1/banner.png",
		},
		{
			name:       "with prefix",
			opts:       []storage.Option{storage.WithObjectPrefix("uploads")},
			fileName:   "banner.png",
			wantObject: "uploads/home-offer/f1/banner.png",
			wantURL:    "https://storage.googleapis.com/assets/uploads/home-offer/f1/banner.png",
		},
		{
			name:       "directory components stripped",
			fileName:   "../../etc/banner.png",
			wantObject: "home-offer/f1/banner.png",
			wantURL:    "https://storage.googleapis.com/assets/home-offer/f1/banner.png",
		},
		{
			name:       "custom public host",
			opts:       []storage.Option{storage.WithPublicBaseURL("https://cdn.example.com")},
			fileName:   "a.gif",
			wantObject: "home-offer/f1/a.gif",
			wantURL:    "https://cdn.example.com/assets/home-offer/f1/a.gif",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := storage.NewForTest("assets", tc.opts...)
			f := model.NewStagedFileForTest("f1", "image", tc.fileName, "image/png", []byte("x"))

			object := s.ObjectName(types.ResourceHomeOffer, f)
			gt.Value(t, object).Equal(tc.wantObject)
			gt.Value(t, s.PublicURL(object)).Equal(tc.wantURL)
		})
	}
}

func TestAssetStore_RequiresBucket(t *testing.T) {
	_, err := storage.New(context.Background(), "")
	gt.Value(t, err).NotNil()
}

func TestAssetStore_Put(t *testing.T) {
	bucket := os.Getenv("TEST_GCS_BUCKET")
	if bucket == "" {
		t.Skip("TEST_GCS_BUCKET is not set")
	}

	ctx := context.Background()
	prefix := "test/" + time.Now().Format("20060102150405.000000000")
	s, err := storage.New(ctx, bucket, storage.WithObjectPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = s.Close() })

	f := model.NewStagedFileForTest("f1", "image", "tiny.gif", "image/gif", []byte("GIF89a"))
	url, err := s.Put(ctx, types.ResourceCategory, f)
	gt.NoError(t, err).Required()
	gt.String(t, url).Contains(prefix + "/category/f1/tiny.gif")

	// Public read is bucket policy dependent; only check the object exists when it is readable
	resp, err := http.Get(url)
	if err == nil {
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			body, err := io.ReadAll(resp.Body)
			gt.NoError(t, err).Required()
			gt.Value(t, string(body)).Equal("GIF89a")
		}
	}
}

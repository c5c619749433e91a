package model

import "github.com/grocerly/grocery-admin/pkg/domain/types"

// ImageRef is what an image field currently points at: nothing, already
// uploaded URLs, or files staged in this form. The variants are exclusive.
type ImageRef struct {
	kind    types.ImageRefKind
	urls    []string
	fileIDs []string
}

func EmptyImage() ImageRef {
	return ImageRef{kind: types.ImageRefEmpty}
}

// RemoteImage references uploaded images. Empty URLs are dropped; with none
// left the result is EmptyImage.
func RemoteImage(urls ...string) ImageRef {
	var kept []string
	for _, u := range urls {
		if u != "" {
			kept = append(kept, u)
		}
	}
	if len(kept) == 0 {
		return EmptyImage()
	}
	return ImageRef{kind: types.ImageRefRemote, urls: kept}
}

// StagedImage references staged files by ID. With no IDs the result is EmptyImage.
func StagedImage(fileIDs ...string) ImageRef {
	if len(fileIDs) == 0 {
		return EmptyImage()
	}
	return ImageRef{kind: types.ImageRefStaged, fileIDs: append([]string(nil), fileIDs...)}
}

func (i ImageRef) Kind() types.ImageRefKind {
	if i.kind == "" {
		return types.ImageRefEmpty
	}
	return i.kind
}

func (i ImageRef) URLs() []string    { return append([]string(nil), i.urls...) }
func (i ImageRef) FileIDs() []string { return append([]string(nil), i.fileIDs...) }

// IsSet reports whether the field holds either representation
func (i ImageRef) IsSet() bool {
	return i.Kind() != types.ImageRefEmpty
}

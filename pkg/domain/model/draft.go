package model

import "github.com/grocerly/grocery-admin/pkg/domain/types"

// Draft is everything a Validator inspects: scalar fields plus image references
type Draft struct {
	Mode   types.FormMode
	Fields Record
	Images map[string]ImageRef
}

// Image returns the reference of an image field, EmptyImage when unset
func (d *Draft) Image(field string) ImageRef {
	if d.Images == nil {
		return EmptyImage()
	}
	ref, ok := d.Images[field]
	if !ok {
		return EmptyImage()
	}
	return ref
}

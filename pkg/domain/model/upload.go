package model

import (
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/m-mizutani/goerr/v2"
)

// AttachUploads returns a copy of r whose image fields point at the uploaded
// staged files. Multi-image fields receive every URL in staging order,
// single-image fields the last one. Fields without files are left as they are.
func AttachUploads(schema *config.FormSchema, r Record, files []*StagedFile, urlOf func(*StagedFile) (string, error)) (Record, error) {
	out := r.Clone()
	uploaded := make(map[string][]string)
	for _, f := range files {
		url, err := urlOf(f)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to upload staged file",
				goerr.V(FieldKey, f.Field()), goerr.V(FileIDKey, f.ID()))
		}
		uploaded[f.Field()] = append(uploaded[f.Field()], url)
	}

	for field, urls := range uploaded {
		fd, ok := schema.Field(field)
		if ok && fd.Image != nil && fd.Image.Multiple {
			out[field] = urls
			continue
		}
		out[field] = urls[len(urls)-1]
	}
	return out, nil
}

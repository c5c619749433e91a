package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
)

type fieldView struct {
	ID               string   `json:"id"`
	Label            string   `json:"label"`
	Type             string   `json:"type"`
	Required         bool     `json:"required,omitempty"`
	RequiredOnCreate bool     `json:"required_on_create,omitempty"`
	Options          []string `json:"options,omitempty"`
	MaxBytes         int64    `json:"max_bytes,omitempty"`
	Accept           string   `json:"accept,omitempty"`
	Multiple         bool     `json:"multiple,omitempty"`
}

type resourceView struct {
	Resource string      `json:"resource"`
	Title    string      `json:"title"`
	Fields   []fieldView `json:"fields"`
}

func newResourceView(schema *config.FormSchema) resourceView {
	v := resourceView{
		Resource: string(schema.Resource),
		Title:    schema.Title,
		Fields:   make([]fieldView, len(schema.Fields)),
	}
	for i, f := range schema.Fields {
		fv := fieldView{
			ID:               f.ID,
			Label:            f.Label,
			Type:             string(f.Type),
			Required:         f.Required,
			RequiredOnCreate: f.RequiredOnCreate,
			Options:          f.Options,
		}
		if f.Image != nil {
			fv.MaxBytes = f.Image.MaxBytes
			fv.Accept = f.Image.MimePrefix
			fv.Multiple = f.Image.Multiple
		}
		v.Fields[i] = fv
	}
	return v
}

func (s *Server) listResources(w http.ResponseWriter, r *http.Request) {
	schemas := s.uc.Schemas().List()
	resp := struct {
		Resources []resourceView `json:"resources"`
	}{Resources: make([]resourceView, len(schemas))}
	for i, schema := range schemas {
		resp.Resources[i] = newResourceView(schema)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	counts, err := s.uc.Summary(r.Context())
	if err != nil {
		handleError(w, r, err, nil)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"counts": counts})
}

func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.uc.List(r.Context(), resourceParam(r))
	if err != nil {
		handleError(w, r, err, nil)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	record, err := s.uc.Get(r.Context(), resourceParam(r), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, nil)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"record": record})
}

func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Delete(r.Context(), resourceParam(r), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func resourceParam(r *http.Request) types.Resource {
	return types.Resource(chi.URLParam(r, "resource"))
}

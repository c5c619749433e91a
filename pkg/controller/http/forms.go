package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"maps"
	"mime/multipart"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/grocerly/grocery-admin/pkg/usecase"
	"github.com/grocerly/grocery-admin/pkg/utils/logging"
	"github.com/grocerly/grocery-admin/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

type imageView struct {
	Kind    string   `json:"kind"`
	URLs    []string `json:"urls,omitempty"`
	FileIDs []string `json:"file_ids,omitempty"`
}

type fileView struct {
	ID         string `json:"id"`
	Field      string `json:"field"`
	Name       string `json:"name"`
	MimeType   string `json:"mime_type"`
	Size       int64  `json:"size"`
	PreviewURL string `json:"preview_url,omitempty"`
}

type formView struct {
	ID       string               `json:"id"`
	Resource string               `json:"resource"`
	Mode     string               `json:"mode"`
	RecordID string               `json:"record_id,omitempty"`
	Status   string               `json:"status"`
	Values   model.Record         `json:"values"`
	Images   map[string]imageView `json:"images"`
	Files    []fileView           `json:"files"`
	Errors   model.FieldErrors    `json:"errors"`
	Notice   *model.Notification  `json:"notice,omitempty"`
}

func newFormView(id string, form *usecase.FormController) *formView {
	v := &formView{
		ID:       id,
		Resource: string(form.Resource()),
		Mode:     string(form.Mode()),
		RecordID: form.RecordID(),
		Status:   form.Status().String(),
		Values:   form.Record(),
		Images:   make(map[string]imageView),
		Files:    []fileView{},
		Errors:   form.Errors(),
		Notice:   form.Notice(),
	}
	for field, ref := range form.Images() {
		v.Images[field] = imageView{
			Kind:    string(ref.Kind()),
			URLs:    ref.URLs(),
			FileIDs: ref.FileIDs(),
		}
	}
	for _, f := range form.Files() {
		v.Files = append(v.Files, fileView{
			ID:         f.ID(),
			Field:      f.Field(),
			Name:       f.Name(),
			MimeType:   f.MimeType(),
			Size:       f.Size(),
			PreviewURL: f.PreviewURL(),
		})
	}
	return v
}

// form resolves the {formID} session of the request
func (s *Server) form(w http.ResponseWriter, r *http.Request) (string, *usecase.FormController, bool) {
	id := chi.URLParam(r, "formID")
	form, err := s.sessions.Get(id)
	if err != nil {
		handleError(w, r, err, nil)
		return "", nil, false
	}
	return id, form, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	defer safe.Close(r.Context(), body)
	data, err := io.ReadAll(body)
	if err != nil {
		return goerr.Wrap(err, "failed to read request body")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return goerr.Wrap(err, "invalid JSON body")
	}
	return nil
}

// writeBodyError answers a request whose body could not be read or parsed
func writeBodyError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, r, http.StatusRequestEntityTooLarge, codeTooLarge, "request body too large")
		return
	}
	writeError(w, r, http.StatusBadRequest, codeBadRequest, msg)
}

func (s *Server) openForm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Resource string `json:"resource"`
		ID       string `json:"id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeBodyError(w, r, err, err.Error())
		return
	}

	resource := types.Resource(req.Resource)
	var (
		form *usecase.FormController
		err  error
	)
	if req.ID == "" {
		form, err = s.uc.NewForm(resource)
	} else {
		form, err = s.uc.OpenForm(r.Context(), resource, req.ID)
	}
	if err != nil {
		handleError(w, r, err, nil)
		return
	}

	id := s.sessions.Add(form)
	writeJSON(w, r, http.StatusCreated, newFormView(id, form))
}

func (s *Server) getForm(w http.ResponseWriter, r *http.Request) {
	id, form, ok := s.form(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, newFormView(id, form))
}

func (s *Server) closeForm(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Close(chi.URLParam(r, "formID")); err != nil {
		handleError(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setFields(w http.ResponseWriter, r *http.Request) {
	id, form, ok := s.form(w, r)
	if !ok {
		return
	}

	var values map[string]any
	if err := decodeJSON(w, r, &values); err != nil {
		writeBodyError(w, r, err, err.Error())
		return
	}
	for _, field := range slices.Sorted(maps.Keys(values)) {
		if err := form.Set(field, values[field]); err != nil {
			handleError(w, r, err, newFormView(id, form))
			return
		}
	}
	writeJSON(w, r, http.StatusOK, newFormView(id, form))
}

func (s *Server) setImages(w http.ResponseWriter, r *http.Request) {
	id, form, ok := s.form(w, r)
	if !ok {
		return
	}

	var req struct {
		URLs []string `json:"urls"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeBodyError(w, r, err, err.Error())
		return
	}
	if err := form.SetRemoteImage(chi.URLParam(r, "field"), req.URLs...); err != nil {
		handleError(w, r, err, newFormView(id, form))
		return
	}
	writeJSON(w, r, http.StatusOK, newFormView(id, form))
}

func (s *Server) clearImage(w http.ResponseWriter, r *http.Request) {
	id, form, ok := s.form(w, r)
	if !ok {
		return
	}
	if err := form.ClearImage(chi.URLParam(r, "field")); err != nil {
		handleError(w, r, err, newFormView(id, form))
		return
	}
	writeJSON(w, r, http.StatusOK, newFormView(id, form))
}

func (s *Server) stageFiles(w http.ResponseWriter, r *http.Request) {
	id, form, ok := s.form(w, r)
	if !ok {
		return
	}

	field := chi.URLParam(r, "field")
	fd, found := form.Schema().Field(field)
	if !found {
		handleError(w, r, goerr.Wrap(model.ErrUnknownField, "cannot stage files", goerr.V(model.FieldKey, field)), newFormView(id, form))
		return
	}
	if fd.Type != types.FieldTypeImage || fd.Image == nil {
		handleError(w, r, goerr.Wrap(model.ErrNotImageField, "cannot stage files", goerr.V(model.FieldKey, field)), newFormView(id, form))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeBodyError(w, r, err, "invalid multipart body")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logging.From(r.Context()).Warn("failed to remove multipart temp files", "error", err.Error())
		}
	}()

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "no file in multipart field \"file\"")
		return
	}

	inputs := make([]model.FileInput, 0, len(headers))
	for _, h := range headers {
		input, err := readUpload(r.Context(), h, fd.Image.MaxBytes)
		if err != nil {
			handleError(w, r, err, nil)
			return
		}
		inputs = append(inputs, input)
	}

	staged, err := form.StageFiles(field, inputs)
	if err != nil {
		handleError(w, r, err, newFormView(id, form))
		return
	}

	view := newFormView(id, form)
	if len(staged) == 0 {
		writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{
			Error: view.Errors.Get(field),
			Code:  codeValidation,
			Form:  view,
		})
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) unstageFile(w http.ResponseWriter, r *http.Request) {
	id, form, ok := s.form(w, r)
	if !ok {
		return
	}
	if err := form.Unstage(chi.URLParam(r, "fileID")); err != nil {
		handleError(w, r, err, newFormView(id, form))
		return
	}
	writeJSON(w, r, http.StatusOK, newFormView(id, form))
}

func (s *Server) submitForm(w http.ResponseWriter, r *http.Request) {
	id, form, ok := s.form(w, r)
	if !ok {
		return
	}

	// A dropped connection must not abort a write already sent to the backend;
	// the form's own timeout bounds the request.
	status, err := form.Submit(context.WithoutCancel(r.Context()))
	view := newFormView(id, form)
	if err != nil {
		handleError(w, r, err, view)
		return
	}
	if status == types.SubmitStatusEditing && !view.Errors.Empty() {
		writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{
			Error: "form has invalid fields",
			Code:  codeValidation,
			Form:  view,
		})
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) resetForm(w http.ResponseWriter, r *http.Request) {
	id, form, ok := s.form(w, r)
	if !ok {
		return
	}
	if err := form.Reset(); err != nil {
		handleError(w, r, err, newFormView(id, form))
		return
	}
	writeJSON(w, r, http.StatusOK, newFormView(id, form))
}

// cancelForm discards the form and ends its session
func (s *Server) cancelForm(w http.ResponseWriter, r *http.Request) {
	id, form, ok := s.form(w, r)
	if !ok {
		return
	}
	if err := form.Cancel(); err != nil {
		handleError(w, r, err, newFormView(id, form))
		return
	}
	if err := s.sessions.Close(id); err != nil {
		handleError(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readUpload reads at most maxBytes+1 bytes of an uploaded file, enough for
// staging to reject an oversized file. A file whose declared size is already
// too large is not read at all.
func readUpload(ctx context.Context, h *multipart.FileHeader, maxBytes int64) (model.FileInput, error) {
	mimeType := h.Header.Get("Content-Type")
	if mimeType == "application/octet-stream" {
		mimeType = ""
	}
	if h.Size > maxBytes {
		return model.FileInput{Name: h.Filename, MimeType: mimeType, Size: h.Size}, nil
	}

	f, err := h.Open()
	if err != nil {
		return model.FileInput{}, goerr.Wrap(err, "failed to open uploaded file", goerr.V("name", h.Filename))
	}
	defer safe.Close(ctx, f)

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return model.FileInput{}, goerr.Wrap(err, "failed to read uploaded file", goerr.V("name", h.Filename))
	}
	return model.FileInput{Name: h.Filename, MimeType: mimeType, Data: data}, nil
}

package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"

	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/grocerly/grocery-admin/pkg/utils/logging"
	"github.com/grocerly/grocery-admin/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// bodyExcerptLimit caps how much of an error response is kept in the error
const bodyExcerptLimit = 512

type resource struct {
	client *Client
	schema *config.FormSchema
}

func (r *resource) collectionURL() string {
	return r.client.baseURL + r.schema.Path
}

func (r *resource) itemURL(id string) string {
	return r.collectionURL() + "/" + url.PathEscape(id)
}

func (r *resource) FetchByID(ctx context.Context, id string) (model.Record, error) {
	var rec model.Record
	if err := r.do(ctx, http.MethodGet, r.itemURL(id), nil, "", &rec); err != nil {
		return nil, goerr.Wrap(err, "failed to fetch record", goerr.V(model.RecordIDKey, id))
	}
	return rec, nil
}

func (r *resource) FetchAll(ctx context.Context) ([]model.Record, error) {
	var recs []model.Record
	if err := r.do(ctx, http.MethodGet, r.collectionURL(), nil, "", &recs); err != nil {
		return nil, goerr.Wrap(err, "failed to fetch records")
	}
	return recs, nil
}

func (r *resource) Create(ctx context.Context, record model.Record, files []*model.StagedFile) (model.Record, error) {
	body, contentType, err := r.encode(record, files)
	if err != nil {
		return nil, err
	}

	var created model.Record
	if err := r.do(ctx, http.MethodPost, r.collectionURL(), body, contentType, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create record")
	}
	return created, nil
}

func (r *resource) Update(ctx context.Context, id string, record model.Record, files []*model.StagedFile) (model.Record, error) {
	body, contentType, err := r.encode(record, files)
	if err != nil {
		return nil, err
	}

	var updated model.Record
	if err := r.do(ctx, http.MethodPut, r.itemURL(id), body, contentType, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update record", goerr.V(model.RecordIDKey, id))
	}
	return updated, nil
}

func (r *resource) Delete(ctx context.Context, id string) error {
	if err := r.do(ctx, http.MethodDelete, r.itemURL(id), nil, "", nil); err != nil {
		return goerr.Wrap(err, "failed to delete record", goerr.V(model.RecordIDKey, id))
	}
	return nil
}

// encode builds a JSON body, or a multipart body when files are staged
func (r *resource) encode(record model.Record, files []*model.StagedFile) ([]byte, string, error) {
	if len(files) == 0 {
		raw, err := json.Marshal(record)
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to encode record", goerr.V(model.ResourceKey, r.schema.Resource))
		}
		return raw, "application/json", nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if ss, ok := record[k].([]string); ok {
			for _, s := range ss {
				if err := mw.WriteField(k, s); err != nil {
					return nil, "", goerr.Wrap(err, "failed to write form field", goerr.V(model.FieldKey, k))
				}
			}
			continue
		}
		if record[k] == nil {
			continue
		}
		if err := mw.WriteField(k, record.String(k)); err != nil {
			return nil, "", goerr.Wrap(err, "failed to write form field", goerr.V(model.FieldKey, k))
		}
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, r.uploadName(f.Field()), f.Name()))
		h.Set("Content-Type", f.MimeType())
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to create file part", goerr.V(model.FileIDKey, f.ID()))
		}
		if _, err := io.Copy(part, f.Open()); err != nil {
			return nil, "", goerr.Wrap(err, "failed to write file part", goerr.V(model.FileIDKey, f.ID()))
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", goerr.Wrap(err, "failed to finish multipart body")
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

func (r *resource) uploadName(field string) string {
	if fd, ok := r.schema.Field(field); ok && fd.Image != nil && fd.Image.UploadName != "" {
		return fd.Image.UploadName
	}
	return field
}

// do performs one request and decodes the response, accepting either a bare
// JSON value or an envelope {"data": ...}
func (r *resource) do(ctx context.Context, method, target string, body []byte, contentType string, out any) error {
	values := []goerr.Option{
		goerr.V(model.ResourceKey, r.schema.Resource),
		goerr.V(model.MethodKey, method),
		goerr.V(model.URLKey, target),
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return goerr.Wrap(model.ErrTransport, "failed to build request", append(values, goerr.V(model.CauseKey, err.Error()))...)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", r.client.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.client.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.client.token)
	}

	resp, err := r.client.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return goerr.Wrap(model.ErrTimeout, "request timed out", append(values, goerr.V(model.CauseKey, err.Error()))...)
		}
		return goerr.Wrap(model.ErrTransport, "request failed", append(values, goerr.V(model.CauseKey, err.Error()))...)
	}
	defer safe.Close(ctx, resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(ctx, err) {
			return goerr.Wrap(model.ErrTimeout, "response timed out", values...)
		}
		return goerr.Wrap(model.ErrTransport, "failed to read response", append(values, goerr.V(model.CauseKey, err.Error()))...)
	}

	logging.From(ctx).Debug("REST call",
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"bytes", len(raw),
	)

	values = append(values, goerr.V(model.StatusCodeKey, resp.StatusCode))
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return goerr.Wrap(model.ErrNotFound, "record not found", values...)
	case resp.StatusCode >= http.StatusBadRequest:
		return goerr.Wrap(model.ErrTransport, "unexpected status", append(values, goerr.V(model.BodyKey, excerpt(raw)))...)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := decode(raw, out); err != nil {
		return goerr.Wrap(model.ErrTransport, "failed to decode response", append(values, goerr.V(model.BodyKey, excerpt(raw)))...)
	}
	return nil
}

// envelopeKeys are the keys an envelope may carry next to "data". An object
// with any other key is a record that happens to have a "data" field.
var envelopeKeys = map[string]bool{
	"data":    true,
	"success": true,
	"status":  true,
	"message": true,
	"error":   true,
	"errors":  true,
	"meta":    true,
	"count":   true,
	"total":   true,
	"page":    true,
	"limit":   true,
}

func decode(raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if data, ok := unwrapEnvelope(trimmed); ok {
		return json.Unmarshal(data, out)
	}
	return json.Unmarshal(trimmed, out)
}

func unwrapEnvelope(raw []byte) (json.RawMessage, bool) {
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	data, ok := obj["data"]
	if !ok || len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, false
	}
	for k := range obj {
		if !envelopeKeys[k] {
			return nil, false
		}
	}
	return data, true
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

func excerpt(raw []byte) string {
	if len(raw) > bodyExcerptLimit {
		return string(raw[:bodyExcerptLimit]) + "..."
	}
	return string(raw)
}

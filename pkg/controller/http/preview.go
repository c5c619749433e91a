package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/grocerly/grocery-admin/pkg/utils/safe"
)

func (s *Server) servePreview(w http.ResponseWriter, r *http.Request) {
	f, ok := s.previews.Lookup(chi.URLParam(r, "token"))
	if !ok {
		writeError(w, r, http.StatusNotFound, codeNotFound, "preview not found")
		return
	}

	w.Header().Set("Content-Type", f.MimeType())
	w.Header().Set("Content-Length", strconv.FormatInt(f.Size(), 10))
	w.Header().Set("Cache-Control", "no-store")
	safe.Copy(r.Context(), w, f.Open())
}

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/grocerly/grocery-admin/pkg/service/preview"
	"github.com/grocerly/grocery-admin/pkg/usecase"
	"github.com/grocerly/grocery-admin/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// maxUploadMemory bounds the in-memory part of a multipart upload
	maxUploadMemory = 32 << 20
	// maxUploadBody bounds a whole multipart upload request
	maxUploadBody = 64 << 20
	// maxJSONBody bounds a JSON request body
	maxJSONBody = 1 << 20
)

type Server struct {
	router   *chi.Mux
	uc       *usecase.UseCases
	sessions *usecase.FormSessions
	previews *preview.Registry
	apiToken string
}

type Options func(*Server)

// WithSessions shares a session store, e.g. with the idle-session sweeper
func WithSessions(sessions *usecase.FormSessions) Options {
	return func(s *Server) {
		s.sessions = sessions
	}
}

// WithPreviews serves staged-file previews issued by registry
func WithPreviews(registry *preview.Registry) Options {
	return func(s *Server) {
		s.previews = registry
	}
}

// WithAPIToken requires "Authorization: Bearer <token>" on every /api route
func WithAPIToken(token string) Options {
	return func(s *Server) {
		s.apiToken = token
	}
}

func New(uc *usecase.UseCases, opts ...Options) (*Server, error) {
	if uc == nil {
		return nil, goerr.New("use cases are required")
	}

	r := chi.NewRouter()
	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessions == nil {
		s.sessions = usecase.NewFormSessions()
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		if s.apiToken != "" {
			r.Use(tokenAuth(s.apiToken))
		}

		r.Get("/resources", s.listResources)
		r.Get("/summary", s.summary)

		r.Route("/records/{resource}", func(r chi.Router) {
			r.Get("/", s.listRecords)
			r.Get("/{id}", s.getRecord)
			r.Delete("/{id}", s.deleteRecord)
		})

		r.Route("/forms", func(r chi.Router) {
			r.Post("/", s.openForm)
			r.Route("/{formID}", func(r chi.Router) {
				r.Get("/", s.getForm)
				r.Delete("/", s.closeForm)
				r.Patch("/fields", s.setFields)
				r.Put("/images/{field}", s.setImages)
				r.Delete("/images/{field}", s.clearImage)
				r.Post("/files/{field}", s.stageFiles)
				r.Delete("/files/{fileID}", s.unstageFile)
				r.Post("/submit", s.submitForm)
				r.Post("/reset", s.resetForm)
				r.Post("/cancel", s.cancelForm)
			})
		})

		if s.previews != nil {
			r.Get("/previews/{token}", s.servePreview)
		}
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

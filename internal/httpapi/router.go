package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ffaudio/internal/filtergraph"
	"ffaudio/internal/httpapi/handlers"
	"ffaudio/internal/httpkit"
	apierrors "ffaudio/internal/pkg/errors"
	"ffaudio/internal/pkg/logger"
	"ffaudio/internal/pkg/middleware"
)

type Deps struct {
	Handlers       handlers.Deps
	AllowedOrigins []string
	Log            *logger.Logger
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	if d.Handlers.Log == nil {
		d.Handlers.Log = log
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Recovery(log))
	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins: d.AllowedOrigins,
		ExposedHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
		MaxAgeSeconds:  600,
	}))

	h := handlers.New(d.Handlers)
	hlog := h.Log()

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.HandleError(w, r, hlog, apierrors.NotFound("route", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpkit.WriteJSON(w, http.StatusMethodNotAllowed, middleware.ErrorBody{
			Error: "method " + r.Method + " not allowed on " + r.URL.Path,
			Code:  "METHOD_NOT_ALLOWED",
		})
	})

	// ---- INFO ----
	r.Get("/", h.Index)
	r.Get("/endpoints", h.Catalogue)
	r.Get("/health", h.Health)

	// ---- AUDIO ----
	for _, ep := range filtergraph.Endpoints() {
		fn := h.Process(ep)
		if ep.Operation == filtergraph.OpProbe {
			fn = h.Probe(ep)
		}
		r.Method(ep.Method, ep.Path, middleware.WrapHandler(hlog, fn))
	}

	return r
}

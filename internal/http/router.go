package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RequestCounter counts served requests by route
type RequestCounter interface {
	CountRequest(method, route string, status int)
}

// NewRouter wires the page, the JSON API, health and metrics endpoints.
// metrics and counter may be nil.
func NewRouter(h *Handler, metrics http.Handler, counter RequestCounter) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger(counter))
	r.Use(middleware.Recoverer)

	r.Get("/", h.IndexHandler)
	r.Post("/", h.AskPageHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/answer", h.AnswerHandler)
		r.Post("/transcribe", h.TranscribeHandler)
		r.Post("/speech", h.SpeechHandler)
	})

	r.Get("/health", HealthHandler)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	return r
}

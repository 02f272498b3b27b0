// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mergington-high/activities/internal/metrics"
	"github.com/mergington-high/activities/internal/model"
	"github.com/mergington-high/activities/internal/repository"
	"github.com/mergington-high/activities/internal/service"
)

// ActivityHandler holds all HTTP handlers for the activity signup API.
type ActivityHandler struct {
	svc *service.ActivityService
	log *slog.Logger
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(svc *service.ActivityService, log *slog.Logger) *ActivityHandler {
	return &ActivityHandler{svc: svc, log: log}
}

// Router assembles the full HTTP surface: middleware stack, API routes,
// health and metrics endpoints, and the static front-end under /static/.
func (h *ActivityHandler) Router(staticDir string) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(AccessLog(h.log))        // structured access log
	r.Use(CORS())                  // permissive CORS for the front-end
	r.Use(Metrics)                 // prometheus request metrics

	// The front-end lives at /static/index.html; the root just points there.
	r.Get("/", h.RootRedirect)
	r.Get("/health", HealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/activities", func(r chi.Router) {
		r.Get("/", h.ListActivities)
		r.Post("/{name}/signup", h.SignUp)
		r.Post("/{name}/unregister", h.Unregister)
	})

	// Static HTML – serve the web/ directory under /static/.
	staticFS := http.FileServer(http.Dir(staticDir))
	r.Handle("/static/*", http.StripPrefix("/static/", staticFS))

	return r
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, model.ErrorResponse{Detail: detail})
}

// activityName extracts the {name} path segment. chi hands back the raw
// segment when the request path was escaped, so percent-decode it here:
// /activities/Chess%20Club/signup must resolve to "Chess Club".
func activityName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// RootRedirect handles GET /
// Sends the browser to the static front-end.
func (h *ActivityHandler) RootRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
}

// ListActivities handles GET /activities
// Returns the catalog as a JSON object keyed by activity name.
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.svc.ListActivities(r.Context())
	if err != nil {
		h.log.Error("list activities", slog.Any("err", err))
		writeDetail(w, http.StatusInternalServerError, "Failed to list activities")
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

// SignUp handles POST /activities/{name}/signup?email=...
func (h *ActivityHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)
	email := r.URL.Query().Get("email")

	if err := h.svc.SignUp(r.Context(), name, email); err != nil {
		switch {
		case errors.Is(err, repository.ErrActivityNotFound):
			writeDetail(w, http.StatusNotFound, "Activity not found")
		case errors.Is(err, repository.ErrAlreadyRegistered):
			writeDetail(w, http.StatusBadRequest, "Student is already signed up for this activity")
		default:
			writeDetail(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{
		Message: fmt.Sprintf("Signed up %s for %s", email, name),
	})
}

// Unregister handles POST /activities/{name}/unregister?email=...
func (h *ActivityHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)
	email := r.URL.Query().Get("email")

	if err := h.svc.Unregister(r.Context(), name, email); err != nil {
		switch {
		case errors.Is(err, repository.ErrActivityNotFound):
			writeDetail(w, http.StatusNotFound, "Activity not found")
		case errors.Is(err, repository.ErrNotRegistered):
			writeDetail(w, http.StatusBadRequest, "Student is not registered for this activity")
		default:
			writeDetail(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{
		Message: fmt.Sprintf("Unregistered %s from %s", email, name),
	})
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

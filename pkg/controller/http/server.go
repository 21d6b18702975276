package http

import (
	"encoding/json"
	"net/http"

	"github.com/diveops/watchkeeper/pkg/domain/model/errs"
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/diveops/watchkeeper/pkg/usecase"
	"github.com/go-chi/chi/v5"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

var _ http.Handler = &Server{}

func New(uc *usecase.UseCases) *Server {
	s := &Server{
		router: chi.NewRouter(),
		uc:     uc,
	}

	s.router.Use(loggingMiddleware)

	s.router.Get("/health", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/escalate", s.handleEscalate)
		r.Get("/notices/{userID}", s.handleListNotices)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleEscalate triggers one escalation cycle. Used by external schedulers
// such as Cloud Scheduler in place of the in-process ticker.
func (s *Server) handleEscalate(w http.ResponseWriter, r *http.Request) {
	summary, err := s.uc.RunOnce(r.Context())
	if err != nil {
		errs.Handle(r.Context(), err)
		http.Error(w, "escalation cycle failed", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// handleListNotices serves the in-app notification feed consumed by the
// dashboard UI.
func (s *Server) handleListNotices(w http.ResponseWriter, r *http.Request) {
	userID := types.UserID(chi.URLParam(r, "userID"))
	if userID == types.EmptyUserID {
		http.Error(w, "user ID is required", http.StatusBadRequest)
		return
	}

	notices, err := s.uc.Repository().ListUserNotices(r.Context(), userID, 100)
	if err != nil {
		errs.Handle(r.Context(), err)
		http.Error(w, "failed to list notices", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"notices": notices,
	})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

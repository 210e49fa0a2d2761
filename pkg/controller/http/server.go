package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
	"github.com/secmon-lab/healguard/pkg/domain/model"
	"github.com/secmon-lab/healguard/pkg/domain/types"
	"github.com/secmon-lab/healguard/pkg/scheduler"
	"github.com/secmon-lab/healguard/pkg/usecase"
	"github.com/secmon-lab/healguard/pkg/utils/errutil"
	"github.com/secmon-lab/healguard/pkg/utils/logging"
	"github.com/secmon-lab/healguard/pkg/utils/safe"
)

// errInvalidRequest tags malformed request bodies for 400 mapping
var errInvalidRequest = errors.New("invalid request")

type Server struct {
	router    *chi.Mux
	uc        *usecase.UseCases
	sched     *scheduler.Scheduler
	directory interfaces.UserDirectory
}

type Options func(*Server)

// WithUserDirectory sets how the signed-in user is resolved.
func WithUserDirectory(directory interfaces.UserDirectory) Options {
	return func(s *Server) {
		s.directory = directory
	}
}

func New(uc *usecase.UseCases, sched *scheduler.Scheduler, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
		sched:  sched,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		safe.Write(r.Context(), w, []byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/medicines", func(r chi.Router) {
			r.Get("/", s.listMedicines)
			r.Post("/", s.addMedicine)
			r.Get("/{medicineID}", s.getMedicine)
			r.Put("/{medicineID}", s.updateMedicine)
			r.Delete("/{medicineID}", s.removeMedicine)
			r.Post("/{medicineID}/hardware", s.sendToHardware)
		})

		r.Get("/user", s.currentUser)
		r.Get("/history", s.recentHistory)
		r.Get("/notifications", s.recentNotifications)
		r.Get("/schedule", s.scheduleEntries)

		r.Route("/hardware", func(r chi.Router) {
			r.Get("/status", s.hardwareStatus)
			r.Post("/status", s.reportHardwareStatus)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// userID resolves the signed-in user for the request. Without a
// directory there is no user and the request is rejected.
func (s *Server) userID(r *http.Request) (types.UserID, error) {
	if s.directory == nil {
		return "", goerr.Wrap(usecase.ErrNoUser, "no user directory configured")
	}
	userID, ok := s.directory.CurrentUserID(r.Context())
	if !ok {
		return "", goerr.Wrap(usecase.ErrNoUser, "no signed-in user")
	}
	return userID, nil
}

// handleError maps domain errors onto HTTP status codes
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, usecase.ErrNoUser):
		errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrMedicineNotFound):
		errutil.HandleHTTP(r.Context(), w, err, http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidMedicineID),
		errors.Is(err, errInvalidRequest),
		errors.Is(err, model.ErrNameRequired),
		errors.Is(err, model.ErrUsageRequired),
		errors.Is(err, model.ErrInvalidDosageForm),
		errors.Is(err, model.ErrInvalidTimeOfDay):
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
	default:
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
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
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

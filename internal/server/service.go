// Package server exposes the HTTP+JSON surface: auth, user profile/income,
// and the analysis upload/poll endpoints.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ajibade-k/budgetwise/internal/auth"
	"github.com/ajibade-k/budgetwise/internal/common"
	"github.com/ajibade-k/budgetwise/internal/core"
	"github.com/ajibade-k/budgetwise/internal/repository"
)

// AnalysisQueue is the background execution context the upload handler
// submits pipeline runs to.
type AnalysisQueue interface {
	Enqueue(ctx context.Context, job core.AnalysisJob) error
}

// Pinger is the health probe; satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	logger   *slog.Logger
	users    repository.UserRepository
	analyses repository.AnalysisRepository
	authSvc  *auth.Service
	queue    AnalysisQueue
	uploads  common.UploadsConfig
	db       Pinger
}

func New(
	logger *slog.Logger,
	users repository.UserRepository,
	analyses repository.AnalysisRepository,
	authSvc *auth.Service,
	queue AnalysisQueue,
	uploads common.UploadsConfig,
	db Pinger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:   logger,
		users:    users,
		analyses: analyses,
		authSvc:  authSvc,
		queue:    queue,
		uploads:  uploads,
		db:       db,
	}
}

// Router wires all routes. Everything under the protected subrouter goes
// through the bearer-token middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/verify-email", s.handleVerifyEmail).Methods(http.MethodPost)

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(s.authSvc.Middleware(s.users))
	protected.HandleFunc("/user/profile", s.handleProfile).Methods(http.MethodGet)
	protected.HandleFunc("/user/income", s.handleUpdateIncome).Methods(http.MethodPost)
	protected.HandleFunc("/analysis/upload", s.handleUpload).Methods(http.MethodPost)
	protected.HandleFunc("/analysis", s.handleListAnalyses).Methods(http.MethodGet)
	protected.HandleFunc("/analysis/{id}", s.handleGetAnalysis).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.logger.Error("health.db_ping_failed", "err", err)
		common.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

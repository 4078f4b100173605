package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/xelth-com/jobintake/internal/buildinfo"
	"github.com/xelth-com/jobintake/internal/config"
	"github.com/xelth-com/jobintake/internal/logger"
	"github.com/xelth-com/jobintake/internal/middleware"
	"github.com/xelth-com/jobintake/internal/render"
	authService "github.com/xelth-com/jobintake/internal/services/auth"
	"github.com/xelth-com/jobintake/internal/services/records"
	"github.com/xelth-com/jobintake/internal/session"
	"golang.org/x/sync/singleflight"
)

// Router wraps the mux router and the services behind it
type Router struct {
	*mux.Router
	cfg      *config.Config
	log      *logger.Logger
	records  *records.Service
	auth     *authService.Service
	renderer *render.Renderer

	// collapses concurrent downloads of the same record into one render
	downloads singleflight.Group
	now       func() time.Time
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(cfg *config.Config, log *logger.Logger, recordSvc *records.Service, authSvc *authService.Service, renderer *render.Renderer, revoker session.Revoker) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		cfg:      cfg,
		log:      log.With("component", "http"),
		records:  recordSvc,
		auth:     authSvc,
		renderer: renderer,
		now:      time.Now,
	}
	requireSession := middleware.AuthMiddleware(cfg.JWTSecret, revoker)

	r.Use(middleware.RequestLogger(r.log))

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	r.HandleFunc("/api/status", r.getStatus).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", r.signUp).Methods("POST")
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/refresh", r.refresh).Methods("POST")
	auth.HandleFunc("/confirm", r.confirmEmail).Methods("POST")
	auth.HandleFunc("/reset-password", r.resetPassword).Methods("POST")
	auth.HandleFunc("/update-password", r.updatePassword).Methods("POST")
	auth.Handle("/logout", requireSession(http.HandlerFunc(r.logout))).Methods("POST")
	auth.Handle("/session", requireSession(http.HandlerFunc(r.getSession))).Methods("GET")

	// Record routes (protected). Fixed paths go before /{id}.
	rec := r.PathPrefix("/api/records").Subrouter()
	rec.Use(requireSession)
	rec.HandleFunc("", r.listRecords).Methods("GET")
	rec.HandleFunc("", r.createRecord).Methods("POST")
	rec.HandleFunc("/pdf", r.formPDF).Methods("POST")
	rec.HandleFunc("/export.xlsx", r.exportRecords).Methods("GET")
	rec.HandleFunc("/{id}", r.getRecord).Methods("GET")
	rec.HandleFunc("/{id}", r.updateRecord).Methods("PUT")
	rec.HandleFunc("/{id}", r.deleteRecord).Methods("DELETE")
	rec.HandleFunc("/{id}/pdf", r.recordPDF).Methods("GET")

	// Static frontend
	if cfg.FrontendDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.FrontendDir)))
	}

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// getStatus returns the current status
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, buildinfo.Current())
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavmarc/meetup-agent/internal/fulfillment"
	"github.com/xavmarc/meetup-agent/internal/i18n"
	"github.com/xavmarc/meetup-agent/internal/metrics"
	"github.com/xavmarc/meetup-agent/internal/version"
)

const (
	// API Path constants
	APIPathWebhook = "/webhook"
	APIPathHealth  = "/health"
	APIPathVersion = "/version"
	APIPathMetrics = "/metrics"
)

// ServerConfig holds the configuration for the HTTP server
type ServerConfig struct {
	BindAddr string
	Intents  *fulfillment.Router
	Locales  *i18n.Bundle
	Logger   logr.Logger
	Registry *prometheus.Registry
}

// HTTPServer is the structure that manages the HTTP server
type HTTPServer struct {
	httpServer *http.Server
	config     ServerConfig
	router     *mux.Router
	setupOnce  sync.Once
}

// NewHTTPServer creates a new HTTP server instance
func NewHTTPServer(config ServerConfig) *HTTPServer {
	return &HTTPServer{
		config: config,
		router: mux.NewRouter(),
	}
}

// Start initializes and starts the HTTP server
func (s *HTTPServer) Start(ctx context.Context) error {
	log := s.config.Logger.WithName("http-server")
	log.Info("Starting HTTP server", "address", s.config.BindAddr)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:    s.config.BindAddr,
		Handler: s.router,
	}

	// Start the server in a separate goroutine
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "HTTP server failed")
		}
	}()

	// Wait for context cancellation to shut down
	go func() {
		<-ctx.Done()
		log.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error(err, "Failed to properly shutdown HTTP server")
		}
	}()

	return nil
}

// Stop stops the HTTP server
func (s *HTTPServer) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Handler exposes the configured router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	s.setupRoutes()
	return s.router
}

// setupRoutes configures all the routes for the server
func (s *HTTPServer) setupRoutes() {
	s.setupOnce.Do(s.registerRoutes)
}

func (s *HTTPServer) registerRoutes() {
	s.router.HandleFunc(APIPathHealth, s.handleHealth).Methods(http.MethodGet)

	s.router.HandleFunc(APIPathVersion, func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, version.Get())
	}).Methods(http.MethodGet)

	if s.config.Registry != nil {
		s.router.Handle(APIPathMetrics, promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	s.router.HandleFunc(APIPathWebhook, s.handleWebhook).Methods(http.MethodPost)

	// Use middleware for common functionality
	s.router.Use(s.loggingMiddleware)
	s.router.Use(contentTypeMiddleware)
	s.router.Use(s.recoverMiddleware)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleWebhook answers one fulfillment request with exactly one rendered
// response. Handler failures still produce the localized problem message with
// HTTP 200, because the assistant platform shows nothing at all on non-200.
func (s *HTTPServer) handleWebhook(w http.ResponseWriter, r *http.Request) {
	log := logr.FromContextOrDiscard(r.Context())

	var req fulfillment.WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.WebhookFailures.WithLabelValues("bad_payload").Inc()
		log.Error(err, "Failed to decode webhook payload")
		respondWithJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid webhook payload"})
		return
	}

	metrics.WebhookRequests.WithLabelValues(string(req.Intent()), sourceLabel(&req)).Inc()

	resp, err := s.config.Intents.Route(r.Context(), &req)
	if err != nil {
		reason := "handler_error"
		if errors.Is(err, fulfillment.ErrUnroutableIntent) {
			reason = "unroutable_intent"
		}
		metrics.WebhookFailures.WithLabelValues(reason).Inc()
		log.Error(err, "Fulfillment fell back to problem response")
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func sourceLabel(req *fulfillment.WebhookRequest) string {
	if source := req.Source(); source != "" {
		return source
	}
	return "unknown"
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload) //nolint:errcheck
}

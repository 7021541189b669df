package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sheeranchan/nifty-backend/internal/apperr"
	"github.com/sheeranchan/nifty-backend/internal/service"
)

type Server struct {
	prices     *service.PriceService
	httpServer *http.Server
	apiKey     string
}

func NewServer(prices *service.PriceService, port int, apiKey, corsOrigin string) *Server {
	s := &Server{prices: prices, apiKey: apiKey}

	mux := http.NewServeMux()

	// Stock price routes
	mux.HandleFunc("GET /nifty/stocks/{symbol}", s.handlePriceData)
	mux.HandleFunc("POST /nifty/stocks/add/", s.handleAddPriceData)

	// Health check (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)

	handler := requestIDMiddleware(loggingMiddleware(s.authMiddleware(corsMiddleware(mux, corsOrigin))))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Bool("auth", s.apiKey != "").Msg("REST API server started")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps a pipeline error to its response; unclassified
// errors become a 500 and get logged with their cause.
func writeServiceError(w http.ResponseWriter, err error) {
	ae := apperr.From(err)
	if ae.Status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeError(w, ae.Status, ae.Message)
}

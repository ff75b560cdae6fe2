package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	formatcatalog "brandcast/contexts/content-publishing/format-catalog"
	publishingservice "brandcast/contexts/content-publishing/publishing-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "brandcast/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	catalog    formatcatalog.Module
	publishing publishingservice.Module
}

func New(
	catalog formatcatalog.Module,
	publishing publishingservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		catalog:    catalog,
		publishing: publishing,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Mux exposes the routing table for in-process test servers.
func (s *Server) Mux() *http.ServeMux {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /v1/formats", s.handleListFormats)
	s.mux.HandleFunc("GET /v1/formats/{platform}/{format}", s.handleGetFormat)

	s.mux.HandleFunc("POST /v1/cards", s.handleCreateCard)
	s.mux.HandleFunc("GET /v1/cards", s.handleListCards)
	s.mux.HandleFunc("GET /v1/cards/{card_id}", s.handleGetCard)
	s.mux.HandleFunc("POST /v1/cards/{card_id}/contracts", s.handleAttachContract)
	s.mux.HandleFunc("GET /v1/cards/{card_id}/contracts", s.handleListContracts)
	s.mux.HandleFunc("POST /v1/cards/{card_id}/contracts/{contract_id}/ready", s.handleMarkContractReady)
	s.mux.HandleFunc("POST /v1/cards/{card_id}/schedule", s.handleScheduleCard)
	s.mux.HandleFunc("POST /v1/cards/{card_id}/unschedule", s.handleUnscheduleCard)
	s.mux.HandleFunc("POST /v1/cards/{card_id}/publish", s.handlePublishCard)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Package http exposes the ledger core as a JSON API. It is the thin
// outer surface: every computation happens in the ledger package.
package http

import (
	"net/http"

	"kazanc/internal/currency"
	"kazanc/internal/ledger"
	"kazanc/internal/log"
)

type Server struct {
	http.Server
	ledger    *ledger.Repository
	formatter *currency.Formatter
	logger    *log.Logger
}

func NewServer(addr string, repo *ledger.Repository, formatter *currency.Formatter, logger *log.Logger) *Server {
	s := &Server{
		ledger:    repo,
		formatter: formatter,
		logger:    logger.WithComponent("http"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/days", s.handleListDays)
	mux.HandleFunc("GET /api/days/{date}", s.handleGetDay)
	mux.HandleFunc("DELETE /api/days/{date}", s.handleDeleteDay)
	mux.HandleFunc("POST /api/days/{date}/entries", s.handleAddEntry)
	mux.HandleFunc("PUT /api/days/{date}/entries/{id}", s.handleEditEntry)
	mux.HandleFunc("PUT /api/days/{date}/meters", s.handleSetMeters)

	s.Addr = addr
	s.Handler = mux
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

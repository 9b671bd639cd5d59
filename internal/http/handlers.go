package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"kazanc/internal/core"
	"kazanc/internal/ledger"
)

// daySummaryResponse adds display-formatted money fields next to the
// raw summary so clients never reimplement currency formatting.
type daySummaryResponse struct {
	core.DaySummary
	Display map[string]string `json:"display"`
}

type listDaysResponse struct {
	Days    []core.HistoryDay   `json:"days"`
	Windows ledger.WindowTotals `json:"windows"`
	// Skipped counts stored records that could not be decoded and
	// were excluded from the listing.
	Skipped int `json:"skipped"`
}

type entryRequest struct {
	Kind   core.EntryKind `json:"kind"`
	Amount string         `json:"amount"`
	Note   string         `json:"note"`
}

type metersRequest struct {
	StartOdometer string `json:"startOdometer"`
	EndOdometer   string `json:"endOdometer"`
	FuelCostPerKm string `json:"fuelCostPerKm"`
}

func (s *Server) handleListDays(w http.ResponseWriter, r *http.Request) {
	days, skipped, err := s.ledger.LoadAllDays(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, listDaysResponse{
		Days:    days,
		Windows: ledger.SumWindows(days, time.Now()),
		Skipped: skipped,
	})
}

func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	date, ok := s.datePath(w, r)
	if !ok {
		return
	}
	summary, err := s.ledger.LoadDay(r.Context(), date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if summary == nil {
		http.Error(w, "no record for date", http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, daySummaryResponse{
		DaySummary: *summary,
		Display: map[string]string{
			"totalEarnings": s.formatter.Format(summary.TotalEarnings),
			"totalExpenses": s.formatter.Format(summary.TotalExpenses),
			"fuelExpense":   s.formatter.Format(summary.FuelExpense),
			"netProfit":     s.formatter.Format(summary.NetProfit),
		},
	})
}

func (s *Server) handleDeleteDay(w http.ResponseWriter, r *http.Request) {
	date, ok := s.datePath(w, r)
	if !ok {
		return
	}
	if err := s.ledger.DeleteDay(r.Context(), date); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	date, ok := s.datePath(w, r)
	if !ok {
		return
	}
	var req entryRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := req.Kind.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	entry, err := s.ledger.AddEntry(r.Context(), date, req.Kind, req.Amount, req.Note)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleEditEntry(w http.ResponseWriter, r *http.Request) {
	date, ok := s.datePath(w, r)
	if !ok {
		return
	}
	var req entryRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := req.Kind.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	err := s.ledger.ApplyEdit(r.Context(), date, r.PathValue("id"), req.Kind, req.Amount, req.Note)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetMeters(w http.ResponseWriter, r *http.Request) {
	date, ok := s.datePath(w, r)
	if !ok {
		return
	}
	var req metersRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	start, err := core.ParseAmount(req.StartOdometer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	end, err := core.ParseAmount(req.EndOdometer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cost, err := core.ParseAmount(req.FuelCostPerKm)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.ledger.SetMeters(r.Context(), date, start, end, cost); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) datePath(w http.ResponseWriter, r *http.Request) (core.Date, bool) {
	date, err := core.ParseDate(r.PathValue("date"))
	if err != nil {
		http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
		return core.Date{}, false
	}
	return date, true
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// writeError maps domain errors onto statuses. Anything unrecognized
// is an infrastructure failure: the store's state is unknown, so the
// client gets a 503 and the details go to the log.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrEntryNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, core.ErrMalformedRecord):
		s.logger.Error("corrupt day record", "path", r.URL.Path, "error", err)
		http.Error(w, "stored record is corrupt", http.StatusInternalServerError)
	default:
		s.logger.Error("store operation failed", "path", r.URL.Path, "error", err)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	}
}

package server

import (
	"encoding/json"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/pladee42/opes-ai/internal/clients/line"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "opes-ai",
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleSystemStatus handles system status requests
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	dbStatus := "ok"
	if err := s.db.Conn().PingContext(r.Context()); err != nil {
		dbStatus = "unreachable"
		s.log.Error().Err(err).Msg("Database ping failed")
	}

	response := map[string]interface{}{
		"status":         "running",
		"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
		"database":       dbStatus,
		"memory": map[string]interface{}{
			"alloc_mb":       m.Alloc / 1024 / 1024,
			"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
			"sys_mb":         m.Sys / 1024 / 1024,
			"num_gc":         m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleWebhook verifies and processes LINE webhook deliveries. The
// platform expects a fast 200; a non-200 causes the whole batch to be
// redelivered, so handler failures are logged rather than surfaced.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}

	signature := r.Header.Get("X-Line-Signature")
	if !line.ValidateSignature(s.channelSecret, body, signature) {
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("Webhook signature rejected")
		s.writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var req line.WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed webhook body")
		return
	}

	for _, event := range req.Events {
		s.dispatcher.Dispatch(r.Context(), event)
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type allocationRequest struct {
	UserID     string             `json:"user_id"`
	Allocation map[string]float64 `json:"allocation"`
}

// handleSetAllocation stores a user's target allocation. Labels are
// canonicalized server side, so "btcusdt" and "BTC" merge into one key.
func (s *Server) handleSetAllocation(w http.ResponseWriter, r *http.Request) {
	var req allocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if req.UserID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if len(req.Allocation) == 0 {
		s.writeError(w, http.StatusBadRequest, "allocation must not be empty")
		return
	}
	for asset, weight := range req.Allocation {
		if weight < 0 {
			s.writeError(w, http.StatusBadRequest, "negative weight for "+asset)
			return
		}
	}

	if err := s.users.SaveAllocation(r.Context(), req.UserID, req.Allocation); err != nil {
		s.log.Error().Err(err).Str("user_id", req.UserID).Msg("Allocation save failed")
		s.writeError(w, http.StatusInternalServerError, "failed to save allocation")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}

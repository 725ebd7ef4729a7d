package api

import (
	"context"
	"net/http"

	"github.com/seantiz/catsapi/internal/deadline"
)

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// handleHealthz probes the store under the request deadline. It bypasses the
// interceptors so a probe never sees the {"data": ...} envelope, and its
// wrapper has no timeout hook so slow probes stay out of the timeout counter.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	_, err := deadline.Call(r.Context(), s.probe, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.cats.Ready(ctx)
	})
	if err != nil {
		s.logger.Warn("health check failed", "error", err)
		s.writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

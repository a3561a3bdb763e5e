package control

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"
)

type healthResponse struct {
	Status      string `json:"status"`
	GoVersion   string `json:"go_version"`
	Uptime      string `json:"uptime"`
	LoopState   string `json:"loop_state"`
	TotalFrames uint64 `json:"total_frames"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, healthResponse{
		Status:      "healthy",
		GoVersion:   runtime.Version(),
		Uptime:      time.Since(s.startTime).Round(time.Second).String(),
		LoopState:   s.loop.State().String(),
		TotalFrames: s.loop.TotalFrames(),
	})
}

// PacingResponse is the body of GET and PUT /pacing.
type PacingResponse struct {
	TargetFPS uint32 `json:"targetFPS"`
	Capped    bool   `json:"capped"`
}

// PacingRequest updates the fields it sets; absent fields are unchanged.
type PacingRequest struct {
	TargetFPS *uint32 `json:"targetFPS"`
	Capped    *bool   `json:"capped"`
}

func (s *Server) pacing() PacingResponse {
	return PacingResponse{TargetFPS: s.loop.GetTargetFPS(), Capped: s.loop.GetCappedFPS()}
}

func (s *Server) handleGetPacing(w http.ResponseWriter, r *http.Request) {
	respondOK(w, RequestIDFromContext(r.Context()), s.pacing())
}

func (s *Server) handlePutPacing(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req PacingRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, "VALIDATION", "invalid JSON: "+err.Error())
		return
	}
	if req.TargetFPS == nil && req.Capped == nil {
		respondError(w, reqID, http.StatusBadRequest, "VALIDATION", "targetFPS or capped is required")
		return
	}

	if req.TargetFPS != nil {
		s.loop.SetTargetFPS(*req.TargetFPS)
	}
	if req.Capped != nil {
		s.loop.SetCappedFPS(*req.Capped)
	}

	p := s.pacing()
	s.logger.Info("pacing changed", "target_fps", p.TargetFPS, "capped", p.Capped, "request_id", reqID)
	respondOK(w, reqID, p)
}

type lifecycleResponse struct {
	Requested string `json:"requested"`
	LoopState string `json:"loop_state"`
}

func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	s.loop.RequestShutDown()
	s.logger.Info("shutdown requested", "request_id", reqID)
	respondAccepted(w, reqID, lifecycleResponse{Requested: "shutdown", LoopState: s.loop.State().String()})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	s.loop.RequestRestart()
	s.logger.Info("restart requested", "request_id", reqID)
	respondAccepted(w, reqID, lifecycleResponse{Requested: "restart", LoopState: s.loop.State().String()})
}

func (s *Server) handleLatestStats(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	if s.stats == nil {
		respondError(w, reqID, http.StatusNotFound, "NOT_FOUND", "stats are not recorded")
		return
	}
	stats, ok := s.stats.Load()
	if !ok {
		respondError(w, reqID, http.StatusNotFound, "NOT_FOUND", "no frame completed yet")
		return
	}
	respondOK(w, reqID, stats)
}

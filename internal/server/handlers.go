package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"

	"github.com/L0g0rhythm/URL-Refiner/internal/config"
	"github.com/L0g0rhythm/URL-Refiner/internal/refiner"
)

// ProcessRequest is the body of POST /api/process. Config fields left out
// take the configured refiner defaults.
type ProcessRequest struct {
	URLs   []string       `json:"urls"`
	Config *RequestConfig `json:"config,omitempty"`
}

// RequestConfig mirrors refiner_config with every field optional.
type RequestConfig struct {
	Mode          *string  `json:"mode,omitempty"`
	Value         *string  `json:"value,omitempty"`
	ExcludeParams []string `json:"exclude_params,omitempty"`
	IgnorePath    *bool    `json:"ignore_path,omitempty"`
}

// ProcessResponse is the body of a successful /api/process reply.
type ProcessResponse struct {
	Status string        `json:"status"`
	Data   []string      `json:"data"`
	Stats  refiner.Stats `json:"stats"`
}

// ErrorResponse is the body of every failed API reply.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.serverConfig.MaxBodyBytes)

	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "request body exceeds the size limit")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "request body is empty")
		default:
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		}
		return
	}

	cfg, err := s.resolveConfig(req.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := refiner.ProcessContext(r.Context(), slices.Values(req.URLs), cfg)
	if err != nil {
		s.logger.Error().Err(err).Int("urls", len(req.URLs)).Msg("Refinement request failed")
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred: "+err.Error())
		return
	}

	s.logger.Info().
		Int("total_input", result.Stats.TotalInput).
		Int("total_output", result.Stats.TotalOutput).
		Int("duplicates_removed", result.Stats.DuplicatesRemoved).
		Msg("Refinement request processed")

	writeJSON(w, http.StatusOK, ProcessResponse{
		Status: statusSuccess,
		Data:   result.Data,
		Stats:  result.Stats,
	})
}

// resolveConfig overlays the request fields on the configured defaults.
func (s *Server) resolveConfig(rc *RequestConfig) (refiner.Config, error) {
	defaults := config.NewDefaultRefinerConfig()
	if s.configs != nil {
		if current := s.configs.GetConfig(); current != nil {
			defaults = current.RefinerConfig
		}
	}

	if rc != nil {
		if rc.Mode != nil {
			defaults.Mode = *rc.Mode
		}
		if rc.Value != nil {
			defaults.Value = *rc.Value
		}
		if rc.ExcludeParams != nil {
			defaults.ExcludeParams = rc.ExcludeParams
		}
		if rc.IgnorePath != nil {
			defaults.IgnorePath = *rc.IgnorePath
		}
	}

	return defaults.ToRefinerConfig()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, ErrorResponse{Status: statusError, Message: message})
}

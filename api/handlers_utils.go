package api

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

// sendJSONResponse is a common wrapper for JSON responses that sets Content-Type,
// Content-Length and ETag headers. A matching If-None-Match yields 304.
func (s *Server) sendJSONResponse(w http.ResponseWriter, r *http.Request, data interface{}) {
	responseBytes, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Error encoding response", http.StatusInternalServerError)
		return
	}

	hash := md5.Sum(responseBytes)
	etag := "\"" + hex.EncodeToString(hash[:]) + "\""
	w.Header().Set("ETag", etag)

	if r != nil && r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseBytes)))

	if _, err := w.Write(responseBytes); err != nil {
		s.log().Warn("Error writing response", zap.Error(err))
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, msg string) {
	responseBytes, _ := json.Marshal(errorResponse{Error: msg})
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseBytes)))
	w.WriteHeader(status)
	if _, err := w.Write(responseBytes); err != nil {
		s.log().Warn("Error writing error response", zap.Error(err))
	}
}

func (s *Server) log() *zap.Logger {
	if s.logger == nil {
		return zap.NewNop()
	}
	return s.logger
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	if s.server == nil {
		return
	}
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.log().Warn("Error shutting down server", zap.Error(err))
	}
}

func getParamLowercase(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	value := r.URL.Query().Get(key)
	if value != "" {
		return strings.ToLower(value)
	}
	return ""
}

// splitParam splits a comma separated parameter, trimming values and
// dropping empty ones. Case is preserved since addresses are case sensitive.
func splitParam(param string) []string {
	if param == "" {
		return []string{}
	}

	parts := strings.Split(param, ",")
	result := []string{}
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func getParamBool(r *http.Request, key string, fallback bool) bool {
	value := getParamLowercase(r, key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

package api

import (
	"net/http"
)

// handleHealth responds with 200 OK and the state of every reporting component
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{}
	if s.health != nil {
		for name, healthy := range s.health.Health() {
			if healthy {
				services[name] = "up"
			} else {
				services[name] = "unknown"
			}
		}
	}

	response := map[string]interface{}{
		"status":   "ok",
		"services": services,
	}
	if s.cache != nil {
		response["cache"] = s.cache.Stats()
	}
	s.sendJSONResponse(w, r, response)
}

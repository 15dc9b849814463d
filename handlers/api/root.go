package api

import "net/http"

const welcomeMessage = "Welcome to YouTube Multi-Language Summarizer API."

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondText(w, http.StatusOK, welcomeMessage)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondText(w, http.StatusOK, "Health check OK")
}

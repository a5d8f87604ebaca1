package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
	"github.com/lumenite-labs/ragcore/internal/core/ports/driving"
)

// maxUploadBytes caps multipart form memory; larger parts spill to disk
const maxUploadBytes = 32 << 20

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Chat endpoints

// handleChatMessage godoc
// @Summary      Send a chat message
// @Description  Dispatches a chat turn to the reasoning engine and streams the answer back as newline-delimited frames.
// @Tags         Chat
// @Accept       json
// @Produce      application/x-ndjson
// @Param        request  body  domain.ChatTurn  true  "Chat turn"
// @Success      200  {string}  string  "NDJSON stream"
// @Failure      400  {object}  ErrorResponse  "Invalid request or unknown reasoning type"
// @Failure      500  {object}  ErrorResponse  "Engine fault"
// @Router       /chat/message [post]
func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var turn domain.ChatTurn
	if err := json.NewDecoder(r.Body).Decode(&turn); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items, err := s.chatService.Dispatch(r.Context(), turn)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	streamNDJSON(w, r, items)
}

// suggestionsRequest carries optional context for suggestion generation
type suggestionsRequest struct {
	History  []domain.HistoryPair `json:"history"`
	Language string               `json:"language"`
}

// handleChatSuggestions godoc
// @Summary      Get follow-up suggestions
// @Description  Produces follow-up questions for a conversation. With no body or empty history, canned samples are returned.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body  suggestionsRequest  false  "Conversation context"
// @Success      200  {object}  map[string][]string
// @Failure      500  {object}  ErrorResponse  "Suggestion pipeline fault"
// @Router       /chat/suggestions [get]
func (s *Server) handleChatSuggestions(w http.ResponseWriter, r *http.Request) {
	var req suggestionsRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.Language == "" {
		req.Language = r.URL.Query().Get("language")
	}

	suggestions, err := s.suggestionService.Suggest(r.Context(), req.History, req.Language)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

// File endpoints

// handleUploadFile godoc
// @Summary      Upload a file for indexing
// @Description  Stages the upload and runs it through the indexing pipeline. Synchronous: the response arrives when indexing finishes.
// @Tags         Files
// @Accept       multipart/form-data
// @Produce      json
// @Param        file     formData  file    true   "File to index"
// @Param        reindex  formData  bool    false  "Replace an existing entry with the same name"
// @Param        user_id  formData  string  false  "Owner identity"
// @Success      200  {object}  domain.IngestResult
// @Failure      400  {object}  ErrorResponse  "Missing file"
// @Failure      409  {object}  ErrorResponse  "File already exists"
// @Failure      500  {object}  ErrorResponse  "Indexing failed"
// @Router       /files/upload [post]
func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	result, err := s.ingestionService.IngestFile(r.Context(), driving.IngestFileRequest{
		Name:    header.Filename,
		Content: file,
		User:    formValue(r, "user_id", "default"),
		Reindex: r.FormValue("reindex") == "true",
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// uploadURLRequest carries a URL ingestion request
type uploadURLRequest struct {
	URL     string `json:"url"`
	Reindex bool   `json:"reindex"`
	User    string `json:"user_id"`
}

// handleUploadURL godoc
// @Summary      Ingest a URL
// @Tags         Files
// @Accept       json
// @Produce      json
// @Param        request  body  uploadURLRequest  true  "URL to ingest"
// @Success      200  {object}  domain.IngestResult
// @Failure      400  {object}  ErrorResponse  "Missing URL"
// @Failure      404  {object}  ErrorResponse  "No artifact index registered"
// @Failure      500  {object}  ErrorResponse  "Indexing failed"
// @Router       /files/upload-url [post]
func (s *Server) handleUploadURL(w http.ResponseWriter, r *http.Request) {
	var req uploadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.User == "" {
		req.User = "default"
	}

	result, err := s.ingestionService.IngestURL(r.Context(), driving.IngestURLRequest{
		URL:     req.URL,
		User:    req.User,
		Reindex: req.Reindex,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleListFiles godoc
// @Summary      List indexed files
// @Tags         Files
// @Produce      json
// @Param        user_id  query  string  false  "Owner identity"
// @Success      200  {array}  domain.IngestResult
// @Router       /files [get]
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user_id")
	if user == "" {
		user = "default"
	}

	results, err := s.ingestionService.List(r.Context(), user)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if results == nil {
		results = []*domain.IngestResult{}
	}

	writeJSON(w, http.StatusOK, results)
}

// handleDeleteFile godoc
// @Summary      Delete an indexed file
// @Description  Removes the relational record only. Derived vector and document entries remain; the engine owns that cleanup.
// @Tags         Files
// @Produce      json
// @Param        id       path   string  true   "Artifact ID"
// @Param        user_id  query  string  false  "Owner identity"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  ErrorResponse  "File not found"
// @Router       /files/{id} [delete]
func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing file id")
		return
	}
	user := r.URL.Query().Get("user_id")
	if user == "" {
		user = "default"
	}

	if err := s.ingestionService.Delete(r.Context(), id, user); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleListIndices godoc
// @Summary      List registered indices
// @Tags         Files
// @Produce      json
// @Success      200  {object}  map[string][]domain.IndexInfo
// @Router       /files/indices [get]
func (s *Server) handleListIndices(w http.ResponseWriter, r *http.Request) {
	indices := s.ingestionService.ListIndices(r.Context())
	writeJSON(w, http.StatusOK, map[string][]domain.IndexInfo{"indices": indices})
}

// Helper functions

// writeDomainError maps domain sentinels to HTTP status codes. Engine
// faults keep the wrapped cause in the message rather than swallowing it.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNoIndex):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func formValue(r *http.Request, key, fallback string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

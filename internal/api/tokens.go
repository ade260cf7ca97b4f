package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vendix/domain-gateway/internal/storage"
)

// TokenResponse represents a service token in API responses
type TokenResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// CreateTokenRequest is the request body for POST /api/tokens
type CreateTokenRequest struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

// CreateTokenResponse echoes the plaintext token once at creation.
type CreateTokenResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// HandleListTokens returns all service tokens
// GET /api/tokens
func (h *Handler) HandleListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.storage.ListServiceTokens(r.Context())
	if err != nil {
		h.logger.Error("failed to list tokens", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	resp := make([]TokenResponse, 0, len(tokens))
	for _, t := range tokens {
		resp = append(resp, TokenResponse{
			ID:        t.ID,
			Name:      t.Name,
			CreatedAt: t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleCreateToken creates a new service token
// POST /api/tokens
// Body: {"name": "...", "token": "..."}
func (h *Handler) HandleCreateToken(w http.ResponseWriter, r *http.Request) {
	var req CreateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}

	if req.Name == "" || req.Token == "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "name and token required")
		return
	}

	id, err := h.storage.CreateServiceToken(r.Context(), req.Name, req.Token)
	if err != nil {
		h.logger.Error("failed to create token", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	h.logger.Info("service token created", "id", id, "name", req.Name)

	// Plaintext token is returned exactly once
	writeJSON(w, http.StatusCreated, CreateTokenResponse{
		ID:    id,
		Name:  req.Name,
		Token: req.Token,
	})
}

// HandleDeleteToken deletes a service token
// DELETE /api/tokens/{id}
func (h *Handler) HandleDeleteToken(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid token ID")
		return
	}

	if err := h.storage.DeleteServiceToken(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "token not found")
			return
		}
		h.logger.Error("failed to delete token", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	h.logger.Info("service token deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// SetLogLevelRequest is the request body for POST /api/loglevel
type SetLogLevelRequest struct {
	Level string `json:"level"`
}

// HandleSetLogLevel changes runtime log level
// POST /api/loglevel
// Body: {"level": "debug|info|warn|error"}
func (h *Handler) HandleSetLogLevel(w http.ResponseWriter, r *http.Request) {
	var req SetLogLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}

	var level slog.Level
	switch req.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid level (must be: debug, info, warn, error)")
		return
	}

	h.logLevel.Set(level)
	h.logger.Info("log level changed", "new_level", req.Level)

	writeJSON(w, http.StatusOK, map[string]string{"level": req.Level})
}

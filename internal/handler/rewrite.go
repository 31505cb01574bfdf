package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bentossell/rewriter-cursor/internal/auth"
	"github.com/bentossell/rewriter-cursor/internal/handler/dto"
	"github.com/bentossell/rewriter-cursor/internal/middleware"
	"github.com/bentossell/rewriter-cursor/internal/model"
	"github.com/bentossell/rewriter-cursor/internal/service"
)

// RewriteService is the part of service.RewriteService the handlers use.
type RewriteService interface {
	Generate(ctx context.Context, userID, text string, mode model.RewriteMode) (*service.GenerateResult, error)
	Save(ctx context.Context, userID, original, rewritten string, mode model.RewriteMode) (*model.Rewrite, error)
	History(ctx context.Context, userID, cursor string, limit int) (*service.HistoryPage, error)
	Get(ctx context.Context, userID, id string) (*model.Rewrite, error)
	Edit(ctx context.Context, userID, id, text string) (*model.Rewrite, error)
}

// RewriteHandler handles rewrite generation and history.
type RewriteHandler struct {
	svc    RewriteService
	logger *slog.Logger
}

// NewRewriteHandler creates a new RewriteHandler.
func NewRewriteHandler(svc RewriteService, logger *slog.Logger) *RewriteHandler {
	return &RewriteHandler{
		svc:    svc,
		logger: logger,
	}
}

// Generate handles POST /api/rewrite.
func (h *RewriteHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req dto.GenerateRewriteRequest
	if tooLarge, err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, tooLarge)
		return
	}
	if req.OriginalText == "" || req.RewriteMode == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if err := middleware.ValidateText(req.OriginalText); err != nil {
		writeError(w, http.StatusBadRequest, "Text is too long")
		return
	}

	result, err := h.svc.Generate(r.Context(), userID, req.OriginalText, model.RewriteMode(req.RewriteMode))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GenerateRewriteResponse{
		RewrittenText: result.Text,
		Timestamp:     dto.FormatTimestamp(result.Timestamp),
	})
}

// Save handles POST /api/rewrites.
func (h *RewriteHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req dto.SaveRewriteRequest
	if tooLarge, err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, tooLarge)
		return
	}
	if middleware.ValidateText(req.OriginalText) != nil || middleware.ValidateText(req.RewrittenText) != nil {
		writeError(w, http.StatusBadRequest, "Text is too long")
		return
	}

	rw, err := h.svc.Save(r.Context(), userID, req.OriginalText, req.RewrittenText, model.RewriteMode(req.RewriteMode))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToRewriteResponse(rw))
}

// List handles GET /api/rewrites.
func (h *RewriteHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if l := query.Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	page, err := h.svc.History(r.Context(), auth.UserIDFromContext(r.Context()), query.Get("cursor"), limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRewriteListResponse(page.Rewrites, page.NextCursor))
}

// Get handles GET /api/rewrites/{id}.
func (h *RewriteHandler) Get(w http.ResponseWriter, r *http.Request) {
	rw, err := h.svc.Get(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRewriteResponse(rw))
}

// Edit handles PATCH /api/rewrites/{id}.
func (h *RewriteHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req dto.EditRewriteRequest
	if tooLarge, err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, tooLarge)
		return
	}
	if err := middleware.ValidateText(req.RewrittenText); err != nil {
		writeError(w, http.StatusBadRequest, "Text is too long")
		return
	}

	rw, err := h.svc.Edit(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), req.RewrittenText)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRewriteResponse(rw))
}

// handleServiceError maps service errors to HTTP responses.
func (h *RewriteHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, service.ErrInvalidMode):
		writeError(w, http.StatusBadRequest, "Invalid rewrite mode")
	case errors.Is(err, service.ErrInvalidCursor):
		writeError(w, http.StatusBadRequest, "Invalid cursor")
	case errors.Is(err, service.ErrRewriteNotFound):
		writeError(w, http.StatusNotFound, "Rewrite not found")
	default:
		h.logger.Error("internal_error",
			"error", err,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

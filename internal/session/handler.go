package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HerbHall/toolhub/internal/catalog"
	"github.com/HerbHall/toolhub/internal/identity"
	"github.com/HerbHall/toolhub/internal/preferences"
	"github.com/HerbHall/toolhub/internal/server"
	"go.uber.org/zap"
)

// SearchRequest is the body of PUT /api/v1/sessions/{id}/search.
type SearchRequest struct {
	Search string `json:"search"`
}

// CategoryRequest is the body of PUT /api/v1/sessions/{id}/category. Either
// Selector is given verbatim, or Category with an optional Subcategory
// ("all" for every child) is combined into a compound selector.
type CategoryRequest struct {
	Selector    string `json:"selector,omitempty"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
}

func (r CategoryRequest) selector() string {
	switch {
	case r.Selector != "":
		return r.Selector
	case r.Category != "" && r.Subcategory != "":
		return catalog.Compound(r.Category, r.Subcategory)
	default:
		return r.Category
	}
}

// SavedResponse is returned by the saved toggle.
type SavedResponse struct {
	ItemID string `json:"item_id"`
	Saved  bool   `json:"saved"`
}

// ViewResponse is the response for GET /api/v1/sessions/{id}/view.
type ViewResponse struct {
	SessionID string `json:"session_id"`
	Selector  string `json:"selector"`
	Search    string `json:"search,omitempty"`
	catalog.ViewModel
}

// Handler serves the session API.
type Handler struct {
	sessions *Manager
	engine   *catalog.Engine
	prefs    *preferences.Service
	profiles preferences.ProfileSource
	logger   *zap.Logger
}

// NewHandler creates a session Handler. profiles may be nil, in which case
// no remote reconciliation is attempted.
func NewHandler(sessions *Manager, engine *catalog.Engine, prefs *preferences.Service,
	profiles preferences.ProfileSource, logger *zap.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		engine:   engine,
		prefs:    prefs,
		profiles: profiles,
		logger:   logger,
	}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/sessions", h.handleCreate)
	mux.HandleFunc("GET /api/v1/sessions/{id}", h.handleGet)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", h.handleDelete)
	mux.HandleFunc("PUT /api/v1/sessions/{id}/search", h.handleSetSearch)
	mux.HandleFunc("PUT /api/v1/sessions/{id}/category", h.handleSetCategory)
	mux.HandleFunc("POST /api/v1/sessions/{id}/saved/{itemID}", h.handleToggleSaved)
	mux.HandleFunc("POST /api/v1/sessions/{id}/expand", h.handleExpand)
	mux.HandleFunc("GET /api/v1/sessions/{id}/view", h.handleView)
}

// handleCreate starts a session for the caller and, for identified callers,
// kicks off remote onboarding reconciliation in the background.
//
//	@Summary		Create session
//	@Tags			sessions
//	@Produce		json
//	@Param			X-User-ID header string false "Caller identity; anonymous when absent"
//	@Success		201 {object} Snapshot
//	@Router			/sessions [post]
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserID(r.Context())
	snap := h.sessions.Create(userID)
	h.prefs.ReconcileAsync(r.Context(), userID, h.profiles)
	server.WriteJSON(w, http.StatusCreated, snap)
}

// handleGet returns the session state.
//
//	@Summary		Get session
//	@Tags			sessions
//	@Produce		json
//	@Param			id path string true "Session ID"
//	@Success		200 {object} Snapshot
//	@Failure		404 {object} server.Problem
//	@Router			/sessions/{id} [get]
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, snap)
}

// handleDelete ends a session.
//
//	@Summary		Delete session
//	@Tags			sessions
//	@Param			id path string true "Session ID"
//	@Success		204
//	@Failure		404 {object} server.Problem
//	@Router			/sessions/{id} [delete]
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetSearch replaces the search text.
//
//	@Summary		Set search text
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			id path string true "Session ID"
//	@Param			request body SearchRequest true "Search text"
//	@Success		200 {object} Snapshot
//	@Failure		400 {object} server.Problem
//	@Failure		404 {object} server.Problem
//	@Router			/sessions/{id}/search [put]
func (h *Handler) handleSetSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid request body", r.URL.Path)
		return
	}
	snap, err := h.sessions.Update(r.PathValue("id"), func(s *State) { s.SetSearch(req.Search) })
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, snap)
}

// handleSetCategory selects a category, subcategory, "all" or "Saved Tools".
//
//	@Summary		Select category
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			id path string true "Session ID"
//	@Param			request body CategoryRequest true "Selector"
//	@Success		200 {object} Snapshot
//	@Failure		400 {object} server.Problem
//	@Failure		404 {object} server.Problem
//	@Router			/sessions/{id}/category [put]
func (h *Handler) handleSetCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid request body", r.URL.Path)
		return
	}
	snap, err := h.sessions.Update(r.PathValue("id"), func(s *State) { s.SetCategory(req.selector()) })
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, snap)
}

// handleToggleSaved flips an item's saved status.
//
//	@Summary		Toggle saved item
//	@Tags			sessions
//	@Produce		json
//	@Param			id path string true "Session ID"
//	@Param			itemID path string true "Catalog item ID"
//	@Success		200 {object} SavedResponse
//	@Failure		404 {object} server.Problem
//	@Router			/sessions/{id}/saved/{itemID} [post]
func (h *Handler) handleToggleSaved(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemID")
	var saved bool
	_, err := h.sessions.Update(r.PathValue("id"), func(s *State) { saved = s.ToggleSaved(itemID) })
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, SavedResponse{ItemID: itemID, Saved: saved})
}

// handleExpand expands the active selector ("show more").
//
//	@Summary		Show more
//	@Tags			sessions
//	@Produce		json
//	@Param			id path string true "Session ID"
//	@Success		200 {object} Snapshot
//	@Failure		404 {object} server.Problem
//	@Router			/sessions/{id}/expand [post]
func (h *Handler) handleExpand(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Update(r.PathValue("id"), func(s *State) { s.Expand() })
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, snap)
}

// handleView computes the view model for the session using its owner's
// current interests.
//
//	@Summary		Session view
//	@Tags			sessions
//	@Produce		json
//	@Param			id path string true "Session ID"
//	@Success		200 {object} ViewResponse
//	@Failure		404 {object} server.Problem
//	@Failure		500 {object} server.Problem
//	@Router			/sessions/{id}/view [get]
func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	userID, q, err := h.sessions.Query(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	prefs := h.prefs.Get(r.Context(), userID)
	vm, err := h.engine.View(q, prefs.Interests)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, ViewResponse{
		SessionID: id,
		Selector:  q.Selector,
		Search:    q.SearchTerm,
		ViewModel: vm,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		server.NotFound(w, "session not found", r.URL.Path)
		return
	}
	h.logger.Error("session request failed", zap.String("path", r.URL.Path), zap.Error(err))
	server.InternalError(w, "session request failed", r.URL.Path)
}

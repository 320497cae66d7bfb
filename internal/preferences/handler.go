package preferences

import (
	"encoding/json"
	"net/http"

	"github.com/HerbHall/toolhub/internal/identity"
	"github.com/HerbHall/toolhub/internal/server"
	"go.uber.org/zap"
)

// PreferencesResponse is returned by every preferences endpoint.
type PreferencesResponse struct {
	UserID      string          `json:"user_id"`
	Preferences UserPreferences `json:"preferences"`
}

// InterestsRequest is the body of PUT /api/v1/preferences/interests.
type InterestsRequest struct {
	Interests []string `json:"interests"`
}

// FrequencyRequest is the body of PUT /api/v1/preferences/frequency.
type FrequencyRequest struct {
	Frequency string `json:"frequency"`
}

// PricingRequest is the body of PUT /api/v1/preferences/pricing.
type PricingRequest struct {
	PricingPreference string `json:"pricing_preference"`
}

// Handler serves the preferences API for the caller's identity.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a preferences Handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/preferences", h.handleGet)
	mux.HandleFunc("PUT /api/v1/preferences/interests", h.handleUpdateInterests)
	mux.HandleFunc("PUT /api/v1/preferences/frequency", h.handleUpdateFrequency)
	mux.HandleFunc("PUT /api/v1/preferences/pricing", h.handleUpdatePricing)
	mux.HandleFunc("POST /api/v1/preferences/questionnaire/complete", h.handleCompleteQuestionnaire)
	mux.HandleFunc("DELETE /api/v1/preferences", h.handleReset)
}

// handleGet returns the caller's preferences.
//
//	@Summary		Get preferences
//	@Tags			preferences
//	@Produce		json
//	@Param			X-User-ID header string false "Caller identity; anonymous when absent"
//	@Success		200 {object} PreferencesResponse
//	@Router			/preferences [get]
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserID(r.Context())
	h.respond(w, userID, h.svc.Get(r.Context(), userID))
}

// handleUpdateInterests replaces the caller's interests.
//
//	@Summary		Update interests
//	@Tags			preferences
//	@Accept			json
//	@Produce		json
//	@Param			request body InterestsRequest true "Interests"
//	@Success		200 {object} PreferencesResponse
//	@Failure		400 {object} server.Problem
//	@Router			/preferences/interests [put]
func (h *Handler) handleUpdateInterests(w http.ResponseWriter, r *http.Request) {
	var req InterestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid request body", r.URL.Path)
		return
	}
	userID := identity.UserID(r.Context())
	h.respond(w, userID, h.svc.UpdateInterests(r.Context(), userID, req.Interests))
}

// handleUpdateFrequency sets the caller's usage frequency.
//
//	@Summary		Update frequency
//	@Tags			preferences
//	@Accept			json
//	@Produce		json
//	@Param			request body FrequencyRequest true "Frequency"
//	@Success		200 {object} PreferencesResponse
//	@Failure		400 {object} server.Problem
//	@Router			/preferences/frequency [put]
func (h *Handler) handleUpdateFrequency(w http.ResponseWriter, r *http.Request) {
	var req FrequencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid request body", r.URL.Path)
		return
	}
	userID := identity.UserID(r.Context())
	h.respond(w, userID, h.svc.UpdateFrequency(r.Context(), userID, req.Frequency))
}

// handleUpdatePricing sets the caller's pricing preference.
//
//	@Summary		Update pricing preference
//	@Tags			preferences
//	@Accept			json
//	@Produce		json
//	@Param			request body PricingRequest true "Pricing preference"
//	@Success		200 {object} PreferencesResponse
//	@Failure		400 {object} server.Problem
//	@Router			/preferences/pricing [put]
func (h *Handler) handleUpdatePricing(w http.ResponseWriter, r *http.Request) {
	var req PricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid request body", r.URL.Path)
		return
	}
	userID := identity.UserID(r.Context())
	h.respond(w, userID, h.svc.UpdatePricingPreference(r.Context(), userID, req.PricingPreference))
}

func (h *Handler) handleCompleteQuestionnaire(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserID(r.Context())
	h.respond(w, userID, h.svc.CompleteQuestionnaire(r.Context(), userID))
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserID(r.Context())
	h.respond(w, userID, h.svc.Reset(r.Context(), userID))
}

func (h *Handler) respond(w http.ResponseWriter, userID string, p UserPreferences) {
	server.WriteJSON(w, http.StatusOK, PreferencesResponse{UserID: userID, Preferences: p})
}

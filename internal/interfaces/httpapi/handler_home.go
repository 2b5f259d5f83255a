package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/prode/internal/usecase"
)

// GetHome serves both members and guests; the principal is optional here.
func (h *Handler) GetHome(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHome")
	defer span.End()

	scope, err := scopeFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.HomeInput{
		GroupID: strings.TrimSpace(r.URL.Query().Get("group_id")),
		Period:  strings.TrimSpace(r.URL.Query().Get("period")),
		Scope:   scope,
	}
	if principal, ok := principalFromContext(ctx); ok {
		input.UserID = principal.UserID
	}

	home, err := h.homeService.Home(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "get home failed", "user_id", input.UserID, "group_id", input.GroupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, home)
}

func (h *Handler) GetLive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLive")
	defer span.End()

	scope, err := scopeFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.homeService.Live(ctx, scope))
}

func (h *Handler) SubmitGuestPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitGuestPrediction")
	defer span.End()

	var req guestPredictionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	scope := req.scope()
	guess, err := h.predictionService.SubmitGuest(ctx, usecase.GuestPredictionInput{
		Scope:     scope,
		FixtureID: req.FixtureID,
		Period:    req.Period,
		Home:      req.Home,
		Away:      req.Away,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit guest prediction failed", "scope", scope.Key(), "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, guestPredictionDTO{
		Scope:     scope.Key(),
		Period:    req.Period,
		FixtureID: req.FixtureID,
		Home:      guess.Home,
		Away:      guess.Away,
	})
}

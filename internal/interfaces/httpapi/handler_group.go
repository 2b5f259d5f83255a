package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/prode/internal/usecase"
)

func (h *Handler) GetGroupStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGroupStandings", groupSpanAttrs(r)...)
	defer span.End()

	userID, err := principalUserID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	groupID := strings.TrimSpace(r.PathValue("groupID"))
	standings, err := h.standingsService.GroupStandings(ctx, userID, groupID)
	if err != nil {
		h.logger.WarnContext(ctx, "get group standings failed", "group_id", groupID, "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, groupStandingsToDTO(standings))
}

func (h *Handler) ListGroupFechas(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGroupFechas", groupSpanAttrs(r)...)
	defer span.End()

	userID, err := principalUserID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	groupID := strings.TrimSpace(r.PathValue("groupID"))
	fechas, err := h.homeService.Fechas(ctx, userID, groupID)
	if err != nil {
		h.logger.WarnContext(ctx, "list group fechas failed", "group_id", groupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fechas)
}

func (h *Handler) ListGroupFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGroupFixtures", groupSpanAttrs(r)...)
	defer span.End()

	userID, err := principalUserID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	groupID := strings.TrimSpace(r.PathValue("groupID"))
	period := strings.TrimSpace(r.URL.Query().Get("period"))
	fixtures, err := h.homeService.Fixtures(ctx, userID, groupID, period)
	if err != nil {
		h.logger.WarnContext(ctx, "list group fixtures failed", "group_id", groupID, "period", period, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtures)
}

func (h *Handler) ListMyPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPredictions", groupSpanAttrs(r)...)
	defer span.End()

	userID, err := principalUserID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	groupID := strings.TrimSpace(r.PathValue("groupID"))
	period := strings.TrimSpace(r.URL.Query().Get("period"))
	items, err := h.predictionService.ListMine(ctx, userID, groupID, period)
	if err != nil {
		h.logger.WarnContext(ctx, "list predictions failed", "group_id", groupID, "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]predictionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, predictionToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPrediction", groupSpanAttrs(r)...)
	defer span.End()

	userID, err := principalUserID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req predictionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	groupID := strings.TrimSpace(r.PathValue("groupID"))
	item, err := h.predictionService.Submit(ctx, usecase.SubmitPredictionInput{
		UserID:    userID,
		GroupID:   groupID,
		FixtureID: req.FixtureID,
		Period:    req.Period,
		Home:      req.Home,
		Away:      req.Away,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit prediction failed", "group_id", groupID, "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(item))
}

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyProfile")
	defer span.End()

	userID, err := principalUserID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	profile, err := h.profileService.Profile(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get profile failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profile)
}

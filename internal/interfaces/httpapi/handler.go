package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/platform/logging"
	"github.com/riskibarqy/prode/internal/platform/metrics"
	"github.com/riskibarqy/prode/internal/platform/session"
	"github.com/riskibarqy/prode/internal/usecase"
)

type Handler struct {
	homeService       *usecase.HomeService
	predictionService *usecase.PredictionService
	standingsService  *usecase.StandingsService
	profileService    *usecase.ProfileService
	sessions          *session.Codec
	cookie            CookieConfig
	metrics           *metrics.Recorder
	logger            *logging.Logger
	validator         *validator.Validate
}

type HandlerDeps struct {
	HomeService       *usecase.HomeService
	PredictionService *usecase.PredictionService
	StandingsService  *usecase.StandingsService
	ProfileService    *usecase.ProfileService
	Sessions          *session.Codec
	Cookie            CookieConfig
	Metrics           *metrics.Recorder
	Logger            *logging.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		homeService:       deps.HomeService,
		predictionService: deps.PredictionService,
		standingsService:  deps.StandingsService,
		profileService:    deps.ProfileService,
		sessions:          deps.Sessions,
		cookie:            deps.Cookie.withDefaults(),
		metrics:           deps.Metrics,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type readyzResponse struct {
	Status string `json:"status"`
	metrics.Report
}

// Readyz reports upstream call and cache counters since start. A provider
// whose every call failed marks the service degraded but still answers 200.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Readyz")
	defer span.End()

	report := h.metrics.Report()
	status := "ok"
	for _, provider := range report.Providers {
		if provider.Calls > 0 && provider.Errors >= provider.Calls {
			status = "degraded"
			break
		}
	}

	writeSuccess(ctx, w, http.StatusOK, readyzResponse{Status: status, Report: report})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeJSONBody(r *http.Request, out any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// scopeFromQuery reads league_id, season and stage. A request without any of
// them yields the zero scope so services fall back to their default.
func scopeFromQuery(r *http.Request) (competition.Scope, error) {
	query := r.URL.Query()
	rawLeague := strings.TrimSpace(query.Get("league_id"))
	season := strings.TrimSpace(query.Get("season"))
	stage := strings.TrimSpace(query.Get("stage"))
	if rawLeague == "" && season == "" && stage == "" {
		return competition.Scope{}, nil
	}

	leagueID, err := strconv.Atoi(rawLeague)
	if err != nil {
		return competition.Scope{}, fmt.Errorf("%w: league_id must be numeric", usecase.ErrInvalidInput)
	}
	scope := competition.NewScope(leagueID, season, stage)
	if err := scope.Validate(); err != nil {
		return competition.Scope{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return scope, nil
}

func principalUserID(ctx context.Context) (string, error) {
	principal, ok := principalFromContext(ctx)
	if !ok || strings.TrimSpace(principal.UserID) == "" {
		return "", fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return principal.UserID, nil
}

package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/prode/internal/usecase"
)

const defaultSessionCookieName = "prode_session"

type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

func (c CookieConfig) withDefaults() CookieConfig {
	if c.Name == "" {
		c.Name = defaultSessionCookieName
	}
	return c
}

// CreateSession wraps the bearer token that authenticated this request in a signed cookie.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSession")
	defer span.End()

	if h.sessions == nil {
		writeError(ctx, w, fmt.Errorf("%w: sessions are not configured", usecase.ErrDependencyUnavailable))
		return
	}

	principal, ok := principalFromContext(ctx)
	token, hasToken := tokenFromContext(ctx)
	if !ok || !hasToken {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	value, err := h.sessions.Encode(principal.UserID, token)
	if err != nil {
		h.logger.ErrorContext(ctx, "encode session failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	expiresAt := time.Now().Add(h.sessions.TTL())
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookie.Domain,
		Expires:  expiresAt,
		MaxAge:   int(h.sessions.TTL().Seconds()),
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeSuccess(ctx, w, http.StatusOK, sessionDTO{UserID: principal.UserID, ExpiresAt: expiresAt.UTC()})
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteSession")
	defer span.End()

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   -1,
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "signed_out"})
}

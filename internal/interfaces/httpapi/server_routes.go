package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, cfg RouterConfig) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /readyz", handler.Readyz)
	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}
	if !cfg.SwaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler, auth *Authenticator) {
	mux.Handle("GET /v1/home", auth.Optional(http.HandlerFunc(handler.GetHome)))
	mux.HandleFunc("GET /v1/live", handler.GetLive)
	mux.HandleFunc("PUT /v1/guest/predictions", handler.SubmitGuestPrediction)
	mux.HandleFunc("DELETE /v1/session", handler.DeleteSession)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, auth *Authenticator) {
	mux.Handle("POST /v1/session", auth.Require(http.HandlerFunc(handler.CreateSession)))
	mux.Handle("GET /v1/me/profile", auth.Require(http.HandlerFunc(handler.GetMyProfile)))

	mux.Handle("GET /v1/groups/{groupID}/standings", auth.Require(http.HandlerFunc(handler.GetGroupStandings)))
	mux.Handle("GET /v1/groups/{groupID}/fechas", auth.Require(http.HandlerFunc(handler.ListGroupFechas)))
	mux.Handle("GET /v1/groups/{groupID}/fixtures", auth.Require(http.HandlerFunc(handler.ListGroupFixtures)))
	mux.Handle("GET /v1/groups/{groupID}/predictions", auth.Require(http.HandlerFunc(handler.ListMyPredictions)))
	mux.Handle("PUT /v1/groups/{groupID}/predictions", auth.Require(http.HandlerFunc(handler.SubmitPrediction)))
}

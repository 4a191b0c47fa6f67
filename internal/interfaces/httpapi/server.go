// Package httpapi exposes the normalized match data over HTTP with a
// Google-style JSON envelope.
package httpapi

import (
	"net/http"

	"github.com/riskibarqy/matchdata/internal/platform/logging"
)

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	internalJobToken string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerPublicRoutes(mux, handler)
	registerInternalJobRoutes(mux, handler, internalJobToken)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/competitions", handler.ListCompetitions)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/seasons/{seasonID}/games", handler.ListGames)
	mux.HandleFunc("GET /v1/games/{gameID}/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/games/{gameID}/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/games/{gameID}/events", handler.ListEvents)
	mux.HandleFunc("GET /v1/games/{gameID}/minutes", handler.ListMinutes)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/ingest-season",
		RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunIngestSeason)))
	mux.Handle("POST /v1/internal/jobs/sync-competitions",
		RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncCompetitions)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/matchdata/internal/platform/cache"
	"github.com/riskibarqy/matchdata/internal/platform/logging"
	"github.com/riskibarqy/matchdata/internal/usecase"
)

type Handler struct {
	catalogService *usecase.CatalogService
	lineupService  *usecase.LineupService
	eventService   *usecase.EventService
	ingestService  *usecase.IngestService
	cache          *cache.Store
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	catalogService *usecase.CatalogService,
	lineupService *usecase.LineupService,
	eventService *usecase.EventService,
	ingestService *usecase.IngestService,
	store *cache.Store,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		catalogService: catalogService,
		lineupService:  lineupService,
		eventService:   eventService,
		ingestService:  ingestService,
		cache:          store,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitions")
	defer span.End()

	value, err := h.cached(ctx, "competitions", func(ctx context.Context) (any, error) {
		return h.catalogService.Competitions(ctx)
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list competitions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, value)
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	competitionID, err := parseInt64Path(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	seasonID, err := parseInt64Path(r, "seasonID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	key := fmt.Sprintf("games:%d:%d", competitionID, seasonID)
	value, err := h.cached(ctx, key, func(ctx context.Context) (any, error) {
		return h.catalogService.Games(ctx, competitionID, seasonID)
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed",
			"competition_id", competitionID, "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, value)
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	gameID, err := parseInt64Path(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	key := fmt.Sprintf("teams:%d", gameID)
	value, err := h.cached(ctx, key, func(ctx context.Context) (any, error) {
		return h.lineupService.Teams(ctx, gameID)
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, value)
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	gameID, err := parseInt64Path(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	key := fmt.Sprintf("players:%d", gameID)
	value, err := h.cached(ctx, key, func(ctx context.Context) (any, error) {
		return h.lineupService.Players(ctx, gameID)
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, value)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEvents")
	defer span.End()

	gameID, err := parseInt64Path(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	with360 := parseBoolQuery(r, "with360")

	key := fmt.Sprintf("events:%d:%t", gameID, with360)
	value, err := h.cached(ctx, key, func(ctx context.Context) (any, error) {
		return h.eventService.Events(ctx, gameID, with360)
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list events failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, value)
}

func (h *Handler) ListMinutes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMinutes")
	defer span.End()

	gameID, err := parseInt64Path(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	key := fmt.Sprintf("minutes:%d", gameID)
	value, err := h.cached(ctx, key, func(ctx context.Context) (any, error) {
		return h.lineupService.GameTimes(ctx, gameID)
	})
	if err != nil {
		h.logger.WarnContext(ctx, "derive minutes failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, value)
}

type ingestSeasonRequest struct {
	CompetitionID int64 `json:"competition_id" validate:"required,gt=0"`
	SeasonID      int64 `json:"season_id" validate:"required,gt=0"`
	MaxWorkers    int   `json:"max_workers" validate:"gte=0,lte=16"`
	With360       bool  `json:"with_360"`
	DryRun        bool  `json:"dry_run"`
}

func (h *Handler) RunIngestSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunIngestSeason")
	defer span.End()

	if h.ingestService == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingest jobs require a database", usecase.ErrDependencyUnavailable))
		return
	}

	var payload ingestSeasonRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	started := time.Now()
	result, err := h.ingestService.IngestSeason(ctx, usecase.IngestInput{
		CompetitionID: payload.CompetitionID,
		SeasonID:      payload.SeasonID,
		MaxWorkers:    payload.MaxWorkers,
		With360:       payload.With360,
		DryRun:        payload.DryRun,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "season ingest failed",
			"competition_id", payload.CompetitionID,
			"season_id", payload.SeasonID,
			"error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "season ingest finished",
		"competition_id", payload.CompetitionID,
		"season_id", payload.SeasonID,
		"games", result.GameCount,
		"failed", result.FailedCount,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSyncCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncCompetitions")
	defer span.End()

	if h.ingestService == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingest jobs require a database", usecase.ErrDependencyUnavailable))
		return
	}

	count, err := h.ingestService.SyncCompetitions(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "competition sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"competitions": count})
}

// cached routes a load through the TTL store when one is configured; without
// a store every request goes straight to the loader.
func (h *Handler) cached(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if h.cache == nil {
		return loader(ctx)
	}
	return h.cache.GetOrLoad(ctx, key, loader)
}

func parseInt64Path(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: path parameter %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

func parseBoolQuery(r *http.Request, name string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(name)))
	if err != nil {
		return false
	}
	return value
}

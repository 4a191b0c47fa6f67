package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/matchdata/internal/domain/competition"
	"github.com/riskibarqy/matchdata/internal/domain/event"
	"github.com/riskibarqy/matchdata/internal/domain/game"
	"github.com/riskibarqy/matchdata/internal/domain/playergame"
	"github.com/riskibarqy/matchdata/internal/platform/logging"
)

const (
	defaultIngestWorkers = 4
	maxIngestWorkers     = 16

	ingestStatusSuccess = "success"
	ingestStatusFailed  = "failed"
)

type IngestInput struct {
	CompetitionID int64
	SeasonID      int64
	MaxWorkers    int
	With360       bool
	// DryRun normalizes everything but skips repository writes.
	DryRun bool
}

type IngestResult struct {
	GameCount    int                `json:"game_count"`
	SuccessCount int                `json:"success_count"`
	FailedCount  int                `json:"failed_count"`
	WorkerCount  int                `json:"worker_count"`
	Games        []IngestGameResult `json:"games"`
}

type IngestGameResult struct {
	GameID     int64  `json:"game_id"`
	Status     string `json:"status"`
	Events     int    `json:"events"`
	Players    int    `json:"players"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// IngestService normalizes a whole season and persists the resulting tables.
// Matches are independent of each other, so per-match work fans out over a
// bounded worker pool.
type IngestService struct {
	catalog *CatalogService
	lineups *LineupService
	events  *EventService

	competitionRepo competition.Repository
	gameRepo        game.Repository
	playerGameRepo  playergame.Repository
	eventRepo       event.Repository

	logger *logging.Logger
}

func NewIngestService(
	catalog *CatalogService,
	lineups *LineupService,
	events *EventService,
	competitionRepo competition.Repository,
	gameRepo game.Repository,
	playerGameRepo playergame.Repository,
	eventRepo event.Repository,
	logger *logging.Logger,
) *IngestService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestService{
		catalog:         catalog,
		lineups:         lineups,
		events:          events,
		competitionRepo: competitionRepo,
		gameRepo:        gameRepo,
		playerGameRepo:  playerGameRepo,
		eventRepo:       eventRepo,
		logger:          logger,
	}
}

// IngestSeason loads the match list for one competition/season, then
// normalizes and stores lineups, player minutes, and events for every match.
func (s *IngestService) IngestSeason(ctx context.Context, input IngestInput) (IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestService.IngestSeason")
	defer span.End()

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = defaultIngestWorkers
	}
	if workerCount > maxIngestWorkers {
		workerCount = maxIngestWorkers
	}

	games, err := s.catalog.Games(ctx, input.CompetitionID, input.SeasonID)
	if err != nil {
		return IngestResult{}, err
	}

	if !input.DryRun {
		if _, err := s.gameRepo.UpsertBatch(ctx, games); err != nil {
			return IngestResult{}, fmt.Errorf("store games: %w", err)
		}
	}

	result := IngestResult{
		GameCount:   len(games),
		WorkerCount: workerCount,
	}
	if len(games) == 0 {
		result.Games = []IngestGameResult{}
		return result, nil
	}

	rows := make(chan IngestGameResult, len(games))
	var successCount, failedCount atomic.Int32

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return IngestResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for _, g := range games {
		gameID := g.GameID
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := s.ingestGame(ctx, gameID, input.With360, input.DryRun)
			row.DurationMs = time.Since(start).Milliseconds()

			if row.Status == ingestStatusSuccess {
				successCount.Add(1)
			} else {
				failedCount.Add(1)
			}
			rows <- row
		}); err != nil {
			workers.Done()
			return IngestResult{}, fmt.Errorf("submit match to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Games = append(result.Games, row)
	}
	sort.SliceStable(result.Games, func(i, j int) bool {
		return result.Games[i].GameID < result.Games[j].GameID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

func (s *IngestService) ingestGame(ctx context.Context, gameID int64, with360, dryRun bool) IngestGameResult {
	row := IngestGameResult{GameID: gameID, Status: ingestStatusFailed}

	events, err := s.events.Events(ctx, gameID, with360)
	if err != nil {
		row.Message = err.Error()
		return row
	}

	players, err := s.lineups.Players(ctx, gameID)
	if err != nil {
		row.Message = err.Error()
		return row
	}

	if !dryRun {
		if _, err := s.eventRepo.ReplaceForGame(ctx, gameID, events); err != nil {
			row.Message = fmt.Sprintf("store events: %v", err)
			return row
		}
		if _, err := s.playerGameRepo.UpsertBatch(ctx, players); err != nil {
			row.Message = fmt.Sprintf("store players: %v", err)
			return row
		}
	}

	s.logger.InfoContext(ctx, "match ingested",
		"game_id", gameID,
		"events", len(events),
		"players", len(players),
		"dry_run", dryRun,
	)

	row.Status = ingestStatusSuccess
	row.Events = len(events)
	row.Players = len(players)
	return row
}

// SyncCompetitions refreshes the stored competition catalog.
func (s *IngestService) SyncCompetitions(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestService.SyncCompetitions")
	defer span.End()

	rows, err := s.catalog.Competitions(ctx)
	if err != nil {
		return 0, err
	}
	count, err := s.competitionRepo.UpsertBatch(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("store competitions: %w", err)
	}
	return count, nil
}

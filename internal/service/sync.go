package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lotto_fetcher/internal/domain"
)

type SyncService struct {
	source    Source
	draws     DrawStore
	publisher Publisher
	logger    *slog.Logger
}

func NewSyncService(
	source Source,
	draws DrawStore,
	publisher Publisher,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		source:    source,
		draws:     draws,
		publisher: publisher,
		logger:    logger.With("source", source.ID()),
	}
}

// Sync ingests every draw after the stored cursor until the source reports
// that the next id has not been drawn yet. Any fetch or store error aborts the
// run; draws written before it stay in place.
func (s *SyncService) Sync(ctx context.Context) (*domain.SyncStats, error) {
	startTime := time.Now()

	cursor, err := s.draws.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cursor: %w", err)
	}

	stats := &domain.SyncStats{
		SourceID: s.source.ID(),
		StartID:  cursor.FirstCandidate(),
	}

	s.logger.Info("starting sync",
		"source_name", s.source.Name(),
		"max_id", cursor.MaxID,
		"start_id", stats.StartID,
	)

	for id := stats.StartID; ; id++ {
		draw, err := s.fetchDraw(ctx, id)
		if err != nil {
			return stats, err
		}
		if draw == nil {
			s.logger.Debug("draw not published yet", "draw_id", id)
			break
		}

		if err := s.draws.Put(ctx, draw); err != nil {
			return stats, fmt.Errorf("put draw %d: %w", id, err)
		}

		isNew := draw.ID > cursor.MaxID
		if isNew {
			stats.New++
		} else {
			stats.Replaced++
		}
		stats.Written++
		stats.LastID = draw.ID

		s.logger.Info("stored draw",
			"draw_id", draw.ID,
			"draw_date", draw.DrawDate,
			"ranks", len(draw.RankAmount),
		)

		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, draw, isNew); err != nil {
				s.logger.Warn("failed to publish draw", "draw_id", draw.ID, "error", err)
				stats.PublishErrors++
			} else {
				stats.Published++
			}
		}
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("sync completed",
		"written", stats.Written,
		"new", stats.New,
		"replaced", stats.Replaced,
		"last_id", stats.LastID,
		"published", stats.Published,
		"publish_errors", stats.PublishErrors,
		"duration", stats.Duration,
	)

	return stats, nil
}

// fetchDraw returns nil without error when the source has no data for id.
func (s *SyncService) fetchDraw(ctx context.Context, id int) (*domain.Draw, error) {
	result, err := s.source.FetchSummary(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch summary %d: %w", id, err)
	}

	var summary domain.DrawSummary
	switch r := result.(type) {
	case domain.NotDrawn:
		return nil, nil
	case domain.DrawSummary:
		summary = r
	default:
		return nil, fmt.Errorf("fetch summary %d: unexpected result %T", id, result)
	}

	ranks, err := s.source.FetchRanks(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch ranks %d: %w", id, err)
	}

	return summary.Draw(ranks), nil
}

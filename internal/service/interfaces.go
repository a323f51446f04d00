package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"lotto_fetcher/internal/domain"
)

type DrawStore interface {
	Latest(ctx context.Context) (domain.Cursor, error)
	Put(ctx context.Context, draw *domain.Draw) error
}

type Source interface {
	ID() string
	Name() string
	FetchSummary(ctx context.Context, id int) (domain.SummaryResult, error)
	FetchRanks(ctx context.Context, id int) ([]domain.RankRecord, error)
}

type Publisher interface {
	Publish(ctx context.Context, draw *domain.Draw, isNew bool) error
	Close() error
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"lotto_fetcher/internal/domain"
)

type DrawStore struct {
	db    *sqlx.DB
	tx    *TransactionManager
	ranks *RankStore
}

func NewDrawStore(db *sqlx.DB) *DrawStore {
	return &DrawStore{
		db:    db,
		tx:    NewTransactionManager(db),
		ranks: NewRankStore(db),
	}
}

type drawRow struct {
	ID                    int           `db:"id"`
	DrawDate              string        `db:"draw_date"`
	WinNumbers            pq.Int64Array `db:"win_numbers"`
	TotalSellAmount       int64         `db:"total_sell_amount"`
	TotalFirstPrizeAmount int64         `db:"total_first_prize_amount"`
	EachFirstPrizeAmount  int64         `db:"each_first_prize_amount"`
	FirstPrizeWinnerCount int64         `db:"first_prize_winner_count"`
}

func (s *DrawStore) Latest(ctx context.Context) (domain.Cursor, error) {
	var row struct {
		ID              int   `db:"id"`
		TotalSellAmount int64 `db:"total_sell_amount"`
	}

	err := s.db.GetContext(ctx, &row,
		"SELECT id, total_sell_amount FROM draws ORDER BY id DESC LIMIT 1",
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cursor{}, nil
	}
	if err != nil {
		return domain.Cursor{}, err
	}

	return domain.Cursor{MaxID: row.ID, TotalSellAmount: row.TotalSellAmount}, nil
}

// Put replaces the draw row and its ranks in one transaction.
func (s *DrawStore) Put(ctx context.Context, draw *domain.Draw) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		query := `
		INSERT INTO draws (
			id, draw_date, win_numbers, total_sell_amount,
			total_first_prize_amount, each_first_prize_amount, first_prize_winner_count
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		ON CONFLICT (id) DO UPDATE SET
			draw_date = EXCLUDED.draw_date,
			win_numbers = EXCLUDED.win_numbers,
			total_sell_amount = EXCLUDED.total_sell_amount,
			total_first_prize_amount = EXCLUDED.total_first_prize_amount,
			each_first_prize_amount = EXCLUDED.each_first_prize_amount,
			first_prize_winner_count = EXCLUDED.first_prize_winner_count,
			updated_at = NOW()`

		_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
			draw.ID,
			draw.DrawDate,
			pq.Array(draw.WinNumbers[:]),
			draw.TotalSellAmount,
			draw.TotalFirstPrizeAmount,
			draw.EachFirstPrizeAmount,
			draw.FirstPrizeWinnerCount,
		)
		if err != nil {
			return fmt.Errorf("upsert draw: %w", err)
		}

		if err := s.ranks.Replace(ctx, draw.ID, draw.RankAmount); err != nil {
			return fmt.Errorf("replace ranks: %w", err)
		}

		return nil
	})
}

// Get returns sql.ErrNoRows when the draw is not stored.
func (s *DrawStore) Get(ctx context.Context, id int) (*domain.Draw, error) {
	var row drawRow
	query := `
		SELECT id, draw_date, win_numbers, total_sell_amount,
			total_first_prize_amount, each_first_prize_amount, first_prize_winner_count
		FROM draws
		WHERE id = $1`

	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}

	ranks, err := s.ranks.ByDrawID(ctx, id)
	if err != nil {
		return nil, err
	}

	draw := &domain.Draw{
		ID:                    row.ID,
		DrawDate:              row.DrawDate,
		TotalSellAmount:       row.TotalSellAmount,
		TotalFirstPrizeAmount: row.TotalFirstPrizeAmount,
		EachFirstPrizeAmount:  row.EachFirstPrizeAmount,
		FirstPrizeWinnerCount: row.FirstPrizeWinnerCount,
		RankAmount:            ranks,
	}
	for i := 0; i < len(draw.WinNumbers) && i < len(row.WinNumbers); i++ {
		draw.WinNumbers[i] = int(row.WinNumbers[i])
	}

	return draw, nil
}

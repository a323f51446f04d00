package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"lotto_fetcher/internal/domain"
)

type RankStore struct {
	db *sqlx.DB
}

func NewRankStore(db *sqlx.DB) *RankStore {
	return &RankStore{db: db}
}

// Replace drops the stored ranks of a draw and inserts the given ones.
func (s *RankStore) Replace(ctx context.Context, drawID int, ranks []domain.RankRecord) error {
	exec := GetExecutor(ctx, s.db)

	_, err := exec.ExecContext(ctx,
		"DELETE FROM draw_ranks WHERE draw_id = $1",
		drawID,
	)
	if err != nil {
		return err
	}

	if len(ranks) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO draw_ranks (draw_id, rank, tot_amount, each_amount, rank_count) VALUES ")
	valueArgs := make([]interface{}, 0, len(ranks)*4+1)
	valueArgs = append(valueArgs, drawID)

	for i, r := range ranks {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i*4 + 2
		sb.WriteString("($1, $")
		sb.WriteString(strconv.Itoa(base))
		sb.WriteString(", $")
		sb.WriteString(strconv.Itoa(base + 1))
		sb.WriteString(", $")
		sb.WriteString(strconv.Itoa(base + 2))
		sb.WriteString(", $")
		sb.WriteString(strconv.Itoa(base + 3))
		sb.WriteString(")")
		valueArgs = append(valueArgs, r.Rank, r.TotAmount, r.EachAmount, r.RankCount)
	}

	_, err = exec.ExecContext(ctx, sb.String(), valueArgs...)
	return err
}

func (s *RankStore) ByDrawID(ctx context.Context, drawID int) ([]domain.RankRecord, error) {
	query := `
		SELECT rank, tot_amount, each_amount, rank_count
		FROM draw_ranks
		WHERE draw_id = $1
		ORDER BY rank`

	ranks := []domain.RankRecord{}
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &ranks, query, drawID)
	return ranks, err
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursor_FirstCandidate(t *testing.T) {
	tests := []struct {
		name   string
		cursor Cursor
		want   int
	}{
		{"empty store", Cursor{}, 1},
		{"complete latest draw", Cursor{MaxID: 1100, TotalSellAmount: 111_000_000_000}, 1101},
		{"stub latest draw is retried", Cursor{MaxID: 1100}, 1100},
		{"single stub draw", Cursor{MaxID: 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cursor.FirstCandidate())
		})
	}
}

func TestDrawSummary_Draw(t *testing.T) {
	summary := DrawSummary{
		ID:                    1,
		DrawDate:              "2002-12-07",
		Numbers:               [6]int{10, 23, 29, 33, 37, 40},
		BonusNumber:           16,
		TotalSellAmount:       3681782000,
		TotalFirstPrizeAmount: 0,
		EachFirstPrizeAmount:  0,
		FirstPrizeWinnerCount: 0,
	}

	draw := summary.Draw(nil)

	assert.Equal(t, 1, draw.ID)
	assert.Equal(t, "2002-12-07", draw.DrawDate)
	assert.Equal(t, [7]int{10, 23, 29, 33, 37, 40, 16}, draw.WinNumbers)
	assert.Equal(t, int64(3681782000), draw.TotalSellAmount)
	assert.NotNil(t, draw.RankAmount)
	assert.Empty(t, draw.RankAmount)
}

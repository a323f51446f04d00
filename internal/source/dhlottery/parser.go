package dhlottery

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"lotto_fetcher/internal/domain"
)

const rankRowSelector = ".tbl_data tbody tr"

// Cell positions within a rank row. Cell 0 holds the rank label and is not
// read. The order is taken from the live page and is not checked against the
// header row.
const (
	cellTotAmount  = 1
	cellRankCount  = 2
	cellEachAmount = 3
)

// ParseRanks extracts the per-rank breakdown from a byWin results page.
// Rank numbers follow row order. Missing or non-numeric cells read as 0.
func ParseRanks(r io.Reader) ([]domain.RankRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	ranks := []domain.RankRecord{}
	doc.Find(rankRowSelector).Each(func(i int, tr *goquery.Selection) {
		record := domain.RankRecord{Rank: i + 1}
		tr.Find("td").Each(func(j int, td *goquery.Selection) {
			switch j {
			case cellTotAmount:
				record.TotAmount = digits(td.Text())
			case cellRankCount:
				record.RankCount = digits(td.Text())
			case cellEachAmount:
				record.EachAmount = digits(td.Text())
			}
		})
		ranks = append(ranks, record)
	})

	return ranks, nil
}

// digits drops every non-digit rune and parses what remains.
func digits(s string) int64 {
	var sb strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			sb.WriteRune(c)
		}
	}
	if sb.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(sb.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

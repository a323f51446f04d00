package dhlottery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"lotto_fetcher/internal/domain"
)

const (
	SourceID   = "dhlottery"
	SourceName = "Donghaeng Lottery Lotto 6/45"

	DefaultSummaryURL = "https://www.dhlottery.co.kr/common.do"
	DefaultRanksURL   = "https://dhlottery.co.kr/gameResult.do"

	methodSummary = "getLottoNumber"
	methodRanks   = "byWin"
)

// Config holds dhlottery source configuration.
type Config struct {
	SummaryURL string
	RanksURL   string
	Timeout    time.Duration
	UserAgent  string
}

// Source fetches draw summaries and rank breakdowns from dhlottery.co.kr.
type Source struct {
	client     *resty.Client
	summaryURL string
	ranksURL   string
	logger     *slog.Logger
}

// New creates a new dhlottery source.
func New(cfg Config, logger *slog.Logger) *Source {
	client := resty.New().SetTimeout(cfg.Timeout)
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Source{
		client:     client,
		summaryURL: cfg.SummaryURL,
		ranksURL:   cfg.RanksURL,
		logger:     logger.With("source", SourceID),
	}
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// FetchSummary fetches the JSON summary for a draw.
func (s *Source) FetchSummary(ctx context.Context, id int) (domain.SummaryResult, error) {
	body, err := s.get(ctx, s.summaryURL, methodSummary, id)
	if err != nil {
		return nil, err
	}

	var resp summaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}

	s.logger.Debug("fetched summary", "draw_id", id, "return_value", resp.ReturnValue)

	return resp.result(id), nil
}

// FetchRanks fetches and parses the prize breakdown page for a draw.
func (s *Source) FetchRanks(ctx context.Context, id int) ([]domain.RankRecord, error) {
	body, err := s.get(ctx, s.ranksURL, methodRanks, id)
	if err != nil {
		return nil, err
	}

	ranks, err := ParseRanks(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	s.logger.Debug("parsed ranks", "draw_id", id, "ranks", len(ranks))

	return ranks, nil
}

func (s *Source) get(ctx context.Context, url, method string, id int) ([]byte, error) {
	res, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"method": method,
			"drwNo":  strconv.Itoa(id),
		}).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", res.StatusCode())
	}

	return res.Body(), nil
}

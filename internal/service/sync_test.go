package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"lotto_fetcher/internal/domain"
	"lotto_fetcher/internal/service/mocks"
)

type SyncServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	source    *mocks.MockSource
	draws     *mocks.MockDrawStore
	publisher *mocks.MockPublisher

	service *SyncService
	logger  *slog.Logger
}

func (s *SyncServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.source = mocks.NewMockSource(s.ctrl)
	s.draws = mocks.NewMockDrawStore(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.source.EXPECT().ID().Return("test-source").AnyTimes()
	s.source.EXPECT().Name().Return("Test Source").AnyTimes()

	s.service = NewSyncService(s.source, s.draws, s.publisher, s.logger)
}

func (s *SyncServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}

func summaryFor(id int) domain.DrawSummary {
	return domain.DrawSummary{
		ID:                    id,
		DrawDate:              "2024-01-06",
		Numbers:               [6]int{1, 2, 3, 4, 5, 6},
		BonusNumber:           7,
		TotalSellAmount:       int64(id) * 1_000_000,
		TotalFirstPrizeAmount: 2_000_000_000,
		EachFirstPrizeAmount:  200_000_000,
		FirstPrizeWinnerCount: 10,
	}
}

func ranksFor(id int) []domain.RankRecord {
	return []domain.RankRecord{
		{Rank: 1, TotAmount: int64(id), EachAmount: 1, RankCount: 1},
		{Rank: 2, TotAmount: 2, EachAmount: 2, RankCount: 2},
	}
}

// expectDraw registers the fetch and write calls for one available draw.
func (s *SyncServiceTestSuite) expectDraw(ctx context.Context, id int) *gomock.Call {
	s.source.EXPECT().FetchSummary(ctx, id).Return(summaryFor(id), nil)
	s.source.EXPECT().FetchRanks(ctx, id).Return(ranksFor(id), nil)
	return s.draws.EXPECT().Put(ctx, summaryFor(id).Draw(ranksFor(id))).Return(nil)
}

func (s *SyncServiceTestSuite) TestSync_SequentialCoverage() {
	ctx := context.Background()

	s.draws.EXPECT().Latest(ctx).Return(domain.Cursor{MaxID: 3, TotalSellAmount: 3_000_000}, nil)

	gomock.InOrder(
		s.expectDraw(ctx, 4),
		s.expectDraw(ctx, 5),
		s.expectDraw(ctx, 6),
		s.source.EXPECT().FetchSummary(ctx, 7).Return(domain.NotDrawn{ID: 7}, nil),
	)
	s.publisher.EXPECT().Publish(ctx, gomock.Any(), true).Return(nil).Times(3)

	stats, err := s.service.Sync(ctx)

	s.NoError(err)
	s.Equal(4, stats.StartID)
	s.Equal(6, stats.LastID)
	s.Equal(3, stats.Written)
	s.Equal(3, stats.New)
	s.Equal(0, stats.Replaced)
	s.Equal(3, stats.Published)
}

func (s *SyncServiceTestSuite) TestSync_ResumesStubDraw() {
	ctx := context.Background()

	s.draws.EXPECT().Latest(ctx).Return(domain.Cursor{MaxID: 10, TotalSellAmount: 0}, nil)

	gomock.InOrder(
		s.expectDraw(ctx, 10),
		s.expectDraw(ctx, 11),
		s.source.EXPECT().FetchSummary(ctx, 12).Return(domain.NotDrawn{ID: 12}, nil),
	)
	s.publisher.EXPECT().Publish(ctx, gomock.Any(), false).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any(), true).Return(nil)

	stats, err := s.service.Sync(ctx)

	s.NoError(err)
	s.Equal(10, stats.StartID)
	s.Equal(1, stats.Replaced)
	s.Equal(1, stats.New)
	s.Equal(11, stats.LastID)
}

func (s *SyncServiceTestSuite) TestSync_EmptyStoreStartsAtFirstDraw() {
	ctx := context.Background()

	s.draws.EXPECT().Latest(ctx).Return(domain.Cursor{}, nil)

	gomock.InOrder(
		s.expectDraw(ctx, 1),
		s.source.EXPECT().FetchSummary(ctx, 2).Return(domain.NotDrawn{ID: 2}, nil),
	)
	s.publisher.EXPECT().Publish(ctx, gomock.Any(), true).Return(nil)

	stats, err := s.service.Sync(ctx)

	s.NoError(err)
	s.Equal(1, stats.StartID)
	s.Equal(1, stats.LastID)
}

func (s *SyncServiceTestSuite) TestSync_SentinelWritesNothing() {
	ctx := context.Background()

	s.draws.EXPECT().Latest(ctx).Return(domain.Cursor{MaxID: 20, TotalSellAmount: 1}, nil)
	s.source.EXPECT().FetchSummary(ctx, 21).Return(domain.NotDrawn{ID: 21}, nil)

	stats, err := s.service.Sync(ctx)

	s.NoError(err)
	s.Equal(0, stats.Written)
	s.Equal(0, stats.LastID)
}

func (s *SyncServiceTestSuite) TestSync_CursorError() {
	ctx := context.Background()

	s.draws.EXPECT().Latest(ctx).Return(domain.Cursor{}, errors.New("store down"))

	stats, err := s.service.Sync(ctx)

	s.Error(err)
	s.Nil(stats)
	s.Contains(err.Error(), "read cursor")
}

func (s *SyncServiceTestSuite) TestSync_SummaryErrorAborts() {
	ctx := context.Background()

	s.draws.EXPECT().Latest(ctx).Return(domain.Cursor{MaxID: 1, TotalSellAmount: 1}, nil)
	gomock.InOrder(
		s.expectDraw(ctx, 2),
		s.source.EXPECT().FetchSummary(ctx, 3).Return(nil, errors.New("connection reset")),
	)
	s.publisher.EXPECT().Publish(ctx, gomock.Any(), true).Return(nil)

	stats, err := s.service.Sync(ctx)

	s.Error(err)
	s.Contains(err.Error(), "fetch summary 3")
	s.Equal(1, stats.Written)
	s.Equal(2, stats.LastID)
}

func (s *SyncServiceTestSuite) TestSync_RanksErrorSkipsWrite() {
	ctx := context.Background()

	s.draws.EXPECT().Latest(ctx).Return(domain.Cursor{MaxID: 1, TotalSellAmount: 1}, nil)
	s.source.EXPECT().FetchSummary(ctx, 2).Return(summaryFor(2), nil)
	s.source.EXPECT().FetchRanks(ctx, 2).Return(nil, errors.New("timeout"))

	stats, err := s.service.Sync(ctx)

	s.Error(err)
	s.Contains(err.Error(), "fetch ranks 2")
	s.Equal(0, stats.Written)
}

func (s *SyncServiceTestSuite) TestSync_PutErrorAborts() {
	ctx := context.Background()

	s.draws.EXPECT().Latest(ctx).Return(domain.Cursor{MaxID: 1, TotalSellAmount: 1}, nil)
	s.source.EXPECT().FetchSummary(ctx, 2).Return(summaryFor(2), nil)
	s.source.EXPECT().FetchRanks(ctx, 2).Return(ranksFor(2), nil)
	s.draws.EXPECT().Put(ctx, gomock.Any()).Return(errors.New("write conflict"))

	stats, err := s.service.Sync(ctx)

	s.Error(err)
	s.Contains(err.Error(), "put draw 2")
	s.Equal(0, stats.Written)
}

func (s *SyncServiceTestSuite) TestSync_PublishErrorContinues() {
	ctx := context.Background()

	s.draws.EXPECT().Latest(ctx).Return(domain.Cursor{MaxID: 1, TotalSellAmount: 1}, nil)
	gomock.InOrder(
		s.expectDraw(ctx, 2),
		s.expectDraw(ctx, 3),
		s.source.EXPECT().FetchSummary(ctx, 4).Return(domain.NotDrawn{ID: 4}, nil),
	)
	gomock.InOrder(
		s.publisher.EXPECT().Publish(ctx, gomock.Any(), true).Return(errors.New("channel closed")),
		s.publisher.EXPECT().Publish(ctx, gomock.Any(), true).Return(nil),
	)

	stats, err := s.service.Sync(ctx)

	s.NoError(err)
	s.Equal(2, stats.Written)
	s.Equal(1, stats.Published)
	s.Equal(1, stats.PublishErrors)
}

func (s *SyncServiceTestSuite) TestSync_PublisherNil() {
	ctx := context.Background()

	service := NewSyncService(s.source, s.draws, nil, s.logger)

	s.draws.EXPECT().Latest(ctx).Return(domain.Cursor{MaxID: 1, TotalSellAmount: 1}, nil)
	gomock.InOrder(
		s.expectDraw(ctx, 2),
		s.source.EXPECT().FetchSummary(ctx, 3).Return(domain.NotDrawn{ID: 3}, nil),
	)

	stats, err := service.Sync(ctx)

	s.NoError(err)
	s.Equal(1, stats.New)
	s.Equal(0, stats.Published)
}

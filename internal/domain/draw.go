package domain

// Draw is one lottery drawing and its full result record.
type Draw struct {
	ID                    int          `json:"id" bson:"id"`
	DrawDate              string       `json:"drawDate" bson:"drawDate"`
	WinNumbers            [7]int       `json:"winNumbers" bson:"winNumbers"` // six main numbers, then the bonus
	TotalSellAmount       int64        `json:"totalSellAmount" bson:"totalSellAmount"`
	TotalFirstPrizeAmount int64        `json:"totalFirstPrizeAmount" bson:"totalFirstPrizeAmount"`
	EachFirstPrizeAmount  int64        `json:"eachFirstPrizeAmount" bson:"eachFirstPrizeAmount"`
	FirstPrizeWinnerCount int64        `json:"firstPrizeWinnerCount" bson:"firstPrizeWinnerCount"`
	RankAmount            []RankRecord `json:"rankAmount" bson:"rankAmount"`
}

// RankRecord is one prize tier's breakdown within a draw.
type RankRecord struct {
	Rank       int   `json:"rank" bson:"rank" db:"rank"`
	TotAmount  int64 `json:"totAmount" bson:"totAmount" db:"tot_amount"`
	EachAmount int64 `json:"eachAmount" bson:"eachAmount" db:"each_amount"`
	RankCount  int64 `json:"rankCount" bson:"rankCount" db:"rank_count"`
}

// Cursor is derived from the draw with the highest persisted id.
type Cursor struct {
	MaxID           int
	TotalSellAmount int64
}

// FirstCandidate returns the first draw id a run should attempt.
//
// When the latest stored draw has no sales figure it may be a stub left by an
// interrupted run, so it is attempted again. Ids never go below 1.
func (c Cursor) FirstCandidate() int {
	id := c.MaxID
	if c.TotalSellAmount == 0 {
		id--
	}
	id++
	if id < 1 {
		return 1
	}
	return id
}

// SummaryResult is what the source returns for a draw id: either a
// DrawSummary or NotDrawn.
type SummaryResult interface {
	summaryResult()
}

// DrawSummary holds the summary fields published for an existing draw.
type DrawSummary struct {
	ID                    int
	DrawDate              string
	Numbers               [6]int
	BonusNumber           int
	TotalSellAmount       int64
	TotalFirstPrizeAmount int64
	EachFirstPrizeAmount  int64
	FirstPrizeWinnerCount int64
}

// NotDrawn means the source has no data for the id yet.
type NotDrawn struct {
	ID int
}

func (DrawSummary) summaryResult() {}
func (NotDrawn) summaryResult()    {}

// Draw composes the full record from the summary and the rank breakdown.
func (s DrawSummary) Draw(ranks []RankRecord) *Draw {
	d := &Draw{
		ID:                    s.ID,
		DrawDate:              s.DrawDate,
		TotalSellAmount:       s.TotalSellAmount,
		TotalFirstPrizeAmount: s.TotalFirstPrizeAmount,
		EachFirstPrizeAmount:  s.EachFirstPrizeAmount,
		FirstPrizeWinnerCount: s.FirstPrizeWinnerCount,
		RankAmount:            ranks,
	}
	copy(d.WinNumbers[:6], s.Numbers[:])
	d.WinNumbers[6] = s.BonusNumber
	if d.RankAmount == nil {
		d.RankAmount = []RankRecord{}
	}
	return d
}

package dhlottery

import "lotto_fetcher/internal/domain"

const returnValueFail = "fail"

// summaryResponse is the getLottoNumber response body. A draw that does not
// exist yet comes back as {"returnValue":"fail"} with every other field unset.
type summaryResponse struct {
	ReturnValue    string `json:"returnValue"`
	DrwNo          int    `json:"drwNo"`
	DrwNoDate      string `json:"drwNoDate"`
	DrwtNo1        int    `json:"drwtNo1"`
	DrwtNo2        int    `json:"drwtNo2"`
	DrwtNo3        int    `json:"drwtNo3"`
	DrwtNo4        int    `json:"drwtNo4"`
	DrwtNo5        int    `json:"drwtNo5"`
	DrwtNo6        int    `json:"drwtNo6"`
	BnusNo         int    `json:"bnusNo"`
	TotSellamnt    int64  `json:"totSellamnt"`
	FirstAccumamnt int64  `json:"firstAccumamnt"`
	FirstWinamnt   int64  `json:"firstWinamnt"`
	FirstPrzwnerCo int64  `json:"firstPrzwnerCo"`
}

func (r summaryResponse) result(id int) domain.SummaryResult {
	if r.ReturnValue == returnValueFail {
		return domain.NotDrawn{ID: id}
	}
	return domain.DrawSummary{
		ID:                    r.DrwNo,
		DrawDate:              r.DrwNoDate,
		Numbers:               [6]int{r.DrwtNo1, r.DrwtNo2, r.DrwtNo3, r.DrwtNo4, r.DrwtNo5, r.DrwtNo6},
		BonusNumber:           r.BnusNo,
		TotalSellAmount:       r.TotSellamnt,
		TotalFirstPrizeAmount: r.FirstAccumamnt,
		EachFirstPrizeAmount:  r.FirstWinamnt,
		FirstPrizeWinnerCount: r.FirstPrzwnerCo,
	}
}

package app

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/0xtaiyi/jupiter-arbitrage/chain"
	"github.com/0xtaiyi/jupiter-arbitrage/store"
)

type Token struct {
	Key    string `json:"key"`
	Symbol string `json:"symbol"`
}

type CandidateView struct {
	Id        uint64 `json:"id"`
	Time      string `json:"time"`
	Source    string `json:"source"`
	BaseToken *Token `json:"base_token"`
	Amount    string `json:"amount"`
	Profit    string `json:"profit"`
	Venues    string `json:"venues"`
	Trigger   string `json:"trigger"`
}

type SubmittedTradeView struct {
	Id           uint64 `json:"id"`
	Time         string `json:"time"`
	ExecutorId   int    `json:"executor_id"`
	SendTime     string `json:"send_time"`
	ResponseTime string `json:"response_time"`
	Signature    string `json:"signature"`
}

type TradeInfo struct {
	Candidates      []*CandidateView      `json:"candidates"`
	SubmittedTrades []*SubmittedTradeView `json:"submitted_trades"`
}

func formatMicros(tt uint64) string {
	return time.Unix(int64(tt)/1000000, int64(tt)%1000000*1000).Format("2006-01-02 15:04:05.000000")
}

func buildCandidateView(record *store.CandidateRecord) *CandidateView {
	token := &Token{Key: record.BaseMint, Symbol: record.BaseMint}
	amount := strconv.FormatUint(record.Amount, 10)
	profit := strconv.FormatInt(record.Profit, 10)
	if info, ok := chain.Token(record.BaseMint); ok {
		token.Symbol = info.Symbol
		scale := decimal.New(1, int32(info.Decimals))
		amount = decimal.NewFromInt(int64(record.Amount)).Div(scale).StringFixed(4)
		profit = decimal.NewFromInt(record.Profit).Div(scale).StringFixed(6)
	}
	return &CandidateView{
		Id:        record.Id,
		Time:      formatMicros(record.Id),
		Source:    record.Source,
		BaseToken: token,
		Amount:    amount,
		Profit:    profit,
		Venues:    record.Venues,
		Trigger:   record.Trigger,
	}
}

func buildSubmittedTradeView(trade *store.SubmittedTrade) *SubmittedTradeView {
	return &SubmittedTradeView{
		Id:           trade.Id,
		Time:         formatMicros(trade.Id),
		ExecutorId:   trade.ExecuteId,
		SendTime:     formatMicros(trade.SendTime),
		ResponseTime: formatMicros(trade.ResponseTime),
		Signature:    trade.Signature,
	}
}

type StatusInfo struct {
	StartTime   string   `json:"start_time"`
	LiveTrading bool     `json:"live_trading"`
	WatchFlows  bool     `json:"watch_flows"`
	PollQuotes  bool     `json:"poll_quotes"`
	BaseTokens  []*Token `json:"base_tokens"`
}

func (arb *Arbitrage) getStatus(c *gin.Context) {
	info := &StatusInfo{
		StartTime:   time.Unix(arb.startTime, 0).Format("2006-01-02 15:04:05"),
		LiveTrading: arb.config.LiveTrading(),
		WatchFlows:  arb.config.WatchFlows(),
		PollQuotes:  arb.config.PollQuotes(),
	}
	for _, token := range arb.config.Strategy.BaseTokens {
		view := &Token{Key: token.Mint, Symbol: token.Mint}
		if ti, ok := chain.Token(token.Mint); ok {
			view.Symbol = ti.Symbol
		}
		info.BaseTokens = append(info.BaseTokens, view)
	}
	c.JSON(200, info)
}

func (arb *Arbitrage) getTrade(c *gin.Context) {
	if arb.store == nil {
		c.JSON(500, "store is not configured")
		return
	}
	idStr, ok := c.GetQuery("id")
	if !ok {
		c.JSON(500, "parameter is invalid")
		return
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		c.JSON(500, err)
		return
	}
	records, err := arb.store.GetCandidate(id)
	if err != nil {
		c.JSON(500, err)
		return
	}
	trades, err := arb.store.GetSubmittedTrade(id)
	if err != nil {
		c.JSON(500, err)
		return
	}
	info := &TradeInfo{
		Candidates:      make([]*CandidateView, 0, len(records)),
		SubmittedTrades: make([]*SubmittedTradeView, 0, len(trades)),
	}
	for _, record := range records {
		info.Candidates = append(info.Candidates, buildCandidateView(record))
	}
	for _, trade := range trades {
		info.SubmittedTrades = append(info.SubmittedTrades, buildSubmittedTradeView(trade))
	}
	c.JSON(200, info)
}

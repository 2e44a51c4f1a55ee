package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/0xtaiyi/jupiter-arbitrage/chain"
	"github.com/0xtaiyi/jupiter-arbitrage/dingsdk"
)

// TradeNotice is the human-facing summary of one submitted trade.
type TradeNotice struct {
	Id        uint64
	BaseMint  string
	Decimals  uint8
	Amount    uint64
	Profit    int64
	Source    string
	FlashLoan bool
}

type Notify struct {
	ctx  context.Context
	wg   sync.WaitGroup
	data chan *TradeNotice
	dsdk *dingsdk.DingSdk
}

func NewNotify(ctx context.Context, dsdk *dingsdk.DingSdk) *Notify {
	return &Notify{
		ctx:  ctx,
		dsdk: dsdk,
		data: make(chan *TradeNotice, 32),
	}
}

func (notify *Notify) Start() {
	notify.wg.Add(1)
	go notify.listen()
}

func (notify *Notify) Commit(data *TradeNotice) {
	select {
	case notify.data <- data:
	default:
	}
}

func (notify *Notify) listen() {
	defer notify.wg.Done()
	for {
		select {
		case data := <-notify.data:
			notify.tryNotify(data)
		case <-notify.ctx.Done():
			return
		}
	}
}

func (notify *Notify) tryNotify(data *TradeNotice) {
	if notify.dsdk == nil {
		return
	}
	symbol := data.BaseMint
	if info, ok := chain.Token(data.BaseMint); ok {
		symbol = info.Symbol
	}
	scale := decimal.New(1, int32(data.Decimals))
	items := make([]string, 0, 8)
	items = append(items, "trade submitted: ")
	items = append(items, fmt.Sprintf("id: %d;", data.Id))
	items = append(items, fmt.Sprintf("time: %s;", time.Unix(int64(data.Id)/1000000, 0).Format("2006-01-02 15:04:05")))
	items = append(items, fmt.Sprintf("source: %s;", data.Source))
	items = append(items, fmt.Sprintf("token: %s;", symbol))
	items = append(items, fmt.Sprintf("amount: %s;", decimal.NewFromInt(int64(data.Amount)).Div(scale).StringFixed(4)))
	items = append(items, fmt.Sprintf("min profit: %s;", decimal.NewFromInt(data.Profit).Div(scale).StringFixed(6)))
	items = append(items, fmt.Sprintf("flash loan: %t;", data.FlashLoan))
	notify.dsdk.NotifyText(strings.Join(items, "\n"))
}

package backend

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/0xtaiyi/jupiter-arbitrage/config"
	"github.com/0xtaiyi/jupiter-arbitrage/utils"
)

const (
	solPriceUrl             = "https://api.coingecko.com/api/v3/simple/price?ids=solana&vs_currencies=usd"
	solPriceRefreshInterval = time.Hour
)

// SolPrice keeps an hourly sol/usd quote for fee-cost gating. The
// configured price serves as the value of last resort.
type SolPrice struct {
	ctx    context.Context
	logger *log.Logger
	client *http.Client
	mu     sync.Mutex
	price  float64
}

func NewSolPrice(ctx context.Context, fallback float64) *SolPrice {
	return &SolPrice{
		ctx:    ctx,
		logger: utils.NewLog(config.LogPath, config.PriceLog),
		client: &http.Client{Timeout: time.Second * 10},
		price:  fallback,
	}
}

func (price *SolPrice) Current() float64 {
	price.mu.Lock()
	defer price.mu.Unlock()
	return price.price
}

func (price *SolPrice) refresher(wg *sync.WaitGroup) {
	defer wg.Done()
	price.refresh()
	ticker := time.NewTicker(solPriceRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			price.refresh()
		case <-price.ctx.Done():
			price.logger.Printf("sol price cache exit")
			return
		}
	}
}

func (price *SolPrice) refresh() {
	req, err := http.NewRequestWithContext(price.ctx, http.MethodGet, solPriceUrl, nil)
	if err != nil {
		price.logger.Printf("sol price request err: %s", err.Error())
		return
	}
	resp, err := price.client.Do(req)
	if err != nil {
		price.logger.Printf("sol price fetch err: %s", err.Error())
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		price.logger.Printf("sol price fetch status: %d", resp.StatusCode)
		return
	}
	payload := struct {
		Solana struct {
			Usd float64 `json:"usd"`
		} `json:"solana"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		price.logger.Printf("sol price decode err: %s", err.Error())
		return
	}
	if payload.Solana.Usd <= 0 {
		price.logger.Printf("sol price fetch returned %f, keeping previous", payload.Solana.Usd)
		return
	}
	price.mu.Lock()
	price.price = payload.Solana.Usd
	price.mu.Unlock()
	price.logger.Printf("sol price: %f", payload.Solana.Usd)
}

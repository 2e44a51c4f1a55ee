package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"

	"github.com/0xtaiyi/jupiter-arbitrage/backend"
	"github.com/0xtaiyi/jupiter-arbitrage/chain"
	"github.com/0xtaiyi/jupiter-arbitrage/config"
	"github.com/0xtaiyi/jupiter-arbitrage/dingsdk"
	"github.com/0xtaiyi/jupiter-arbitrage/flashloan"
	"github.com/0xtaiyi/jupiter-arbitrage/jupiter"
	"github.com/0xtaiyi/jupiter-arbitrage/monitor"
	"github.com/0xtaiyi/jupiter-arbitrage/networkdetect"
	"github.com/0xtaiyi/jupiter-arbitrage/store"
	"github.com/0xtaiyi/jupiter-arbitrage/utils"
)

// Arbitrage wires the whole engine together: the geyser watcher and the
// quote pollers discover opportunities, the trade builder turns them into
// signed transactions, the backend submits them.
type Arbitrage struct {
	ctx           context.Context
	log           *log.Logger
	config        *config.Config
	wg            sync.WaitGroup
	backend       *backend.Backend
	client        *jupiter.Client
	flashCtxs     map[string]*flashloan.Context
	extractor     *monitor.Extractor
	stream        *monitor.StreamManager
	updateChan    chan *pb.SubscribeUpdate
	candidateChan chan *monitor.Candidate
	store         *store.Store
	notify        *Notify
	nd            *networkdetect.NetworkDetector
	httpServer    *http.Server
	rpcPort       string
	startTime     int64
}

func NewArbitrage(ctx context.Context, cfg *config.Config) *Arbitrage {
	arb := &Arbitrage{
		ctx:           ctx,
		config:        cfg,
		updateChan:    make(chan *pb.SubscribeUpdate, 1024),
		candidateChan: make(chan *monitor.Candidate, 64),
		rpcPort:       cfg.Listen,
	}
	//
	logger := log.Default()
	fileName := fmt.Sprintf("%s%s.log", config.LogPath, config.ArbitrageLog)
	file, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		panic(err)
	}
	logger.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.SetOutput(file)
	arb.log = logger
	//
	if cfg.DBUrl != "" {
		arb.store = store.NewStore(ctx, cfg.DBUrl, cfg.DBScheme, cfg.DBUser, cfg.DBPasswd)
	}
	b := backend.NewBackend(ctx, cfg)
	b.SetStore(arb.store)
	arb.backend = b
	arb.client = jupiter.NewClient(cfg.SwapApi.BaseUrl, cfg.SwapApi.ApiKey, arb.log)
	//
	flashCtxs, err := flashloan.LoadContexts(cfg.FlashLoan, arb.log)
	if err != nil {
		panic(err)
	}
	arb.flashCtxs = flashCtxs
	//
	var dsdk *dingsdk.DingSdk
	if cfg.DingUrl != "" {
		dsdk = dingsdk.NewDingSdk(cfg.DingUrl)
	}
	arb.notify = NewNotify(ctx, dsdk)
	if cfg.NetStatus && dsdk != nil {
		arb.nd = networkdetect.NewNetworkDetector(cfg.Node.RpcUrl, dsdk)
	}
	//
	arb.extractor = monitor.NewExtractor(cfg.Strategy.BaseTokens, cfg.QuoteMint(), utils.NewLog(config.LogPath, config.MonitorLog))
	if cfg.WatchFlows() {
		if cfg.Node.GeyserUrl == "" {
			panic("watch_flows is on but node.geyser_url is empty")
		}
		filter := make([]string, 0, len(cfg.Strategy.BaseTokens))
		for _, token := range cfg.Strategy.BaseTokens {
			filter = append(filter, token.Mint)
		}
		stream, err := monitor.NewStreamManager(cfg.Node.GeyserUrl, cfg.Node.GeyserToken, filter, arb.updateChan)
		if err != nil {
			panic(err)
		}
		arb.stream = stream
	}
	return arb
}

func (arb *Arbitrage) Service() {
	arb.Start()
	arb.StartRPC()
	<-arb.ctx.Done()
	arb.StopRPC()
	arb.Stop()
}

func (arb *Arbitrage) Start() {
	if arb.nd != nil {
		arb.nd.Start()
	}
	if arb.store != nil {
		arb.store.Start()
	}
	arb.backend.Start()
	arb.notify.Start()
	if arb.stream != nil {
		arb.stream.Start()
		arb.wg.Add(1)
		go arb.watchLoop()
	}
	arb.wg.Add(1)
	go arb.candidateLoop()
	if arb.config.PollQuotes() {
		for _, token := range arb.config.Strategy.BaseTokens {
			arb.wg.Add(1)
			go arb.pollLoop(token)
		}
	}
	go arb.reportTiming()
	arb.startTime = time.Now().Unix()
	arb.log.Printf("auto trader has started......")
}

func (arb *Arbitrage) Stop() {
	if arb.stream != nil {
		arb.stream.Stop()
	}
	if arb.nd != nil {
		arb.nd.Stop()
	}
	arb.backend.Stop()
	if arb.store != nil {
		arb.store.Stop()
	}
	arb.wg.Wait()
	arb.log.Printf("auto trader has stopped......")
}

func (arb *Arbitrage) StartRPC() {
	router := gin.New()
	g := router.Group("/api")
	g.GET("/status", arb.getStatus)
	g.GET("/trade", arb.getTrade)
	arb.httpServer = &http.Server{
		Addr:    arb.rpcPort,
		Handler: router,
	}
	arb.log.Printf("start rpc server......")
	go func() {
		if err := arb.httpServer.ListenAndServe(); err != nil {
			arb.log.Printf("ListenAndServe: %s", err.Error())
		}
	}()
}

func (arb *Arbitrage) StopRPC() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := arb.httpServer.Shutdown(ctx); err != nil {
		arb.log.Printf("rpc server shutdown err: %s", err.Error())
	}
	arb.log.Printf("rpc server has stopped......")
}

// reportTiming measures one aggregator round trip at startup so the log
// shows how far this box is from the api.
func (arb *Arbitrage) reportTiming() {
	token := arb.config.Strategy.BaseTokens[0]
	info, ok := chain.Token(token.Mint)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(arb.ctx, time.Second*15)
	defer cancel()
	timing, err := jupiter.EstimateTiming(ctx, arb.client, arb.backend.Player(),
		token.Mint, arb.config.QuoteMint(), utils.ToRaw(token.AmountRange[0], info.Decimals))
	if err != nil {
		arb.log.Printf("timing estimate err: %s", err.Error())
		return
	}
	arb.log.Printf("timing estimate, quote: %dms, swap instructions: %dms",
		timing.Quote.Milliseconds(), timing.SwapInstructions.Milliseconds())
}

func (arb *Arbitrage) watchLoop() {
	defer arb.wg.Done()
	for {
		select {
		case update := <-arb.updateChan:
			if candidate := arb.extractor.Extract(update); candidate != nil {
				select {
				case arb.candidateChan <- candidate:
				default:
					arb.log.Printf("candidate channel is full, dropping %s", candidate.Signature)
				}
			}
		case <-arb.ctx.Done():
			arb.log.Printf("watch loop exit")
			return
		}
	}
}

func (arb *Arbitrage) candidateLoop() {
	defer arb.wg.Done()
	for {
		select {
		case candidate := <-arb.candidateChan:
			arb.react(candidate)
		case <-arb.ctx.Done():
			arb.log.Printf("candidate loop exit")
			return
		}
	}
}

// react prices a cycle against a counterparty trade and submits when the
// round trip clears the token's profit floor.
func (arb *Arbitrage) react(candidate *monitor.Candidate) {
	token := candidate.BaseToken
	quoteMint := arb.config.QuoteMint()
	if len(candidate.OtherMints) > 0 {
		quoteMint = candidate.OtherMints[0]
	}
	arb.log.Printf("candidate %s, base: %s, quote: %s, venues: %v",
		candidate.Signature, token.Mint, quoteMint, candidate.Venues)
	best := arb.bestCycle(token, candidate.Decimals, quoteMint, jupiter.Direct, int64(utils.ToRaw(token.MinProfit, candidate.Decimals)))
	if best == nil {
		return
	}
	arb.submit(token, candidate.Decimals, quoteMint, best, "watch", candidate)
}

func (arb *Arbitrage) pollLoop(token *config.BaseToken) {
	defer arb.wg.Done()
	info, ok := chain.Token(token.Mint)
	if !ok {
		arb.log.Printf("base token %s is not in the token registry, poller not started", token.Mint)
		return
	}
	ticker := time.NewTicker(time.Millisecond * time.Duration(arb.config.PollIntervalMs()))
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			arb.poll(token, info.Decimals)
		case <-arb.ctx.Done():
			arb.log.Printf("poller %s exit", info.Symbol)
			return
		}
	}
}

func (arb *Arbitrage) poll(token *config.BaseToken, decimals uint8) {
	quoteMint := arb.config.QuoteMint()
	floor := int64(utils.ToRaw(token.MinProfit, decimals)) + arb.feeCost(token.Mint, decimals)
	best := arb.bestCycle(token, decimals, quoteMint, jupiter.Polling, floor)
	if best == nil {
		return
	}
	arb.submit(token, decimals, quoteMint, best, "poll", nil)
}

// bestCycle quotes the geometric amount grid and returns the most
// profitable cycle above floor, nil when nothing clears it.
func (arb *Arbitrage) bestCycle(token *config.BaseToken, decimals uint8, quoteMint string, mode jupiter.Mode, floor int64) *jupiter.CyclePair {
	var best *jupiter.CyclePair
	for _, amount := range utils.AmountGrid(token.AmountRange[0], token.AmountRange[1], token.Steps, decimals) {
		ctx, cancel := context.WithTimeout(arb.ctx, time.Second*5)
		pair, err := jupiter.QuoteCycle(ctx, arb.client, token.Mint, quoteMint, amount, mode)
		cancel()
		if err != nil {
			if err != jupiter.ErrQuoteUnavailable {
				arb.log.Printf("quote cycle err: %s", err.Error())
			}
			continue
		}
		if pair.Profit() < floor {
			continue
		}
		if best == nil || pair.Profit() > best.Profit() {
			best = pair
		}
	}
	return best
}

// feeCost converts the fixed transaction cost into raw base token units.
// Known only for the native token and usd stables; everything else falls
// back to zero and relies on the configured profit floor.
func (arb *Arbitrage) feeCost(mint string, decimals uint8) int64 {
	lamports := chain.TransactionFee + arb.config.TxCost.PriorityLamports + uint64(arb.config.TxCost.TipSol*1e9)
	if mint == config.WSolMint {
		return int64(lamports)
	}
	info, ok := chain.Token(mint)
	if !ok {
		return 0
	}
	switch info.Symbol {
	case "USDC", "USDT", "USDH", "USD1":
		sol := float64(lamports) / 1e9
		return int64(utils.ToRaw(sol*arb.backend.SolUsd(), decimals))
	}
	return 0
}

package backend

import (
	"context"
	"log"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/0xtaiyi/jupiter-arbitrage/config"
	"github.com/0xtaiyi/jupiter-arbitrage/store"
	"github.com/0xtaiyi/jupiter-arbitrage/utils"
)

// Backend owns the chain-facing side of the engine: the rpc clients, the
// signing wallet, the nonce cache, the sol price cache and the submit
// executors. Everything here is started once and lives for the process.
type Backend struct {
	ctx         context.Context
	wg          sync.WaitGroup
	logger      *log.Logger
	rpcClient   *rpc.Client
	sendClient  *rpc.Client
	wallet      *Wallet
	nonce       *NonceCache
	price       *SolPrice
	commandChan chan *Command
	store       *store.Store
}

func NewBackend(ctx context.Context, cfg *config.Config) *Backend {
	logger := utils.NewLog(config.LogPath, config.BackendLog)
	rpcClient := rpc.New(cfg.Node.RpcUrl)
	backend := &Backend{
		ctx:         ctx,
		logger:      logger,
		rpcClient:   rpcClient,
		sendClient:  rpc.New(cfg.Node.SubmitUrl),
		wallet:      ImportWallet(cfg.Node.KeypairPath),
		commandChan: make(chan *Command, 1024),
	}
	nonceAccount, err := solana.PublicKeyFromBase58(cfg.Strategy.NonceAccount)
	if err != nil {
		panic(err)
	}
	backend.nonce = NewNonceCache(ctx, rpcClient, nonceAccount)
	backend.price = NewSolPrice(ctx, cfg.SolUsd())
	return backend
}

func (backend *Backend) Start() {
	backend.wg.Add(1)
	go backend.nonce.refresher(&backend.wg)
	backend.wg.Add(1)
	go backend.price.refresher(&backend.wg)
	backend.startExecutor()
	backend.logger.Printf("backend start, player: %s", backend.wallet.pubkey)
}

func (backend *Backend) Stop() {
	backend.wg.Wait()
	backend.logger.Printf("backend exit")
}

func (backend *Backend) SetStore(store *store.Store) {
	backend.store = store
}

func (backend *Backend) Player() solana.PublicKey {
	return backend.wallet.pubkey
}

func (backend *Backend) RpcClient() *rpc.Client {
	return backend.rpcClient
}

func (backend *Backend) Nonce() *NonceCache {
	return backend.nonce
}

func (backend *Backend) SolUsd() float64 {
	return backend.price.Current()
}

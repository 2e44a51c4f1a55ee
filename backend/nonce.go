package backend

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/0xtaiyi/jupiter-arbitrage/config"
	"github.com/0xtaiyi/jupiter-arbitrage/utils"
)

const nonceRefreshInterval = time.Millisecond * 200

// nonceAccountSize is the serialized size of an initialized nonce account.
const nonceAccountSize = 80

// NonceState is a decoded durable nonce account. Fresh is false only
// before the first successful fetch.
type NonceState struct {
	Authority            solana.PublicKey
	Blockhash            solana.Hash
	LamportsPerSignature uint64
	Fresh                bool
}

// nonceAccountLayout matches the on-chain account data, little endian.
type nonceAccountLayout struct {
	Version              uint32
	State                uint32
	Authority            [32]byte
	Blockhash            [32]byte
	LamportsPerSignature uint64
}

// DecodeNonceState parses raw nonce account data.
func DecodeNonceState(data []byte) (*NonceState, error) {
	if len(data) < nonceAccountSize {
		return nil, fmt.Errorf("nonce account data is %d bytes", len(data))
	}
	layout := &nonceAccountLayout{}
	if err := bin.NewBinDecoder(data).Decode(layout); err != nil {
		return nil, err
	}
	if layout.State != 1 {
		return nil, fmt.Errorf("nonce account not initialized, state %d", layout.State)
	}
	return &NonceState{
		Authority:            solana.PublicKeyFromBytes(layout.Authority[:]),
		Blockhash:            solana.Hash(layout.Blockhash),
		LamportsPerSignature: layout.LamportsPerSignature,
		Fresh:                true,
	}, nil
}

// NonceCache keeps the durable nonce hot so trade construction never
// waits on an rpc round trip. One writer, many readers.
type NonceCache struct {
	ctx     context.Context
	logger  *log.Logger
	client  *rpc.Client
	account solana.PublicKey
	mu      sync.Mutex
	state   NonceState
}

func NewNonceCache(ctx context.Context, client *rpc.Client, account solana.PublicKey) *NonceCache {
	return &NonceCache{
		ctx:     ctx,
		logger:  utils.NewLog(config.LogPath, config.NonceLog),
		client:  client,
		account: account,
	}
}

func (cache *NonceCache) Account() solana.PublicKey {
	return cache.account
}

// Current returns the latest snapshot without blocking on the network.
// A stale value is acceptable; it only risks a rejected submission.
func (cache *NonceCache) Current() NonceState {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return cache.state
}

func (cache *NonceCache) refresher(wg *sync.WaitGroup) {
	defer wg.Done()
	ticker := time.NewTicker(nonceRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cache.refresh()
		case <-cache.ctx.Done():
			cache.logger.Printf("nonce cache exit")
			return
		}
	}
}

func (cache *NonceCache) refresh() {
	result, err := cache.client.GetAccountInfoWithOpts(cache.ctx, cache.account, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentProcessed,
	})
	if err != nil {
		cache.logger.Printf("nonce fetch err: %s", err.Error())
		return
	}
	if result.Value == nil {
		cache.logger.Printf("nonce account %s not found", cache.account)
		return
	}
	state, err := DecodeNonceState(result.Value.Data.GetBinary())
	if err != nil {
		cache.logger.Printf("nonce decode err: %s", err.Error())
		return
	}
	cache.mu.Lock()
	changed := cache.state.Blockhash != state.Blockhash
	cache.state = *state
	cache.mu.Unlock()
	if changed {
		cache.logger.Printf("nonce advanced, hash: %s", state.Blockhash)
	}
}

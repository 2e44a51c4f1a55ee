package backend

import (
	"context"
	"log"

	"github.com/gagliardetto/solana-go"
	addresslookuptable "github.com/gagliardetto/solana-go/programs/address-lookup-table"
	"github.com/gagliardetto/solana-go/rpc"
)

// AccountBatchFetcher is the one rpc capability the resolver needs.
type AccountBatchFetcher interface {
	FetchAccounts(ctx context.Context, keys []solana.PublicKey) ([]*rpc.Account, error)
}

func (backend *Backend) FetchAccounts(ctx context.Context, keys []solana.PublicKey) ([]*rpc.Account, error) {
	result, err := backend.rpcClient.GetMultipleAccountsWithOpts(ctx, keys, &rpc.GetMultipleAccountsOpts{
		Commitment: rpc.CommitmentProcessed,
	})
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

// ResolveLookupTables fetches and decodes the given lookup tables in one
// batched call. An absent or undecodable table is dropped from the result,
// never failed; callers match entries by address, not position.
func ResolveLookupTables(ctx context.Context, fetcher AccountBatchFetcher, tables []solana.PublicKey, logger *log.Logger) (map[solana.PublicKey]solana.PublicKeySlice, error) {
	seen := make(map[solana.PublicKey]bool, len(tables))
	keys := make([]solana.PublicKey, 0, len(tables))
	for _, table := range tables {
		if seen[table] {
			continue
		}
		seen[table] = true
		keys = append(keys, table)
	}
	accounts, err := fetcher.FetchAccounts(ctx, keys)
	if err != nil {
		return nil, err
	}
	resolved := make(map[solana.PublicKey]solana.PublicKeySlice, len(keys))
	for i, account := range accounts {
		if i >= len(keys) {
			break
		}
		if account == nil {
			continue
		}
		state, err := addresslookuptable.DecodeAddressLookupTableState(account.Data.GetBinary())
		if err != nil {
			if logger != nil {
				logger.Printf("lookup table %s decode err: %s", keys[i], err.Error())
			}
			continue
		}
		resolved[keys[i]] = state.Addresses
	}
	return resolved, nil
}

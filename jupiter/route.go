package jupiter

import (
	"encoding/base64"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/0xtaiyi/jupiter-arbitrage/chain"
)

// fixedAccounts is the count of leading accounts every route instruction
// carries before the per-hop remaining accounts begin.
const fixedAccounts = 9

// MergedRoute is a single closed-loop route assembled from two priced
// legs. The route executes base -> quote -> base in one instruction, so
// the program enforces the profit floor atomically.
type MergedRoute struct {
	Args              *RouteArgs
	RemainingAccounts solana.AccountMetaSlice
	LookupTables      []solana.PublicKey
}

// BuildRoute merges the two legs' swap instructions into one route.
// The merged plan runs every hop at 100 percent with sequential token
// indexes; the last hop writes back to index 0, closing the loop. The
// quoted out amount is pinned to the leg-1 input plus minProfit so the
// program reverts any fill below the floor.
func BuildRoute(leg1, leg2 *SwapInstructionsResponse, minProfit uint64) (*MergedRoute, error) {
	args1, accounts1, err := decodeLeg(&leg1.SwapInstruction)
	if err != nil {
		return nil, err
	}
	args2, accounts2, err := decodeLeg(&leg2.SwapInstruction)
	if err != nil {
		return nil, err
	}

	steps := make([]RouteStep, 0, len(args1.Steps)+len(args2.Steps))
	steps = append(steps, args1.Steps...)
	steps = append(steps, args2.Steps...)
	for i := range steps {
		steps[i].Percent = 100
		steps[i].InputIndex = uint8(i)
		steps[i].OutputIndex = uint8(i + 1)
	}
	steps[len(steps)-1].OutputIndex = 0

	merged := &MergedRoute{
		Args: &RouteArgs{
			Steps:           steps,
			InAmount:        args1.InAmount,
			QuotedOutAmount: args1.InAmount + minProfit,
			SlippageBps:     0,
			PlatformFeeBps:  0,
		},
		RemainingAccounts: make(solana.AccountMetaSlice, 0, len(accounts1)+len(accounts2)),
		LookupTables:      mergeLookupTables(leg1, leg2),
	}
	merged.RemainingAccounts = append(merged.RemainingAccounts, accounts1...)
	merged.RemainingAccounts = append(merged.RemainingAccounts, accounts2...)
	return merged, nil
}

// decodeLeg validates one leg's swap instruction and returns its route
// args plus the remaining accounts past the fixed prefix.
func decodeLeg(ix *InstructionJSON) (*RouteArgs, solana.AccountMetaSlice, error) {
	program, err := solana.PublicKeyFromBase58(ix.ProgramId)
	if err != nil || !program.Equals(chain.JupiterProgram) {
		return nil, nil, fmt.Errorf("%w: unexpected program %s", ErrMalformedInstruction, ix.ProgramId)
	}
	if len(ix.Accounts) < fixedAccounts {
		return nil, nil, fmt.Errorf("%w: %d accounts", ErrMalformedInstruction, len(ix.Accounts))
	}
	data, err := base64.StdEncoding.DecodeString(ix.Data)
	if err != nil {
		return nil, nil, ErrMalformedInstruction
	}
	args, err := DecodeRouteArgs(data)
	if err != nil {
		return nil, nil, err
	}
	remaining := make(solana.AccountMetaSlice, 0, len(ix.Accounts)-fixedAccounts)
	for _, meta := range ix.Accounts[fixedAccounts:] {
		pubkey, err := solana.PublicKeyFromBase58(meta.Pubkey)
		if err != nil {
			return nil, nil, ErrMalformedInstruction
		}
		remaining = append(remaining, solana.NewAccountMeta(pubkey, meta.IsWritable, meta.IsSigner))
	}
	return args, remaining, nil
}

// mergeLookupTables unions both legs' lookup table lists behind the
// curated external tables, preserving first-seen order.
func mergeLookupTables(leg1, leg2 *SwapInstructionsResponse) []solana.PublicKey {
	seen := make(map[solana.PublicKey]bool)
	tables := make([]solana.PublicKey, 0, len(chain.ExternalLookupTables)+len(leg1.AddressLookupTableAddresses)+len(leg2.AddressLookupTableAddresses))
	for _, table := range chain.ExternalLookupTables {
		if !seen[table] {
			seen[table] = true
			tables = append(tables, table)
		}
	}
	for _, addrs := range [][]string{leg1.AddressLookupTableAddresses, leg2.AddressLookupTableAddresses} {
		for _, addr := range addrs {
			table, err := solana.PublicKeyFromBase58(addr)
			if err != nil || seen[table] {
				continue
			}
			seen[table] = true
			tables = append(tables, table)
		}
	}
	return tables
}

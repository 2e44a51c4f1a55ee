package app

import (
	"context"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/0xtaiyi/jupiter-arbitrage/backend"
	"github.com/0xtaiyi/jupiter-arbitrage/config"
	"github.com/0xtaiyi/jupiter-arbitrage/jupiter"
	"github.com/0xtaiyi/jupiter-arbitrage/monitor"
	"github.com/0xtaiyi/jupiter-arbitrage/store"
	"github.com/0xtaiyi/jupiter-arbitrage/utils"
)

// submit turns a priced cycle into a signed transaction and hands it to
// the executor pool. Any failure drops the opportunity; quotes go stale
// too fast to retry.
func (arb *Arbitrage) submit(token *config.BaseToken, decimals uint8, quoteMint string, pair *jupiter.CyclePair, source string, candidate *monitor.Candidate) {
	id := uint64(time.Now().UnixMicro())
	arb.log.Printf("trade %d, source: %s, base: %s, amount: %d, profit: %d, mints: %v",
		id, source, token.Mint, pair.Leg1.InAmount, pair.Profit(), pair.TouchedMints())

	defer arb.record(id, source, token, quoteMint, pair, candidate)

	if !arb.config.LiveTrading() {
		arb.log.Printf("live trading is off, trade %d not submitted", id)
		return
	}

	baseMint, err := solana.PublicKeyFromBase58(token.Mint)
	if err != nil {
		arb.log.Printf("base mint %s: %s", token.Mint, err.Error())
		return
	}
	user := arb.backend.Player()
	userAta, _, err := solana.FindAssociatedTokenAddress(user, baseMint)
	if err != nil {
		arb.log.Printf("ata derivation err: %s", err.Error())
		return
	}
	flashCtx := arb.flashCtxs[token.Mint]
	wrapSol := flashCtx == nil && token.Mint == config.WSolMint

	buildCtx, cancel := context.WithTimeout(arb.ctx, time.Second*10)
	defer cancel()

	req1 := jupiter.NewSwapRequest(user, pair.Leg1)
	req2 := jupiter.NewSwapRequest(user, pair.Leg2)
	req1.WrapAndUnwrapSol = wrapSol
	req2.WrapAndUnwrapSol = wrapSol
	resp1, err := arb.client.SwapInstructions(buildCtx, req1)
	if err != nil {
		arb.log.Printf("swap instructions leg 1 err: %s", err.Error())
		return
	}
	resp2, err := arb.client.SwapInstructions(buildCtx, req2)
	if err != nil {
		arb.log.Printf("swap instructions leg 2 err: %s", err.Error())
		return
	}

	minProfit := utils.ToRaw(token.MinProfit, decimals)
	route, err := jupiter.BuildRoute(resp1, resp2, minProfit)
	if err != nil {
		arb.log.Printf("build route err: %s", err.Error())
		return
	}
	swapIx := jupiter.BuildSwapInstruction(user, baseMint, userAta, route)

	nonceIx := system.NewAdvanceNonceAccountInstruction(
		arb.backend.Nonce().Account(),
		solana.SysVarRecentBlockHashesPubkey,
		user,
	).Build()
	computeIxs := []solana.Instruction{
		computebudget.NewSetComputeUnitLimitInstruction(uint32(arb.config.TxCost.ComputeUnits)).Build(),
		computebudget.NewSetComputeUnitPriceInstruction(arb.config.TxCost.PriorityLamports).Build(),
	}
	createAtaIx := createAtaIdempotent(user, userAta, baseMint)
	setup, err := collectSetup(resp1, resp2)
	if err != nil {
		arb.log.Printf("setup instructions err: %s", err.Error())
		return
	}

	var ixs []solana.Instruction
	if flashCtx != nil {
		ixs, err = flashCtx.WrapTrade(nonceIx, computeIxs, createAtaIx, setup, swapIx, userAta, user, pair.Leg1.InAmount)
		if err != nil {
			arb.log.Printf("flash wrap err: %s", err.Error())
			return
		}
	} else {
		ixs = make([]solana.Instruction, 0, 4+len(setup)+2)
		ixs = append(ixs, nonceIx)
		ixs = append(ixs, computeIxs...)
		ixs = append(ixs, createAtaIx)
		ixs = append(ixs, setup...)
		ixs = append(ixs, swapIx)
		if resp2.CleanupInstruction != nil && wrapSol {
			cleanup, err := resp2.CleanupInstruction.ToInstruction()
			if err != nil {
				arb.log.Printf("cleanup instruction err: %s", err.Error())
				return
			}
			ixs = append(ixs, cleanup)
		}
	}

	tables, err := backend.ResolveLookupTables(buildCtx, arb.backend, route.LookupTables, arb.log)
	if err != nil {
		arb.log.Printf("lookup table resolve err: %s", err.Error())
		return
	}
	if err := arb.backend.Commit(id, ixs, tables); err != nil {
		arb.log.Printf("commit err: %s", err.Error())
		return
	}
	arb.notify.Commit(&TradeNotice{
		Id:        id,
		BaseMint:  token.Mint,
		Decimals:  decimals,
		Amount:    pair.Leg1.InAmount,
		Profit:    pair.Profit(),
		Source:    source,
		FlashLoan: flashCtx != nil,
	})
}

func (arb *Arbitrage) record(id uint64, source string, token *config.BaseToken, quoteMint string, pair *jupiter.CyclePair, candidate *monitor.Candidate) {
	if arb.store == nil {
		return
	}
	venues := ""
	trigger := ""
	if candidate != nil {
		venues = strings.Join(candidate.Venues, ",")
		trigger = candidate.Signature
	}
	arb.store.StoreCandidate(&store.CandidateRecord{
		Id:        id,
		Source:    source,
		BaseMint:  token.Mint,
		QuoteMint: quoteMint,
		Amount:    pair.Leg1.InAmount,
		OutAmount: pair.Leg2.OutAmount,
		Profit:    pair.Profit(),
		Venues:    venues,
		Trigger:   trigger,
	})
}

func collectSetup(legs ...*jupiter.SwapInstructionsResponse) ([]solana.Instruction, error) {
	setup := make([]solana.Instruction, 0, 4)
	for _, leg := range legs {
		for i := range leg.SetupInstructions {
			ix, err := leg.SetupInstructions[i].ToInstruction()
			if err != nil {
				return nil, err
			}
			setup = append(setup, ix)
		}
	}
	return setup, nil
}

// createAtaIdempotent builds the associated-token-account create
// instruction in its idempotent form; it is a no-op when the ata exists.
func createAtaIdempotent(payer, ata, mint solana.PublicKey) solana.Instruction {
	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(ata, true, false),
		solana.NewAccountMeta(payer, false, false),
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	}
	return solana.NewInstruction(solana.SPLAssociatedTokenAccountProgramID, accounts, []byte{1})
}

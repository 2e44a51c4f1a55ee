package monitor

import (
	"io"
	"log"
	"testing"

	"github.com/gagliardetto/solana-go"
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xtaiyi/jupiter-arbitrage/config"
)

const (
	feePayer         = "4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R"
	whirlpoolProgram = "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"
	raydiumProgram   = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	usdcMint         = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	wsolMint         = "So11111111111111111111111111111111111111112"
	bonkMint         = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
)

func usdcBase() *config.BaseToken {
	return &config.BaseToken{Mint: usdcMint, Threshold: 100}
}

func wsolBase() *config.BaseToken {
	return &config.BaseToken{Mint: wsolMint, Threshold: 1}
}

func newTestExtractor(baseTokens ...*config.BaseToken) *Extractor {
	return NewExtractor(baseTokens, wsolMint, log.New(io.Discard, "", 0))
}

func balance(index uint32, mint, owner string, amount float64) *pb.TokenBalance {
	return &pb.TokenBalance{
		AccountIndex:  index,
		Mint:          mint,
		Owner:         owner,
		UiTokenAmount: &pb.UiTokenAmount{UiAmount: amount},
	}
}

func metaWith(pre, post []*pb.TokenBalance) *pb.TransactionStatusMeta {
	return &pb.TransactionStatusMeta{
		PreBalances:       []uint64{10e9},
		PostBalances:      []uint64{10e9},
		PreTokenBalances:  pre,
		PostTokenBalances: post,
	}
}

func tradeUpdate(keys []string, programIndexes []uint32, meta *pb.TransactionStatusMeta) *pb.SubscribeUpdate {
	raw := make([][]byte, len(keys))
	for i, key := range keys {
		raw[i] = solana.MustPublicKeyFromBase58(key).Bytes()
	}
	instructions := make([]*pb.CompiledInstruction, len(programIndexes))
	for i, index := range programIndexes {
		instructions[i] = &pb.CompiledInstruction{ProgramIdIndex: index}
	}
	return &pb.SubscribeUpdate{
		UpdateOneof: &pb.SubscribeUpdate_Transaction{
			Transaction: &pb.SubscribeUpdateTransaction{
				Transaction: &pb.SubscribeUpdateTransactionInfo{
					Signature: make([]byte, 64),
					Transaction: &pb.Transaction{
						Message: &pb.Message{AccountKeys: raw, Instructions: instructions},
					},
					Meta: meta,
				},
			},
		},
	}
}

func TestExtractCandidate(t *testing.T) {
	meta := metaWith(
		[]*pb.TokenBalance{
			balance(3, usdcMint, feePayer, 1000),
			balance(4, bonkMint, feePayer, 0),
		},
		[]*pb.TokenBalance{
			balance(3, usdcMint, feePayer, 850),
			balance(4, bonkMint, feePayer, 5),
		},
	)
	// raydium is invoked through an inner instruction and its program key
	// arrives via a lookup table
	meta.LoadedReadonlyAddresses = [][]byte{solana.MustPublicKeyFromBase58(raydiumProgram).Bytes()}
	meta.InnerInstructions = []*pb.InnerInstructions{
		{Index: 0, Instructions: []*pb.InnerInstruction{{ProgramIdIndex: 2}}},
	}
	update := tradeUpdate([]string{feePayer, whirlpoolProgram}, []uint32{1}, meta)

	candidate := newTestExtractor(usdcBase()).Extract(update)
	require.NotNil(t, candidate)
	assert.Equal(t, usdcMint, candidate.BaseToken.Mint)
	assert.Equal(t, uint8(6), candidate.Decimals)
	assert.Equal(t, []string{
		"Whirlpool (" + whirlpoolProgram + ")",
		"Raydium (" + raydiumProgram + ")",
	}, candidate.Venues)
	assert.Equal(t, []string{bonkMint}, candidate.OtherMints)
	require.Len(t, candidate.Changes, 2)
	for _, change := range candidate.Changes {
		if change.Mint == usdcMint {
			assert.Equal(t, float64(-150), change.Delta)
		}
	}
}

func TestExtractIgnoresNonTransactionUpdates(t *testing.T) {
	update := &pb.SubscribeUpdate{
		UpdateOneof: &pb.SubscribeUpdate_Slot{Slot: &pb.SubscribeUpdateSlot{Slot: 1}},
	}
	assert.Nil(t, newTestExtractor(usdcBase()).Extract(update))
}

func TestExtractNoKnownVenue(t *testing.T) {
	meta := metaWith(
		[]*pb.TokenBalance{balance(2, usdcMint, feePayer, 1000)},
		[]*pb.TokenBalance{balance(2, usdcMint, feePayer, 700)},
	)
	update := tradeUpdate([]string{feePayer, usdcMint}, []uint32{1}, meta)
	assert.Nil(t, newTestExtractor(usdcBase()).Extract(update))
}

func TestExtractTooManyChanges(t *testing.T) {
	meta := metaWith(
		[]*pb.TokenBalance{
			balance(3, usdcMint, feePayer, 1000),
			balance(4, bonkMint, feePayer, 0),
			balance(5, wsolMint, feePayer, 10),
		},
		[]*pb.TokenBalance{
			balance(3, usdcMint, feePayer, 500),
			balance(4, bonkMint, feePayer, 5),
			balance(5, wsolMint, feePayer, 12),
		},
	)
	update := tradeUpdate([]string{feePayer, whirlpoolProgram}, []uint32{1}, meta)
	assert.Nil(t, newTestExtractor(usdcBase()).Extract(update))
}

func TestExtractBelowThreshold(t *testing.T) {
	meta := metaWith(
		[]*pb.TokenBalance{
			balance(3, usdcMint, feePayer, 1000),
			balance(4, bonkMint, feePayer, 0),
		},
		[]*pb.TokenBalance{
			balance(3, usdcMint, feePayer, 950),
			balance(4, bonkMint, feePayer, 5),
		},
	)
	update := tradeUpdate([]string{feePayer, whirlpoolProgram}, []uint32{1}, meta)
	assert.Nil(t, newTestExtractor(usdcBase()).Extract(update))
}

func TestExtractZeroDeltaIsNoTrade(t *testing.T) {
	meta := metaWith(
		[]*pb.TokenBalance{balance(3, usdcMint, feePayer, 1000)},
		[]*pb.TokenBalance{balance(3, usdcMint, feePayer, 1000)},
	)
	update := tradeUpdate([]string{feePayer, whirlpoolProgram}, []uint32{1}, meta)
	assert.Nil(t, newTestExtractor(usdcBase()).Extract(update))
}

func TestExtractSynthesizesLamportLeg(t *testing.T) {
	meta := metaWith(
		[]*pb.TokenBalance{balance(3, usdcMint, feePayer, 1000)},
		[]*pb.TokenBalance{balance(3, usdcMint, feePayer, 1200)},
	)
	meta.PreBalances = []uint64{5e9}
	meta.PostBalances = []uint64{3e9}
	update := tradeUpdate([]string{feePayer, whirlpoolProgram}, []uint32{1}, meta)

	candidate := newTestExtractor(usdcBase()).Extract(update)
	require.NotNil(t, candidate)
	require.Len(t, candidate.Changes, 2)
	synthesized := candidate.Changes[1]
	assert.Equal(t, wsolMint, synthesized.Mint)
	assert.Equal(t, float64(-2), synthesized.Delta)
	assert.Equal(t, []string{wsolMint}, candidate.OtherMints)
}

func TestExtractThresholdIsStrict(t *testing.T) {
	// a delta landing exactly on the threshold does not qualify
	meta := metaWith(
		[]*pb.TokenBalance{
			balance(3, usdcMint, feePayer, 1000),
			balance(4, bonkMint, feePayer, 0),
		},
		[]*pb.TokenBalance{
			balance(3, usdcMint, feePayer, 900),
			balance(4, bonkMint, feePayer, 5),
		},
	)
	update := tradeUpdate([]string{feePayer, whirlpoolProgram}, []uint32{1}, meta)
	assert.Nil(t, newTestExtractor(usdcBase()).Extract(update))
}

func TestExtractRequiresOtherLeg(t *testing.T) {
	// both legs are configured base tokens, so no counterleg mint remains
	meta := metaWith(
		[]*pb.TokenBalance{
			balance(3, wsolMint, feePayer, 20),
			balance(4, usdcMint, feePayer, 0),
		},
		[]*pb.TokenBalance{
			balance(3, wsolMint, feePayer, 15),
			balance(4, usdcMint, feePayer, 600),
		},
	)
	update := tradeUpdate([]string{feePayer, whirlpoolProgram}, []uint32{1}, meta)
	assert.Nil(t, newTestExtractor(wsolBase(), usdcBase()).Extract(update))
}

func TestMatchBaseTokenConfigOrder(t *testing.T) {
	changes := []TokenChange{
		{Mint: usdcMint, Delta: 600},
		{Mint: wsolMint, Delta: -5},
	}
	token, decimals := newTestExtractor(wsolBase(), usdcBase()).matchBaseToken(changes)
	require.NotNil(t, token)
	assert.Equal(t, wsolMint, token.Mint)
	assert.Equal(t, uint8(9), decimals)
}

func TestExtractOwnerFallsBackToAccountKey(t *testing.T) {
	// balance entries with no owner resolve against the account key list
	meta := metaWith(
		[]*pb.TokenBalance{
			balance(0, usdcMint, "", 1000),
			balance(3, bonkMint, feePayer, 0),
		},
		[]*pb.TokenBalance{
			balance(0, usdcMint, "", 800),
			balance(3, bonkMint, feePayer, 4),
		},
	)
	update := tradeUpdate([]string{feePayer, whirlpoolProgram}, []uint32{1}, meta)

	candidate := newTestExtractor(usdcBase()).Extract(update)
	require.NotNil(t, candidate)
	assert.Equal(t, usdcMint, candidate.BaseToken.Mint)
	assert.Equal(t, []string{bonkMint}, candidate.OtherMints)
	for _, change := range candidate.Changes {
		if change.Mint == usdcMint {
			assert.Equal(t, feePayer, change.Owner)
			assert.Equal(t, float64(-200), change.Delta)
		}
	}
}

package flashloan

import (
	"encoding/binary"
	"log"
	"os"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xtaiyi/jupiter-arbitrage/chain"
	"github.com/0xtaiyi/jupiter-arbitrage/config"
)

var (
	testProgram = "So1endDq2YkqhipRh3WViPa8hdiSpxWy6z3Z6tMCpAo"
	testMarket  = "4UpD2fh7xH3VP9QQaXtsS1YY3bxzWhtfpks7FatyKvdY"
	testWSol    = "So11111111111111111111111111111111111111112"
)

func testLogger() *log.Logger {
	return log.New(os.Stderr, "", log.LstdFlags)
}

func solendConfig() *config.FlashLoan {
	return &config.FlashLoan{
		Enabled:       true,
		Protocol:      "solend",
		ProgramId:     testProgram,
		LendingMarket: testMarket,
		Reserves: []*config.FlashLoanReserve{
			{
				TokenMint:       testWSol,
				Reserve:         "8PbodeaosQP19SjYFx855UMqWxH2HynZLdBXmsrbac36",
				LiquiditySupply: "8UviNr47S8eL32nfdqxPGGWPdY7fXsZRioMzUQ7SttCq",
				FeeReceiver:     "5wo1tFpi4HaVKnemqaXeQnBEpezrJXcXvuztYaPhvgC7",
			},
		},
	}
}

func fakeSwapIx() solana.Instruction {
	return solana.NewInstruction(chain.JupiterProgram, solana.AccountMetaSlice{}, []byte{1, 2, 3})
}

func fakeMiscIx(seed byte) solana.Instruction {
	var raw [32]byte
	raw[0] = seed
	return solana.NewInstruction(solana.PublicKeyFromBytes(raw[:]), solana.AccountMetaSlice{}, []byte{seed})
}

func TestLoadContexts(t *testing.T) {
	ctxs, err := LoadContexts(solendConfig(), testLogger())
	require.NoError(t, err)
	require.Len(t, ctxs, 1)
	ctx := ctxs[testWSol]
	require.NotNil(t, ctx)
	assert.Equal(t, Solend, ctx.Protocol)

	// the market authority is a derived program address
	authority, _, err := solana.FindProgramAddress(
		[][]byte{ctx.LendingMarket.Bytes()}, ctx.Program)
	require.NoError(t, err)
	assert.Equal(t, authority, ctx.MarketAuthority)
}

func TestLoadContextsDisabled(t *testing.T) {
	ctxs, err := LoadContexts(&config.FlashLoan{}, testLogger())
	require.NoError(t, err)
	assert.Empty(t, ctxs)
}

func TestLoadContextsSkipsBadReserve(t *testing.T) {
	cfg := solendConfig()
	cfg.Reserves = append(cfg.Reserves, &config.FlashLoanReserve{
		TokenMint: "not-a-key",
	})
	ctxs, err := LoadContexts(cfg, testLogger())
	require.NoError(t, err)
	assert.Len(t, ctxs, 1)
}

func TestLoadContextsNoUsableReserve(t *testing.T) {
	cfg := solendConfig()
	cfg.Reserves = cfg.Reserves[:0]
	cfg.Reserves = append(cfg.Reserves, &config.FlashLoanReserve{TokenMint: "bad"})
	_, err := LoadContexts(cfg, testLogger())
	assert.Error(t, err)
}

func TestLoadContextsBadProtocol(t *testing.T) {
	cfg := solendConfig()
	cfg.Protocol = "aave"
	_, err := LoadContexts(cfg, testLogger())
	assert.Error(t, err)
}

func TestWrapTradeOrdering(t *testing.T) {
	ctxs, err := LoadContexts(solendConfig(), testLogger())
	require.NoError(t, err)
	ctx := ctxs[testWSol]

	user := solana.PublicKeyFromBytes(make([]byte, 32))
	userAta := ctx.FeeReceiver
	nonceIx := fakeMiscIx(1)
	computeIxs := []solana.Instruction{fakeMiscIx(2), fakeMiscIx(3)}
	createAta := fakeMiscIx(4)
	setup := []solana.Instruction{fakeMiscIx(5)}

	ixs, err := ctx.WrapTrade(nonceIx, computeIxs, createAta, setup, fakeSwapIx(), userAta, user, 12345)
	require.NoError(t, err)
	require.Len(t, ixs, 8)

	borrowData, err := ixs[4].Data()
	require.NoError(t, err)
	assert.Equal(t, byte(14), borrowData[0])
	assert.Equal(t, uint64(12345), binary.LittleEndian.Uint64(borrowData[1:9]))

	paybackData, err := ixs[7].Data()
	require.NoError(t, err)
	assert.Equal(t, byte(15), paybackData[0])
	assert.Equal(t, uint64(12345), binary.LittleEndian.Uint64(paybackData[1:9]))
	// the payback proves atomicity with the borrow's transaction index
	assert.Equal(t, byte(4), paybackData[9])
}

func TestSolendAccountLayout(t *testing.T) {
	ctxs, err := LoadContexts(solendConfig(), testLogger())
	require.NoError(t, err)
	ctx := ctxs[testWSol]
	user := solana.PublicKeyFromBytes(make([]byte, 32))
	userAta := ctx.FeeReceiver

	borrow := ctx.BuildBorrow(userAta, user, 10)
	accounts := borrow.Accounts()
	require.Len(t, accounts, 7)
	assert.Equal(t, ctx.LiquiditySupply, accounts[0].PublicKey)
	assert.Equal(t, userAta, accounts[1].PublicKey)
	assert.Equal(t, ctx.Reserve, accounts[2].PublicKey)
	assert.Equal(t, ctx.LendingMarket, accounts[3].PublicKey)
	assert.Equal(t, ctx.MarketAuthority, accounts[4].PublicKey)
	// the program locates the matching payback through the sysvar
	assert.Equal(t, solana.SysVarInstructionsPubkey, accounts[5].PublicKey)
	assert.Equal(t, solana.TokenProgramID, accounts[6].PublicKey)

	payback := ctx.BuildPayback(userAta, user, 10, 4)
	accounts = payback.Accounts()
	require.Len(t, accounts, 9)
	assert.Equal(t, user, accounts[6].PublicKey)
	assert.True(t, accounts[6].IsSigner)
	assert.True(t, accounts[6].IsWritable)
	assert.Equal(t, solana.SysVarInstructionsPubkey, accounts[7].PublicKey)
	assert.Equal(t, solana.TokenProgramID, accounts[8].PublicKey)
}

func TestValidateRejectsBadOrder(t *testing.T) {
	ctxs, err := LoadContexts(solendConfig(), testLogger())
	require.NoError(t, err)
	ctx := ctxs[testWSol]
	user := solana.PublicKeyFromBytes(make([]byte, 32))
	userAta := ctx.FeeReceiver

	borrow := ctx.BuildBorrow(userAta, user, 10)
	payback := ctx.BuildPayback(userAta, user, 10, 0)
	swap := fakeSwapIx()

	cases := []struct {
		name string
		ixs  []solana.Instruction
	}{
		{"payback not last", []solana.Instruction{borrow, payback, swap}},
		{"borrow after swap", []solana.Instruction{swap, borrow, payback}},
		{"missing payback", []solana.Instruction{borrow, swap}},
		{"missing borrow", []solana.Instruction{swap, payback}},
		{"duplicate borrow", []solana.Instruction{borrow, borrow, swap, payback}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, ctx.Validate(tc.ixs), ErrInstructionOrder)
		})
	}
}

func TestJupiterLendTags(t *testing.T) {
	cfg := solendConfig()
	cfg.Protocol = "jupiter_lend"
	cfg.Reserves[0].Vault = "4UpD2fh7xH3VP9QQaXtsS1YY3bxzWhtfpks7FatyKvdY"
	cfg.Reserves[0].RateModel = "8PbodeaosQP19SjYFx855UMqWxH2HynZLdBXmsrbac36"
	cfg.Reserves[0].LiquidityProgram = "8UviNr47S8eL32nfdqxPGGWPdY7fXsZRioMzUQ7SttCq"
	ctxs, err := LoadContexts(cfg, testLogger())
	require.NoError(t, err)
	ctx := ctxs[testWSol]
	require.Equal(t, JupiterLend, ctx.Protocol)

	user := solana.PublicKeyFromBytes(make([]byte, 32))
	borrow := ctx.BuildBorrow(ctx.FeeReceiver, user, 99)
	data, err := borrow.Data()
	require.NoError(t, err)
	assert.Equal(t, lendBorrowTag, data[:8])
	assert.Equal(t, uint64(99), binary.LittleEndian.Uint64(data[8:16]))

	payback := ctx.BuildPayback(ctx.FeeReceiver, user, 99, 4)
	data, err = payback.Data()
	require.NoError(t, err)
	assert.Equal(t, lendPaybackTag, data[:8])
	// no index byte, ordering is proven through the instructions sysvar
	assert.Len(t, data, 16)

	ixs, err := ctx.WrapTrade(fakeMiscIx(1), []solana.Instruction{fakeMiscIx(2)}, fakeMiscIx(3), nil, fakeSwapIx(), ctx.FeeReceiver, user, 99)
	require.NoError(t, err)
	assert.Len(t, ixs, 6)
}

func TestJupiterLendRequiresExtraAccounts(t *testing.T) {
	cfg := solendConfig()
	cfg.Protocol = "jupiter-lend"
	_, err := LoadContexts(cfg, testLogger())
	assert.Error(t, err)
}

package jupiter

import (
	"encoding/base64"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xtaiyi/jupiter-arbitrage/chain"
)

func pk(seed byte) solana.PublicKey {
	var raw [32]byte
	raw[0] = seed
	raw[31] = seed
	return solana.PublicKeyFromBytes(raw[:])
}

func legResponse(t *testing.T, data []byte, remaining []solana.PublicKey, tables []string) *SwapInstructionsResponse {
	t.Helper()
	accounts := make([]AccountMetaJSON, 0, fixedAccounts+len(remaining))
	for i := 0; i < fixedAccounts; i++ {
		accounts = append(accounts, AccountMetaJSON{Pubkey: pk(200 + byte(i)).String()})
	}
	for _, key := range remaining {
		accounts = append(accounts, AccountMetaJSON{Pubkey: key.String(), IsWritable: true})
	}
	return &SwapInstructionsResponse{
		SwapInstruction: InstructionJSON{
			ProgramId: chain.JupiterProgram.String(),
			Accounts:  accounts,
			Data:      base64.StdEncoding.EncodeToString(data),
		},
		AddressLookupTableAddresses: tables,
	}
}

func TestBuildRouteClosedLoop(t *testing.T) {
	leg1Data := rawRoute([][]byte{
		step([]byte{7}, 100, 0, 1),
		step([]byte{17, 1}, 55, 1, 2),
	}, 1000, 2000, 0, 0)
	leg2Data := rawRoute([][]byte{
		step([]byte{26}, 100, 0, 1),
	}, 2000, 1001, 0, 0)
	table1 := pk(40).String()
	table2 := pk(41).String()
	leg1 := legResponse(t, leg1Data, []solana.PublicKey{pk(1), pk(2)}, []string{table1, table2})
	leg2 := legResponse(t, leg2Data, []solana.PublicKey{pk(3)}, []string{table2})

	route, err := BuildRoute(leg1, leg2, 7)
	require.NoError(t, err)

	require.Len(t, route.Args.Steps, 3)
	for i, s := range route.Args.Steps {
		assert.Equal(t, uint8(100), s.Percent)
		assert.Equal(t, uint8(i), s.InputIndex)
	}
	assert.Equal(t, uint8(1), route.Args.Steps[0].OutputIndex)
	assert.Equal(t, uint8(2), route.Args.Steps[1].OutputIndex)
	assert.Equal(t, uint8(0), route.Args.Steps[2].OutputIndex)

	// profit floor is pinned to the leg-1 input plus the margin
	assert.Equal(t, uint64(1000), route.Args.InAmount)
	assert.Equal(t, uint64(1007), route.Args.QuotedOutAmount)
	assert.Equal(t, uint16(0), route.Args.SlippageBps)

	// remaining accounts keep relative order, leg 1 first
	require.Len(t, route.RemainingAccounts, 3)
	assert.Equal(t, pk(1), route.RemainingAccounts[0].PublicKey)
	assert.Equal(t, pk(2), route.RemainingAccounts[1].PublicKey)
	assert.Equal(t, pk(3), route.RemainingAccounts[2].PublicKey)

	// tables are a set union behind the curated externals
	externals := chain.ExternalLookupTables
	require.Len(t, route.LookupTables, len(externals)+2)
	for i, table := range externals {
		assert.Equal(t, table, route.LookupTables[i])
	}
	assert.Equal(t, table1, route.LookupTables[len(externals)].String())
	assert.Equal(t, table2, route.LookupTables[len(externals)+1].String())
}

func TestBuildRouteZeroMinProfit(t *testing.T) {
	leg1 := legResponse(t, rawRoute([][]byte{step([]byte{7}, 100, 0, 1)}, 500, 600, 0, 0), nil, nil)
	leg2 := legResponse(t, rawRoute([][]byte{step([]byte{26}, 100, 0, 1)}, 600, 505, 0, 0), nil, nil)
	route, err := BuildRoute(leg1, leg2, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), route.Args.QuotedOutAmount)
}

func TestBuildRouteMalformed(t *testing.T) {
	good := rawRoute([][]byte{step([]byte{7}, 100, 0, 1)}, 1, 2, 0, 0)

	short := legResponse(t, good, nil, nil)
	short.SwapInstruction.Accounts = short.SwapInstruction.Accounts[:4]
	_, err := BuildRoute(short, legResponse(t, good, nil, nil), 0)
	assert.ErrorIs(t, err, ErrMalformedInstruction)

	wrongProgram := legResponse(t, good, nil, nil)
	wrongProgram.SwapInstruction.ProgramId = pk(9).String()
	_, err = BuildRoute(legResponse(t, good, nil, nil), wrongProgram, 0)
	assert.ErrorIs(t, err, ErrMalformedInstruction)

	badData := legResponse(t, good[:10], nil, nil)
	_, err = BuildRoute(badData, legResponse(t, good, nil, nil), 0)
	assert.ErrorIs(t, err, ErrMalformedInstruction)
}

func TestBuildSwapInstruction(t *testing.T) {
	leg1 := legResponse(t, rawRoute([][]byte{step([]byte{7}, 100, 0, 1)}, 1000, 1100, 0, 0), []solana.PublicKey{pk(1)}, nil)
	leg2 := legResponse(t, rawRoute([][]byte{step([]byte{26}, 100, 0, 1)}, 1100, 1002, 0, 0), []solana.PublicKey{pk(2)}, nil)
	route, err := BuildRoute(leg1, leg2, 2)
	require.NoError(t, err)

	user := pk(10)
	baseMint := pk(11)
	userAta := pk(12)
	ix := BuildSwapInstruction(user, baseMint, userAta, route)

	assert.Equal(t, chain.JupiterProgram, ix.ProgramID())
	accounts := ix.Accounts()
	require.Len(t, accounts, fixedAccounts+2)
	assert.Equal(t, solana.TokenProgramID, accounts[0].PublicKey)
	assert.Equal(t, user, accounts[1].PublicKey)
	assert.True(t, accounts[1].IsSigner)
	// the cycle returns to the base mint, source and destination are the same ata
	assert.Equal(t, userAta, accounts[2].PublicKey)
	assert.Equal(t, userAta, accounts[3].PublicKey)
	assert.Equal(t, baseMint, accounts[5].PublicKey)
	assert.Equal(t, chain.JupiterEventAuth, accounts[7].PublicKey)

	data, err := ix.Data()
	require.NoError(t, err)
	decoded, err := DecodeRouteArgs(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(1002), decoded.QuotedOutAmount)
}

package backend

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nonceData(state uint32, authority, blockhash byte, lamports uint64) []byte {
	out := binary.LittleEndian.AppendUint32(nil, 1)
	out = binary.LittleEndian.AppendUint32(out, state)
	auth := make([]byte, 32)
	auth[0] = authority
	out = append(out, auth...)
	hash := make([]byte, 32)
	hash[0] = blockhash
	out = append(out, hash...)
	out = binary.LittleEndian.AppendUint64(out, lamports)
	return out
}

func TestDecodeNonceState(t *testing.T) {
	data := nonceData(1, 7, 9, 5000)
	state, err := DecodeNonceState(data)
	require.NoError(t, err)
	assert.True(t, state.Fresh)
	assert.Equal(t, uint64(5000), state.LamportsPerSignature)

	wantAuthority := make([]byte, 32)
	wantAuthority[0] = 7
	assert.Equal(t, solana.PublicKeyFromBytes(wantAuthority), state.Authority)
	assert.Equal(t, byte(9), state.Blockhash[0])
}

func TestDecodeNonceStateUninitialized(t *testing.T) {
	_, err := DecodeNonceState(nonceData(0, 7, 9, 5000))
	assert.Error(t, err)
}

func TestDecodeNonceStateShortData(t *testing.T) {
	_, err := DecodeNonceState(make([]byte, nonceAccountSize-1))
	assert.Error(t, err)
}

package jupiter

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xtaiyi/jupiter-arbitrage/chain"
)

func rawRoute(steps [][]byte, inAmount, outAmount uint64, slippage uint16, feeBps uint8) []byte {
	out := append([]byte{}, chain.RouteDiscriminator[:]...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(steps)))
	for _, step := range steps {
		out = append(out, step...)
	}
	out = binary.LittleEndian.AppendUint64(out, inAmount)
	out = binary.LittleEndian.AppendUint64(out, outAmount)
	out = binary.LittleEndian.AppendUint16(out, slippage)
	out = append(out, feeBps)
	return out
}

// step helper: swap selector bytes followed by percent and indexes.
func step(swap []byte, percent, in, out uint8) []byte {
	return append(append([]byte{}, swap...), percent, in, out)
}

func TestDecodeRouteArgs(t *testing.T) {
	data := rawRoute([][]byte{
		step([]byte{7}, 100, 0, 1),      // Raydium, no payload
		step([]byte{17, 1}, 100, 1, 2),  // Whirlpool { a_to_b: true }
		step([]byte{87, 1, 2, 3, 4, 5, 6, 7, 8, 1}, 100, 2, 0), // HumidiFi
	}, 5000, 5010, 0, 0)

	args, err := DecodeRouteArgs(data)
	require.NoError(t, err)
	require.Len(t, args.Steps, 3)
	assert.Equal(t, []byte{7}, args.Steps[0].Swap)
	assert.Equal(t, []byte{17, 1}, args.Steps[1].Swap)
	assert.Equal(t, uint8(2), args.Steps[2].InputIndex)
	assert.Equal(t, uint8(0), args.Steps[2].OutputIndex)
	assert.Equal(t, uint64(5000), args.InAmount)
	assert.Equal(t, uint64(5010), args.QuotedOutAmount)
	assert.Equal(t, uint16(0), args.SlippageBps)
}

func TestDecodeRouteArgsOptionPayload(t *testing.T) {
	// WhirlpoolSwapV2 with the remaining-accounts option unset and set.
	unset := []byte{47, 1, 0}
	set := append([]byte{47, 0, 1}, binary.LittleEndian.AppendUint32(nil, 2)...)
	set = append(set, 0, 3, 1, 2)
	data := rawRoute([][]byte{
		step(unset, 100, 0, 1),
		step(set, 100, 1, 0),
	}, 100, 101, 0, 0)

	args, err := DecodeRouteArgs(data)
	require.NoError(t, err)
	require.Len(t, args.Steps, 2)
	assert.Equal(t, unset, args.Steps[0].Swap)
	assert.Equal(t, set, args.Steps[1].Swap)
}

func TestEncodeRoundTrip(t *testing.T) {
	data := rawRoute([][]byte{
		step([]byte{61, 0}, 100, 0, 1), // SolFi
		step([]byte{26}, 100, 1, 0),    // RaydiumClmm
	}, 777, 779, 0, 0)
	args, err := DecodeRouteArgs(data)
	require.NoError(t, err)
	assert.Equal(t, data, args.Encode())
}

func TestDecodeRouteArgsMalformed(t *testing.T) {
	valid := rawRoute([][]byte{step([]byte{7}, 100, 0, 0)}, 1, 2, 0, 0)
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad discriminator", append([]byte{0, 0, 0, 0, 0, 0, 0, 0}, valid[8:]...)},
		{"truncated trailer", valid[:len(valid)-4]},
		{"trailing garbage", append(append([]byte{}, valid...), 0xff)},
		{"zero steps", rawRoute(nil, 1, 2, 0, 0)},
		{"unknown variant", rawRoute([][]byte{step([]byte{250}, 100, 0, 0)}, 1, 2, 0, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeRouteArgs(tc.data)
			assert.ErrorIs(t, err, ErrMalformedInstruction)
		})
	}
}

package jupiter

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/0xtaiyi/jupiter-arbitrage/chain"
)

// ErrMalformedInstruction means a swap instruction payload did not decode
// as a route instruction. The cycle is dropped, never patched.
var ErrMalformedInstruction = errors.New("jupiter: malformed route instruction")

// RouteStep is one hop of the on-chain route args. The swap selector is
// carried as opaque bytes (borsh enum discriminant plus variant payload);
// the assembler never needs to interpret it, only to re-slice it.
type RouteStep struct {
	Swap        []byte
	Percent     uint8
	InputIndex  uint8
	OutputIndex uint8
}

// RouteArgs mirrors the borsh argument block of the route instruction.
type RouteArgs struct {
	Steps           []RouteStep
	InAmount        uint64
	QuotedOutAmount uint64
	SlippageBps     uint16
	PlatformFeeBps  uint8
}

// swapSizer reports how many bytes the variant payload occupies at the
// start of data.
type swapSizer func(data []byte) (int, error)

func fixed(n int) swapSizer {
	return func(data []byte) (int, error) {
		if len(data) < n {
			return 0, ErrMalformedInstruction
		}
		return n, nil
	}
}

// optionOf sizes a borsh Option<T>: one presence byte, then T when set.
func optionOf(inner swapSizer) swapSizer {
	return func(data []byte) (int, error) {
		if len(data) < 1 {
			return 0, ErrMalformedInstruction
		}
		switch data[0] {
		case 0:
			return 1, nil
		case 1:
			n, err := inner(data[1:])
			if err != nil {
				return 0, err
			}
			return 1 + n, nil
		default:
			return 0, ErrMalformedInstruction
		}
	}
}

// remainingAccountsInfo sizes a Vec of (accounts_type u8, length u8) pairs.
func remainingAccountsInfo(data []byte) (int, error) {
	if len(data) < 4 {
		return 0, ErrMalformedInstruction
	}
	count := int(binary.LittleEndian.Uint32(data))
	size := 4 + count*2
	if count > 255 || len(data) < size {
		return 0, ErrMalformedInstruction
	}
	return size, nil
}

func seq(sizers ...swapSizer) swapSizer {
	return func(data []byte) (int, error) {
		total := 0
		for _, sizer := range sizers {
			n, err := sizer(data[total:])
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	}
}

// swapVariants maps the borsh enum discriminant of the aggregator's swap
// selector to its payload width. Unknown discriminants fail the decode:
// guessing a width would corrupt every field after it.
var swapVariants = map[uint8]swapSizer{
	0:  fixed(0), // Saber
	1:  fixed(0), // SaberAddDecimalsDeposit
	2:  fixed(0), // SaberAddDecimalsWithdraw
	3:  fixed(0), // TokenSwap
	4:  fixed(0), // Sencha
	5:  fixed(0), // Step
	6:  fixed(0), // Cropper
	7:  fixed(0), // Raydium
	8:  fixed(1), // Crema { a_to_b }
	9:  fixed(0), // Lifinity
	10: fixed(0), // Mercurial
	11: fixed(0), // Cykura
	12: fixed(1), // Serum { side }
	13: fixed(0), // MarinadeDeposit
	14: fixed(0), // MarinadeUnstake
	15: fixed(1), // Aldrin { side }
	16: fixed(1), // AldrinV2 { side }
	17: fixed(1), // Whirlpool { a_to_b }
	18: fixed(1), // Invariant { x_to_y }
	19: fixed(0), // Meteora
	20: fixed(0), // GooseFX
	21: fixed(1), // DeltaFi { stable }
	22: fixed(0), // Balansol
	23: fixed(1), // MarcoPolo { x_to_y }
	24: fixed(1), // Dradex { side }
	25: fixed(0), // LifinityV2
	26: fixed(0), // RaydiumClmm
	27: fixed(1), // Openbook { side }
	28: fixed(1), // Phoenix { side }
	29: fixed(16), // Symmetry { from_token_id, to_token_id }
	30: fixed(0), // TokenSwapV2
	31: fixed(0), // HeliumTreasuryManagementRedeemV0
	32: fixed(0), // StakeDexStakeWrappedSol
	33: fixed(4), // StakeDexSwapViaStake { bridge_stake_seed }
	34: fixed(0), // GooseFXV2
	35: fixed(0), // Perps
	36: fixed(0), // PerpsAddLiquidity
	37: fixed(0), // PerpsRemoveLiquidity
	38: fixed(0), // MeteoraDlmm
	39: fixed(1), // OpenBookV2 { side }
	40: fixed(0), // RaydiumClmmV2
	41: fixed(4), // StakeDexPrefundWithdrawStakeAndDepositStake
	42: fixed(3), // Clone { pool_index, quantity_is_input, quantity_is_collateral }
	43: fixed(10), // SanctumS
	44: fixed(5), // SanctumSAddLiquidity
	45: fixed(5), // SanctumSRemoveLiquidity
	46: fixed(0), // RaydiumCP
	47: seq(fixed(1), optionOf(remainingAccountsInfo)), // WhirlpoolSwapV2
	48: fixed(0), // OneIntro
	49: fixed(0), // PumpdotfunWrappedBuy
	50: fixed(0), // PumpdotfunWrappedSell
	51: fixed(0), // PerpsV2
	52: fixed(0), // PerpsV2AddLiquidity
	53: fixed(0), // PerpsV2RemoveLiquidity
	54: fixed(0), // MoonshotWrappedBuy
	55: fixed(0), // MoonshotWrappedSell
	56: fixed(0), // StabbleStableSwap
	57: fixed(0), // StabbleWeightedSwap
	58: fixed(1), // Obric { x_to_y }
	59: fixed(0), // FoxBuyFromEstimatedCost
	60: fixed(1), // FoxClaimPartial { is_y }
	61: fixed(1), // SolFi { is_quote_to_base }
	62: fixed(0), // SolayerDelegateNoInit
	63: fixed(0), // SolayerUndelegateNoInit
	64: fixed(1), // TokenMill { side }
	65: fixed(0), // DaosFunBuy
	66: fixed(0), // DaosFunSell
	67: fixed(0), // ZeroFi
	68: fixed(0), // StakeDexWithdrawWrappedSol
	69: fixed(0), // VirtualsBuy
	70: fixed(0), // VirtualsSell
	71: fixed(2), // Perena { in_index, out_index }
	72: fixed(0), // PumpdotfunAmmBuy
	73: fixed(0), // PumpdotfunAmmSell
	74: fixed(0), // Gamma
	75: remainingAccountsInfo, // MeteoraDlmmSwapV2
	76: fixed(0), // Woofi
	77: fixed(0), // MeteoraDammV2
	78: fixed(0), // MeteoraDynamicBondingCurveSwap
	79: fixed(0), // StabbleStableSwapV2
	80: fixed(0), // StabbleWeightedSwapV2
	81: fixed(8), // RaydiumLaunchlabBuy { share_fee_rate }
	82: fixed(8), // RaydiumLaunchlabSell { share_fee_rate }
	83: fixed(0), // BoopdotfunWrappedBuy
	84: fixed(0), // BoopdotfunWrappedSell
	85: fixed(1), // Plasma { side }
	86: fixed(2), // GoonFi { is_bid, blacklist_bump }
	87: fixed(9), // HumidiFi { swap_id, is_base_to_quote }
	88: remainingAccountsInfo, // MeteoraDynamicBondingCurveSwapWithRemainingAccounts
	89: fixed(1), // TesseraV { side }
}

// DecodeRouteArgs parses the full data blob of a route instruction,
// discriminator included.
func DecodeRouteArgs(data []byte) (*RouteArgs, error) {
	if len(data) < 8 || !bytes.Equal(data[:8], chain.RouteDiscriminator[:]) {
		return nil, ErrMalformedInstruction
	}
	rest := data[8:]
	if len(rest) < 4 {
		return nil, ErrMalformedInstruction
	}
	count := int(binary.LittleEndian.Uint32(rest))
	rest = rest[4:]
	if count == 0 || count > 64 {
		return nil, ErrMalformedInstruction
	}
	args := &RouteArgs{Steps: make([]RouteStep, 0, count)}
	for i := 0; i < count; i++ {
		if len(rest) < 1 {
			return nil, ErrMalformedInstruction
		}
		sizer, ok := swapVariants[rest[0]]
		if !ok {
			return nil, fmt.Errorf("%w: unknown swap variant %d", ErrMalformedInstruction, rest[0])
		}
		payload, err := sizer(rest[1:])
		if err != nil {
			return nil, err
		}
		swapLen := 1 + payload
		if len(rest) < swapLen+3 {
			return nil, ErrMalformedInstruction
		}
		step := RouteStep{
			Swap:        append([]byte(nil), rest[:swapLen]...),
			Percent:     rest[swapLen],
			InputIndex:  rest[swapLen+1],
			OutputIndex: rest[swapLen+2],
		}
		args.Steps = append(args.Steps, step)
		rest = rest[swapLen+3:]
	}
	if len(rest) != 8+8+2+1 {
		return nil, ErrMalformedInstruction
	}
	args.InAmount = binary.LittleEndian.Uint64(rest)
	args.QuotedOutAmount = binary.LittleEndian.Uint64(rest[8:])
	args.SlippageBps = binary.LittleEndian.Uint16(rest[16:])
	args.PlatformFeeBps = rest[18]
	return args, nil
}

// Encode serializes the args back to instruction data, discriminator
// included.
func (a *RouteArgs) Encode() []byte {
	size := 8 + 4
	for _, step := range a.Steps {
		size += len(step.Swap) + 3
	}
	size += 8 + 8 + 2 + 1
	out := make([]byte, 0, size)
	out = append(out, chain.RouteDiscriminator[:]...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(a.Steps)))
	for _, step := range a.Steps {
		out = append(out, step.Swap...)
		out = append(out, step.Percent, step.InputIndex, step.OutputIndex)
	}
	out = binary.LittleEndian.AppendUint64(out, a.InAmount)
	out = binary.LittleEndian.AppendUint64(out, a.QuotedOutAmount)
	out = binary.LittleEndian.AppendUint16(out, a.SlippageBps)
	out = append(out, a.PlatformFeeBps)
	return out
}

package flashloan

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/0xtaiyi/jupiter-arbitrage/chain"
	"github.com/0xtaiyi/jupiter-arbitrage/config"
)

// ErrInstructionOrder means a wrapped transaction would execute the
// borrow or payback out of place. Fatal: it is an assembler bug, the
// trade is never submitted.
var ErrInstructionOrder = errors.New("flashloan: instruction ordering violated")

// Protocol selects the reserve schema and atomicity proof.
type Protocol int

const (
	// Solend tags instructions with a single byte and proves atomicity
	// by passing the borrow's transaction index to the payback.
	Solend Protocol = iota
	// JupiterLend uses 8-byte anchor discriminators and proves ordering
	// by introspecting the instructions sysvar alone.
	JupiterLend
)

func ParseProtocol(name string) (Protocol, error) {
	switch strings.ToLower(name) {
	case "solend":
		return Solend, nil
	case "jupiter_lend", "jupiter-lend", "jupiterlend":
		return JupiterLend, nil
	}
	return 0, fmt.Errorf("flashloan: unknown protocol %q", name)
}

const (
	solendBorrowTag  = byte(14)
	solendPaybackTag = byte(15)
)

var (
	lendBorrowTag  = []byte{166, 221, 220, 25, 61, 73, 127, 240}
	lendPaybackTag = []byte{194, 201, 150, 194, 117, 39, 231, 26}
)

// Context is everything a borrow/payback pair needs for one token's
// reserve. Built once at startup, read-only afterwards.
type Context struct {
	Protocol        Protocol
	Program         solana.PublicKey
	LendingMarket   solana.PublicKey
	MarketAuthority solana.PublicKey
	TokenMint       solana.PublicKey
	Reserve         solana.PublicKey
	LiquiditySupply solana.PublicKey
	FeeReceiver     solana.PublicKey

	// JupiterLend reserves carry three extra accounts.
	Vault            solana.PublicKey
	RateModel        solana.PublicKey
	LiquidityProgram solana.PublicKey
}

// LoadContexts builds one Context per configured reserve, keyed by token
// mint. A reserve that fails to parse is skipped with a warning; an
// enabled flash-loan section that yields no usable reserve is an error.
func LoadContexts(cfg *config.FlashLoan, logger *log.Logger) (map[string]*Context, error) {
	if !cfg.Enabled {
		return map[string]*Context{}, nil
	}
	protocol, err := ParseProtocol(cfg.Protocol)
	if err != nil {
		return nil, err
	}
	program, err := solana.PublicKeyFromBase58(cfg.ProgramId)
	if err != nil {
		return nil, fmt.Errorf("flashloan: bad program id %q: %v", cfg.ProgramId, err)
	}
	market, err := solana.PublicKeyFromBase58(cfg.LendingMarket)
	if err != nil {
		return nil, fmt.Errorf("flashloan: bad lending market %q: %v", cfg.LendingMarket, err)
	}
	authority, _, err := solana.FindProgramAddress([][]byte{market.Bytes()}, program)
	if err != nil {
		return nil, fmt.Errorf("flashloan: market authority derivation: %v", err)
	}
	contexts := make(map[string]*Context, len(cfg.Reserves))
	for i := range cfg.Reserves {
		ctx, err := newContext(protocol, program, market, authority, cfg.Reserves[i])
		if err != nil {
			logger.Printf("flashloan reserve %d skipped: %v", i, err)
			continue
		}
		contexts[ctx.TokenMint.String()] = ctx
	}
	if len(contexts) == 0 {
		return nil, fmt.Errorf("flashloan: no usable reserve configured")
	}
	return contexts, nil
}

func newContext(protocol Protocol, program, market, authority solana.PublicKey, reserve *config.FlashLoanReserve) (*Context, error) {
	ctx := &Context{
		Protocol:        protocol,
		Program:         program,
		LendingMarket:   market,
		MarketAuthority: authority,
	}
	var err error
	if ctx.TokenMint, err = solana.PublicKeyFromBase58(reserve.TokenMint); err != nil {
		return nil, fmt.Errorf("token_mint: %v", err)
	}
	if ctx.Reserve, err = solana.PublicKeyFromBase58(reserve.Reserve); err != nil {
		return nil, fmt.Errorf("reserve: %v", err)
	}
	if ctx.LiquiditySupply, err = solana.PublicKeyFromBase58(reserve.LiquiditySupply); err != nil {
		return nil, fmt.Errorf("liquidity_supply: %v", err)
	}
	if ctx.FeeReceiver, err = solana.PublicKeyFromBase58(reserve.FeeReceiver); err != nil {
		return nil, fmt.Errorf("fee_receiver: %v", err)
	}
	if protocol == JupiterLend {
		if ctx.Vault, err = solana.PublicKeyFromBase58(reserve.Vault); err != nil {
			return nil, fmt.Errorf("vault: %v", err)
		}
		if ctx.RateModel, err = solana.PublicKeyFromBase58(reserve.RateModel); err != nil {
			return nil, fmt.Errorf("rate_model: %v", err)
		}
		if ctx.LiquidityProgram, err = solana.PublicKeyFromBase58(reserve.LiquidityProgram); err != nil {
			return nil, fmt.Errorf("liquidity_program: %v", err)
		}
	}
	return ctx, nil
}

// BuildBorrow builds the flash-borrow instruction delivering amount raw
// units into the user's ata.
func (ctx *Context) BuildBorrow(userAta, user solana.PublicKey, amount uint64) solana.Instruction {
	if ctx.Protocol == JupiterLend {
		data := make([]byte, 0, 16)
		data = append(data, lendBorrowTag...)
		data = binary.LittleEndian.AppendUint64(data, amount)
		accounts := solana.AccountMetaSlice{
			solana.NewAccountMeta(user, true, true),
			solana.NewAccountMeta(ctx.Vault, true, false),
			solana.NewAccountMeta(ctx.Reserve, true, false),
			solana.NewAccountMeta(ctx.LiquiditySupply, true, false),
			solana.NewAccountMeta(userAta, true, false),
			solana.NewAccountMeta(ctx.RateModel, false, false),
			solana.NewAccountMeta(ctx.LiquidityProgram, false, false),
			solana.NewAccountMeta(solana.TokenProgramID, false, false),
			solana.NewAccountMeta(solana.SysVarInstructionsPubkey, false, false),
		}
		return solana.NewInstruction(ctx.Program, accounts, data)
	}
	data := make([]byte, 0, 9)
	data = append(data, solendBorrowTag)
	data = binary.LittleEndian.AppendUint64(data, amount)
	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(ctx.LiquiditySupply, true, false),
		solana.NewAccountMeta(userAta, true, false),
		solana.NewAccountMeta(ctx.Reserve, true, false),
		solana.NewAccountMeta(ctx.LendingMarket, false, false),
		solana.NewAccountMeta(ctx.MarketAuthority, false, false),
		solana.NewAccountMeta(solana.SysVarInstructionsPubkey, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	}
	return solana.NewInstruction(ctx.Program, accounts, data)
}

// BuildPayback builds the flash-payback instruction returning amount raw
// units to the reserve. borrowIndex is the borrow instruction's position
// within the transaction; only the Solend schema encodes it.
func (ctx *Context) BuildPayback(userAta, user solana.PublicKey, amount uint64, borrowIndex uint8) solana.Instruction {
	if ctx.Protocol == JupiterLend {
		data := make([]byte, 0, 16)
		data = append(data, lendPaybackTag...)
		data = binary.LittleEndian.AppendUint64(data, amount)
		accounts := solana.AccountMetaSlice{
			solana.NewAccountMeta(user, true, true),
			solana.NewAccountMeta(ctx.Vault, true, false),
			solana.NewAccountMeta(ctx.Reserve, true, false),
			solana.NewAccountMeta(ctx.LiquiditySupply, true, false),
			solana.NewAccountMeta(ctx.FeeReceiver, true, false),
			solana.NewAccountMeta(userAta, true, false),
			solana.NewAccountMeta(ctx.RateModel, false, false),
			solana.NewAccountMeta(ctx.LiquidityProgram, false, false),
			solana.NewAccountMeta(solana.TokenProgramID, false, false),
			solana.NewAccountMeta(solana.SysVarInstructionsPubkey, false, false),
		}
		return solana.NewInstruction(ctx.Program, accounts, data)
	}
	data := make([]byte, 0, 10)
	data = append(data, solendPaybackTag)
	data = binary.LittleEndian.AppendUint64(data, amount)
	data = append(data, borrowIndex)
	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(userAta, true, false),
		solana.NewAccountMeta(ctx.LiquiditySupply, true, false),
		solana.NewAccountMeta(ctx.FeeReceiver, true, false),
		solana.NewAccountMeta(ctx.FeeReceiver, true, false),
		solana.NewAccountMeta(ctx.Reserve, true, false),
		solana.NewAccountMeta(ctx.LendingMarket, false, false),
		solana.NewAccountMeta(user, true, true),
		solana.NewAccountMeta(solana.SysVarInstructionsPubkey, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	}
	return solana.NewInstruction(ctx.Program, accounts, data)
}

// WrapTrade assembles the full flash-loan transaction body:
// [advance-nonce, cu-limit, cu-price, create-ata, borrow, setup..., swap,
// payback]. The returned list is re-validated before it is handed back.
func (ctx *Context) WrapTrade(nonceIx solana.Instruction, computeIxs []solana.Instruction, createAtaIx solana.Instruction, setup []solana.Instruction, swapIx solana.Instruction, userAta, user solana.PublicKey, amount uint64) ([]solana.Instruction, error) {
	ixs := make([]solana.Instruction, 0, 5+len(computeIxs)+len(setup)+2)
	ixs = append(ixs, nonceIx)
	ixs = append(ixs, computeIxs...)
	ixs = append(ixs, createAtaIx)
	borrowIndex := uint8(len(ixs))
	ixs = append(ixs, ctx.BuildBorrow(userAta, user, amount))
	ixs = append(ixs, setup...)
	ixs = append(ixs, swapIx)
	ixs = append(ixs, ctx.BuildPayback(userAta, user, amount, borrowIndex))
	if err := ctx.Validate(ixs); err != nil {
		return nil, err
	}
	return ixs, nil
}

// Validate checks the structural ordering of a wrapped instruction list:
// exactly one borrow before every swap instruction, exactly one payback
// in last position.
func (ctx *Context) Validate(ixs []solana.Instruction) error {
	borrowAt, paybackAt := -1, -1
	firstSwapAt := -1
	for i, ix := range ixs {
		if ix.ProgramID().Equals(chain.JupiterProgram) && firstSwapAt < 0 {
			firstSwapAt = i
		}
		if !ix.ProgramID().Equals(ctx.Program) {
			continue
		}
		data, err := ix.Data()
		if err != nil {
			return err
		}
		switch {
		case ctx.isBorrow(data):
			if borrowAt >= 0 {
				return fmt.Errorf("%w: duplicate borrow", ErrInstructionOrder)
			}
			borrowAt = i
		case ctx.isPayback(data):
			if paybackAt >= 0 {
				return fmt.Errorf("%w: duplicate payback", ErrInstructionOrder)
			}
			paybackAt = i
		}
	}
	if borrowAt < 0 || paybackAt < 0 {
		return fmt.Errorf("%w: borrow or payback missing", ErrInstructionOrder)
	}
	if paybackAt != len(ixs)-1 {
		return fmt.Errorf("%w: payback not last", ErrInstructionOrder)
	}
	if firstSwapAt >= 0 && borrowAt > firstSwapAt {
		return fmt.Errorf("%w: borrow after swap", ErrInstructionOrder)
	}
	return nil
}

func (ctx *Context) isBorrow(data []byte) bool {
	if ctx.Protocol == JupiterLend {
		return len(data) >= 8 && string(data[:8]) == string(lendBorrowTag)
	}
	return len(data) >= 1 && data[0] == solendBorrowTag
}

func (ctx *Context) isPayback(data []byte) bool {
	if ctx.Protocol == JupiterLend {
		return len(data) >= 8 && string(data[:8]) == string(lendPaybackTag)
	}
	return len(data) >= 1 && data[0] == solendPaybackTag
}

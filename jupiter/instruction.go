package jupiter

import (
	"github.com/gagliardetto/solana-go"

	"github.com/0xtaiyi/jupiter-arbitrage/chain"
)

// BuildSwapInstruction assembles the final route instruction for a merged
// cycle. Source and destination token accounts are the same ata: the
// route starts and ends in the base token.
func BuildSwapInstruction(user, baseMint, userAta solana.PublicKey, route *MergedRoute) *solana.GenericInstruction {
	accounts := make(solana.AccountMetaSlice, 0, fixedAccounts+len(route.RemainingAccounts))
	accounts = append(accounts,
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(user, true, true),
		solana.NewAccountMeta(userAta, true, false),
		solana.NewAccountMeta(userAta, true, false),
		solana.NewAccountMeta(chain.JupiterProgram, false, false),
		solana.NewAccountMeta(baseMint, false, false),
		solana.NewAccountMeta(chain.JupiterProgram, false, false),
		solana.NewAccountMeta(chain.JupiterEventAuth, false, false),
		solana.NewAccountMeta(chain.JupiterProgram, false, false),
	)
	accounts = append(accounts, route.RemainingAccounts...)
	return solana.NewInstruction(chain.JupiterProgram, accounts, route.Args.Encode())
}

// NewSwapRequest prepares a per-leg swap-instructions request. Wrapping is
// left off: the cycle moves spl balances only, never native sol.
func NewSwapRequest(user solana.PublicKey, quote *QuoteResponse) *SwapRequest {
	return &SwapRequest{
		UserPublicKey:            user.String(),
		QuoteResponse:            *quote,
		WrapAndUnwrapSol:         false,
		UseSharedAccounts:        false,
		SkipUserAccountsRpcCalls: true,
	}
}

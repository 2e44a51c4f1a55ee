package jupiter

import (
	"encoding/base64"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// SwapInfo describes one hop of an aggregator route.
type SwapInfo struct {
	AmmKey     string `json:"ammKey"`
	Label      string `json:"label"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`
	FeeAmount  string `json:"feeAmount"`
	FeeMint    string `json:"feeMint"`
}

type RoutePlanStep struct {
	SwapInfo SwapInfo `json:"swapInfo"`
	Percent  uint8    `json:"percent"`
}

// QuoteResponse is one priced leg as returned by the aggregator. It is
// immutable once received; the assembler builds new values instead of
// mutating legs.
type QuoteResponse struct {
	InputMint            string          `json:"inputMint"`
	InAmount             uint64          `json:"inAmount,string"`
	OutputMint           string          `json:"outputMint"`
	OutAmount            uint64          `json:"outAmount,string"`
	OtherAmountThreshold string          `json:"otherAmountThreshold"`
	SwapMode             string          `json:"swapMode"`
	SlippageBps          uint64          `json:"slippageBps"`
	PriceImpactPct       string          `json:"priceImpactPct"`
	RoutePlan            []RoutePlanStep `json:"routePlan"`
	ContextSlot          uint64          `json:"contextSlot"`
	TimeTaken            float64         `json:"timeTaken"`
}

// VenueLabels collects the route's venue labels, used as the exclusion set
// for the second leg in direct mode.
func (q *QuoteResponse) VenueLabels() []string {
	labels := make([]string, 0, len(q.RoutePlan))
	for _, step := range q.RoutePlan {
		labels = append(labels, step.SwapInfo.Label)
	}
	return labels
}

type AccountMetaJSON struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

type InstructionJSON struct {
	ProgramId string            `json:"programId"`
	Accounts  []AccountMetaJSON `json:"accounts"`
	Data      string            `json:"data"`
}

func (ix *InstructionJSON) ToInstruction() (*solana.GenericInstruction, error) {
	programID, err := solana.PublicKeyFromBase58(ix.ProgramId)
	if err != nil {
		return nil, fmt.Errorf("instruction program id: %v", err)
	}
	accounts := make(solana.AccountMetaSlice, 0, len(ix.Accounts))
	for _, meta := range ix.Accounts {
		pubkey, err := solana.PublicKeyFromBase58(meta.Pubkey)
		if err != nil {
			return nil, fmt.Errorf("instruction account: %v", err)
		}
		accounts = append(accounts, solana.NewAccountMeta(pubkey, meta.IsWritable, meta.IsSigner))
	}
	data, err := base64.StdEncoding.DecodeString(ix.Data)
	if err != nil {
		return nil, fmt.Errorf("instruction data: %v", err)
	}
	return solana.NewInstruction(programID, accounts, data), nil
}

// SwapInstructionsResponse is the aggregator's answer to a
// swap-instructions request for one leg.
type SwapInstructionsResponse struct {
	ComputeBudgetInstructions   []InstructionJSON `json:"computeBudgetInstructions"`
	SetupInstructions           []InstructionJSON `json:"setupInstructions"`
	SwapInstruction             InstructionJSON   `json:"swapInstruction"`
	CleanupInstruction          *InstructionJSON  `json:"cleanupInstruction"`
	AddressLookupTableAddresses []string          `json:"addressLookupTableAddresses"`
}

type SwapRequest struct {
	UserPublicKey                 string        `json:"userPublicKey"`
	QuoteResponse                 QuoteResponse `json:"quoteResponse"`
	WrapAndUnwrapSol              bool          `json:"wrapAndUnwrapSol"`
	UseSharedAccounts             bool          `json:"useSharedAccounts"`
	SkipUserAccountsRpcCalls      bool          `json:"skipUserAccountsRpcCalls"`
	ComputeUnitPriceMicroLamports uint64        `json:"computeUnitPriceMicroLamports,omitempty"`
}

package monitor

import (
	"log"
	"math"

	"github.com/gagliardetto/solana-go"
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"

	"github.com/0xtaiyi/jupiter-arbitrage/chain"
	"github.com/0xtaiyi/jupiter-arbitrage/config"
)

// balanceEpsilon is the smallest ui-amount delta treated as a real
// balance movement.
const balanceEpsilon = 2.220446049250313e-16

const lamportsPerSol = 1e9

// TokenChange is one account's balance delta across a transaction.
type TokenChange struct {
	Mint  string
	Owner string
	Delta float64
	Pre   float64
	Post  float64
}

// Candidate is a counterparty trade big enough to react to: the matched
// base token, the fee payer's balance changes, the venues involved and
// the other mints touched.
type Candidate struct {
	BaseToken  *config.BaseToken
	Decimals   uint8
	Changes    []TokenChange
	Venues     []string
	OtherMints []string
	Signature  string
}

// Extractor turns raw geyser updates into trade candidates. It holds no
// cross-event state; each update is judged alone against the configured
// base tokens.
type Extractor struct {
	baseTokens []*config.BaseToken
	quoteMint  string
	logger     *log.Logger
}

func NewExtractor(baseTokens []*config.BaseToken, quoteMint string, logger *log.Logger) *Extractor {
	return &Extractor{
		baseTokens: baseTokens,
		quoteMint:  quoteMint,
		logger:     logger,
	}
}

// Extract returns a candidate when the update is a transaction moving a
// configured base token past its threshold, nil otherwise. Nil is the
// normal outcome for almost every update.
func (e *Extractor) Extract(update *pb.SubscribeUpdate) *Candidate {
	txUpdate, ok := update.GetUpdateOneof().(*pb.SubscribeUpdate_Transaction)
	if !ok {
		return nil
	}
	info := txUpdate.Transaction.GetTransaction()
	if info == nil || info.Transaction == nil || info.Transaction.Message == nil || info.Meta == nil {
		return nil
	}
	message := info.Transaction.Message
	meta := info.Meta

	accountKeys := collectAccountKeys(message.AccountKeys, meta)
	if len(accountKeys) == 0 {
		return nil
	}
	venues := collectVenues(message, meta, accountKeys)
	if len(venues) == 0 {
		return nil
	}

	feePayer := accountKeys[0]
	changes := tokenChanges(meta, accountKeys)
	ownChanges := make([]TokenChange, 0, 2)
	for _, change := range changes {
		if change.Owner == feePayer {
			ownChanges = append(ownChanges, change)
		}
	}
	if len(ownChanges) == 1 && len(meta.PreBalances) > 0 && len(meta.PostBalances) > 0 {
		// A native-token leg leaves no spl balance entry; reconstruct it
		// from the fee payer's lamport delta.
		pre := float64(meta.PreBalances[0]) / lamportsPerSol
		post := float64(meta.PostBalances[0]) / lamportsPerSol
		ownChanges = append(ownChanges, TokenChange{
			Mint:  e.quoteMint,
			Owner: feePayer,
			Delta: post - pre,
			Pre:   pre,
			Post:  post,
		})
	}
	if len(ownChanges) > 2 {
		return nil
	}

	matched, decimals := e.matchBaseToken(ownChanges)
	if matched == nil {
		return nil
	}
	// A real counterparty trade has a non-base counterleg; base-only
	// movement is dust or an unrelated transfer.
	otherMints := e.otherMints(ownChanges, matched.Mint)
	if len(otherMints) == 0 {
		return nil
	}

	return &Candidate{
		BaseToken:  matched,
		Decimals:   decimals,
		Changes:    ownChanges,
		Venues:     venues,
		OtherMints: otherMints,
		Signature:  solana.SignatureFromBytes(info.Signature).String(),
	}
}

// matchBaseToken returns the first configured base token whose delta
// strictly exceeds its threshold. Configuration order breaks ties on
// purpose.
func (e *Extractor) matchBaseToken(changes []TokenChange) (*config.BaseToken, uint8) {
	for _, token := range e.baseTokens {
		for _, change := range changes {
			if change.Mint != token.Mint || math.Abs(change.Delta) <= token.Threshold {
				continue
			}
			info, ok := chain.Token(token.Mint)
			if !ok {
				e.logger.Printf("base token %s is not in the token registry, skipped", token.Mint)
				continue
			}
			return token, info.Decimals
		}
	}
	return nil, 0
}

// otherMints lists the non-base mints the fee payer touched, with wsol
// rewritten to the configured quote mint.
func (e *Extractor) otherMints(changes []TokenChange, matchedMint string) []string {
	base := make(map[string]bool, len(e.baseTokens))
	for _, token := range e.baseTokens {
		base[token.Mint] = true
	}
	seen := make(map[string]bool)
	mints := make([]string, 0, len(changes))
	for _, change := range changes {
		mint := change.Mint
		if mint == config.WSolMint {
			mint = e.quoteMint
		}
		if mint == matchedMint || base[mint] || seen[mint] {
			continue
		}
		seen[mint] = true
		mints = append(mints, mint)
	}
	return mints
}

// collectAccountKeys rebuilds the full key list of a versioned
// transaction: static keys first, then the table-loaded extensions.
func collectAccountKeys(static [][]byte, meta *pb.TransactionStatusMeta) []string {
	keys := make([]string, 0, len(static)+len(meta.LoadedWritableAddresses)+len(meta.LoadedReadonlyAddresses))
	for _, raw := range static {
		keys = append(keys, solana.PublicKeyFromBytes(raw).String())
	}
	for _, raw := range meta.LoadedWritableAddresses {
		keys = append(keys, solana.PublicKeyFromBytes(raw).String())
	}
	for _, raw := range meta.LoadedReadonlyAddresses {
		keys = append(keys, solana.PublicKeyFromBytes(raw).String())
	}
	return keys
}

// collectVenues maps every invoked program, outer and inner, through the
// venue registry.
func collectVenues(message *pb.Message, meta *pb.TransactionStatusMeta, accountKeys []string) []string {
	seen := make(map[string]bool)
	venues := make([]string, 0, 4)
	add := func(programIndex uint32) {
		if int(programIndex) >= len(accountKeys) {
			return
		}
		program := accountKeys[programIndex]
		label, ok := chain.VenueLabel(program)
		if !ok || seen[label] {
			return
		}
		seen[label] = true
		venues = append(venues, label)
	}
	for _, ix := range message.Instructions {
		add(ix.ProgramIdIndex)
	}
	for _, inner := range meta.InnerInstructions {
		for _, ix := range inner.Instructions {
			add(ix.ProgramIdIndex)
		}
	}
	return venues
}

// tokenChanges computes the per-account spl balance deltas from the
// pre/post snapshots. An index with an unchanged balance produces
// nothing. When neither snapshot names an owner the account key itself
// stands in for it.
func tokenChanges(meta *pb.TransactionStatusMeta, accountKeys []string) []TokenChange {
	type side struct {
		mint   string
		owner  string
		amount float64
		found  bool
	}
	pre := make(map[uint32]side, len(meta.PreTokenBalances))
	post := make(map[uint32]side, len(meta.PostTokenBalances))
	indexes := make([]uint32, 0, len(meta.PreTokenBalances)+len(meta.PostTokenBalances))
	record := func(balances []*pb.TokenBalance, into map[uint32]side) {
		for _, balance := range balances {
			amount := 0.0
			if balance.UiTokenAmount != nil {
				amount = balance.UiTokenAmount.UiAmount
			}
			if _, ok := into[balance.AccountIndex]; !ok {
				into[balance.AccountIndex] = side{
					mint:   balance.Mint,
					owner:  balance.Owner,
					amount: amount,
					found:  true,
				}
			}
		}
	}
	record(meta.PreTokenBalances, pre)
	record(meta.PostTokenBalances, post)
	for index := range pre {
		indexes = append(indexes, index)
	}
	for index := range post {
		if _, ok := pre[index]; !ok {
			indexes = append(indexes, index)
		}
	}

	changes := make([]TokenChange, 0, len(indexes))
	for _, index := range indexes {
		before := pre[index]
		after := post[index]
		delta := after.amount - before.amount
		if math.Abs(delta) < balanceEpsilon {
			continue
		}
		mint, owner := before.mint, before.owner
		if !before.found {
			mint, owner = after.mint, after.owner
		}
		if owner == "" && int(index) < len(accountKeys) {
			owner = accountKeys[index]
		}
		changes = append(changes, TokenChange{
			Mint:  mint,
			Owner: owner,
			Delta: delta,
			Pre:   before.amount,
			Post:  after.amount,
		})
	}
	return changes
}

package jupiter

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
)

// Timing is a measured round trip against the aggregator, reported once
// at startup so the operator can judge whether the box is close enough
// to the api to race.
type Timing struct {
	Quote            time.Duration
	SwapInstructions time.Duration
}

// EstimateTiming runs one quote and one swap-instructions build against
// the given pair and measures the wall time of each.
func EstimateTiming(ctx context.Context, client *Client, user solana.PublicKey, baseMint, quoteMint string, amount uint64) (*Timing, error) {
	timing := &Timing{}

	start := time.Now()
	quote, err := client.Quote(ctx, &QuoteRequest{
		InputMint:                  baseMint,
		OutputMint:                 quoteMint,
		Amount:                     amount,
		SlippageBps:                0,
		RestrictIntermediateTokens: true,
	})
	if err != nil {
		return nil, err
	}
	timing.Quote = time.Since(start)

	start = time.Now()
	if _, err := client.SwapInstructions(ctx, NewSwapRequest(user, quote)); err != nil {
		return nil, err
	}
	timing.SwapInstructions = time.Since(start)
	return timing, nil
}

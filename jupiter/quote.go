package jupiter

import (
	"context"
)

// Mode selects how the two legs of a cycle are priced.
type Mode int

const (
	// Direct restricts both legs to single-hop routes and forbids the
	// second leg from reusing the first leg's venues.
	Direct Mode = iota
	// Polling allows multi-hop routes through popular intermediate tokens.
	Polling
)

// CyclePair is a priced round trip: base token out on leg 1, back in on
// leg 2. Legs are kept verbatim; the assembler consumes both.
type CyclePair struct {
	Leg1 *QuoteResponse
	Leg2 *QuoteResponse
}

// Profit is the raw base-token delta of the round trip. Negative when
// the cycle loses money before fees.
func (p *CyclePair) Profit() int64 {
	return int64(p.Leg2.OutAmount) - int64(p.Leg1.InAmount)
}

// TouchedMints lists every mint appearing in either leg's route plan,
// de-duplicated, base mint first.
func (p *CyclePair) TouchedMints() []string {
	seen := make(map[string]bool)
	mints := make([]string, 0, 8)
	add := func(mint string) {
		if mint == "" || seen[mint] {
			return
		}
		seen[mint] = true
		mints = append(mints, mint)
	}
	add(p.Leg1.InputMint)
	for _, leg := range []*QuoteResponse{p.Leg1, p.Leg2} {
		for _, step := range leg.RoutePlan {
			add(step.SwapInfo.InputMint)
			add(step.SwapInfo.OutputMint)
		}
	}
	return mints
}

// QuoteCycle prices a base -> quote -> base round trip. Leg 2 spends
// exactly what leg 1 produced, so the pair is a closed loop in the base
// token. Returns ErrQuoteUnavailable when either leg cannot be priced.
func QuoteCycle(ctx context.Context, client *Client, baseMint, quoteMint string, amount uint64, mode Mode) (*CyclePair, error) {
	leg1Req := &QuoteRequest{
		InputMint:   baseMint,
		OutputMint:  quoteMint,
		Amount:      amount,
		SlippageBps: 0,
	}
	switch mode {
	case Direct:
		leg1Req.OnlyDirectRoutes = true
		leg1Req.RestrictIntermediateTokens = true
	case Polling:
		leg1Req.RestrictIntermediateTokens = true
	}
	leg1, err := client.Quote(ctx, leg1Req)
	if err != nil {
		return nil, err
	}
	leg2Req := &QuoteRequest{
		InputMint:   quoteMint,
		OutputMint:  baseMint,
		Amount:      leg1.OutAmount,
		SlippageBps: 0,
	}
	switch mode {
	case Direct:
		leg2Req.OnlyDirectRoutes = true
		leg2Req.RestrictIntermediateTokens = true
		leg2Req.ExcludedDexes = excludableLabels(leg1)
	case Polling:
		leg2Req.RestrictIntermediateTokens = true
	}
	leg2, err := client.Quote(ctx, leg2Req)
	if err != nil {
		return nil, err
	}
	return &CyclePair{Leg1: leg1, Leg2: leg2}, nil
}

// excludableLabels de-duplicates the leg's venue labels for the
// excludeDexes parameter of the opposite leg.
func excludableLabels(leg *QuoteResponse) []string {
	labels := make([]string, 0, len(leg.RoutePlan))
	seen := make(map[string]bool)
	for _, label := range leg.VenueLabels() {
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}

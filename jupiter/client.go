package jupiter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrQuoteUnavailable means the aggregator could not price the leg.
	// Routine during quiet markets; callers skip the cycle.
	ErrQuoteUnavailable = errors.New("jupiter: no route for quote")
)

type QuoteRequest struct {
	InputMint                  string
	OutputMint                 string
	Amount                     uint64
	SlippageBps                uint64
	OnlyDirectRoutes           bool
	RestrictIntermediateTokens bool
	ExcludedDexes              []string
}

// Client talks to the swap aggregator REST api.
type Client struct {
	baseUrl string
	apiKey  string
	client  *http.Client
	logger  *log.Logger
}

func NewClient(baseUrl, apiKey string, logger *log.Logger) *Client {
	return &Client{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: time.Second * 5},
		logger:  logger,
	}
}

func (c *Client) Quote(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	params := url.Values{}
	params.Set("inputMint", req.InputMint)
	params.Set("outputMint", req.OutputMint)
	params.Set("amount", strconv.FormatUint(req.Amount, 10))
	params.Set("slippageBps", strconv.FormatUint(req.SlippageBps, 10))
	if req.OnlyDirectRoutes {
		params.Set("onlyDirectRoutes", "true")
	}
	if req.RestrictIntermediateTokens {
		params.Set("restrictIntermediateTokens", "true")
	}
	if len(req.ExcludedDexes) > 0 {
		params.Set("excludeDexes", strings.Join(req.ExcludedDexes, ","))
	}
	body, err := c.get(ctx, "/quote?"+params.Encode())
	if err != nil {
		return nil, err
	}
	quote := &QuoteResponse{}
	if err := json.Unmarshal(body, quote); err != nil {
		return nil, fmt.Errorf("quote response: %v", err)
	}
	if len(quote.RoutePlan) == 0 || quote.OutAmount == 0 {
		return nil, ErrQuoteUnavailable
	}
	return quote, nil
}

func (c *Client) SwapInstructions(ctx context.Context, req *SwapRequest) (*SwapInstructionsResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	body, err := c.post(ctx, "/swap-instructions", payload)
	if err != nil {
		return nil, err
	}
	resp := &SwapInstructionsResponse{}
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, fmt.Errorf("swap instructions response: %v", err)
	}
	if resp.SwapInstruction.ProgramId == "" {
		return nil, fmt.Errorf("swap instructions response has no swap instruction")
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		preview := body
		if len(preview) > 500 {
			preview = preview[:500]
		}
		if c.logger != nil {
			c.logger.Printf("swap api %s returned %d: %s", req.URL.Path, resp.StatusCode, preview)
		}
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
			return nil, ErrQuoteUnavailable
		}
		return nil, fmt.Errorf("swap api %s: status %d", req.URL.Path, resp.StatusCode)
	}
	return body, nil
}

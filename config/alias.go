package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config files in the wild spell the same field a few different ways.
// Aliases are resolved once here; everything after Load sees only the
// canonical names declared in config.go.
var sectionAliases = map[string][]string{
	"node":       {"connection", "credential"},
	"swap_api":   {"dex_api", "services"},
	"strategy":   {"arbitrage"},
	"tx_cost":    {"fees", "fee"},
	"flash_loan": {},
}

var fieldAliases = map[string]map[string][]string{
	"node": {
		"keypair_path": {"signer_keypair_path", "wallet_path"},
		"rpc_url":      {"rpc_endpoint"},
		"submit_url":   {"submit_endpoint"},
		"geyser_url":   {"geyser_endpoint", "yellowstone_grpc_endpoint"},
		"geyser_token": {"geyser_auth_token", "yellowstone_grpc_token"},
	},
	"swap_api": {
		"base_url": {"endpoint", "jupiter_endpoint"},
		"api_key":  {"auth_token", "jupiter_api_key"},
	},
	"strategy": {
		"base_tokens":      {"instruments", "mother_token"},
		"nonce_account":    {"nonce_account_pubkey", "nonce_addr"},
		"quote_mint":       {"default_quote_mint", "target_token"},
		"live_trading":     {"execution_enabled", "submit_transactions"},
		"watch_flows":      {"geyser_watch_enabled", "enable_big_trades_monitor"},
		"poll_quotes":      {"polling_enabled", "enable_continuous_polling"},
		"poll_interval_ms": {"polling_interval_ms"},
	},
	"tx_cost": {
		"compute_units":     {"compute_unit_limit", "cu"},
		"priority_lamports": {"priority_fee_lamports", "priority_fee_micro_lamport"},
		"tip_sol":           {"relay_tip_sol", "third_party_fee"},
		"sol_usd":           {"sol_price_usd", "sol_price_usdc"},
	},
}

var baseTokenAliases = map[string][]string{
	"mint":         {"token_mint", "token_addr"},
	"threshold":    {"min_delta_threshold"},
	"min_profit":   {"min_profit_quote_units", "min_profit_amount"},
	"amount_range": {"notional_range", "input_amount_range"},
	"steps":        {"grid_steps", "input_amount_steps"},
}

func normalize(raw map[string]json.RawMessage, aliases map[string][]string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	for canonical, names := range aliases {
		if _, ok := out[canonical]; ok {
			continue
		}
		for _, name := range names {
			if v, ok := out[name]; ok {
				out[canonical] = v
				delete(out, name)
				break
			}
		}
	}
	return out
}

func normalizeSection(root map[string]json.RawMessage, section string) error {
	raw, ok := root[section]
	if !ok {
		return nil
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("section %s: %v", section, err)
	}
	fields = normalize(fields, fieldAliases[section])
	if section == "strategy" {
		if err := normalizeBaseTokens(fields); err != nil {
			return err
		}
	}
	cooked, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	root[section] = cooked
	return nil
}

func normalizeBaseTokens(strategy map[string]json.RawMessage) error {
	raw, ok := strategy["base_tokens"]
	if !ok {
		return nil
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("base_tokens: %v", err)
	}
	for i, item := range items {
		items[i] = normalize(item, baseTokenAliases)
	}
	cooked, err := json.Marshal(items)
	if err != nil {
		return err
	}
	strategy["base_tokens"] = cooked
	return nil
}

func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(content)
}

func Parse(content []byte) (*Config, error) {
	root := make(map[string]json.RawMessage)
	if err := json.Unmarshal(content, &root); err != nil {
		return nil, err
	}
	root = normalize(root, sectionAliases)
	for section := range sectionAliases {
		if err := normalizeSection(root, section); err != nil {
			return nil, err
		}
	}
	cooked, err := json.Marshal(root)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := json.Unmarshal(cooked, cfg); err != nil {
		return nil, err
	}
	if cfg.FlashLoan == nil {
		cfg.FlashLoan = &FlashLoan{}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Node == nil {
		return fmt.Errorf("config: node section is required")
	}
	if c.Node.KeypairPath == "" {
		return fmt.Errorf("config: node.keypair_path is required")
	}
	if c.Node.RpcUrl == "" {
		return fmt.Errorf("config: node.rpc_url is required")
	}
	if c.Node.SubmitUrl == "" {
		return fmt.Errorf("config: node.submit_url is required")
	}
	if c.SwapApi == nil || c.SwapApi.BaseUrl == "" {
		return fmt.Errorf("config: swap_api.base_url is required")
	}
	if c.Strategy == nil {
		return fmt.Errorf("config: strategy section is required")
	}
	if len(c.Strategy.BaseTokens) == 0 {
		return fmt.Errorf("config: strategy.base_tokens is empty")
	}
	for i, token := range c.Strategy.BaseTokens {
		if token.Mint == "" {
			return fmt.Errorf("config: base_tokens[%d].mint is required", i)
		}
		if token.AmountRange[0] <= 0 || token.AmountRange[1] < token.AmountRange[0] {
			return fmt.Errorf("config: base_tokens[%d].amount_range is invalid", i)
		}
		if token.Steps == 0 {
			return fmt.Errorf("config: base_tokens[%d].steps is required", i)
		}
	}
	if c.Strategy.NonceAccount == "" {
		return fmt.Errorf("config: strategy.nonce_account is required")
	}
	if c.TxCost == nil || c.TxCost.ComputeUnits == 0 {
		return fmt.Errorf("config: tx_cost.compute_units is required")
	}
	if c.FlashLoan.Enabled {
		if c.FlashLoan.Protocol == "" {
			return fmt.Errorf("config: flash_loan.protocol is required when enabled")
		}
		if c.FlashLoan.ProgramId == "" {
			return fmt.Errorf("config: flash_loan.program_id is required when enabled")
		}
		if c.FlashLoan.LendingMarket == "" {
			return fmt.Errorf("config: flash_loan.lending_market is required when enabled")
		}
		if len(c.FlashLoan.Reserves) == 0 {
			return fmt.Errorf("config: flash_loan.reserves is empty")
		}
	}
	return nil
}

package config

var (
	ConfigPath = "./config/"
	ConfigFile = ConfigPath + "config.json"
	LogPath    = "./logs/"

	ArbitrageLog = "arbitrage"
	BackendLog   = "backend"
	ExecutorLog  = "executor"
	MonitorLog   = "monitor"
	NetworkLog   = "network"
	NonceLog     = "nonce"
	PriceLog     = "sol_price"
)

// WSolMint is the default quote mint when the config leaves it empty.
const WSolMint = "So11111111111111111111111111111111111111112"

type Node struct {
	KeypairPath string `json:"keypair_path"`
	RpcUrl      string `json:"rpc_url"`
	SubmitUrl   string `json:"submit_url"`
	GeyserUrl   string `json:"geyser_url"`
	GeyserToken string `json:"geyser_token"`
}

type SwapApi struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
}

type BaseToken struct {
	Mint        string     `json:"mint"`
	Threshold   float64    `json:"threshold"`
	MinProfit   float64    `json:"min_profit"`
	AmountRange [2]float64 `json:"amount_range"`
	Steps       uint64     `json:"steps"`
}

type Strategy struct {
	BaseTokens     []*BaseToken `json:"base_tokens"`
	NonceAccount   string       `json:"nonce_account"`
	QuoteMint      string       `json:"quote_mint"`
	LiveTrading    *bool        `json:"live_trading"`
	WatchFlows     *bool        `json:"watch_flows"`
	PollQuotes     *bool        `json:"poll_quotes"`
	PollIntervalMs uint64       `json:"poll_interval_ms"`
}

type TxCost struct {
	ComputeUnits     uint64  `json:"compute_units"`
	PriorityLamports uint64  `json:"priority_lamports"`
	TipSol           float64 `json:"tip_sol"`
	SolUsd           float64 `json:"sol_usd"`
}

type FlashLoanReserve struct {
	TokenMint       string `json:"token_mint"`
	Reserve         string `json:"reserve"`
	LiquiditySupply string `json:"liquidity_supply"`
	FeeReceiver     string `json:"fee_receiver"`
	// Extra accounts required by the jupiter-lend reserve schema.
	Vault            string `json:"vault"`
	RateModel        string `json:"rate_model"`
	LiquidityProgram string `json:"liquidity_program"`
}

type FlashLoan struct {
	Enabled       bool                `json:"enabled"`
	Protocol      string              `json:"protocol"`
	ProgramId     string              `json:"program_id"`
	LendingMarket string              `json:"lending_market"`
	Reserves      []*FlashLoanReserve `json:"reserves"`
}

type Config struct {
	Node      *Node      `json:"node"`
	SwapApi   *SwapApi   `json:"swap_api"`
	Strategy  *Strategy  `json:"strategy"`
	TxCost    *TxCost    `json:"tx_cost"`
	FlashLoan *FlashLoan `json:"flash_loan"`

	DingUrl   string `json:"ding_url"`
	DBUrl     string `json:"db_url"`
	DBScheme  string `json:"db_scheme"`
	DBUser    string `json:"db_user"`
	DBPasswd  string `json:"db_passwd"`
	Listen    string `json:"listen"`
	NetStatus bool   `json:"net_status"`
	WorkSpace string `json:"workspace"`
}

func (c *Config) LiveTrading() bool {
	if c.Strategy.LiveTrading == nil {
		return true
	}
	return *c.Strategy.LiveTrading
}

func (c *Config) WatchFlows() bool {
	if c.Strategy.WatchFlows == nil {
		return true
	}
	return *c.Strategy.WatchFlows
}

func (c *Config) PollQuotes() bool {
	if c.Strategy.PollQuotes == nil {
		return false
	}
	return *c.Strategy.PollQuotes
}

func (c *Config) PollIntervalMs() uint64 {
	if c.Strategy.PollIntervalMs == 0 {
		return 500
	}
	return c.Strategy.PollIntervalMs
}

func (c *Config) QuoteMint() string {
	if c.Strategy.QuoteMint == "" {
		return WSolMint
	}
	return c.Strategy.QuoteMint
}

func (c *Config) SolUsd() float64 {
	if c.TxCost.SolUsd == 0 {
		return 150.0
	}
	return c.TxCost.SolUsd
}

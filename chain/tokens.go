package chain

type TokenInfo struct {
	Mint     string
	Symbol   string
	Decimals uint8
}

// PopularTokens is the static token registry; base tokens must appear here
// so the engine knows their decimals without an extra account fetch.
var PopularTokens = []TokenInfo{
	{Mint: "So11111111111111111111111111111111111111112", Symbol: "WSOL", Decimals: 9},
	{Mint: "9BB6NFEcjBCtnNLFko2FqVQBq8HHM13kCyYcdQbgpump", Symbol: "Fartcoin", Decimals: 6},
	{Mint: "KMNo3nJsBXfcpJTVhZcXLW7RmTwTt4GVFE7suUBo9sS", Symbol: "KMNO", Decimals: 6},
	{Mint: "27G8MtK7VtTcCHkpASjSDdkWWYfoqT6ggEuKidVJidD4", Symbol: "JLP", Decimals: 6},
	{Mint: "2zMMhcVQEXDtdE6vsFS7S7D5oUodfJHE8vd1gnBouauv", Symbol: "PENGU", Decimals: 6},
	{Mint: "3NZ9JMVBmGAqocybic2c7LQCJScmgsAZ6vQqTDzcqmJh", Symbol: "WBTC", Decimals: 8},
	{Mint: "4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R", Symbol: "RAY", Decimals: 6},
	{Mint: "6p6xgHyF7AeE6TZkSmFsko444wqoP15icUSqi2jfGiPN", Symbol: "TRUMP", Decimals: 6},
	{Mint: "7dHbWXmci3dT8UFYWYZweBLXgycu7Y3iL6trKn1Y7ARj", Symbol: "stSOL", Decimals: 9},
	{Mint: "7kbnvuGBxxj8AG9qp8Scn56muWGaRaFqxg1FsRp3PaFT", Symbol: "UXD", Decimals: 6},
	{Mint: "7vfCXTUXx5WJV5JADk17DUJ4ksgau7utNKj4b963voxs", Symbol: "ETH", Decimals: 8},
	{Mint: "85VBFQZC9TZkfaptBWjvUw7YbZjy52A6mjtPGjstQAmQ", Symbol: "W", Decimals: 6},
	{Mint: "9vMJfxuKxXBoEa7rM12mYLMwTacLMLDJqHozw96WQL8i", Symbol: "UST", Decimals: 6},
	{Mint: "ATLASXmbPQxBUYbxPsV97usA3fPQYEqzQBUHgiFCUsXx", Symbol: "ATLAS", Decimals: 8},
	{Mint: "cbbtcf3aa214zXHbiAZQwf4122FBYbraNdFqgw4iMij", Symbol: "cbBTC", Decimals: 8},
	{Mint: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", Symbol: "Bonk", Decimals: 5},
	{Mint: "Ea5SjE2Y6yvCeW5dYTn7PYMuW5ikXkvbGdcmSnXeaLjS", Symbol: "PAI", Decimals: 6},
	{Mint: "EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm", Symbol: "$WIF", Decimals: 6},
	{Mint: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Symbol: "USDC", Decimals: 6},
	{Mint: "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", Symbol: "USDT", Decimals: 6},
	{Mint: "A7bdiYdS5GjqGFtxf17ppRHtDKPkkRqbKtR27dxvQXaS", Symbol: "ZEC", Decimals: 8},
	{Mint: "HgH6C35Ncz6SfhU8L4zeWZ18tHu6BBpZ7fU37KgxYoG3", Symbol: "CYCLIQ", Decimals: 6},
	{Mint: "J1toso1uCk3RLmjorhTtrVwY9HJ7X8V9yYac6Y7kGCPn", Symbol: "JitoSOL", Decimals: 9},
	{Mint: "J6pQQ3FAcJQeWPPGppWRb4nM8jU3wLyYbRrLh7feMfvd", Symbol: "2Z", Decimals: 8},
	{Mint: "jupSoLaHXQiZZTSfEWMTRRgpnyFm8f6sZdosWBjx93v", Symbol: "JupSOL", Decimals: 9},
	{Mint: "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN", Symbol: "JUP", Decimals: 6},
	{Mint: "mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So", Symbol: "mSOL", Decimals: 9},
	{Mint: "USD1ttGY1N17NEEHLmELoaybftRBUSErhqYiQzvEmuB", Symbol: "USD1", Decimals: 6},
	{Mint: "USDH1SM1ojwWUga67PGrgFWUHibbjqMvuMaDkRJTgkX", Symbol: "USDH", Decimals: 6},
}

func Token(mint string) (*TokenInfo, bool) {
	for i := range PopularTokens {
		if PopularTokens[i].Mint == mint {
			return &PopularTokens[i], true
		}
	}
	return nil, false
}

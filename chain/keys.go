package chain

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	WSOL             = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	JupiterProgram   = solana.MustPublicKeyFromBase58("JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4")
	JupiterEventAuth = solana.MustPublicKeyFromBase58("D8cy77BBepLMngZx6ZukaTff5hCt1HrWyKk3Hnd9oitf")
)

// RouteDiscriminator prefixes the Jupiter route instruction payload.
var RouteDiscriminator = [8]byte{229, 23, 203, 151, 122, 227, 173, 42}

// TransactionFee is the base network fee per signature in lamports.
const TransactionFee = uint64(5000)

// ExternalLookupTables are curated Jupiter lookup tables added to every
// resolved set regardless of what the aggregator reports. An entry that
// does not parse is dropped at load time.
var ExternalLookupTables = parseLookupTables(externalLookupTableAddrs)

var externalLookupTableAddrs = []string{
	"3pqmFC8JcBNoZqojvaUqTi7ydxa3EdVvbFGb7PZMqMY",
}

func parseLookupTables(addrs []string) []solana.PublicKey {
	tables := make([]solana.PublicKey, 0, len(addrs))
	for _, addr := range addrs {
		table, err := solana.PublicKeyFromBase58(addr)
		if err != nil {
			continue
		}
		tables = append(tables, table)
	}
	return tables
}

// venues maps an on-ledger program address to its display label. Identity
// is always the address; the label is for logs and notifications only.
var venues = map[string]string{
	"Eo7WjKq67rjJQSZxS6z3YkapzY3eMj6Xy8X5EQVn5UaB": "Meteora",
	"5U3EU2ubXtK84QcRjWVmYt9RaDyA8gKxdUrPFXmZyaki": "Virtuals",
	"HEAVENoP2qxoeuF8Dj2oT1GHEnu49U5mJYkdeC8BAX2o": "Heaven",
	"ALPHAQmeA7bjrVuccPsYPiCvsi428SNwte66Srvs4pHA": "AlphaQ",
	"LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo":  "Meteora DLMM",
	"5ocnV1qiCgaQR8Jb8xWnVbApfaygJ8tNoZfgPwsgx9kx": "Sanctum Infinity",
	"DjVE6JNiYqPL2QXyCUUh8rNjHrbz9hXHNYt99MQ59qw1": "Orca V1",
	"9H6tua7jkLhdm3w8BvgpTn5LZNU7g4ZynDmCiNN3q6Rp": "HumidiFi",
	"NUMERUNsFCP3kuNmWZuXtm1AaQCPj9uw6Guv2Ekoi5P":  "Perena",
	"opnb2LAfJYbRMAHHvqjCwQxanZn7ReEHp1k81EohpZb":  "OpenBook V2",
	"Gswppe6ERWKpUTXvRPfXdzHhiCyJvLadVvXGfdpBqcE1": "Guacswap",
	"SSwpkEEcbUqx4vtoEByFjSkhKdCT862DNVb52nZg1UZ":  "Saber",
	"SoLFiHG9TfgtdUXUjWAxi3LtvYuFyDLVhBWxdMZxyCe":  "SolFi",
	"TessVdML9pBGgG9yGks7o4HewRaXVAMuoVj4x83GLQH":  "TesseraV",
	"endoLNCKTqDn8gSVnN2hDdpgACUPWHZTwoYnnMybpAT":  "Solayer",
	"LanMV9sAd7wArD4vJFi2qDdfnVhFxYSUg6eADduJ3uj":  "Raydium Launchlab",
	"AMM55ShdkoGRB5jVYPjWziwk8m5MpwyDgsMWHaMSQWH6": "Aldrin",
	"CURVGoZn8zycx6FXwwevgBTB2gVvdbGTEpvMJDbgs2t4": "Aldrin V2",
	"WooFif76YGRNjk1pA8wCsN67aQsD9f9iLsz4NcJ1AVb":  "Woofi",
	"9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP": "Orca V2",
	"DecZY86MU5Gj7kppfUCEmd4LbXXuyZH1yHaP2NTqdiZB": "Saber (Decimals)",
	"SV2EYYJyRz2YhfXwXnhNAevDEui5Q6yrfyo13WtupPF":  "SolFi V2",
	"HyaB3W9q6XdA5xwpU4XnSZV94htfmbmqJXZcEbRaJutt": "Invariant",
	"PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLR89jjFHGqdXY":  "Phoenix",
	"GAMMA7meSFWaBXF25oSUgmGRwaW6sCMFLmBNiMSdbHVT": "GooseFX GAMMA",
	"6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P":  "Pump.fun",
	"boop8hVGQGqehUK2iVEMEnMrL5RbjywRzHKBmBE7ry4":  "Boop.fun",
	"pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA":  "Pump.fun Amm",
	"goonERTdGsjnkZqWuVjs73BZ3Pb9qoCUdBUL17BnS5j":  "GoonFi",
	"DSwpgjMvXhtGn6BsbqmacdBZyfLj6jSWf3HJpdJtmg6N": "DexLab",
	"swapNyd8XiQwJ6ianp9snpu4brUqFxadzvHebnAXjJZ":  "Stabble Stable Swap",
	"Dooar9JkhdZ7J3LHN3A7YCuoGRUggXhQaG4kijfLGU2j": "StepN",
	"cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG":  "Meteora DAMM v2",
	"HpNfyc2Saw7RKkQd8nEL4khUcuPhQ7WwY1B2qjx8jxFq": "PancakeSwap",
	"stkitrT1Uoy18Dk1fTrgPw8W6MVzoCfYoAFT4MLsmhq":  "Sanctum",
	"CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C": "Raydium CP",
	"675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8": "Raydium",
	"CLMM9tUoggJu2wagPkkqs9eFG4BWhVBZWkP1qv3Sp7tR": "Crema",
	"CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK": "Raydium CLMM",
	"MERLuDFBMmsHnsBPZw2sDQZHvXFMwp8EdjudcU2HKky":  "Mercurial",
	"PERPHjGBqRHArX4DySjwM6UJHiR3sWAatqfdBS2qQJu":  "Perps",
	"H8W3ctz92svYg6mkn1UtGfu2aQr2fnUFHM1RhScEtQDt": "Cropper",
	"DEXYosS6oEGvk8uCDayvwEZz4qEyDJRf9nFgYCaqPMTm": "1DEX",
	"fUSioN9YKKSa3CUC2YUc4tPkHJ5Y6XW1yz8y6F7qWz9":  "DefiTuna",
	"SSwapUtytfBdBn1b9NUGG6foMVPtcWgpRU32HToDUZr":  "Saros",
	"AQU1FRd7papthgdrwPTTq5JacJh8YtwEXaBfKU3bTz45": "Aquifer",
	"SwaPpA9LAaLfeLi3a68M4DjnLqgtticKg6CnyNwgAC8":  "Token Swap",
	"PSwapMdSai8tjrEXcxFeQth87xC4rRsa4VA5mhGhXkP":  "Penguin",
	"treaf4wWBBty3fHdyBpo35Mz84M8k3heKXmjmi9vFt5":  "Helium Network",
	"REALQqNEomY6cQGZJUGwywTBD2UmDT32rZcNnfxQ5N2":  "Byreal",
	"BSwp6bEBihVLdqJRKGgzjcGLHkcTuzmSo1TQkHepzH8p": "Bonkswap",
	"ZERor4xhbUycZ6gb9ntrhqscUcZmAbQDjEAtCf4hbZY":  "ZeroFi",
	"FLUXubRmkEi2q6K3Y9kBPg9248ggaZVsoSFhtJHSrm1X": "FluxBeam",
	"srAMMzfVHVAtgSJc8iH6CfKzuWuUTzLHVCE81QU1rgi":  "Gavel",
	"2wT8Yq49kHgDzXuPxZSaeLaH1qbmGXtEyPy64bL7aD3c": "Lifinity V2",
	"swapFpHZwjELNnjvThjajtiVmkz3yPQEHjLtka2fwHW":  "Stabble Weighted Swap",
	"obriQD1zbpyLz95G5n7nJe6a4DPjpFwa5XYPoNm113y":  "Obric V2",
	"dbcij3LWUppWqq96dh6gJWwBifmcGfLSB5D4DuSMaqN":  "Dynamic Bonding Curve",
	"MoonCVVNZFSYkqNXP6bxHLPL6QQJiMagDL3qcqUQTrG":  "Moonit",
	"whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc":  "Whirlpool",
}

// VenueLabel returns a display label for a known swap program,
// e.g. "Whirlpool (whirLbMi...)".
func VenueLabel(program string) (string, bool) {
	name, ok := venues[program]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s (%s)", name, program), true
}

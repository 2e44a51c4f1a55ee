package backend

import (
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
)

type Wallet struct {
	pubkey solana.PublicKey
	prikey solana.PrivateKey
}

// ImportWallet loads the signer from a keygen-style json array file or a
// file holding a base58 private key. Key material is startup-critical,
// any failure panics.
func ImportWallet(path string) *Wallet {
	prikey, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			panic(readErr)
		}
		prikey, err = solana.PrivateKeyFromBase58(strings.TrimSpace(string(raw)))
		if err != nil {
			panic(err)
		}
	}
	return &Wallet{
		pubkey: prikey.PublicKey(),
		prikey: prikey,
	}
}

func (backend *Backend) getWallet(key solana.PublicKey) *solana.PrivateKey {
	if backend.wallet.pubkey.Equals(key) {
		return &backend.wallet.prikey
	}
	return nil
}

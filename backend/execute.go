package backend

import (
	"fmt"
	"log"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/0xtaiyi/jupiter-arbitrage/config"
	"github.com/0xtaiyi/jupiter-arbitrage/store"
	"github.com/0xtaiyi/jupiter-arbitrage/utils"
)

const (
	ExecutorSize = 4
	// CommandTTL drops trades that waited too long in the queue; the
	// quotes behind them are stale anyway. Microseconds.
	CommandTTL = uint64(20000000)
)

// Command is one signed transaction queued for submission. Id is the
// build timestamp in microseconds and doubles as the trade id.
type Command struct {
	Id  uint64
	Trx *solana.Transaction
}

func (backend *Backend) startExecutor() {
	for i := 1; i <= ExecutorSize; i++ {
		go backend.Executor(i, backend.commandChan, backend.sendClient)
	}
}

func (backend *Backend) Executor(id int, commandChan chan *Command, client *rpc.Client) {
	logger := utils.NewLog(config.LogPath, fmt.Sprintf("%s_%d", config.ExecutorLog, id))
	logger.Printf("executor %d start", id)
	defer logger.Printf("executor %d exit", id)
	for {
		select {
		case command := <-commandChan:
			backend.Execute(command, client, id, logger)
		case <-backend.ctx.Done():
			return
		}
	}
}

func (backend *Backend) Execute(command *Command, client *rpc.Client, id int, logger *log.Logger) {
	logger.Printf("start execute command: %d, time: %s", command.Id,
		time.Unix(int64(command.Id)/1000000, int64(command.Id)%1000000*1000).Format("2006-01-02 15:04:05.000000"))
	defer logger.Printf("end execute command: %d", command.Id)
	tt := uint64(time.Now().UnixMicro())
	if tt-command.Id > CommandTTL {
		logger.Printf("the trade command is too old")
		return
	}
	submitted := &store.SubmittedTrade{
		Id:        command.Id,
		ExecuteId: id,
		SendTime:  tt,
	}
	signature, err := client.SendTransactionWithOpts(backend.ctx, command.Trx, rpc.TransactionOpts{
		SkipPreflight: true,
	})
	if err != nil {
		logger.Printf("SendTransactionWithOpts err: %s", err.Error())
	}
	submitted.ResponseTime = uint64(time.Now().UnixMicro())
	submitted.Signature = signature.String()
	logger.Printf("submitted %d, signature: %s", command.Id, signature)
	if backend.store != nil {
		backend.store.StoreSubmittedTrade(submitted)
	}
}

// Commit builds, signs and queues a versioned transaction. The nonce
// snapshot supplies the header hash; submission itself is fire and
// forget on the executor pool.
func (backend *Backend) Commit(id uint64, ixs []solana.Instruction, tables map[solana.PublicKey]solana.PublicKeySlice) error {
	nonce := backend.nonce.Current()
	if !nonce.Fresh {
		return fmt.Errorf("nonce cache is not warmed up yet")
	}
	trx, err := solana.NewTransaction(ixs, nonce.Blockhash,
		solana.TransactionPayer(backend.wallet.pubkey),
		solana.TransactionAddressTables(tables),
	)
	if err != nil {
		return fmt.Errorf("build transaction: %v", err)
	}
	if _, err := trx.Sign(backend.getWallet); err != nil {
		return fmt.Errorf("sign transaction: %v", err)
	}
	backend.logger.Printf("commit %d, signature: %s", id, trx.Signatures[0])
	select {
	case backend.commandChan <- &Command{Id: id, Trx: trx}:
	default:
		return fmt.Errorf("executor queue is full")
	}
	return nil
}

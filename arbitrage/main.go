package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/0xtaiyi/jupiter-arbitrage/arbitrage/app"
	"github.com/0xtaiyi/jupiter-arbitrage/config"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGABRT)
	go shutdown(cancel, quit)

	if len(os.Args) != 2 {
		panic("args is invalid")
	}
	workSpace := os.Args[1]
	os.Chdir(workSpace)

	cfg, err := config.Load(config.ConfigFile)
	if err != nil {
		panic(err)
	}
	cfg.WorkSpace = workSpace
	workspace, _ := os.Getwd()
	fmt.Printf("work space: %s\n", workspace)

	//
	t := time.Now()
	tStr := t.Format("2006-01-02")
	dir := fmt.Sprintf("./%s_log/", tStr)
	os.Mkdir(dir, os.ModePerm)
	config.LogPath = dir

	at := app.NewArbitrage(ctx, cfg)
	at.Service()
}

func shutdown(cancel context.CancelFunc, quit <-chan os.Signal) {
	osCall := <-quit
	fmt.Printf("System call: %v, auto trader is shutting down......\n", osCall)
	cancel()
}

package networkdetect

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/go-ping/ping"

	"github.com/0xtaiyi/jupiter-arbitrage/config"
	"github.com/0xtaiyi/jupiter-arbitrage/dingsdk"
	"github.com/0xtaiyi/jupiter-arbitrage/utils"
)

const (
	latencyWindow = 300
	// lowLatency is the rtt the box must reach at least once per window
	// to be considered close enough to the rpc peer. Nanoseconds.
	lowLatency     = int64(20 * 1000 * 1000)
	notifyCooldown = int64(5 * 60)
)

// NetworkDetector pings the rpc peer continuously and alerts when the
// rolling latency never dips below the acceptable floor.
type NetworkDetector struct {
	peer   string
	ttl    []int64
	avg    []int64
	pinger *ping.Pinger
	logger *log.Logger
	dsdk   *dingsdk.DingSdk
}

// PeerHost extracts the pingable host from an rpc url.
func PeerHost(peer string) string {
	if parsed, err := url.Parse(peer); err == nil && parsed.Host != "" {
		return parsed.Hostname()
	}
	if index := strings.Index(peer, "://"); index >= 0 {
		peer = peer[index+3:]
	}
	if index := strings.LastIndex(peer, ":"); index >= 0 {
		peer = peer[:index]
	}
	return peer
}

func NewNetworkDetector(peer string, dsdk *dingsdk.DingSdk) *NetworkDetector {
	logger := utils.NewLog(config.LogPath, config.NetworkLog)
	nd := &NetworkDetector{
		peer:   PeerHost(peer),
		ttl:    make([]int64, 0),
		logger: logger,
		dsdk:   dsdk,
	}
	return nd
}

func (nd *NetworkDetector) ping() {
	pinger, err := ping.NewPinger(nd.peer)
	if err != nil {
		nd.logger.Printf("pinger err: %s", err.Error())
		return
	}
	nd.pinger = pinger
	notifyTime := time.Now().Unix()
	pinger.OnRecv = func(pkt *ping.Packet) {
		nd.ttl = append(nd.ttl, pkt.Rtt.Nanoseconds())
		sum := int64(0)
		for _, x := range nd.ttl {
			sum += x
		}
		avg := sum / int64(len(nd.ttl))
		nd.avg = append(nd.avg, avg)
		if len(nd.ttl) > latencyWindow {
			nd.ttl = nd.ttl[len(nd.ttl)-latencyWindow:]
		}
		if len(nd.avg) > latencyWindow {
			nd.avg = nd.avg[len(nd.avg)-latencyWindow:]
		}
		isLow := false
		for _, avgx := range nd.avg {
			if avgx < lowLatency {
				isLow = true
			}
		}
		now := time.Now().Unix()
		nd.logger.Printf("ping ttl: %d", avg/1000000)
		if !isLow {
			nd.logger.Printf("network latency is too large")
			if now-notifyTime > notifyCooldown {
				nd.notify(nd.avg[len(nd.avg)-1])
				notifyTime = now
			}
		}
	}
	pinger.Run()
}

func (nd *NetworkDetector) notify(ttl int64) {
	ttStr := time.Now().Format("2006-01-02 15:04:05")
	nd.dsdk.NotifyText(fmt.Sprintf("trade server network ttl: %d;\ntime: %s;", ttl/1000000, ttStr))
}

func (nd *NetworkDetector) Start() {
	go nd.ping()
}

func (nd *NetworkDetector) Stop() {
	if nd.pinger != nil {
		nd.pinger.Stop()
	}
}

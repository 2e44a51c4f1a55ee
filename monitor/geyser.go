package monitor

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"

	"github.com/0xtaiyi/jupiter-arbitrage/config"
	"github.com/0xtaiyi/jupiter-arbitrage/utils"
)

const (
	connectTimeout    = time.Second * 10
	reconnectInterval = time.Second * 3
	pingInterval      = time.Second * 30
)

// StreamManager keeps one geyser transaction subscription alive and feeds
// raw updates into updateChan. It reconnects forever until stopped.
type StreamManager struct {
	mu         sync.Mutex
	logger     *log.Logger
	endpoint   string
	xToken     string
	filter     []string
	conn       *grpc.ClientConn
	client     pb.GeyserClient
	stream     pb.Geyser_SubscribeClient
	stopped    bool
	attempts   int
	connCtx    context.Context
	connCancel context.CancelFunc
	updateChan chan *pb.SubscribeUpdate
}

// NewStreamManager dials the geyser endpoint. filter lists the accounts a
// transaction must touch to be delivered; empty means everything.
func NewStreamManager(endpoint, xToken string, filter []string, updateChan chan *pb.SubscribeUpdate) (*StreamManager, error) {
	dialCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	conn, err := grpc.DialContext(
		dialCtx,
		endpoint,
		grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{InsecureSkipVerify: true})),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(64*1024*1024),
		),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                time.Second * 10,
			Timeout:             time.Second * 5,
			PermitWithoutStream: true,
		}),
	)
	if err != nil {
		return nil, err
	}
	return &StreamManager{
		logger:     utils.NewLog(config.LogPath, config.MonitorLog),
		endpoint:   endpoint,
		xToken:     xToken,
		filter:     filter,
		conn:       conn,
		client:     pb.NewGeyserClient(conn),
		updateChan: updateChan,
	}, nil
}

func (m *StreamManager) Start() {
	go m.mustConnect()
}

func (m *StreamManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	if m.connCancel != nil {
		m.connCancel()
		m.connCancel = nil
	}
	if m.conn != nil {
		m.conn.Close()
	}
}

func (m *StreamManager) mustConnect() {
	for {
		m.mu.Lock()
		if m.stopped {
			m.mu.Unlock()
			return
		}
		m.mu.Unlock()
		if m.attempts > 0 {
			time.Sleep(reconnectInterval)
		}
		m.attempts++
		if err := m.connect(); err == nil {
			return
		} else {
			m.logger.Printf("geyser connect attempt %d err: %s", m.attempts, err.Error())
		}
	}
}

func (m *StreamManager) subscribeRequest() *pb.SubscribeRequest {
	no := false
	transactions := map[string]*pb.SubscribeRequestFilterTransactions{
		"trades": {
			Vote:           &no,
			Failed:         &no,
			AccountInclude: m.filter,
		},
	}
	commitment := pb.CommitmentLevel_PROCESSED
	return &pb.SubscribeRequest{
		Transactions: transactions,
		Commitment:   &commitment,
	}
}

func (m *StreamManager) connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return errors.New("stream manager is stopped")
	}
	if m.connCancel != nil {
		m.connCancel()
	}
	m.connCtx, m.connCancel = context.WithCancel(context.Background())

	metaCtx := m.connCtx
	if m.xToken != "" {
		metaCtx = metadata.NewOutgoingContext(m.connCtx, metadata.New(map[string]string{"x-token": m.xToken}))
	}
	stream, err := m.client.Subscribe(metaCtx)
	if err != nil {
		return err
	}
	if err := stream.Send(m.subscribeRequest()); err != nil {
		return err
	}
	m.stream = stream
	m.attempts = 0
	m.logger.Printf("geyser stream established: %s", m.endpoint)

	go m.pingLoop(m.connCtx)
	go m.recvLoop(m.connCtx, stream)
	return nil
}

func (m *StreamManager) recvLoop(ctx context.Context, stream pb.Geyser_SubscribeClient) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		update, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				m.logger.Printf("geyser stream closed by server")
			} else {
				m.logger.Printf("geyser recv err: %s", err.Error())
			}
			m.reconnect()
			return
		}
		select {
		case m.updateChan <- update:
		default:
			m.logger.Printf("update channel is full, dropping update")
		}
	}
}

func (m *StreamManager) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ping := &pb.SubscribeRequest{Ping: &pb.SubscribeRequestPing{Id: 1}}
			if err := m.stream.Send(ping); err != nil {
				m.logger.Printf("geyser ping err: %s", err.Error())
			}
		}
	}
}

func (m *StreamManager) reconnect() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	if m.connCancel != nil {
		m.connCancel()
		m.connCancel = nil
	}
	m.mu.Unlock()
	go m.mustConnect()
}

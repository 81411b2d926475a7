package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	DefaultGatewayURL = "wss://gateway.discord.gg/?v=10&encoding=json"
	DefaultAPIBase    = "https://discord.com/api/v10"
)

type Config struct {
	Token      string `json:"token"`
	Intents    int    `json:"intents"`
	GatewayURL string `json:"gateway_url"`
	APIBase    string `json:"api_base"`
}

type Client struct {
	token      string
	intents    int
	gatewayURL string
	apiBase    string

	http   *http.Client
	logger *zap.SugaredLogger

	connMu sync.Mutex
	conn   *websocket.Conn
	wmu    sync.Mutex // сериализует запись в websocket
	closed atomic.Bool

	seq        atomic.Int64 // последний s из dispatch, -1 - ещё не было
	ackPending atomic.Bool  // heartbeat отправлен, ACK ещё не пришёл
	hbMu       sync.Mutex
	hbStop     chan struct{}

	// События
	OnConnecting   func()
	OnConnected    func()
	OnReady        func(*Ready)
	OnInteraction  func(*Interaction)
	OnMessage      func(*Message)
	OnDisconnected func()
	OnError        func(error)
}

func New(cfg Config, logger *zap.SugaredLogger) *Client {
	httpc := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	c := &Client{
		token:      cfg.Token,
		intents:    cfg.Intents,
		gatewayURL: cfg.GatewayURL,
		apiBase:    cfg.APIBase,
		http:       httpc,
		logger:     logger,
	}
	if c.gatewayURL == "" {
		c.gatewayURL = DefaultGatewayURL
	}
	if c.apiBase == "" {
		c.apiBase = DefaultAPIBase
	}
	c.seq.Store(-1)
	return c
}

// Connect - устанавливает WebSocket, проходит Hello/Identify и запускает readLoop.
// Отмена контекста закрывает соединение и завершает readLoop.
func (c *Client) Connect(ctx context.Context) error {
	if c.OnConnecting != nil {
		c.OnConnecting()
	}
	c.closed.Store(false)
	if err := c.dialAndSetup(); err != nil {
		return err
	}

	if c.OnConnected != nil {
		c.OnConnected()
	}

	go c.readLoop(ctx)
	return nil
}

func (c *Client) Disconnect() {
	c.closed.Store(true)
	c.closeConn()
}

func (c *Client) IsConnected() bool {
	return c.currentConn() != nil && !c.closed.Load()
}

func (c *Client) currentConn() *websocket.Conn {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.conn
}

func (c *Client) identify() error {
	return c.send(opIdentify, identify{
		Token:   c.token,
		Intents: c.intents,
		Properties: identifyProperties{
			OS:      runtime.GOOS,
			Browser: "league-bot",
			Device:  "league-bot",
		},
	})
}

func (c *Client) sendHeartbeat() error {
	var d any
	if s := c.seq.Load(); s >= 0 {
		d = s
	}
	return c.send(opHeartbeat, d)
}

// send - запись строго через один мьютекс + write-deadline
func (c *Client) send(op int, d any) error {
	data, err := json.Marshal(outPayload{Op: op, D: d})
	if err != nil {
		return err
	}
	conn := c.currentConn()
	if conn == nil {
		return ErrNotConnected
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) emitError(err error) {
	c.logger.Warnw("gateway error", "error", err)
	if c.OnError != nil {
		c.OnError(err)
	}
}

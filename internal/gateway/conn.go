package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// ========================= low-level =========================

const helloTimeout = 10 * time.Second

// dial, ожидание Hello, запуск heartbeat и Identify
func (c *Client) dialAndSetup() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.gatewayURL, nil)
	if err != nil {
		return err
	}
	conn.SetReadLimit(16 << 20)

	// первым кадром сервер обязан прислать Hello
	_ = conn.SetReadDeadline(time.Now().Add(helloTimeout))
	_, data, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("read hello: %w", err)
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		_ = conn.Close()
		return fmt.Errorf("decode hello: %w", err)
	}
	if p.Op != opHello {
		_ = conn.Close()
		return fmt.Errorf("%w, got op %d", ErrUnexpectedHello, p.Op)
	}
	var h hello
	if err := json.Unmarshal(p.D, &h); err != nil {
		_ = conn.Close()
		return fmt.Errorf("decode hello: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	// новая сессия - без resume, seq с нуля
	c.seq.Store(-1)
	c.ackPending.Store(false)
	c.startHeartbeat(time.Duration(h.HeartbeatInterval) * time.Millisecond)

	if err := c.identify(); err != nil {
		c.closeConn()
		return fmt.Errorf("identify: %w", err)
	}
	c.logger.Infow("gateway connected", "heartbeat_interval", time.Duration(h.HeartbeatInterval)*time.Millisecond)
	return nil
}

// безопасно закрыть текущее соединение
func (c *Client) closeConn() {
	c.stopHeartbeat()

	c.connMu.Lock()
	conn := c.conn
	c.conn = nil
	c.connMu.Unlock()

	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closing"),
			time.Now().Add(500*time.Millisecond))
		_ = conn.Close()
	}
}

func (c *Client) startHeartbeat(interval time.Duration) {
	if interval <= 0 {
		interval = 41250 * time.Millisecond
	}
	c.stopHeartbeat() // на всякий - останавливаем предыдущий

	stop := make(chan struct{})
	c.hbMu.Lock()
	c.hbStop = stop
	c.hbMu.Unlock()

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				// прошлый heartbeat без ACK - соединение подвисло, readLoop реконнектит
				if c.ackPending.Load() {
					c.logger.Warnw("heartbeat not acknowledged, closing zombie connection")
					c.closeConn()
					return
				}
				c.ackPending.Store(true)
				if err := c.sendHeartbeat(); err != nil {
					c.emitError(fmt.Errorf("heartbeat: %w", err))
				}
			}
		}
	}()
}

func (c *Client) stopHeartbeat() {
	c.hbMu.Lock()
	defer c.hbMu.Unlock()
	if c.hbStop != nil {
		close(c.hbStop)
		c.hbStop = nil
	}
}

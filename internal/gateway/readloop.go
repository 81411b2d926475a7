package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const maxBackoff = 30 * time.Second

func (c *Client) readLoop(ctx context.Context) {
	defer func() {
		c.closed.Store(true)
		c.closeConn()
		if c.OnDisconnected != nil {
			c.OnDisconnected()
		}
	}()

	// закрыть по отмене контекста
	go func() {
		<-ctx.Done()
		c.closed.Store(true)
		c.closeConn()
	}()

	backoff := time.Second

	for {
		if conn := c.currentConn(); conn != nil {
			_, data, err := conn.ReadMessage()
			if err == nil {
				if !c.handleFrame(data) {
					backoff = time.Second
					continue
				}
				// сервер попросил переподключиться
			} else {
				if c.closed.Load() {
					return
				}
				c.emitError(err)
			}
		} else if c.closed.Load() {
			return
		}

		c.closeConn()

		// реконнект с backoff
		for {
			if c.closed.Load() {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if err := c.dialAndSetup(); err != nil {
				c.emitError(fmt.Errorf("reconnect failed (wait %v): %w", backoff, err))
				backoff *= 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
				continue
			}
			if c.OnConnected != nil {
				c.OnConnected()
			}
			backoff = time.Second
			break
		}
	}
}

// handleFrame разбирает кадр; true - нужно переподключиться.
func (c *Client) handleFrame(data []byte) bool {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		c.emitError(fmt.Errorf("decode frame: %w", err))
		return false
	}
	if p.S != nil {
		c.seq.Store(*p.S)
	}

	switch p.Op {
	case opDispatch:
		c.dispatch(p.T, p.D)
	case opHeartbeat:
		// сервер просит heartbeat немедленно
		if err := c.sendHeartbeat(); err != nil {
			c.emitError(fmt.Errorf("heartbeat: %w", err))
		}
	case opHeartbeatAck:
		c.ackPending.Store(false)
	case opReconnect:
		c.logger.Infow("gateway requested reconnect")
		return true
	case opInvalidSession:
		c.logger.Warnw("gateway session invalidated")
		return true
	}
	return false
}

func (c *Client) dispatch(event string, d json.RawMessage) {
	switch event {
	case "READY":
		var r Ready
		if err := json.Unmarshal(d, &r); err != nil {
			c.emitError(fmt.Errorf("decode READY: %w", err))
			return
		}
		if c.OnReady != nil {
			c.OnReady(&r)
		}
	case "INTERACTION_CREATE":
		var i Interaction
		if err := json.Unmarshal(d, &i); err != nil {
			c.emitError(fmt.Errorf("decode INTERACTION_CREATE: %w", err))
			return
		}
		if c.OnInteraction != nil {
			c.OnInteraction(&i)
		}
	case "MESSAGE_CREATE":
		var m Message
		if err := json.Unmarshal(d, &m); err != nil {
			c.emitError(fmt.Errorf("decode MESSAGE_CREATE: %w", err))
			return
		}
		if c.OnMessage != nil {
			c.OnMessage(&m)
		}
	}
}

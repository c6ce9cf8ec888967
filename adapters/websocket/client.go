package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/avoronkov/personabot/domain"
	"github.com/avoronkov/personabot/usecase"
	"github.com/avoronkov/personabot/utils/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 64 * 1024
)

// Client is one dev-console connection bound to a user id. Inbound frames
// are either plain chat text or a JSON envelope carrying a navigation
// action; outbound frames are JSON envelopes.
type Client struct {
	conn   *websocket.Conn
	userID int64
	svc    *usecase.ChatService
	hub    *Hub

	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
	closed bool
}

type inboundFrame struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	Action string `json:"action,omitempty"`
}

type outboundFrame struct {
	Type    string          `json:"type"`
	Text    string          `json:"text"`
	Buttons [][]frameButton `json:"buttons,omitempty"`
}

type frameButton struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

func NewClient(conn *websocket.Conn, userID int64, hub *Hub) *Client {
	ctx := context.WithValue(context.Background(), "user_id", userID)
	ctx, cancel := context.WithCancel(ctx)
	return &Client{
		conn:   conn,
		userID: userID,
		hub:    hub,
		send:   make(chan []byte, 256),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Run binds the service and starts the pumps.
func (c *Client) Run(svc *usecase.ChatService) {
	c.svc = svc

	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.readPump()
	go c.writePump()
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	c.conn.Close()
	close(c.send)
}

func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) readPump() {
	defer c.hub.Unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithCtx(c.ctx).Error("websocket read error", zap.Error(err))
			}
			return
		}
		c.handleFrame(message)
	}
}

// handleFrame routes one inbound frame. The dev console has no real chat
// message ids, so the user id doubles as the chat id and message ids are
// zero.
func (c *Client) handleFrame(message []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		// Non-JSON frames are plain chat text.
		frame = inboundFrame{Type: "message", Text: string(message)}
	}

	switch frame.Type {
	case "action":
		c.svc.HandleMenuAction(c.ctx, c.userID, c.userID, domain.ParseNavigationAction(frame.Action))
	default:
		c.svc.HandleText(c.ctx, c.userID, c.userID, 0, frame.Text)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.WithCtx(c.ctx).Error("websocket write error", zap.Error(err))
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait)); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) enqueue(message []byte) error {
	if c.IsClosed() {
		return websocket.ErrCloseSent
	}
	select {
	case c.send <- message:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.Close()
		return websocket.ErrCloseSent
	}
}

// clientMessenger delivers orchestrator replies to the socket. Menus are
// serialized as button grids; message deletion has no websocket counterpart
// and is a no-op.
type clientMessenger struct {
	client *Client
}

func (m clientMessenger) SendText(_ context.Context, _ int64, text string, menu *domain.Menu) (int, error) {
	frame := outboundFrame{Type: "message", Text: text}
	if menu != nil {
		frame.Type = "menu"
		frame.Buttons = make([][]frameButton, 0, len(menu.Rows))
		for _, row := range menu.Rows {
			buttons := make([]frameButton, 0, len(row))
			for _, b := range row {
				buttons = append(buttons, frameButton{Label: b.Label, Action: b.Action.Token()})
			}
			frame.Buttons = append(frame.Buttons, buttons)
		}
	}

	payload, err := json.Marshal(frame)
	if err != nil {
		return 0, err
	}
	return 0, m.client.enqueue(payload)
}

func (m clientMessenger) DeleteMessage(context.Context, int64, int) error {
	return nil
}

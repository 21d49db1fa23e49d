package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event is the envelope for every websocket message.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub fans quiz events out to websocket clients subscribed by join code.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	live       *LiveState
	logger     *zap.Logger
}

// Client is one websocket subscription to a quiz.
type Client struct {
	hub  *Hub
	code string
	conn *websocket.Conn
	send chan []byte
}

func NewHub(live *LiveState, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		live:       live,
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("ws client registered", zap.String("code", client.code))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("ws client unregistered", zap.String("code", client.code))
		}
	}
}

// Broadcast sends an event to every client subscribed to the code. Payloads
// must never contain correct answers.
func (h *Hub) Broadcast(code, eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		h.logger.Warn("marshal event", zap.String("type", eventType), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if client.code != code {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Slow client; drop it rather than block the broadcast.
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// RegisterClient wires a new websocket connection into the hub and sends it
// the current live state snapshot if one is cached.
func (h *Hub) RegisterClient(conn *websocket.Conn, code string) *Client {
	client := &Client{
		hub:  h,
		code: code,
		conn: conn,
		send: make(chan []byte, 64),
	}
	h.register <- client

	if state := h.liveSnapshot(code); state != nil {
		if data, err := json.Marshal(Event{Type: "state_sync", Payload: state}); err == nil {
			client.send <- data
		}
	}

	go client.writePump()
	go client.readPump()
	return client
}

func (h *Hub) liveSnapshot(code string) *QuizState {
	if h.live == nil {
		return nil
	}
	return h.live.Get(context.Background(), code)
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("ws read", zap.String("code", c.code), zap.Error(err))
			}
			return
		}

		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			continue
		}
		if event.Type == "ping" {
			if data, err := json.Marshal(Event{Type: "pong"}); err == nil {
				select {
				case c.send <- data:
				default:
				}
			}
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

package libraries

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/SahilDudhatWork/Synthia.AI/internal/auth"
	"github.com/SahilDudhatWork/Synthia.AI/internal/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type WebSocketMessageType string

const (
	WebSocketMessageTypePing          WebSocketMessageType = "ping"
	WebSocketMessageTypePong          WebSocketMessageType = "pong"
	WebSocketMessageTypeError         WebSocketMessageType = "error"
	WebSocketMessageTypeMessage       WebSocketMessageType = "chat_message"
	WebSocketMessageTypeChatResponse  WebSocketMessageType = "chat_response"
	WebSocketMessageTypeChatStarting  WebSocketMessageType = "chat_starting"
	WebSocketMessageTypeChatCompleted WebSocketMessageType = "chat_completed"
)

type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	// UserID is the token subject of the upgrade request, "" without auth.
	UserID string

	mu     sync.Mutex
	closed bool
}

// deliver queues a frame unless the client is already gone.
func (c *Client) deliver(message []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- message:
	default:
		logger.Log.WithField("client", c.ID).Warn("websocket send buffer full, dropping frame")
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

type Hub struct {
	Clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
}

type WebSocketMessage struct {
	Type WebSocketMessageType `json:"type"`
	Data interface{}          `json:"data,omitempty"`
}

// ChatMessagePayload is what the chat UI sends for one message.
type ChatMessagePayload struct {
	Message         string   `json:"message"`
	UserID          string   `json:"userId"`
	WorkspaceID     string   `json:"workspaceId"`
	AIModelID       string   `json:"AIModelId"`
	ChatID          string   `json:"chatId,omitempty"`
	SystemPrompt    string   `json:"systemPrompt,omitempty"`
	ImageGeneration bool     `json:"isValidForImageGen,omitempty"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	UploadedFiles   []string `json:"uploadedFiles,omitempty"`
}

type ChatMessageResponsePayload struct {
	ChatID    string      `json:"chat_id"`
	MessageID string      `json:"message_id,omitempty"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client.ID] = client
		case client := <-h.Unregister:
			if _, exists := h.Clients[client.ID]; exists {
				delete(h.Clients, client.ID)
				client.close()
			}
		}
	}
}

func (h *Hub) SendMessage(client *Client, message []byte) {
	client.deliver(message)
}

func (h *Hub) send(client *Client, msg WebSocketMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Log.WithError(err).WithField("type", msg.Type).Error("failed to marshal websocket message")
		return
	}
	h.SendMessage(client, data)
}

// SendErrorMessage sends a standardized error message to a client
func SendErrorMessage(hub *Hub, client *Client, errorMsg string) {
	hub.send(client, WebSocketMessage{
		Type: WebSocketMessageTypeError,
		Data: &errorPayload{Message: errorMsg},
	})
}

func SendEventType(hub *Hub, client *Client, eventType WebSocketMessageType) {
	hub.send(client, WebSocketMessage{Type: eventType})
}

func SendChatMessageResponse(hub *Hub, client *Client, msgType WebSocketMessageType, message *ChatMessageResponsePayload) {
	hub.send(client, WebSocketMessage{Type: msgType, Data: message})
}

// parseWebSocketMessage parses incoming websocket message and returns the message structure
func parseWebSocketMessage(msg []byte) (*WebSocketMessage, error) {
	var rawMessage struct {
		Type WebSocketMessageType `json:"type"`
		Data json.RawMessage      `json:"data,omitempty"`
	}
	if err := json.Unmarshal(msg, &rawMessage); err != nil {
		return nil, err
	}

	message := &WebSocketMessage{Type: rawMessage.Type}
	if len(rawMessage.Data) == 0 {
		return message, nil
	}

	switch rawMessage.Type {
	case WebSocketMessageTypeMessage:
		var chatPayload ChatMessagePayload
		if err := json.Unmarshal(rawMessage.Data, &chatPayload); err != nil {
			return nil, err
		}
		message.Data = &chatPayload
	default:
		var data interface{}
		if err := json.Unmarshal(rawMessage.Data, &data); err != nil {
			return nil, err
		}
		message.Data = data
	}

	return message, nil
}

// ChatMessageProcessor handles chat messages arriving over a websocket.
type ChatMessageProcessor interface {
	ProcessChatMessage(hub *Hub, client *Client, message *ChatMessagePayload)
}

// handleFrame dispatches one decoded frame. It reports whether the frame was a
// chat message handed to the processor.
func handleFrame(hub *Hub, client *Client, processor ChatMessageProcessor, raw []byte) bool {
	message, err := parseWebSocketMessage(raw)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to parse websocket JSON")
		SendErrorMessage(hub, client, "Invalid JSON format")
		return false
	}

	switch message.Type {
	case WebSocketMessageTypePing:
		SendEventType(hub, client, WebSocketMessageTypePong)
	case WebSocketMessageTypeMessage:
		chatPayload, ok := message.Data.(*ChatMessagePayload)
		if !ok || chatPayload == nil {
			SendErrorMessage(hub, client, "Chat message payload is required")
			return false
		}
		if chatPayload.UserID == "" || chatPayload.WorkspaceID == "" || chatPayload.AIModelID == "" {
			SendErrorMessage(hub, client, "userId, workspaceId and AIModelId are required")
			return false
		}
		if client.UserID != "" && !strings.EqualFold(client.UserID, chatPayload.UserID) {
			SendErrorMessage(hub, client, "userId does not match the authenticated user")
			return false
		}
		go processor.ProcessChatMessage(hub, client, chatPayload)
		return true
	default:
		SendErrorMessage(hub, client, "Type is invalid or not provided")
	}
	return false
}

func WebSocketHandler(hub *Hub, processor ChatMessageProcessor) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			ID:   uuid.NewString(),
			Conn: conn,
			Send: make(chan []byte, 256),
		}
		client.UserID, _ = conn.Locals(auth.UserIDLocal).(string)
		log := logger.Log.WithFields(logrus.Fields{"client": client.ID, "user_id": client.UserID})

		hub.Register <- client

		// Write loop
		go func() {
			defer conn.Close()
			for msg := range client.Send {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					log.WithError(err).Warn("websocket write error")
					return
				}
			}
		}()

		// Read loop
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				log.WithError(err).Debug("websocket read error")
				break
			}
			handleFrame(hub, client, processor, msg)
		}

		hub.Unregister <- client
	})
}

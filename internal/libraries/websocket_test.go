package libraries

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProcessor struct {
	got chan *ChatMessagePayload
}

func (p *recordingProcessor) ProcessChatMessage(hub *Hub, client *Client, message *ChatMessagePayload) {
	p.got <- message
}

func newTestClient() *Client {
	return &Client{ID: "c1", Send: make(chan []byte, 8)}
}

func readFrame(t *testing.T, c *Client) WebSocketMessage {
	t.Helper()
	select {
	case raw := <-c.Send:
		var msg WebSocketMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no frame sent")
	}
	return WebSocketMessage{}
}

func TestHandleFrame_Ping(t *testing.T) {
	hub, client := NewHub(), newTestClient()
	assert.False(t, handleFrame(hub, client, &recordingProcessor{}, []byte(`{"type":"ping"}`)))
	assert.Equal(t, WebSocketMessageTypePong, readFrame(t, client).Type)
}

func TestHandleFrame_ChatMessage(t *testing.T) {
	hub, client := NewHub(), newTestClient()
	p := &recordingProcessor{got: make(chan *ChatMessagePayload, 1)}

	frame := `{"type":"chat_message","data":{"message":"Hello","userId":"u","workspaceId":"w","AIModelId":"m","chatId":"new"}}`
	require.True(t, handleFrame(hub, client, p, []byte(frame)))

	select {
	case payload := <-p.got:
		assert.Equal(t, "Hello", payload.Message)
		assert.Equal(t, "new", payload.ChatID)
	case <-time.After(time.Second):
		t.Fatal("processor not called")
	}
}

func TestHandleFrame_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  string
	}{
		{"bad json", `{`, "Invalid JSON format"},
		{"missing payload", `{"type":"chat_message"}`, "Chat message payload is required"},
		{"missing ids", `{"type":"chat_message","data":{"message":"hi"}}`, "userId, workspaceId and AIModelId are required"},
		{"unknown type", `{"type":"dance"}`, "Type is invalid or not provided"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub, client := NewHub(), newTestClient()
			assert.False(t, handleFrame(hub, client, &recordingProcessor{}, []byte(tt.frame)))
			msg := readFrame(t, client)
			assert.Equal(t, WebSocketMessageTypeError, msg.Type)
			assert.Equal(t, tt.want, msg.Data.(map[string]interface{})["message"])
		})
	}
}

func TestClient_DeliverAfterClose(t *testing.T) {
	client := newTestClient()
	client.close()
	assert.NotPanics(t, func() { client.deliver([]byte("late")) })
}

func TestHandleFrame_AuthenticatedUserOnly(t *testing.T) {
	frame := func(userID string) []byte {
		return []byte(`{"type":"chat_message","data":{"message":"Hello","userId":"` + userID + `","workspaceId":"w","AIModelId":"m"}}`)
	}

	t.Run("other user is rejected", func(t *testing.T) {
		hub, client := NewHub(), newTestClient()
		client.UserID = "owner"
		p := &recordingProcessor{got: make(chan *ChatMessagePayload, 1)}

		assert.False(t, handleFrame(hub, client, p, frame("intruder")))
		msg := readFrame(t, client)
		assert.Equal(t, WebSocketMessageTypeError, msg.Type)
		assert.Equal(t, "userId does not match the authenticated user", msg.Data.(map[string]interface{})["message"])
		assert.Empty(t, p.got)
	})

	t.Run("token subject passes", func(t *testing.T) {
		hub, client := NewHub(), newTestClient()
		client.UserID = "OWNER"
		p := &recordingProcessor{got: make(chan *ChatMessagePayload, 1)}

		require.True(t, handleFrame(hub, client, p, frame("owner")))
		select {
		case payload := <-p.got:
			assert.Equal(t, "owner", payload.UserID)
		case <-time.After(time.Second):
			t.Fatal("processor not called")
		}
	})
}

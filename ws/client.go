package ws

import (
	"encoding/json"

	"petnest_backend/internal/dto"
	"petnest_backend/internal/logger"
	"petnest_backend/pkg/apperrors"

	"github.com/gorilla/websocket"
)

type IncomingEvent struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// ChatEvent is pushed to the receiver when a message lands.
type ChatEvent struct {
	Type    string              `json:"type"`
	Message dto.MessageResponse `json:"message"`
}

// ErrorEvent goes back to the sender when their event could not be applied.
type ErrorEvent struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Error  string `json:"error"`
}

type sendMessagePayload struct {
	ReceiverID string `json:"receiver_id"`
	PetID      string `json:"pet_id"`
	Content    string `json:"content"`
}

type Client struct {
	UserID  string
	Conn    *websocket.Conn
	Send    chan any
	Manager *Manager
}

func (c *Client) readPump() {
	defer func() {
		c.Manager.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws read error", "user_id", c.UserID, "error", err.Error())
			}
			return
		}

		var event IncomingEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			c.sendError("", "Malformed event")
			continue
		}
		c.handleEvent(event)
	}
}

func (c *Client) writePump() {
	for msg := range c.Send {
		if err := c.Conn.WriteJSON(msg); err != nil {
			logger.Debug("ws write error", "user_id", c.UserID, "error", err.Error())
			return
		}
	}
	// Channel closed by the manager; tell the peer before dropping.
	c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (c *Client) handleEvent(event IncomingEvent) {
	switch event.Action {
	case "send_message":
		var payload sendMessagePayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			c.sendError(event.Action, "Invalid send_message payload")
			return
		}

		message, err := c.Manager.messages.SendByIDs(c.UserID, payload.ReceiverID, payload.PetID, payload.Content)
		if err != nil {
			// The sender hears why instead of the event vanishing.
			if appErr, ok := apperrors.AsAppError(err); ok {
				c.sendError(event.Action, appErr.Message)
			} else {
				c.sendError(event.Action, "Failed to send message")
			}
			return
		}

		out := ChatEvent{Type: "chat_message", Message: dto.NewMessageResponse(message)}
		c.Manager.SendToUser(message.ReceiverID, out)
		// Echo to the sender so their view updates without a refetch.
		c.Manager.SendToUser(c.UserID, out)

	default:
		c.sendError(event.Action, "Unknown action")
	}
}

func (c *Client) sendError(action, message string) {
	c.Manager.deliver(c, ErrorEvent{Type: "error", Action: action, Error: message})
}

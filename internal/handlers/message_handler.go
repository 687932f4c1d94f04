package handlers

import (
	"net/http"

	"petnest_backend/internal/dto"
	"petnest_backend/internal/middleware"
	"petnest_backend/internal/services"
	"petnest_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	*BaseHandler
	messages *services.MessageService
	notify   func(userID string, event any)
}

// NewMessageHandler takes an optional notify hook used to push REST-sent
// messages to connected websocket clients.
func NewMessageHandler(base *BaseHandler, messages *services.MessageService, notify func(userID string, event any)) *MessageHandler {
	return &MessageHandler{BaseHandler: base, messages: messages, notify: notify}
}

func (h *MessageHandler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/messages")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("", h.Send)
		group.GET("/conversations", h.Conversations)
		group.GET("/conversations/:username/:petId", h.ConversationDetail)
		group.POST("/conversations/:username/:petId/read", h.MarkRead)
	}
}

func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	message, err := h.messages.Send(userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	response := dto.NewMessageResponse(message)
	if h.notify != nil {
		h.notify(message.ReceiverID, gin.H{"type": "chat_message", "message": response})
	}
	c.JSON(http.StatusCreated, response)
}

func (h *MessageHandler) Conversations(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	conversations, err := h.messages.Conversations(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

func (h *MessageHandler) ConversationDetail(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	username := c.Param("username")
	petID := c.Param("petId")
	if username == "" || petID == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("username and petId are required"))
		return
	}

	messages, err := h.messages.ConversationDetail(userID, username, petID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	responses := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, dto.NewMessageResponse(&messages[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	count, err := h.messages.MarkRead(userID, c.Param("username"), c.Param("petId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_read": count})
}

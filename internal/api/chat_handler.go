package api

import (
	"errors"
	"fmt"
	"net/http"
	"ragnar/training-app/internal/domain"
	"ragnar/training-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler holds the chat service dependency.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// --- Request/Response Structs ---

type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// --- Handler Methods ---

// SendMessage handles POST /athletes/:athleteId/messages. The sender tag is
// taken from the authenticated role, never from the request body.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	athleteID, ok := parseObjectIDParam(c, "athleteId")
	if !ok {
		return
	}
	if !authorizeAthleteAccess(c, athleteID) {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "User role not found in context")
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), athleteID, role, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage), errors.Is(err, service.ErrInvalidSender):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAthleteNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to send message")
		}
		return
	}
	c.JSON(http.StatusCreated, message)
}

// GetHistory handles GET /athletes/:athleteId/messages — the newest messages
// (capped), oldest first.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	athleteID, ok := parseObjectIDParam(c, "athleteId")
	if !ok {
		return
	}
	if !authorizeAthleteAccess(c, athleteID) {
		return
	}

	messages, err := h.chatService.History(c.Request.Context(), athleteID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve messages")
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	c.JSON(http.StatusOK, messages)
}

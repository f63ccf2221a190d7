package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pulsechat/pulse-backend/internal/common"
	"github.com/pulsechat/pulse-backend/internal/domain"
	"github.com/pulsechat/pulse-backend/internal/middleware"
	"github.com/pulsechat/pulse-backend/internal/service"
)

// MessageHandler handles direct message HTTP requests
type MessageHandler struct {
	service service.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(service service.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// List handles GET /api/v1/messages. With ?userId=N it returns the full
// thread with that peer (marking their unread messages read); without it,
// one chat digest per conversation partner.
func (h *MessageHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	peerParam := c.Query("userId")
	if peerParam == "" {
		chats, err := h.service.GetChatDigests(userID)
		if err != nil {
			common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load chats", err)
			return
		}
		common.SuccessResponse(c, gin.H{"chats": chats})
		return
	}

	peerID, err := strconv.ParseUint(peerParam, 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	messages, err := h.service.GetThread(userID, peerID)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load thread", err)
		return
	}

	common.SuccessResponse(c, gin.H{"messages": messages})
}

// Send handles POST /api/v1/messages
func (h *MessageHandler) Send(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Receiver ID and message text required", err)
		return
	}

	msg, err := h.service.Send(userID, &req)
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, http.StatusBadRequest, "Receiver ID and message text required", err)
		return
	case errors.Is(err, common.ErrReceiverNotFound):
		common.ErrorResponse(c, http.StatusBadRequest, "Receiver not found", err)
		return
	case err != nil:
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to send message", err)
		return
	}

	common.SuccessResponse(c, gin.H{"message": msg})
}

// Delete handles DELETE /api/v1/messages/:id. Only the sender's copy is
// removable; a missing or non-owned id still answers with status deleted.
func (h *MessageHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Message ID required", err)
		return
	}

	if err := h.service.Delete(userID, id); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete message", err)
		return
	}

	common.SuccessResponse(c, gin.H{"status": "message deleted"})
}

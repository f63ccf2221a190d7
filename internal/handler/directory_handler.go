package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pulsechat/pulse-backend/internal/common"
	"github.com/pulsechat/pulse-backend/internal/domain"
	"github.com/pulsechat/pulse-backend/internal/middleware"
	"github.com/pulsechat/pulse-backend/internal/service"
)

// DirectoryHandler handles the contacts-scoped user directory
type DirectoryHandler struct {
	service service.DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(service service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// List handles GET /api/v1/users?search=. Only users present in the
// caller's contact list are visible.
func (h *DirectoryHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	users, err := h.service.List(c.Request.Context(), userID, c.Query("search"))
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load directory", err)
		return
	}

	common.SuccessResponse(c, gin.H{"users": users})
}

// SyncContacts handles POST /api/v1/users/sync-contacts
func (h *DirectoryHandler) SyncContacts(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req domain.SyncContactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Phone numbers required", err)
		return
	}

	if err := h.service.SyncContacts(userID, req.PhoneNumbers); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to sync contacts", err)
		return
	}

	common.SuccessResponse(c, gin.H{"status": "contacts synced"})
}

// PingOnline handles POST /api/v1/users/ping
func (h *DirectoryHandler) PingOnline(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	if err := h.service.PingOnline(c.Request.Context(), userID); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to update presence", err)
		return
	}

	common.SuccessResponse(c, gin.H{"status": "online"})
}

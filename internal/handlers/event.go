// internal/handlers/event.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Dr-Xcristy/GeneVault/internal/services"
	"github.com/Dr-Xcristy/GeneVault/internal/utils"
)

type EventHandler struct {
	eventService        *services.EventService
	notificationService *services.NotificationService
}

func NewEventHandler(eventService *services.EventService, notificationService *services.NotificationService) *EventHandler {
	return &EventHandler{
		eventService:        eventService,
		notificationService: notificationService,
	}
}

// GET /events
func (h *EventHandler) ListEvents(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	events, total, err := h.eventService.ListEvents(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(events, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /assets/:id/events
func (h *EventHandler) ListAssetEvents(c *gin.Context) {
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	events, total, err := h.eventService.ListAssetEvents(uint64(assetID), params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(events, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /notifications
func (h *EventHandler) ListNotifications(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	notifications, err := h.notificationService.ListUserNotifications(caller)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"notifications": notifications})
}

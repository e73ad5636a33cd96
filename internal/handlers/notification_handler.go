package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"firebase.google.com/go/v4/messaging"
	"github.com/labstack/echo/v4"
	"github.com/mallardapp/mallard/backend/internal/models"
	"github.com/mallardapp/mallard/backend/internal/repositories"
	"github.com/mallardapp/mallard/backend/pkg/logger"
	"gorm.io/gorm"
)

// NotificationHandler handles the inbox HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	eventRepository        repositories.EventRepository
	push                   *messaging.Client
}

// NewNotificationHandler creates a new NotificationHandler. push may be nil,
// in which case recipients are not notified over FCM.
func NewNotificationHandler(notifRepo repositories.NotificationRepository, eventRepo repositories.EventRepository, push *messaging.Client) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		eventRepository:        eventRepo,
		push:                   push,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.POST("/notifications/filter", h.FilterNotifications)
	g.POST("/notifications/filter/:userId", h.FilterUserNotifications)
	g.POST("/notifications/:senderId", h.CreateNotification)
	g.GET("/notifications/:notifId", h.GetNotification)
	g.GET("/notifications/:notifId/events", h.GetNotificationEvents)
	g.PATCH("/notifications/:userId/:notifId", h.EditNotification)
	g.DELETE("/notifications/:userId/:notifId", h.DeleteNotification)
}

// CreateNotification creates a base record plus one subtype record for the
// sender in the path. Validation order: body, top-level fields, then the
// subtype fields down in the store.
func (h *NotificationHandler) CreateNotification(c echo.Context) error {
	senderID := c.Param("senderId")

	var req models.CreateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Request must have a body")
	}
	if req.Type == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Body must have property 'type'")
	}
	if req.Recipient == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Body must have property 'recipient'")
	}
	if len(req.Data) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Body must have property 'data'")
	}
	if !models.ValidType(req.Type) {
		return echo.NewHTTPError(http.StatusBadRequest, "Property 'type' must be one of ['policy', 'claim', 'news']")
	}

	notif := &models.Notification{
		Sender:    senderID,
		Recipient: req.Recipient,
		Type:      req.Type,
		IsActive:  true,
	}
	if req.Priority != nil {
		if !models.ValidPriority(*req.Priority) {
			return echo.NewHTTPError(http.StatusBadRequest, "Property 'priority' must be one of [0, 1, 2]")
		}
		notif.Priority = *req.Priority
	}
	if req.IsFlagged != nil {
		notif.IsFlagged = *req.IsFlagged
	}
	if req.IsDraft != nil {
		notif.IsDraft = *req.IsDraft
	}

	created, err := h.notificationRepository.Create(notif, req.Data)
	if err != nil {
		return notificationError(err)
	}

	ctx := c.Request().Context()
	h.recordEvent(ctx, created, senderID, models.EventCreated)
	h.pushToRecipient(ctx, created)

	return c.JSON(http.StatusOK, echo.Map{"message": "Creation successful", "record": created})
}

// GetNotification fetches one notification with its subtype by primary key.
// Soft-deleted records are returned too, with is_active set to false.
func (h *NotificationHandler) GetNotification(c echo.Context) error {
	notifID, err := parseNotifID(c.Param("notifId"))
	if err != nil {
		return err
	}

	notif, err := h.notificationRepository.GetByID(notifID)
	if err != nil {
		return notificationError(err)
	}
	return c.JSON(http.StatusOK, notif)
}

// FilterNotifications returns the inbox view models matching the filter body.
// No match is 200 with an empty array.
func (h *NotificationHandler) FilterNotifications(c echo.Context) error {
	filter, err := h.bindFilter(c)
	if err != nil {
		return err
	}
	return h.respondFiltered(c, filter)
}

// FilterUserNotifications is FilterNotifications restricted to one sender.
func (h *NotificationHandler) FilterUserNotifications(c echo.Context) error {
	filter, err := h.bindFilter(c)
	if err != nil {
		return err
	}
	filter.Sender = c.Param("userId")
	return h.respondFiltered(c, filter)
}

// EditNotification applies an edits object to a notification the path user
// sent. Unrecognized edit fields are ignored.
func (h *NotificationHandler) EditNotification(c echo.Context) error {
	userID := c.Param("userId")
	notifID, err := parseNotifID(c.Param("notifId"))
	if err != nil {
		return err
	}

	var req models.EditNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Request must have a body")
	}
	if req.Type == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Body must have property 'type'")
	}
	if req.Edits == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Body must have property 'edits'")
	}
	if !models.ValidType(req.Type) {
		return echo.NewHTTPError(http.StatusBadRequest, "Property 'type' must be one of ['policy', 'claim', 'news']")
	}

	updated, err := h.notificationRepository.UpdateSubtypeFields(notifID, userID, req.Type, req.Edits)
	if err != nil {
		return notificationError(err)
	}

	h.recordEvent(c.Request().Context(), updated, userID, models.EventEdited)

	return c.JSON(http.StatusOK, echo.Map{"message": "Edit successful", "record": updated})
}

// DeleteNotification soft-deletes a notification the path user sent. The row
// stays put; only is_active flips.
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	userID := c.Param("userId")
	notifID, err := parseNotifID(c.Param("notifId"))
	if err != nil {
		return err
	}

	deleted, err := h.notificationRepository.SoftDelete(notifID, userID)
	if err != nil {
		return notificationError(err)
	}

	h.recordEvent(c.Request().Context(), deleted, userID, models.EventDeleted)

	return c.JSON(http.StatusOK, echo.Map{"message": "Delete successful", "record": deleted})
}

// GetNotificationEvents returns the activity trail for one notification.
func (h *NotificationHandler) GetNotificationEvents(c echo.Context) error {
	notifID, err := parseNotifID(c.Param("notifId"))
	if err != nil {
		return err
	}

	events, err := h.eventRepository.ListByNotification(c.Request().Context(), notifID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, events)
}

func (h *NotificationHandler) bindFilter(c echo.Context) (*models.NotificationFilter, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Request must have a body")
	}
	filter, err := models.ParseFilter(body)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return filter, nil
}

func (h *NotificationHandler) respondFiltered(c echo.Context, filter *models.NotificationFilter) error {
	if filter.Type != "" && !models.ValidType(filter.Type) {
		return echo.NewHTTPError(http.StatusBadRequest, "Property 'type' must be one of ['policy', 'claim', 'news']")
	}

	messages, err := h.notificationRepository.ListByFilter(filter)
	if err != nil {
		return notificationError(err)
	}
	return c.JSON(http.StatusOK, messages)
}

// recordEvent appends to the Mongo activity trail. Best-effort: a trail
// failure never fails the request.
func (h *NotificationHandler) recordEvent(ctx context.Context, notif *models.Notification, actor, action string) {
	if h.eventRepository == nil {
		return
	}
	event := &models.NotificationEvent{
		NotifID: notif.ID,
		Actor:   actor,
		Action:  action,
		Type:    notif.Type,
	}
	if err := h.eventRepository.Record(ctx, event); err != nil {
		logger.Log.Warnf("Failed to record notification event for %d: %v", notif.ID, err)
	}
}

// pushToRecipient publishes the new notification to the recipient's FCM
// topic. Best-effort, and a no-op when FCM is not configured.
func (h *NotificationHandler) pushToRecipient(ctx context.Context, notif *models.Notification) {
	if h.push == nil {
		return
	}
	msg := models.MessageOf(notif)
	_, err := h.push.Send(ctx, &messaging.Message{
		Topic: "user-" + notif.Recipient,
		Notification: &messaging.Notification{
			Title: msg.Subject,
			Body:  msg.Body,
		},
		Data: map[string]string{
			"notif_id": strconv.FormatUint(uint64(notif.ID), 10),
			"type":     notif.Type,
		},
	})
	if err != nil {
		logger.Log.Warnf("Failed to push notification %d to %s: %v", notif.ID, notif.Recipient, err)
	}
}

func parseNotifID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}
	return uint(id), nil
}

// notificationError maps store errors onto the HTTP taxonomy: ownership and
// bad user references are 403, unknown ids 404, bad payloads 400, the rest
// 500 without internal detail.
func notificationError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Access forbidden")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	case errors.Is(err, repositories.ErrInvalidData):
		return echo.NewHTTPError(http.StatusBadRequest, "Request error: "+err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Unexpected server error")
	}
}

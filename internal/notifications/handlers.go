package notifications

import (
	"bookbarter-backend/internal/middleware"
	"bookbarter-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// GetUnread GET /api/v1/notifications/unread
func (h *Handlers) GetUnread(c *fiber.Ctx) error {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	list, err := h.Service.ListUnread(c.Context(), actorID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Notifications fetched", fiber.Map{"notifications": list}, nil)
}

// MarkRead PATCH /api/v1/notifications/:notification_id/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	notificationID, err := uuid.Parse(c.Params("notification_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for notification_id", 400, nil)
	}
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.MarkRead(c.Context(), notificationID, actorID); err != nil {
		if err == ErrNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Notification marked read", fiber.Map{}, nil)
}

// MarkAllRead PATCH /api/v1/notifications/read-all
func (h *Handlers) MarkAllRead(c *fiber.Ctx) error {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.MarkAllRead(c.Context(), actorID); err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "All notifications marked read", fiber.Map{}, nil)
}

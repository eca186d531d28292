package donations

import (
	"bookbarter-backend/internal/middleware"
	"bookbarter-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

var donationStatusMap = map[string]int{
	ErrBookIDRequired.Error():   400,
	ErrBookNotFound.Error():     404,
	ErrNotDonateListing.Error(): 400,
	ErrOwnBook.Error():          400,
	ErrBookNotAvailable.Error(): 409,
	ErrAlreadyRequested.Error(): 409,
	ErrAlreadyApproved.Error():  409,
	ErrRequestNotFound.Error():  404,
	ErrNotRequestOwner.Error():  403,
	ErrAlreadyProcessed.Error(): 409,
	ErrInvalidDecision.Error():  400,
}

func mapDonationError(c *fiber.Ctx, err error) error {
	if code, ok := donationStatusMap[err.Error()]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// RequestDonation POST /api/v1/donations/request
func (h *Handlers) RequestDonation(c *fiber.Ctx) error {
	var body struct {
		BookID  string `json:"book_id"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, ErrBookIDRequired.Error(), 400, nil)
	}
	if body.BookID == "" {
		return response.Error(c, ErrBookIDRequired.Error(), 400, nil)
	}
	bookID, err := uuid.Parse(body.BookID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for book_id", 400, nil)
	}
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	req, err := h.Service.Request(c.Context(), actorID, bookID, body.Message)
	if err != nil {
		return mapDonationError(c, err)
	}
	return response.SuccessCreated(c, "Donation request sent", fiber.Map{
		"request_id": req.RequestID,
	}, nil)
}

// DecideRequest POST /api/v1/donations/decide
func (h *Handlers) DecideRequest(c *fiber.Ctx) error {
	var body struct {
		RequestID string `json:"request_id"`
		Decision  string `json:"decision"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	requestID, err := uuid.Parse(body.RequestID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for request_id", 400, nil)
	}
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	req, err := h.Service.Decide(c.Context(), requestID, body.Decision, actorID)
	if err != nil {
		return mapDonationError(c, err)
	}
	return response.Success(c, "Request "+req.Status, fiber.Map{"request": req}, nil)
}

// GetIncoming GET /api/v1/donations/incoming — requests on the actor's books.
func (h *Handlers) GetIncoming(c *fiber.Ctx) error {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	views := h.Service.ListForOwner(c.Context(), actorID)
	return response.Success(c, "Donation requests fetched", fiber.Map{"requests": views}, nil)
}

// GetOutgoing GET /api/v1/donations/outgoing — the actor's own requests.
func (h *Handlers) GetOutgoing(c *fiber.Ctx) error {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	views := h.Service.ListForRequester(c.Context(), actorID)
	return response.Success(c, "Donation requests fetched", fiber.Map{"requests": views}, nil)
}

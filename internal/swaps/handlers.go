package swaps

import (
	"bookbarter-backend/internal/middleware"
	"bookbarter-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

var swapStatusMap = map[string]int{
	ErrIDsRequired.Error():           400,
	ErrRequestedNotFound.Error():     404,
	ErrRequestedNotAvailable.Error(): 409,
	ErrRequestedNotExchange.Error():  400,
	ErrOwnBook.Error():               400,
	ErrSameBook.Error():              400,
	ErrOfferedNotFound.Error():       404,
	ErrOfferedNotOwned.Error():       403,
	ErrOfferedNotAvailable.Error():   409,
	ErrOfferedNotExchange.Error():    400,
	ErrAlreadyRequested.Error():      409,
	ErrSwapNotFound.Error():          404,
	ErrNotSwapOwner.Error():          403,
	ErrAlreadyProcessed.Error():      409,
	ErrInvalidDecision.Error():       400,
	ErrBooksNotClaimable.Error():     409,
}

func mapSwapError(c *fiber.Ctx, err error) error {
	if code, ok := swapStatusMap[err.Error()]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// RequestSwap POST /api/v1/swaps/request
func (h *Handlers) RequestSwap(c *fiber.Ctx) error {
	var body struct {
		RequestedBookID string `json:"requested_book_id"`
		OfferedBookID   string `json:"offered_book_id"`
		Message         string `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, ErrIDsRequired.Error(), 400, nil)
	}
	if body.RequestedBookID == "" || body.OfferedBookID == "" {
		return response.Error(c, ErrIDsRequired.Error(), 400, nil)
	}
	requestedBookID, err := uuid.Parse(body.RequestedBookID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for requested_book_id", 400, nil)
	}
	offeredBookID, err := uuid.Parse(body.OfferedBookID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for offered_book_id", 400, nil)
	}
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	swap, err := h.Service.Request(c.Context(), actorID, requestedBookID, offeredBookID, body.Message)
	if err != nil {
		return mapSwapError(c, err)
	}
	return response.SuccessCreated(c, "Swap request sent", fiber.Map{
		"swap_id": swap.SwapID,
	}, nil)
}

// DecideSwap POST /api/v1/swaps/decide
func (h *Handlers) DecideSwap(c *fiber.Ctx) error {
	var body struct {
		SwapID   string `json:"swap_id"`
		Decision string `json:"decision"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	swapID, err := uuid.Parse(body.SwapID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for swap_id", 400, nil)
	}
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	swap, err := h.Service.Decide(c.Context(), swapID, body.Decision, actorID)
	if err != nil {
		return mapSwapError(c, err)
	}
	return response.Success(c, "Swap "+swap.Status, fiber.Map{"swap": swap}, nil)
}

// GetIncoming GET /api/v1/swaps/incoming — offers on the actor's books.
func (h *Handlers) GetIncoming(c *fiber.Ctx) error {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	views := h.Service.ListForOwner(c.Context(), actorID)
	return response.Success(c, "Swap requests fetched", fiber.Map{"swaps": views}, nil)
}

// GetOutgoing GET /api/v1/swaps/outgoing — the actor's own offers.
func (h *Handlers) GetOutgoing(c *fiber.Ctx) error {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	views := h.Service.ListForRequester(c.Context(), actorID)
	return response.Success(c, "Swap requests fetched", fiber.Map{"swaps": views}, nil)
}

package wishlist

import (
	"bookbarter-backend/internal/middleware"
	"bookbarter-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

var wishlistStatusMap = map[string]int{
	ErrBookNotFound.Error(): 404,
	ErrOwnBook.Error():      400,
	ErrAlreadyAdded.Error(): 409,
	ErrNotOnList.Error():    404,
}

func mapWishlistError(c *fiber.Ctx, err error) error {
	if code, ok := wishlistStatusMap[err.Error()]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// Add POST /api/v1/wishlist/add
func (h *Handlers) Add(c *fiber.Ctx) error {
	var body struct {
		BookID string `json:"book_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	bookID, err := uuid.Parse(body.BookID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for book_id", 400, nil)
	}
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	item, err := h.Service.Add(c.Context(), actorID, bookID)
	if err != nil {
		return mapWishlistError(c, err)
	}
	return response.SuccessCreated(c, "Book added to wishlist", fiber.Map{"item": item}, nil)
}

// Remove POST /api/v1/wishlist/remove
func (h *Handlers) Remove(c *fiber.Ctx) error {
	var body struct {
		BookID string `json:"book_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	bookID, err := uuid.Parse(body.BookID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for book_id", 400, nil)
	}
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.Remove(c.Context(), actorID, bookID); err != nil {
		return mapWishlistError(c, err)
	}
	return response.Success(c, "Book removed from wishlist", fiber.Map{}, nil)
}

// List GET /api/v1/wishlist
func (h *Handlers) List(c *fiber.Ctx) error {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	views := h.Service.List(c.Context(), actorID)
	return response.Success(c, "Wishlist fetched", fiber.Map{"items": views}, nil)
}

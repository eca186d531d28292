package books

import (
	"bookbarter-backend/internal/middleware"
	"bookbarter-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

var bookStatusMap = map[string]int{
	ErrBookIDRequired.Error():     400,
	ErrNotFound.Error():           404,
	ErrNotOwner.Error():           403,
	ErrNotAvailable.Error():       400,
	ErrTitleRequired.Error():      400,
	ErrInvalidCondition.Error():   400,
	ErrInvalidListingType.Error(): 400,
	ErrPriceRequired.Error():      400,
	ErrHasActiveActivity.Error():  409,
}

func mapBookError(c *fiber.Ctx, err error) error {
	if code, ok := bookStatusMap[err.Error()]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// CreateBook POST /api/v1/books/create-book
func (h *Handlers) CreateBook(c *fiber.Ctx) error {
	var body struct {
		Title       string   `json:"title"`
		Author      string   `json:"author"`
		Description string   `json:"description"`
		Condition   string   `json:"condition"`
		ListingType string   `json:"listing_type"`
		Price       *float64 `json:"price"`
		ImageURL    string   `json:"image_url"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	book, err := h.Service.CreateBook(c.Context(), CreateBookInput{
		OwnerID:     actorID,
		Title:       body.Title,
		Author:      body.Author,
		Description: body.Description,
		Condition:   body.Condition,
		ListingType: body.ListingType,
		Price:       body.Price,
		ImageURL:    body.ImageURL,
	})
	if err != nil {
		return mapBookError(c, err)
	}
	return response.SuccessCreated(c, "Book listed successfully", fiber.Map{"book": book}, nil)
}

// GetAllBooks GET /api/v1/books/get-all-books — browsable (available) listings.
func (h *Handlers) GetAllBooks(c *fiber.Ctx) error {
	booksOut, err := h.Service.ListAvailable(c.Context())
	if err != nil {
		return mapBookError(c, err)
	}
	return response.Success(c, "Books fetched", fiber.Map{"books": booksOut}, nil)
}

// GetMyBooks GET /api/v1/books/get-my-books
func (h *Handlers) GetMyBooks(c *fiber.Ctx) error {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	booksOut, err := h.Service.ListByOwner(c.Context(), actorID)
	if err != nil {
		return mapBookError(c, err)
	}
	return response.Success(c, "Books fetched", fiber.Map{"books": booksOut}, nil)
}

// GetBookByID GET /api/v1/books/get-book/:book_id
func (h *Handlers) GetBookByID(c *fiber.Ctx) error {
	bookID, err := uuid.Parse(c.Params("book_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for book_id", 400, nil)
	}
	book, err := h.Service.GetBook(c.Context(), bookID)
	if err != nil {
		return mapBookError(c, err)
	}
	return response.Success(c, "Book fetched", fiber.Map{"book": book}, nil)
}

// GetSwappableBooks GET /api/v1/books/get-swappable-books — the actor's own
// available exchange-listed books, for the swap offer selector.
func (h *Handlers) GetSwappableBooks(c *fiber.Ctx) error {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	booksOut, err := h.Service.ListSwappable(c.Context(), actorID)
	if err != nil {
		return mapBookError(c, err)
	}
	return response.Success(c, "Swappable books fetched", fiber.Map{"books": booksOut}, nil)
}

// EditBook PUT /api/v1/books/edit-book
func (h *Handlers) EditBook(c *fiber.Ctx) error {
	var body struct {
		BookID      string   `json:"book_id"`
		Title       *string  `json:"title"`
		Author      *string  `json:"author"`
		Description *string  `json:"description"`
		Condition   *string  `json:"condition"`
		Price       *float64 `json:"price"`
		ImageURL    *string  `json:"image_url"`
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

	book, err := h.Service.EditBook(c.Context(), EditBookInput{
		BookID:      bookID,
		OwnerID:     actorID,
		Title:       body.Title,
		Author:      body.Author,
		Description: body.Description,
		Condition:   body.Condition,
		Price:       body.Price,
		ImageURL:    body.ImageURL,
	})
	if err != nil {
		return mapBookError(c, err)
	}
	return response.Success(c, "Book updated", fiber.Map{"book": book}, nil)
}

// RemoveBook POST /api/v1/books/remove-book
func (h *Handlers) RemoveBook(c *fiber.Ctx) error {
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
	if err := h.Service.DeleteBook(c.Context(), bookID, actorID); err != nil {
		return mapBookError(c, err)
	}
	return response.Success(c, "Book removed", fiber.Map{}, nil)
}

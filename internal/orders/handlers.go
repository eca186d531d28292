package orders

import (
	"math"

	"bookbarter-backend/internal/middleware"
	"bookbarter-backend/internal/models"
	"bookbarter-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service         *Service
	CheckoutCreator CheckoutSessionCreator
}

var orderStatusMap = map[string]int{
	ErrBookIDRequired.Error():     400,
	ErrBookNotFound.Error():       404,
	ErrNotForSale.Error():         400,
	ErrOwnBook.Error():            400,
	ErrBookNotAvailable.Error():   409,
	ErrAmountMismatch.Error():     400,
	ErrShippingIncomplete.Error(): 400,
	ErrOrderNotFound.Error():      404,
	ErrNotSeller.Error():          403,
	ErrInvalidStatus.Error():      400,
	ErrInvalidTransition.Error():  409,
}

func mapOrderError(c *fiber.Ctx, err error) error {
	if code, ok := orderStatusMap[err.Error()]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// CreateOrder POST /api/v1/orders/create-order — insert the pending order,
// then create the Stripe Checkout Session the client is redirected to.
func (h *Handlers) CreateOrder(c *fiber.Ctx) error {
	var body struct {
		BookID   string                 `json:"book_id"`
		Amount   float64                `json:"amount"`
		Shipping models.ShippingDetails `json:"shipping"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
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

	order, book, err := h.Service.Create(c.Context(), CreateOrderInput{
		BuyerID:  actorID,
		BookID:   bookID,
		Amount:   body.Amount,
		Shipping: body.Shipping,
	})
	if err != nil {
		return mapOrderError(c, err)
	}

	if h.CheckoutCreator == nil {
		return response.Error(c, "Payments not configured", 500, nil)
	}
	amountCents := int64(math.Round(order.Amount * 100))
	sess, err := h.CheckoutCreator.Create(amountCents, "usd", book.Title, map[string]string{
		"order_id": order.OrderID.String(),
		"book_id":  book.BookID.String(),
		"buyer_id": actorID.String(),
	})
	if err != nil {
		// The pending order stays; it is inert until a payment confirms it.
		log.Error().Err(err).Str("order_id", order.OrderID.String()).Msg("checkout session creation failed")
		return response.Error(c, "Failed to start checkout", 502, nil)
	}

	return response.SuccessCreated(c, "Order created", fiber.Map{
		"order_id":     order.OrderID,
		"checkout_url": sess.URL,
		"session_id":   sess.ID,
	}, nil)
}

// UpdateOrderStatus PATCH /api/v1/orders/update-status
func (h *Handlers) UpdateOrderStatus(c *fiber.Ctx) error {
	var body struct {
		OrderID string `json:"order_id"`
		Status  string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	orderID, err := uuid.Parse(body.OrderID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for order_id", 400, nil)
	}
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	order, err := h.Service.UpdateStatus(c.Context(), orderID, body.Status, actorID)
	if err != nil {
		return mapOrderError(c, err)
	}
	return response.Success(c, "Order updated", fiber.Map{"order": order}, nil)
}

// GetPurchases GET /api/v1/orders/purchases — actor as buyer.
func (h *Handlers) GetPurchases(c *fiber.Ctx) error {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	views := h.Service.ListForBuyer(c.Context(), actorID)
	return response.Success(c, "Orders fetched", fiber.Map{"orders": views}, nil)
}

// GetSales GET /api/v1/orders/sales — actor as seller.
func (h *Handlers) GetSales(c *fiber.Ctx) error {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	views := h.Service.ListForSeller(c.Context(), actorID)
	return response.Success(c, "Orders fetched", fiber.Map{"orders": views}, nil)
}

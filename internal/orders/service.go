package orders

import (
	"context"

	"bookbarter-backend/internal/models"
	"bookbarter-backend/internal/notifications"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Service struct {
	DB       *gorm.DB
	Notifier *notifications.Service
}

type CreateOrderInput struct {
	BuyerID  uuid.UUID
	BookID   uuid.UUID
	Amount   float64
	Shipping models.ShippingDetails
}

// Create inserts a pending order at checkout initiation, before payment
// confirmation. A pending order with no completed payment is inert: the
// book is only claimed (sold) by the payment webhook, never here.
func (s *Service) Create(ctx context.Context, in CreateOrderInput) (*models.Order, *models.Book, error) {
	if in.BookID == uuid.Nil {
		return nil, nil, ErrBookIDRequired
	}
	if in.Shipping.Name == "" || in.Shipping.AddressLine1 == "" || in.Shipping.City == "" ||
		in.Shipping.PostalCode == "" || in.Shipping.Country == "" {
		return nil, nil, ErrShippingIncomplete
	}

	var book models.Book
	if err := s.DB.WithContext(ctx).Where("book_id = ?", in.BookID).First(&book).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrBookNotFound
		}
		return nil, nil, err
	}
	if models.NormalizeListingType(book.ListingType) != models.ListingSell || book.Price == nil {
		return nil, nil, ErrNotForSale
	}
	if book.OwnerID == in.BuyerID {
		return nil, nil, ErrOwnBook
	}
	if book.Status != models.StatusAvailable {
		return nil, nil, ErrBookNotAvailable
	}
	if in.Amount != *book.Price {
		return nil, nil, ErrAmountMismatch
	}

	order := &models.Order{
		BuyerID:  in.BuyerID,
		SellerID: book.OwnerID,
		BookID:   in.BookID,
		Amount:   in.Amount,
		Status:   models.OrderPending,
		Shipping: in.Shipping,
	}
	if err := s.DB.WithContext(ctx).Create(order).Error; err != nil {
		return nil, nil, err
	}

	s.Notifier.Notify(ctx, book.OwnerID,
		"New order",
		"Your book \""+book.Title+"\" has a new order awaiting payment.",
		models.NotifOrder, order.OrderID)
	return order, &book, nil
}

// orderRank orders the linear status sequence; cancelled sits outside it.
var orderRank = map[string]int{
	models.OrderPending:    0,
	models.OrderProcessing: 1,
	models.OrderShipped:    2,
	models.OrderDelivered:  3,
}

// UpdateStatus advances an order. Seller-only. Transitions are restricted to
// the next step in pending→processing→shipped→delivered, plus cancelled from
// any pre-delivered state; jumps and backward moves are rejected.
func (s *Service) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus string, actingSellerID uuid.UUID) (*models.Order, error) {
	newRank, isLinear := orderRank[newStatus]
	if !isLinear && newStatus != models.OrderCancelled {
		return nil, ErrInvalidStatus
	}

	var order models.Order
	if err := s.DB.WithContext(ctx).Where("order_id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.SellerID != actingSellerID {
		return nil, ErrNotSeller
	}

	curRank, curLinear := orderRank[order.Status]
	switch {
	case newStatus == models.OrderCancelled:
		if !curLinear || order.Status == models.OrderDelivered {
			return nil, ErrInvalidTransition
		}
	case !curLinear || newRank != curRank+1:
		return nil, ErrInvalidTransition
	}

	res := s.DB.WithContext(ctx).Model(&models.Order{}).
		Where("order_id = ? AND status = ?", orderID, order.Status).
		Update("status", newStatus)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidTransition
	}
	order.Status = newStatus

	s.Notifier.Notify(ctx, order.BuyerID,
		"Order "+newStatus,
		"Your order is now "+newStatus+".",
		models.NotifOrderUpdate, order.OrderID)
	return &order, nil
}

// OrderView is an order row joined with a snapshot of the book.
type OrderView struct {
	models.Order
	Book *models.Book `json:"book"`
}

// ListForBuyer returns the buyer's orders, newest first. Fetch failures
// degrade to an empty list.
func (s *Service) ListForBuyer(ctx context.Context, buyerID uuid.UUID) []OrderView {
	return s.list(ctx, "buyer_id", buyerID)
}

// ListForSeller returns the seller's sales, newest first.
func (s *Service) ListForSeller(ctx context.Context, sellerID uuid.UUID) []OrderView {
	return s.list(ctx, "seller_id", sellerID)
}

func (s *Service) list(ctx context.Context, column string, userID uuid.UUID) []OrderView {
	var rows []models.Order
	if err := s.DB.WithContext(ctx).
		Where(column+" = ?", userID).
		Order("created_at DESC").Find(&rows).Error; err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("order list fetch failed")
		return []OrderView{}
	}
	if len(rows) == 0 {
		return []OrderView{}
	}

	bookIDs := make([]uuid.UUID, 0, len(rows))
	for _, o := range rows {
		bookIDs = append(bookIDs, o.BookID)
	}
	bookByID := map[uuid.UUID]*models.Book{}
	var bookRows []models.Book
	if err := s.DB.WithContext(ctx).Where("book_id IN ?", bookIDs).Find(&bookRows).Error; err != nil {
		log.Error().Err(err).Msg("book snapshot fetch failed")
	}
	for i := range bookRows {
		bookByID[bookRows[i].BookID] = &bookRows[i]
	}

	views := make([]OrderView, 0, len(rows))
	for _, o := range rows {
		views = append(views, OrderView{Order: o, Book: bookByID[o.BookID]})
	}
	return views
}

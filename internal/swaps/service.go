package swaps

import (
	"context"

	"bookbarter-backend/internal/books"
	"bookbarter-backend/internal/models"
	"bookbarter-backend/internal/notifications"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DefaultMessage is used when the requester sends no message.
const DefaultMessage = "I'd like to swap one of my books for yours."

type Service struct {
	DB       *gorm.DB
	Notifier *notifications.Service
}

// Request proposes trading the requester's offered book for the owner's
// requested book. Both books must independently be available and
// exchange-listed (permissive match on legacy "swap"/"exchange" values).
// A prior rejected request for the same triple is deleted, not retained:
// re-requesting replaces the history.
func (s *Service) Request(ctx context.Context, requesterID, requestedBookID, offeredBookID uuid.UUID, message string) (*models.SwapRequest, error) {
	if requestedBookID == uuid.Nil || offeredBookID == uuid.Nil {
		return nil, ErrIDsRequired
	}
	if requestedBookID == offeredBookID {
		return nil, ErrSameBook
	}

	var requested models.Book
	if err := s.DB.WithContext(ctx).Where("book_id = ?", requestedBookID).First(&requested).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRequestedNotFound
		}
		return nil, err
	}
	if requested.OwnerID == requesterID {
		return nil, ErrOwnBook
	}
	if requested.Status != models.StatusAvailable {
		return nil, ErrRequestedNotAvailable
	}
	if !models.IsExchangeCompatible(requested.ListingType) {
		return nil, ErrRequestedNotExchange
	}

	var offered models.Book
	if err := s.DB.WithContext(ctx).Where("book_id = ?", offeredBookID).First(&offered).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOfferedNotFound
		}
		return nil, err
	}
	if offered.OwnerID != requesterID {
		return nil, ErrOfferedNotOwned
	}
	if offered.Status != models.StatusAvailable {
		return nil, ErrOfferedNotAvailable
	}
	if !models.IsExchangeCompatible(offered.ListingType) {
		return nil, ErrOfferedNotExchange
	}

	var existing models.SwapRequest
	err := s.DB.WithContext(ctx).
		Where("requester_id = ? AND requested_book_id = ? AND offered_book_id = ? AND status IN ?",
			requesterID, requestedBookID, offeredBookID,
			[]string{models.RequestPending, models.RequestApproved}).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyRequested
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	// Drop any rejected row for the same triple so the new request replaces it.
	if err := s.DB.WithContext(ctx).Unscoped().
		Where("requester_id = ? AND requested_book_id = ? AND offered_book_id = ? AND status = ?",
			requesterID, requestedBookID, offeredBookID, models.RequestRejected).
		Delete(&models.SwapRequest{}).Error; err != nil {
		return nil, err
	}

	if message == "" {
		message = DefaultMessage
	}
	swap := &models.SwapRequest{
		RequesterID:     requesterID,
		OwnerID:         requested.OwnerID,
		RequestedBookID: requestedBookID,
		OfferedBookID:   offeredBookID,
		Message:         message,
		Status:          models.RequestPending,
	}
	if err := s.DB.WithContext(ctx).Create(swap).Error; err != nil {
		return nil, err
	}

	s.Notifier.Notify(ctx, requested.OwnerID,
		"New swap request",
		"Someone has offered \""+offered.Title+"\" in exchange for your book \""+requested.Title+"\".",
		models.NotifSwapRequest, swap.SwapID)
	return swap, nil
}

// Decide approves or rejects a pending swap. Approval flips the swap and
// claims BOTH books (available→swapped) in a single transaction; if either
// claim misses, the whole approval rolls back and neither book moves.
// Rejection leaves both books available.
func (s *Service) Decide(ctx context.Context, swapID uuid.UUID, decision string, actingOwnerID uuid.UUID) (*models.SwapRequest, error) {
	if decision != models.RequestApproved && decision != models.RequestRejected {
		return nil, ErrInvalidDecision
	}

	var swap models.SwapRequest
	if err := s.DB.WithContext(ctx).Where("swap_id = ?", swapID).First(&swap).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSwapNotFound
		}
		return nil, err
	}
	if swap.OwnerID != actingOwnerID {
		return nil, ErrNotSwapOwner
	}
	if swap.Status != models.RequestPending {
		return nil, ErrAlreadyProcessed
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.SwapRequest{}).
			Where("swap_id = ? AND status = ?", swapID, models.RequestPending).
			Update("status", decision)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}
		if decision == models.RequestApproved {
			if err := books.ClaimStatusTx(tx, swap.RequestedBookID, models.StatusAvailable, models.StatusSwapped); err != nil {
				return err
			}
			if err := books.ClaimStatusTx(tx, swap.OfferedBookID, models.StatusAvailable, models.StatusSwapped); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if err == books.ErrNotAvailable {
			return nil, ErrBooksNotClaimable
		}
		return nil, err
	}
	swap.Status = decision

	title := "Swap request rejected"
	message := "The owner has declined your swap offer."
	if decision == models.RequestApproved {
		title = "Swap request approved"
		message = "Your swap offer was accepted. Arrange the exchange with the owner."
	}
	s.Notifier.Notify(ctx, swap.RequesterID, title, message, models.NotifSwapUpdate, swap.SwapID)
	return &swap, nil
}

// SwapView is a swap row joined with snapshots of both books and the
// counterparty profile.
type SwapView struct {
	models.SwapRequest
	RequestedBook *models.Book `json:"requested_book"`
	OfferedBook   *models.Book `json:"offered_book"`
	Counterparty  *UserSnippet `json:"counterparty"`
}

// UserSnippet is the public slice of a profile shown on dashboards.
type UserSnippet struct {
	UserID   uuid.UUID `json:"user_id"`
	Fullname string    `json:"fullname"`
	UserName string    `json:"user_name"`
	City     string    `json:"city"`
}

// ListForOwner returns swap offers on the owner's books. Fetch failures
// degrade to an empty list.
func (s *Service) ListForOwner(ctx context.Context, ownerID uuid.UUID) []SwapView {
	return s.list(ctx, "owner_id", ownerID, true)
}

// ListForRequester returns the requester's outgoing swap offers.
func (s *Service) ListForRequester(ctx context.Context, requesterID uuid.UUID) []SwapView {
	return s.list(ctx, "requester_id", requesterID, false)
}

func (s *Service) list(ctx context.Context, column string, userID uuid.UUID, counterpartyIsRequester bool) []SwapView {
	var swaps []models.SwapRequest
	if err := s.DB.WithContext(ctx).
		Where(column+" = ?", userID).
		Order("created_at DESC").Find(&swaps).Error; err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("swap request list fetch failed")
		return []SwapView{}
	}
	if len(swaps) == 0 {
		return []SwapView{}
	}

	bookIDs := make([]uuid.UUID, 0, len(swaps)*2)
	userIDs := make([]uuid.UUID, 0, len(swaps))
	for _, sw := range swaps {
		bookIDs = append(bookIDs, sw.RequestedBookID, sw.OfferedBookID)
		if counterpartyIsRequester {
			userIDs = append(userIDs, sw.RequesterID)
		} else {
			userIDs = append(userIDs, sw.OwnerID)
		}
	}

	bookByID := map[uuid.UUID]*models.Book{}
	var bookRows []models.Book
	if err := s.DB.WithContext(ctx).Where("book_id IN ?", bookIDs).Find(&bookRows).Error; err != nil {
		log.Error().Err(err).Msg("book snapshot fetch failed")
	}
	for i := range bookRows {
		bookByID[bookRows[i].BookID] = &bookRows[i]
	}

	userByID := map[uuid.UUID]*UserSnippet{}
	var userRows []models.User
	if err := s.DB.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&userRows).Error; err != nil {
		log.Error().Err(err).Msg("profile snapshot fetch failed")
	}
	for _, u := range userRows {
		userByID[u.UserID] = &UserSnippet{UserID: u.UserID, Fullname: u.Fullname, UserName: u.UserName, City: u.City}
	}

	views := make([]SwapView, 0, len(swaps))
	for _, sw := range swaps {
		counterpartyID := sw.OwnerID
		if counterpartyIsRequester {
			counterpartyID = sw.RequesterID
		}
		views = append(views, SwapView{
			SwapRequest:   sw,
			RequestedBook: bookByID[sw.RequestedBookID],
			OfferedBook:   bookByID[sw.OfferedBookID],
			Counterparty:  userByID[counterpartyID],
		})
	}
	return views
}

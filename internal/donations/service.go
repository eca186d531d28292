package donations

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
const DefaultMessage = "I'd like to request this book."

type Service struct {
	DB       *gorm.DB
	Notifier *notifications.Service
}

// Request asks the owner of a donate-listed book for it. Preconditions run
// in order and short-circuit on the first failure; a prior rejected request
// does not block a new one.
func (s *Service) Request(ctx context.Context, requesterID, bookID uuid.UUID, message string) (*models.DonationRequest, error) {
	if bookID == uuid.Nil {
		return nil, ErrBookIDRequired
	}

	var book models.Book
	if err := s.DB.WithContext(ctx).Where("book_id = ?", bookID).First(&book).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	if models.NormalizeListingType(book.ListingType) != models.ListingDonate {
		return nil, ErrNotDonateListing
	}
	if book.OwnerID == requesterID {
		return nil, ErrOwnBook
	}
	if book.Status != models.StatusAvailable {
		return nil, ErrBookNotAvailable
	}

	var existing models.DonationRequest
	err := s.DB.WithContext(ctx).
		Where("requester_id = ? AND book_id = ? AND status IN ?",
			requesterID, bookID, []string{models.RequestPending, models.RequestApproved}).
		First(&existing).Error
	if err == nil {
		if existing.Status == models.RequestApproved {
			return nil, ErrAlreadyApproved
		}
		return nil, ErrAlreadyRequested
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if message == "" {
		message = DefaultMessage
	}
	req := &models.DonationRequest{
		RequesterID: requesterID,
		OwnerID:     book.OwnerID,
		BookID:      bookID,
		Message:     message,
		Status:      models.RequestPending,
	}
	if err := s.DB.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}

	s.Notifier.Notify(ctx, book.OwnerID,
		"New donation request",
		"Someone has requested your book \""+book.Title+"\".",
		models.NotifDonationRequest, req.RequestID)
	return req, nil
}

// Decide approves or rejects a pending request. Approval reserves the book
// through a conditional claim inside one transaction, so the request flip and
// the book reservation commit together and at most one request can win the
// book. Rejection leaves the book untouched.
func (s *Service) Decide(ctx context.Context, requestID uuid.UUID, decision string, actingOwnerID uuid.UUID) (*models.DonationRequest, error) {
	if decision != models.RequestApproved && decision != models.RequestRejected {
		return nil, ErrInvalidDecision
	}

	var req models.DonationRequest
	if err := s.DB.WithContext(ctx).Where("request_id = ?", requestID).First(&req).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if req.OwnerID != actingOwnerID {
		return nil, ErrNotRequestOwner
	}
	if req.Status != models.RequestPending {
		return nil, ErrAlreadyProcessed
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.DonationRequest{}).
			Where("request_id = ? AND status = ?", requestID, models.RequestPending).
			Update("status", decision)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}
		if decision == models.RequestApproved {
			return books.ClaimStatusTx(tx, req.BookID, models.StatusAvailable, models.StatusReserved)
		}
		return nil
	})
	if err != nil {
		if err == books.ErrNotAvailable {
			return nil, ErrBookNotAvailable
		}
		return nil, err
	}
	req.Status = decision

	title := "Donation request rejected"
	message := "The owner has declined your donation request."
	if decision == models.RequestApproved {
		title = "Donation request approved"
		message = "Your donation request was approved. The book has been reserved for you."
	}
	s.Notifier.Notify(ctx, req.RequesterID, title, message, models.NotifDonationUpdate, req.RequestID)
	return &req, nil
}

// RequestView is a request row joined with snapshots of the book and the
// counterparty profile, for dashboard rendering.
type RequestView struct {
	models.DonationRequest
	Book         *models.Book `json:"book"`
	Counterparty *UserSnippet `json:"counterparty"`
}

// UserSnippet is the public slice of a profile shown on dashboards.
type UserSnippet struct {
	UserID   uuid.UUID `json:"user_id"`
	Fullname string    `json:"fullname"`
	UserName string    `json:"user_name"`
	City     string    `json:"city"`
}

// ListForOwner returns requests on the owner's books (the inbox). Fetch
// failures degrade to an empty list — dashboards render "no data" rather
// than an error page.
func (s *Service) ListForOwner(ctx context.Context, ownerID uuid.UUID) []RequestView {
	return s.list(ctx, "owner_id", ownerID, true)
}

// ListForRequester returns the requester's outgoing requests.
func (s *Service) ListForRequester(ctx context.Context, requesterID uuid.UUID) []RequestView {
	return s.list(ctx, "requester_id", requesterID, false)
}

func (s *Service) list(ctx context.Context, column string, userID uuid.UUID, counterpartyIsRequester bool) []RequestView {
	var reqs []models.DonationRequest
	if err := s.DB.WithContext(ctx).
		Where(column+" = ?", userID).
		Order("created_at DESC").Find(&reqs).Error; err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("donation request list fetch failed")
		return []RequestView{}
	}
	if len(reqs) == 0 {
		return []RequestView{}
	}

	bookIDs := make([]uuid.UUID, 0, len(reqs))
	userIDs := make([]uuid.UUID, 0, len(reqs))
	for _, r := range reqs {
		bookIDs = append(bookIDs, r.BookID)
		if counterpartyIsRequester {
			userIDs = append(userIDs, r.RequesterID)
		} else {
			userIDs = append(userIDs, r.OwnerID)
		}
	}
	bookByID := fetchBooks(ctx, s.DB, bookIDs)
	userByID := fetchUserSnippets(ctx, s.DB, userIDs)

	views := make([]RequestView, 0, len(reqs))
	for _, r := range reqs {
		counterpartyID := r.OwnerID
		if counterpartyIsRequester {
			counterpartyID = r.RequesterID
		}
		views = append(views, RequestView{
			DonationRequest: r,
			Book:            bookByID[r.BookID],
			Counterparty:    userByID[counterpartyID],
		})
	}
	return views
}

func fetchBooks(ctx context.Context, db *gorm.DB, ids []uuid.UUID) map[uuid.UUID]*models.Book {
	out := map[uuid.UUID]*models.Book{}
	var rows []models.Book
	if err := db.WithContext(ctx).Where("book_id IN ?", ids).Find(&rows).Error; err != nil {
		log.Error().Err(err).Msg("book snapshot fetch failed")
		return out
	}
	for i := range rows {
		out[rows[i].BookID] = &rows[i]
	}
	return out
}

func fetchUserSnippets(ctx context.Context, db *gorm.DB, ids []uuid.UUID) map[uuid.UUID]*UserSnippet {
	out := map[uuid.UUID]*UserSnippet{}
	var rows []models.User
	if err := db.WithContext(ctx).Where("user_id IN ?", ids).Find(&rows).Error; err != nil {
		log.Error().Err(err).Msg("profile snapshot fetch failed")
		return out
	}
	for _, u := range rows {
		out[u.UserID] = &UserSnippet{
			UserID:   u.UserID,
			Fullname: u.Fullname,
			UserName: u.UserName,
			City:     u.City,
		}
	}
	return out
}

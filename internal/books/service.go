package books

import (
	"context"
	"fmt"

	"bookbarter-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the availability ledger: the single mutation point for a book's
// transactional status, plus the listing CRUD around it.
type Service struct {
	DB *gorm.DB
}

// GetBook returns the current book record.
func (s *Service) GetBook(ctx context.Context, bookID uuid.UUID) (*models.Book, error) {
	if bookID == uuid.Nil {
		return nil, ErrBookIDRequired
	}
	var book models.Book
	if err := s.DB.WithContext(ctx).Where("book_id = ?", bookID).First(&book).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// SetStatus writes the book status unconditionally. Callers run their own
// precondition checks first; use ClaimStatus when the prior status matters.
func (s *Service) SetStatus(ctx context.Context, bookID uuid.UUID, status string) error {
	return SetStatusTx(s.DB.WithContext(ctx), bookID, status)
}

// ClaimStatus transitions the book from one status to another, failing when
// the book is no longer in the expected prior status. The conditional write
// is what keeps two concurrent approvals from both claiming one book.
func (s *Service) ClaimStatus(ctx context.Context, bookID uuid.UUID, from, to string) error {
	return ClaimStatusTx(s.DB.WithContext(ctx), bookID, from, to)
}

// SetStatusTx is SetStatus against an open transaction.
func SetStatusTx(tx *gorm.DB, bookID uuid.UUID, status string) error {
	res := tx.Model(&models.Book{}).Where("book_id = ?", bookID).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClaimStatusTx is ClaimStatus against an open transaction.
func ClaimStatusTx(tx *gorm.DB, bookID uuid.UUID, from, to string) error {
	res := tx.Model(&models.Book{}).
		Where("book_id = ? AND status = ?", bookID, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotAvailable
	}
	return nil
}

type CreateBookInput struct {
	OwnerID     uuid.UUID
	Title       string
	Author      string
	Description string
	Condition   string
	ListingType string
	Price       *float64
	ImageURL    string
}

// CreateBook validates and inserts a listing. The listing type is
// canonicalized at this boundary; reads stay tolerant of legacy values.
func (s *Service) CreateBook(ctx context.Context, in CreateBookInput) (*models.Book, error) {
	if in.Title == "" || in.Author == "" {
		return nil, ErrTitleRequired
	}
	if !models.IsValidCondition(in.Condition) {
		return nil, ErrInvalidCondition
	}
	listingType := models.NormalizeListingType(in.ListingType)
	if listingType == "" {
		return nil, ErrInvalidListingType
	}
	if listingType == models.ListingSell {
		if in.Price == nil || *in.Price <= 0 {
			return nil, ErrPriceRequired
		}
	} else {
		in.Price = nil
	}

	book := &models.Book{
		OwnerID:     in.OwnerID,
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		Condition:   in.Condition,
		ListingType: listingType,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Status:      models.StatusAvailable,
	}
	if err := s.DB.WithContext(ctx).Create(book).Error; err != nil {
		return nil, fmt.Errorf("Failed to create book: %v", err)
	}
	return book, nil
}

type EditBookInput struct {
	BookID      uuid.UUID
	OwnerID     uuid.UUID
	Title       *string
	Author      *string
	Description *string
	Condition   *string
	Price       *float64
	ImageURL    *string
}

// EditBook updates listing fields. Owner-only, and only while the book is
// still available; a reserved/sold/swapped/donated book is frozen.
func (s *Service) EditBook(ctx context.Context, in EditBookInput) (*models.Book, error) {
	book, err := s.GetBook(ctx, in.BookID)
	if err != nil {
		return nil, err
	}
	if book.OwnerID != in.OwnerID {
		return nil, ErrNotOwner
	}
	if book.Status != models.StatusAvailable {
		return nil, ErrNotAvailable
	}

	updates := map[string]interface{}{}
	if in.Title != nil && *in.Title != "" {
		updates["title"] = *in.Title
	}
	if in.Author != nil && *in.Author != "" {
		updates["author"] = *in.Author
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Condition != nil {
		if !models.IsValidCondition(*in.Condition) {
			return nil, ErrInvalidCondition
		}
		updates["condition"] = *in.Condition
	}
	if in.Price != nil {
		if book.ListingType != models.ListingSell {
			return nil, ErrInvalidListingType
		}
		if *in.Price <= 0 {
			return nil, ErrPriceRequired
		}
		updates["price"] = *in.Price
	}
	if in.ImageURL != nil {
		updates["image_url"] = *in.ImageURL
	}
	if len(updates) == 0 {
		return book, nil
	}
	if err := s.DB.WithContext(ctx).Model(book).Updates(updates).Error; err != nil {
		return nil, err
	}
	s.DB.WithContext(ctx).Where("book_id = ?", in.BookID).First(book)
	return book, nil
}

// DeleteBook soft-deletes a listing. Blocked while active requests or
// undelivered orders still reference the book (soft lifecycle).
func (s *Service) DeleteBook(ctx context.Context, bookID, ownerID uuid.UUID) error {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return err
	}
	if book.OwnerID != ownerID {
		return ErrNotOwner
	}

	var active int64
	s.DB.WithContext(ctx).Model(&models.DonationRequest{}).
		Where("book_id = ? AND status IN ?", bookID, []string{models.RequestPending, models.RequestApproved}).
		Count(&active)
	if active > 0 {
		return ErrHasActiveActivity
	}
	s.DB.WithContext(ctx).Model(&models.SwapRequest{}).
		Where("(requested_book_id = ? OR offered_book_id = ?) AND status IN ?",
			bookID, bookID, []string{models.RequestPending, models.RequestApproved}).
		Count(&active)
	if active > 0 {
		return ErrHasActiveActivity
	}
	s.DB.WithContext(ctx).Model(&models.Order{}).
		Where("book_id = ? AND status NOT IN ?", bookID, []string{models.OrderDelivered, models.OrderCancelled}).
		Count(&active)
	if active > 0 {
		return ErrHasActiveActivity
	}

	return s.DB.WithContext(ctx).Delete(book).Error
}

// ListAvailable returns every browsable listing, newest first.
func (s *Service) ListAvailable(ctx context.Context) ([]models.Book, error) {
	var booksOut []models.Book
	if err := s.DB.WithContext(ctx).
		Where("status = ?", models.StatusAvailable).
		Order("created_at DESC").Find(&booksOut).Error; err != nil {
		return nil, err
	}
	return booksOut, nil
}

// ListByOwner returns all of a user's listings, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Book, error) {
	if ownerID == uuid.Nil {
		return nil, ErrBookIDRequired
	}
	var booksOut []models.Book
	if err := s.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").Find(&booksOut).Error; err != nil {
		return nil, err
	}
	return booksOut, nil
}

// ListSwappable returns the user's own available, exchange-listed books —
// the "offer one of your books" selector. The type filter runs in Go so the
// permissive match covers legacy listing_type values.
func (s *Service) ListSwappable(ctx context.Context, ownerID uuid.UUID) ([]models.Book, error) {
	var owned []models.Book
	if err := s.DB.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, models.StatusAvailable).
		Order("created_at DESC").Find(&owned).Error; err != nil {
		return nil, err
	}
	swappable := make([]models.Book, 0, len(owned))
	for _, b := range owned {
		if models.IsExchangeCompatible(b.ListingType) {
			swappable = append(swappable, b)
		}
	}
	return swappable, nil
}

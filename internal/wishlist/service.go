package wishlist

import (
	"context"
	"errors"

	"bookbarter-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrBookNotFound = errors.New("Book not found")
	ErrOwnBook      = errors.New("You cannot wishlist your own book")
	ErrAlreadyAdded = errors.New("Book is already on your wishlist")
	ErrNotOnList    = errors.New("Book is not on your wishlist")
)

type Service struct {
	DB *gorm.DB
}

// Add puts a book on the user's wishlist.
func (s *Service) Add(ctx context.Context, userID, bookID uuid.UUID) (*models.WishlistItem, error) {
	var book models.Book
	if err := s.DB.WithContext(ctx).Where("book_id = ?", bookID).First(&book).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	if book.OwnerID == userID {
		return nil, ErrOwnBook
	}

	var existing models.WishlistItem
	if err := s.DB.WithContext(ctx).Where("user_id = ? AND book_id = ?", userID, bookID).First(&existing).Error; err == nil {
		return nil, ErrAlreadyAdded
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	item := &models.WishlistItem{UserID: userID, BookID: bookID}
	if err := s.DB.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Remove takes a book off the user's wishlist.
func (s *Service) Remove(ctx context.Context, userID, bookID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotOnList
	}
	return nil
}

// ItemView is a wishlist row joined with a snapshot of the book.
type ItemView struct {
	models.WishlistItem
	Book *models.Book `json:"book"`
}

// List returns the user's wishlist with book snapshots, newest first.
// Fetch failures degrade to an empty list.
func (s *Service) List(ctx context.Context, userID uuid.UUID) []ItemView {
	var items []models.WishlistItem
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&items).Error; err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("wishlist fetch failed")
		return []ItemView{}
	}
	if len(items) == 0 {
		return []ItemView{}
	}

	bookIDs := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		bookIDs = append(bookIDs, it.BookID)
	}
	bookByID := map[uuid.UUID]*models.Book{}
	var bookRows []models.Book
	if err := s.DB.WithContext(ctx).Where("book_id IN ?", bookIDs).Find(&bookRows).Error; err != nil {
		log.Error().Err(err).Msg("book snapshot fetch failed")
	}
	for i := range bookRows {
		bookByID[bookRows[i].BookID] = &bookRows[i]
	}

	views := make([]ItemView, 0, len(items))
	for _, it := range items {
		views = append(views, ItemView{WishlistItem: it, Book: bookByID[it.BookID]})
	}
	return views
}

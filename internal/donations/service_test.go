package donations

import (
	"context"
	"testing"

	"bookbarter-backend/internal/models"
	"bookbarter-backend/internal/notifications"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDonationTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Book{}, &models.DonationRequest{}, &models.Notification{},
	))
	return &Service{DB: db, Notifier: &notifications.Service{DB: db}}, db
}

func seedBook(t *testing.T, db *gorm.DB, ownerID uuid.UUID, listingType, status string) *models.Book {
	t.Helper()
	book := &models.Book{
		OwnerID:     ownerID,
		Title:       "The Dispossessed",
		Author:      "Ursula K. Le Guin",
		Condition:   "Good",
		ListingType: listingType,
		Status:      status,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func notificationCount(t *testing.T, db *gorm.DB, recipientID uuid.UUID, notifType string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ?", recipientID, notifType).Count(&n).Error)
	return n
}

func TestRequestDonation_WrongListingType(t *testing.T) {
	svc, db := setupDonationTest(t)
	owner, requester := uuid.New(), uuid.New()
	book := seedBook(t, db, owner, models.ListingSell, models.StatusAvailable)

	_, err := svc.Request(context.Background(), requester, book.BookID, "")
	assert.Equal(t, ErrNotDonateListing, err)

	var count int64
	db.Model(&models.DonationRequest{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRequestDonation_OwnBook(t *testing.T) {
	svc, db := setupDonationTest(t)
	owner := uuid.New()
	book := seedBook(t, db, owner, models.ListingDonate, models.StatusAvailable)

	_, err := svc.Request(context.Background(), owner, book.BookID, "")
	assert.Equal(t, ErrOwnBook, err)
}

func TestRequestDonation_BookNotFound(t *testing.T) {
	svc, _ := setupDonationTest(t)
	_, err := svc.Request(context.Background(), uuid.New(), uuid.New(), "")
	assert.Equal(t, ErrBookNotFound, err)
}

func TestRequestDonation_DefaultsMessage(t *testing.T) {
	svc, db := setupDonationTest(t)
	owner, requester := uuid.New(), uuid.New()
	book := seedBook(t, db, owner, models.ListingDonate, models.StatusAvailable)

	req, err := svc.Request(context.Background(), requester, book.BookID, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultMessage, req.Message)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, owner, req.OwnerID)
}

func TestRequestDonation_DuplicateActive(t *testing.T) {
	svc, db := setupDonationTest(t)
	owner, requester := uuid.New(), uuid.New()
	book := seedBook(t, db, owner, models.ListingDonate, models.StatusAvailable)
	ctx := context.Background()

	_, err := svc.Request(ctx, requester, book.BookID, "")
	require.NoError(t, err)

	// Second request while the first is pending fails with the duplicate message.
	_, err = svc.Request(ctx, requester, book.BookID, "")
	assert.Equal(t, ErrAlreadyRequested, err)

	var count int64
	db.Model(&models.DonationRequest{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRequestDonation_RejectedDoesNotBlock(t *testing.T) {
	svc, db := setupDonationTest(t)
	owner, requester := uuid.New(), uuid.New()
	book := seedBook(t, db, owner, models.ListingDonate, models.StatusAvailable)
	ctx := context.Background()

	first, err := svc.Request(ctx, requester, book.BookID, "")
	require.NoError(t, err)
	_, err = svc.Decide(ctx, first.RequestID, models.RequestRejected, owner)
	require.NoError(t, err)

	second, err := svc.Request(ctx, requester, book.BookID, "")
	require.NoError(t, err)
	assert.NotEqual(t, first.RequestID, second.RequestID)
}

func TestDecide_ApproveReservesBookAndNotifies(t *testing.T) {
	svc, db := setupDonationTest(t)
	owner, requester := uuid.New(), uuid.New()
	book := seedBook(t, db, owner, models.ListingDonate, models.StatusAvailable)
	ctx := context.Background()

	req, err := svc.Request(ctx, requester, book.BookID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), notificationCount(t, db, owner, models.NotifDonationRequest))

	decided, err := svc.Decide(ctx, req.RequestID, models.RequestApproved, owner)
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, decided.Status)

	var got models.Book
	require.NoError(t, db.Where("book_id = ?", book.BookID).First(&got).Error)
	assert.Equal(t, models.StatusReserved, got.Status)

	assert.Equal(t, int64(1), notificationCount(t, db, requester, models.NotifDonationUpdate))

	var notif models.Notification
	require.NoError(t, db.Where("recipient_id = ?", requester).First(&notif).Error)
	assert.Equal(t, req.RequestID, notif.RelatedID)
}

func TestDecide_RejectLeavesBookAvailable(t *testing.T) {
	svc, db := setupDonationTest(t)
	owner, requester := uuid.New(), uuid.New()
	book := seedBook(t, db, owner, models.ListingDonate, models.StatusAvailable)
	ctx := context.Background()

	req, err := svc.Request(ctx, requester, book.BookID, "")
	require.NoError(t, err)
	_, err = svc.Decide(ctx, req.RequestID, models.RequestRejected, owner)
	require.NoError(t, err)

	var got models.Book
	require.NoError(t, db.Where("book_id = ?", book.BookID).First(&got).Error)
	assert.Equal(t, models.StatusAvailable, got.Status)
}

func TestDecide_SecondDecisionFails(t *testing.T) {
	svc, db := setupDonationTest(t)
	owner, requester := uuid.New(), uuid.New()
	book := seedBook(t, db, owner, models.ListingDonate, models.StatusAvailable)
	ctx := context.Background()

	req, err := svc.Request(ctx, requester, book.BookID, "")
	require.NoError(t, err)
	_, err = svc.Decide(ctx, req.RequestID, models.RequestApproved, owner)
	require.NoError(t, err)

	_, err = svc.Decide(ctx, req.RequestID, models.RequestRejected, owner)
	assert.Equal(t, ErrAlreadyProcessed, err)

	// First decision's book status is untouched by the failed second call.
	var got models.Book
	require.NoError(t, db.Where("book_id = ?", book.BookID).First(&got).Error)
	assert.Equal(t, models.StatusReserved, got.Status)
}

func TestDecide_NotOwner(t *testing.T) {
	svc, db := setupDonationTest(t)
	owner, requester, stranger := uuid.New(), uuid.New(), uuid.New()
	book := seedBook(t, db, owner, models.ListingDonate, models.StatusAvailable)
	ctx := context.Background()

	req, err := svc.Request(ctx, requester, book.BookID, "")
	require.NoError(t, err)

	_, err = svc.Decide(ctx, req.RequestID, models.RequestApproved, stranger)
	assert.Equal(t, ErrNotRequestOwner, err)
}

func TestDecide_ApproveFailsWhenBookAlreadyClaimed(t *testing.T) {
	svc, db := setupDonationTest(t)
	owner := uuid.New()
	book := seedBook(t, db, owner, models.ListingDonate, models.StatusAvailable)
	ctx := context.Background()

	reqA, err := svc.Request(ctx, uuid.New(), book.BookID, "")
	require.NoError(t, err)
	reqB, err := svc.Request(ctx, uuid.New(), book.BookID, "")
	require.NoError(t, err)

	_, err = svc.Decide(ctx, reqA.RequestID, models.RequestApproved, owner)
	require.NoError(t, err)

	// The conditional claim keeps the second approval from also taking the book,
	// and the rolled-back transaction leaves request B pending.
	_, err = svc.Decide(ctx, reqB.RequestID, models.RequestApproved, owner)
	assert.Equal(t, ErrBookNotAvailable, err)

	var got models.DonationRequest
	require.NoError(t, db.Where("request_id = ?", reqB.RequestID).First(&got).Error)
	assert.Equal(t, models.RequestPending, got.Status)
}

func TestListForOwner_JoinsSnapshots(t *testing.T) {
	svc, db := setupDonationTest(t)
	owner, requester := uuid.New(), uuid.New()
	require.NoError(t, db.Create(&models.User{
		UserID: requester, Fullname: "Ada Lovelace", UserName: "ada", Email: "ada@example.com", PasswordHash: "x",
	}).Error)
	book := seedBook(t, db, owner, models.ListingDonate, models.StatusAvailable)
	ctx := context.Background()

	_, err := svc.Request(ctx, requester, book.BookID, "please")
	require.NoError(t, err)

	views := svc.ListForOwner(ctx, owner)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Book)
	assert.Equal(t, book.BookID, views[0].Book.BookID)
	require.NotNil(t, views[0].Counterparty)
	assert.Equal(t, "Ada Lovelace", views[0].Counterparty.Fullname)

	// The requester's outgoing view shows the owner side, which has no profile row; empty list never errors.
	outgoing := svc.ListForRequester(ctx, requester)
	require.Len(t, outgoing, 1)
	assert.Nil(t, outgoing[0].Counterparty)

	assert.Empty(t, svc.ListForOwner(ctx, uuid.New()))
}

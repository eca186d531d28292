package notifications

import (
	"context"
	"testing"

	"bookbarter-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupNotificationTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Notification{}))
	return &Service{DB: db}, db
}

func TestNotifyAndListUnread(t *testing.T) {
	svc, _ := setupNotificationTest(t)
	ctx := context.Background()
	recipient, other := uuid.New(), uuid.New()
	related := uuid.New()

	svc.Notify(ctx, recipient, "New donation request", "Someone wants your book.", models.NotifDonationRequest, related)
	svc.Notify(ctx, other, "New order", "You have a sale.", models.NotifOrder, uuid.New())

	list, err := svc.ListUnread(ctx, recipient)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotifDonationRequest, list[0].Type)
	assert.Equal(t, related, list[0].RelatedID)
	assert.False(t, list[0].Read)
}

func TestMarkRead_RecipientScoped(t *testing.T) {
	svc, _ := setupNotificationTest(t)
	ctx := context.Background()
	recipient, stranger := uuid.New(), uuid.New()

	svc.Notify(ctx, recipient, "Title", "Message", models.NotifSwapUpdate, uuid.New())
	list, err := svc.ListUnread(ctx, recipient)
	require.NoError(t, err)
	require.Len(t, list, 1)
	notifID := list[0].NotificationID

	// A non-recipient looks the same as a missing row.
	assert.Equal(t, ErrNotFound, svc.MarkRead(ctx, notifID, stranger))
	assert.Equal(t, ErrNotFound, svc.MarkRead(ctx, uuid.New(), recipient))

	require.NoError(t, svc.MarkRead(ctx, notifID, recipient))
	list, err = svc.ListUnread(ctx, recipient)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMarkAllRead(t *testing.T) {
	svc, _ := setupNotificationTest(t)
	ctx := context.Background()
	recipient, other := uuid.New(), uuid.New()

	for i := 0; i < 3; i++ {
		svc.Notify(ctx, recipient, "Title", "Message", models.NotifOrderUpdate, uuid.New())
	}
	svc.Notify(ctx, other, "Title", "Message", models.NotifOrderUpdate, uuid.New())

	require.NoError(t, svc.MarkAllRead(ctx, recipient))

	mine, err := svc.ListUnread(ctx, recipient)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := svc.ListUnread(ctx, other)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

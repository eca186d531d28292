package donations

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookbarter-backend/internal/middleware"
	"bookbarter-backend/internal/models"
	"bookbarter-backend/internal/notifications"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDonationsApp(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Book{}, &models.DonationRequest{}, &models.Notification{},
	))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if id := c.Get("X-Test-User"); id != "" {
			c.Locals("user", map[string]interface{}{"user_id": id})
		}
		return c.Next()
	})

	h := &Handlers{Service: &Service{DB: db, Notifier: &notifications.Service{DB: db}}}
	grp := app.Group("/api/v1/donations", middleware.RequireAuth())
	grp.Post("/request", h.RequestDonation)
	grp.Post("/decide", h.DecideRequest)
	grp.Get("/incoming", h.GetIncoming)
	grp.Get("/outgoing", h.GetOutgoing)
	return app, db
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, actor uuid.UUID) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != uuid.Nil {
		req.Header.Set("X-Test-User", actor.String())
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func respErrorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error.Message
}

// Full donation round trip: request, owner sees it incoming, owner approves,
// book ends reserved and the requester is notified.
func TestDonationRoundTrip(t *testing.T) {
	app, db := setupDonationsApp(t)
	owner, requester := uuid.New(), uuid.New()
	book := seedBook(t, db, owner, models.ListingDonate, models.StatusAvailable)

	resp := doRequest(t, app, "POST", "/api/v1/donations/request", fiber.Map{
		"book_id": book.BookID.String(), "message": "I would love this one",
	}, requester)
	require.Equal(t, 201, resp.StatusCode)

	resp = doRequest(t, app, "GET", "/api/v1/donations/incoming", nil, owner)
	require.Equal(t, 200, resp.StatusCode)
	var incoming struct {
		Data struct {
			Requests []RequestView `json:"requests"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&incoming))
	require.Len(t, incoming.Data.Requests, 1)
	requestID := incoming.Data.Requests[0].RequestID

	resp = doRequest(t, app, "POST", "/api/v1/donations/decide", fiber.Map{
		"request_id": requestID.String(), "decision": models.RequestApproved,
	}, owner)
	require.Equal(t, 200, resp.StatusCode)

	var fresh models.Book
	require.NoError(t, db.Where("book_id = ?", book.BookID).First(&fresh).Error)
	assert.Equal(t, models.StatusReserved, fresh.Status)
	assert.Equal(t, int64(1), notificationCount(t, db, requester, models.NotifDonationUpdate))
}

func TestRequestDonationEndpoint_DuplicateConflict(t *testing.T) {
	app, db := setupDonationsApp(t)
	owner, requester := uuid.New(), uuid.New()
	book := seedBook(t, db, owner, models.ListingDonate, models.StatusAvailable)
	body := fiber.Map{"book_id": book.BookID.String()}

	resp := doRequest(t, app, "POST", "/api/v1/donations/request", body, requester)
	require.Equal(t, 201, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/api/v1/donations/request", body, requester)
	assert.Equal(t, 409, resp.StatusCode)
	assert.Equal(t, ErrAlreadyRequested.Error(), respErrorMessage(t, resp))
}

func TestRequestDonationEndpoint_BadInput(t *testing.T) {
	app, db := setupDonationsApp(t)
	owner, requester := uuid.New(), uuid.New()
	sellBook := seedBook(t, db, owner, models.ListingSell, models.StatusAvailable)

	resp := doRequest(t, app, "POST", "/api/v1/donations/request", fiber.Map{}, requester)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, ErrBookIDRequired.Error(), respErrorMessage(t, resp))

	resp = doRequest(t, app, "POST", "/api/v1/donations/request", fiber.Map{"book_id": "nope"}, requester)
	assert.Equal(t, 400, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/api/v1/donations/request", fiber.Map{
		"book_id": sellBook.BookID.String(),
	}, requester)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, ErrNotDonateListing.Error(), respErrorMessage(t, resp))
}

func TestDecideEndpoint_Authorization(t *testing.T) {
	app, db := setupDonationsApp(t)
	owner, requester, stranger := uuid.New(), uuid.New(), uuid.New()
	book := seedBook(t, db, owner, models.ListingDonate, models.StatusAvailable)

	resp := doRequest(t, app, "POST", "/api/v1/donations/request", fiber.Map{
		"book_id": book.BookID.String(),
	}, requester)
	require.Equal(t, 201, resp.StatusCode)

	var req models.DonationRequest
	require.NoError(t, db.First(&req).Error)

	resp = doRequest(t, app, "POST", "/api/v1/donations/decide", fiber.Map{
		"request_id": req.RequestID.String(), "decision": models.RequestApproved,
	}, stranger)
	assert.Equal(t, 403, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/api/v1/donations/decide", fiber.Map{
		"request_id": req.RequestID.String(), "decision": "maybe",
	}, owner)
	assert.Equal(t, 400, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/api/v1/donations/decide", fiber.Map{
		"request_id": req.RequestID.String(), "decision": models.RequestRejected,
	}, owner)
	require.Equal(t, 200, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/api/v1/donations/decide", fiber.Map{
		"request_id": req.RequestID.String(), "decision": models.RequestApproved,
	}, owner)
	assert.Equal(t, 409, resp.StatusCode)
	assert.Equal(t, ErrAlreadyProcessed.Error(), respErrorMessage(t, resp))
}

package orders

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bookbarter-backend/internal/books"
	"bookbarter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WebhookHandler processes Stripe webhooks. Mounted before the session and
// body-parsing middleware so it sees the raw body for signature checks.
type WebhookHandler struct {
	DB            *gorm.DB
	WebhookSecret string
}

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type checkoutSessionObject struct {
	ID            string            `json:"id"`
	AmountTotal   int               `json:"amount_total"`
	Currency      string            `json:"currency"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

// HandleWebhook POST /api/v1/stripe/webhook — raw body, signature verification, then process.
// Domain-level failures still return 200 so Stripe does not retry forever.
func (wh *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	rawBody := c.BodyRaw()
	sig := c.Get("Stripe-Signature")

	if len(rawBody) == 0 {
		log.Warn().Msg("Stripe webhook received empty body (ensure no global body parser consumes the webhook body)")
		return c.Status(400).SendString("Webhook Error: empty body")
	}

	if err := verifyStripeSignature(rawBody, sig, wh.WebhookSecret); err != nil {
		log.Warn().Err(err).Bool("has_sig", sig != "").Bool("has_secret", wh.WebhookSecret != "").Msg("Stripe webhook signature verification failed")
		return c.Status(400).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
	}

	var event stripeEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		log.Warn().Err(err).Msg("Stripe webhook JSON parse failed")
		return c.Status(400).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
	}

	if event.Type == "checkout.session.completed" {
		var sess checkoutSessionObject
		if err := json.Unmarshal(event.Data.Object, &sess); err != nil {
			return c.Status(200).SendString("ok")
		}
		if err := wh.handleCheckoutCompleted(sess, event.ID, rawBody); err != nil {
			log.Error().Err(err).Str("session_id", sess.ID).Msg("checkout completion processing failed")
			return c.Status(200).SendString("ok")
		}
	}

	return c.Status(200).SendString("ok")
}

func (wh *WebhookHandler) handleCheckoutCompleted(sess checkoutSessionObject, eventID string, rawBody []byte) error {
	orderIDStr := sess.Metadata["order_id"]
	bookIDStr := sess.Metadata["book_id"]
	if orderIDStr == "" || bookIDStr == "" {
		return nil // not one of ours; skip silently
	}
	orderID, err := uuid.Parse(orderIDStr)
	if err != nil {
		return nil
	}
	bookID, err := uuid.Parse(bookIDStr)
	if err != nil {
		return nil
	}

	return wh.DB.Transaction(func(tx *gorm.DB) error {
		// Idempotency: one Payment per checkout session.
		var existing models.Payment
		if err := tx.Where("stripe_session_id = ?", sess.ID).First(&existing).Error; err == nil {
			return nil
		}

		payment := models.Payment{
			StripeSessionID:  sess.ID,
			StripeEventID:    eventID,
			OrderID:          orderID,
			AmountPaidCents:  sess.AmountTotal,
			Currency:         sess.Currency,
			Status:           sess.PaymentStatus,
			RawCheckoutEvent: datatypes.JSON(rawBody),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		// The payment confirms the order and claims the book. Both writes are
		// conditional so a stale or duplicate event cannot move state twice.
		res := tx.Model(&models.Order{}).
			Where("order_id = ? AND status = ?", orderID, models.OrderPending).
			Update("status", models.OrderProcessing)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("order not pending")
		}
		return books.ClaimStatusTx(tx, bookID, models.StatusAvailable, models.StatusSold)
	})
}

// verifyStripeSignature checks the Stripe-Signature header
// ("t=<ts>,v1=<hmac>") against HMAC-SHA256(secret, "<ts>.<payload>").
func verifyStripeSignature(payload []byte, header, secret string) error {
	if secret == "" {
		return errors.New("webhook secret not configured")
	}
	if header == "" {
		return errors.New("missing Stripe-Signature header")
	}

	var ts string
	var sigs []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts = kv[1]
		case "v1":
			sigs = append(sigs, kv[1])
		}
	}
	if ts == "" || len(sigs) == 0 {
		return errors.New("malformed Stripe-Signature header")
	}

	tsInt, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return errors.New("malformed timestamp in Stripe-Signature header")
	}
	if d := time.Since(time.Unix(tsInt, 0)); d > 5*time.Minute || d < -5*time.Minute {
		return errors.New("timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range sigs {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return errors.New("signature mismatch")
}

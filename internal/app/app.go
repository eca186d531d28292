package app

import (
	"bookbarter-backend/internal/auth"
	"bookbarter-backend/internal/books"
	"bookbarter-backend/internal/config"
	"bookbarter-backend/internal/database"
	"bookbarter-backend/internal/donations"
	"bookbarter-backend/internal/middleware"
	"bookbarter-backend/internal/notifications"
	"bookbarter-backend/internal/orders"
	"bookbarter-backend/internal/swaps"
	"bookbarter-backend/internal/wishlist"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route registration.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Stripe webhook — mounted before session/JSON parsing so the handler
	// reads the raw body and the stripe-signature header.
	stripeWebhook := &orders.WebhookHandler{WebhookSecret: cfg.StripeWebhookSecret}
	app.Post("/api/v1/stripe/webhook", func(c *fiber.Ctx) error {
		return stripeWebhook.HandleWebhook(c)
	})

	// Session (Redis)
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	// Response formatter, tracing, route logger
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	// Auth (no auth middleware): register, login, me, logout
	var userFinder auth.UserFinder
	if db != nil {
		userFinder = &auth.GormUserFinder{DB: db}
	}
	authHandlers := &auth.Handlers{
		DB:         db,
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/register", authHandlers.Register)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	if db != nil {
		stripeWebhook.DB = db
	}

	// --- Protected modules (auth required) ---
	if db != nil && rdb != nil {
		notifier := &notifications.Service{DB: db}

		// Books module (availability ledger + listing CRUD)
		bookService := &books.Service{DB: db}
		bookHandlers := &books.Handlers{Service: bookService}
		bookGroup := app.Group("/api/v1/books", middleware.RequireAuth())
		bookGroup.Post("/create-book", bookHandlers.CreateBook)
		bookGroup.Get("/get-all-books", bookHandlers.GetAllBooks)
		bookGroup.Get("/get-my-books", bookHandlers.GetMyBooks)
		bookGroup.Get("/get-swappable-books", bookHandlers.GetSwappableBooks)
		bookGroup.Get("/get-book/:book_id", bookHandlers.GetBookByID)
		bookGroup.Put("/edit-book", bookHandlers.EditBook)
		bookGroup.Post("/remove-book", bookHandlers.RemoveBook)

		// Donations module
		donationService := &donations.Service{DB: db, Notifier: notifier}
		donationHandlers := &donations.Handlers{Service: donationService}
		donationGroup := app.Group("/api/v1/donations", middleware.RequireAuth())
		donationGroup.Post("/request", donationHandlers.RequestDonation)
		donationGroup.Post("/decide", donationHandlers.DecideRequest)
		donationGroup.Get("/incoming", donationHandlers.GetIncoming)
		donationGroup.Get("/outgoing", donationHandlers.GetOutgoing)

		// Swaps module
		swapService := &swaps.Service{DB: db, Notifier: notifier}
		swapHandlers := &swaps.Handlers{Service: swapService}
		swapGroup := app.Group("/api/v1/swaps", middleware.RequireAuth())
		swapGroup.Post("/request", swapHandlers.RequestSwap)
		swapGroup.Post("/decide", swapHandlers.DecideSwap)
		swapGroup.Get("/incoming", swapHandlers.GetIncoming)
		swapGroup.Get("/outgoing", swapHandlers.GetOutgoing)

		// Orders module
		orderService := &orders.Service{DB: db, Notifier: notifier}
		orderHandlers := &orders.Handlers{
			Service: orderService,
			CheckoutCreator: &orders.StripeCheckoutCreator{
				SecretKey:  cfg.StripeSecretKey,
				SuccessURL: cfg.CheckoutSuccessURL,
				CancelURL:  cfg.CheckoutCancelURL,
			},
		}
		orderGroup := app.Group("/api/v1/orders", middleware.RequireAuth())
		orderGroup.Post("/create-order", orderHandlers.CreateOrder)
		orderGroup.Patch("/update-status", orderHandlers.UpdateOrderStatus)
		orderGroup.Get("/purchases", orderHandlers.GetPurchases)
		orderGroup.Get("/sales", orderHandlers.GetSales)

		// Notifications module
		notifHandlers := &notifications.Handlers{Service: notifier}
		notifGroup := app.Group("/api/v1/notifications", middleware.RequireAuth())
		notifGroup.Get("/unread", notifHandlers.GetUnread)
		notifGroup.Patch("/read-all", notifHandlers.MarkAllRead)
		notifGroup.Patch("/:notification_id/read", notifHandlers.MarkRead)

		// Wishlist module
		wishlistService := &wishlist.Service{DB: db}
		wishlistHandlers := &wishlist.Handlers{Service: wishlistService}
		wishlistGroup := app.Group("/api/v1/wishlist", middleware.RequireAuth())
		wishlistGroup.Get("/", wishlistHandlers.List)
		wishlistGroup.Post("/add", wishlistHandlers.Add)
		wishlistGroup.Post("/remove", wishlistHandlers.Remove)
	}

	return app, db, rdb, nil
}

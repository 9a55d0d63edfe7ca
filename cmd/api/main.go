package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/http/handlers"
	appmw "github.com/F0u4d8/whelhost-PMS-sub002/internal/http/middleware"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/locks"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/mailer"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/payments"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/repository"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/service"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/config"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/database"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/events"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/logger"
	mw "github.com/F0u4d8/whelhost-PMS-sub002/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Connect to database
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Redis backs idempotency caching and rate limiting
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		redisOpts = &redis.Options{Addr: cfg.Redis.URL}
	}
	if cfg.Redis.Password != "" {
		redisOpts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		redisOpts.DB = cfg.Redis.DB
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// Connect to event bus; a broker outage must not keep the API down
	var eventBus events.EventBus
	natsBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS, events disabled", "error", err)
		eventBus = events.NoopEventBus{}
	} else {
		eventBus = natsBus
		defer natsBus.Close()
	}

	// Outbound mail
	var mail mailer.Service
	switch {
	case cfg.Email.DevMode:
		mail = mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		mail = mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	default:
		mail = mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPFrom, cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.SMTPUseTLS)
	}

	// Payment gateway
	gateway := payments.Select(cfg.Payments.Gateway,
		payments.NewMoyasar(cfg.Payments.MoyasarAPIKey, cfg.Payments.MoyasarBaseURL, cfg.Payments.MoyasarSandbox),
		payments.NewStripe(cfg.Payments.StripeSecretKey),
	)

	// Initialize repositories
	txRunner := repository.NewTxRunner(pool)
	hotelRepo := repository.NewHotelRepository()
	unitRepo := repository.NewUnitRepository()
	roomTypeRepo := repository.NewRoomTypeRepository()
	guestRepo := repository.NewGuestRepository()
	bookingRepo := repository.NewBookingRepository()
	taskRepo := repository.NewTaskRepository()
	accessCodeRepo := repository.NewAccessCodeRepository()
	guestTokenRepo := repository.NewGuestTokenRepository()
	invoiceRepo := repository.NewInvoiceRepository()
	messageRepo := repository.NewMessageRepository()
	reportRepo := repository.NewReportRepository()

	// Initialize services
	catalogService := service.NewCatalogService(pool, hotelRepo, unitRepo, roomTypeRepo, guestRepo, taskRepo)
	bookingService := service.NewBookingService(pool, txRunner, bookingRepo, unitRepo, guestRepo, hotelRepo, taskRepo, accessCodeRepo, guestTokenRepo, messageRepo, mail, eventBus, cfg)
	accessService := service.NewAccessService(pool, bookingRepo, unitRepo, hotelRepo, guestRepo, accessCodeRepo, locks.DefaultRegistry(), eventBus, cfg)
	billingService := service.NewBillingService(pool, txRunner, invoiceRepo, bookingRepo, hotelRepo, guestRepo, guestTokenRepo, gateway, eventBus)
	messagingService := service.NewMessagingService(pool, messageRepo, bookingRepo, guestRepo, mail, eventBus)
	reportService := service.NewReportService(pool, reportRepo)

	// Initialize handlers
	hotelsHandler := handlers.NewHotelsHandler(catalogService)
	bookingsHandler := handlers.NewBookingsHandler(bookingService, accessService, messagingService, billingService)
	invoicesHandler := handlers.NewInvoicesHandler(billingService)
	tasksHandler := handlers.NewTasksHandler(catalogService)
	reportsHandler := handlers.NewReportsHandler(reportService)
	guestBillHandler := handlers.NewGuestBillHandler(billingService)

	ownerAuth := appmw.NewOwnerAuth(cfg.Auth.JWTSecret, pool, hotelRepo)
	idempotencyStore := mw.NewRedisIdempotencyStore(redisClient)
	guestRateLimit := appmw.NewRateLimiter(redisClient, appmw.RateLimitConfig{
		Requests: 30,
		Window:   time.Minute,
	})

	// Setup router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("api"))
	r.Use(mw.Logging)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.ErrorContext(r.Context(), "Panic recovered", "error", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	})

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(mw.Health)

	r.Route("/v1", func(r chi.Router) {
		// Owner API
		r.Group(func(r chi.Router) {
			r.Use(ownerAuth.Middleware)
			r.Use(mw.IdempotencyMiddleware(idempotencyStore))
			r.Mount("/hotels", hotelsHandler.Routes())
			r.Mount("/units", hotelsHandler.UnitRoutes())
			r.Mount("/room-types", hotelsHandler.RoomTypeRoutes())
			r.Mount("/bookings", bookingsHandler.Routes())
			r.Mount("/invoices", invoicesHandler.Routes())
			r.Mount("/tasks", tasksHandler.Routes())
			r.Mount("/reports", reportsHandler.Routes())
		})

		// Guest bill access, token-authenticated and rate limited
		r.Group(func(r chi.Router) {
			r.Use(guestRateLimit.Middleware())
			r.Mount("/guest", guestBillHandler.Routes())
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("API server shutdown error", "error", err)
		}
	}()

	logger.Info("API server listening", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}

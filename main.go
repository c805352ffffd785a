package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"imobil/config"
	"imobil/cron"
	"imobil/database"
	"imobil/database/repository"
	"imobil/handlers"
	"imobil/middleware"
	"imobil/routes"
	"imobil/services/auth"
	"imobil/services/listing"
	"imobil/services/otp"
	"imobil/services/payment"
	"imobil/services/ratelimit"
	"imobil/services/sms"
	"imobil/services/tasks"
	"imobil/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.InitDB(); err != nil {
		logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
	}
	if err := utils.InitOTPCache(); err != nil {
		logger.Fatal("main: failed to connect to Redis", zap.Error(err))
	}
	redisClient := utils.GetOTPCacheClient()

	// repositories.
	db := database.Database()
	accounts := repository.NewMongoAccountRepo(db)
	listings := repository.NewMongoListingRepo(db)

	// background jobs.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	queue := asynq.NewClient(cron.QueueRedisOpt())
	worker := cron.InitPromotionWorker(workerCtx, listings, logger)

	// services.
	if !cfg.SMSConfigured() {
		logger.Warn("main: SMS credentials missing; phone login is disabled")
	}
	authService := &auth.DefaultAuthService{
		Accounts: accounts,
		Codes:    otp.NewRedisStore(redisClient),
		SMS: sms.NewClient(sms.Config{
			ConnectionID: cfg.SMSConnectionID,
			Password:     cfg.SMSPassword,
			Sender:       cfg.SMSSender,
			APIURL:       cfg.SMSAPIURL,
		}, logger.Named("sms"), cfg.IsProduction()),
		Limiter:     ratelimit.NewRedisLimiter(redisClient, utils.OTPRequestKeyPrefix, cfg.OTPRequestsPerMin, time.Minute),
		Tokens:      utils.NewTokenIssuer(cfg.JWTSecret),
		Logger:      logger.Named("auth"),
		CountryCode: cfg.PhoneCountryCode,
		MaxAttempts: cfg.OTPMaxAttempts,
	}

	paymentService := &payment.DefaultPaymentService{
		Listings:           listings,
		Scheduler:          tasks.NewAsynqScheduler(queue),
		Logger:             logger.Named("payment"),
		Currency:           cfg.PaymentCurrency,
		ReservationPercent: cfg.ReservationPercent,
		FrontendURL:        cfg.FrontendURL,
	}
	if cfg.StripeConfigured() {
		paymentService.Gateway = payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, nil)
	} else {
		logger.Warn("main: Stripe credentials missing; payments are disabled")
	}

	listingService := &listing.DefaultListingService{Repo: listings, Logger: logger.Named("listing")}

	authHandler := handlers.NewAuthHandler(authService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	listingHandler := handlers.NewListingHandler(listingService)

	handlerBundle := &handlers.HandlerBundle{
		Tokens: authService.Tokens,

		SendOTPHandler:         authHandler.SendOTPHandler,
		VerifyOTPHandler:       authHandler.VerifyOTPHandler,
		CompleteProfileHandler: authHandler.CompleteProfileHandler,
		RegisterHandler:        authHandler.RegisterHandler,
		LoginHandler:           authHandler.LoginHandler,
		MeHandler:              authHandler.MeHandler,

		PlansHandler:           paymentHandler.PlansHandler,
		CheckoutHandler:        paymentHandler.CheckoutHandler,
		ListingCheckoutHandler: paymentHandler.ListingCheckoutHandler,
		ConfirmPaymentHandler:  paymentHandler.ConfirmHandler,
		WebhookHandler:         paymentHandler.WebhookHandler,

		CreateListingHandler: listingHandler.CreateListingHandler,
		GetListingHandler:    listingHandler.GetListingHandler,
		DeleteListingHandler: listingHandler.DeleteListingHandler,

		HealthHandler: handlers.HealthHandler(redisClient, database.MongoClient),
	}

	// Create the Gin router.
	router := gin.New()
	if err := middleware.TrustProxies(router, cfg.TrustedProxyList()); err != nil {
		logger.Fatal("main: invalid TRUSTED_PROXIES", zap.Error(err))
	}
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	routes.RegisterRoutes(router, handlerBundle, cfg.AllowedOrigins(),
		middleware.RateLimitMiddleware(ratelimit.NewRedisLimiter(redisClient, utils.RequestKeyPrefix, cfg.MaxRequestsPerMin, time.Minute)),
	)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	stopWorker()
	worker.Shutdown()
	if err := queue.Close(); err != nil {
		logger.Warn("main: failed to close queue client", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		logger.Warn("main: failed to close redis", zap.Error(err))
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

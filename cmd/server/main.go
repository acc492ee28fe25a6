package main

import (
	"fmt"
	"log"
	"time"

	"event-checkout-backend/internal/cache"
	"event-checkout-backend/internal/config"
	"event-checkout-backend/internal/database"
	"event-checkout-backend/internal/handlers"
	"event-checkout-backend/internal/middleware"
	"event-checkout-backend/internal/repositories"
	"event-checkout-backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Server.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewConnection(database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("database connection established")

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// The event cache is optional; the catalog degrades to direct reads
	// without it.
	var eventCache *cache.EventCache
	if cfg.Redis.Enabled {
		rdb, err := cache.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Warn("redis unavailable, continuing without event cache", zap.Error(err))
		} else {
			eventCache = cache.NewEventCache(rdb)
		}
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)
	cartRepo := repositories.NewCartRepository(db.DB)
	txnRepo := repositories.NewTransactionRepository(db.DB)
	reservationRepo := repositories.NewReservationRepository(db.DB)
	ticketRepo := repositories.NewTicketRepository(db.DB)

	// Services
	userService := services.NewUserService(userRepo)
	eventService := services.NewEventService(eventRepo, eventCache, logger)
	cartService := services.NewCartService(cartRepo, eventRepo, db.DB)
	paymentSimulator := services.NewPaymentSimulator(cfg.Payment.ApproveBelow, cfg.Payment.PendBelow, nil)
	recorder := services.NewTransactionRecorder(txnRepo)
	issuer := services.NewTicketIssuer(ticketRepo, reservationRepo)
	checkoutService := services.NewCheckoutService(
		db.DB,
		userRepo,
		cartRepo,
		eventRepo,
		reservationRepo,
		paymentSimulator,
		recorder,
		issuer,
		eventService,
		logger,
	)

	// Handlers
	tokenTTL := time.Duration(cfg.Auth.TokenTTLHour) * time.Hour
	authHandler := handlers.NewAuthHandler(userService, cfg.Auth.JWTSecret, tokenTTL, logger)
	eventHandler := handlers.NewEventHandler(eventService, logger)
	cartHandler := handlers.NewCartHandler(cartService, logger)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, cartService, logger)
	ticketHandler := handlers.NewTicketHandler(issuer, logger)

	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", middleware.PrometheusHandler())

	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/events", eventHandler.ListEvents)
		api.GET("/events/:id", eventHandler.GetEvent)

		api.GET("/tickets/:purchaseKey/verify", ticketHandler.Verify)

		authed := api.Group("")
		authed.Use(middleware.RequireAuth(cfg.Auth.JWTSecret))
		{
			authed.POST("/events", eventHandler.CreateEvent)

			authed.GET("/cart", cartHandler.GetCart)
			authed.POST("/cart/items", cartHandler.AddItem)
			authed.PUT("/cart/items/:id", cartHandler.UpdateItem)
			authed.DELETE("/cart/items/:id", cartHandler.RemoveItem)

			authed.POST("/checkout", checkoutHandler.Checkout)
		}
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))
	if err := router.Run(addr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

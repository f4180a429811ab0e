package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yoldas-app/yoldas-backend/internal/database"
	"github.com/yoldas-app/yoldas-backend/internal/handlers"
	"github.com/yoldas-app/yoldas-backend/internal/middleware"
	"github.com/yoldas-app/yoldas-backend/internal/services"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file found, relying on environment")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Core services share one lock registry so booking approval and trip
	// settlement for the same trip are serialized.
	locks := services.NewKeyedMutex()
	notifier := services.NewDBNotifier(db, log)
	trips := database.NewTripRepository(db)
	bookings := database.NewBookingRepository(db)
	wallets := database.NewWalletRepository(db)
	settings := database.NewSettingsRepository(db)

	reservations := services.NewReservationService(trips, bookings, locks, notifier, log)
	settlements := services.NewSettlementService(trips, bookings, wallets, settings, locks, notifier, log)
	walletSvc := services.NewWalletService(wallets, locks, log)

	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"}
	r.Use(cors.New(config))

	r.Static("/uploads", "/app/uploads")

	api := r.Group("/api")
	{
		// Public routes
		api.POST("/register", handlers.Register(db))
		api.POST("/login", handlers.Login(db))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/user", handlers.GetProfile(db))
			protected.PUT("/user", handlers.UpdateProfile(db))
			protected.POST("/user/avatar", handlers.UploadAvatar(db))

			protected.GET("/trips", handlers.GetTrips(db))
			protected.GET("/my-trips", handlers.GetMyTrips(db))
			protected.POST("/trip", handlers.CreateTrip(db))
			protected.PATCH("/trips/:id", handlers.UpdateTrip(reservations))
			protected.DELETE("/trips/:id", handlers.DeleteTrip(reservations))
			protected.POST("/trips/:id/complete", handlers.CompleteTrip(settlements))

			protected.POST("/trips/:id/booking", handlers.CreateBooking(reservations))
			protected.GET("/trips/:id/bookings", handlers.GetTripBookings(db))
			protected.GET("/bookings", handlers.GetMyBookings(db))
			protected.PATCH("/bookings/:id", handlers.UpdateBookingStatus(reservations))
			protected.PATCH("/bookings/:id/cancel", handlers.CancelBooking(reservations))

			protected.GET("/chats", handlers.GetChats(db))
			protected.GET("/chats/unread-count", handlers.GetUnreadCount(db))
			protected.GET("/chats/:tripId/with/:userId", handlers.GetConversation(db))
			protected.POST("/chats/:tripId/send", handlers.SendMessage(db))

			protected.GET("/notifications", handlers.GetNotifications(db))
			protected.PATCH("/notifications/:id/read", handlers.MarkNotificationRead(db))
			protected.PATCH("/notifications/read-all", handlers.MarkAllNotificationsRead(db))

			protected.GET("/wallet", handlers.GetWallet(walletSvc))
			protected.POST("/wallet/deposit", handlers.Deposit(walletSvc))
			protected.GET("/wallet/transactions", handlers.GetTransactions(walletSvc))

			protected.POST("/ratings/:tripId/to/:userId", handlers.CreateRating(db))
			protected.GET("/ratings/user/:id", handlers.GetUserRatings(db))
			protected.GET("/ratings/given", handlers.GetGivenRatings(db))

			protected.GET("/settings", handlers.GetSettings(db))
			protected.GET("/settings/:key", handlers.GetSetting(db))
			protected.POST("/settings", handlers.UpsertSetting(db))
			protected.DELETE("/settings/:key", handlers.DeleteSetting(db))
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

package main

import (
	"database/sql"
	"fmt"
	"log"

	"aduan-portal/config"
	"aduan-portal/internal/handler"
	"aduan-portal/internal/messaging"
	"aduan-portal/internal/middleware"
	"aduan-portal/internal/model"
	"aduan-portal/internal/repository"
	"aduan-portal/internal/service"
	"aduan-portal/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	cfg, err := config.LoadConfig("config/config.json")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Connect to Redis (statistics cache)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.NewRabbitMQ(
		cfg.RabbitMQ.Host,
		cfg.RabbitMQ.Port,
		cfg.RabbitMQ.User,
		cfg.RabbitMQ.Password,
	)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rmq.Close()
	log.Println("Connected to RabbitMQ")

	// Initialize SSE Hub
	sseHub := messaging.NewSSEHub()
	go sseHub.Run()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)
	complaintRepo := repository.NewComplaintRepository(db, outboxRepo)
	notificationRepo := repository.NewNotificationRepository(db)

	// Start outbox worker
	outboxWorker := messaging.NewOutboxWorker(outboxRepo, rmq)
	outboxWorker.Start()
	defer outboxWorker.Stop()
	log.Println("Outbox worker started")

	// Start notification consumer
	consumer := messaging.NewNotificationConsumer(rmq, notificationRepo, sseHub)
	consumer.Start()
	defer consumer.Stop()
	log.Println("Notification consumer started")

	// Attachment storage
	uploads, err := storage.NewUploadStore(cfg.Uploads.Dir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT)
	userService := service.NewUserService(userRepo)
	complaintService := service.NewComplaintService(complaintRepo, userRepo)
	statsService := service.NewStatsService(complaintRepo, rdb)
	notificationService := service.NewNotificationService(notificationRepo, sseHub)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	complaintHandler := handler.NewComplaintHandler(complaintService, uploads)
	statsHandler := handler.NewStatsHandler(statsService)
	notificationHandler := handler.NewNotificationHandler(notificationService, cfg.JWT.Secret)

	// Setup Gin
	r := gin.Default()

	authRequired := middleware.Authenticate(cfg.JWT.Secret)
	adminOnly := middleware.RequireRoles(model.RoleAdmin)

	// Health check
	r.GET("/health", handler.Health)

	// Served attachments
	r.Static("/uploads", cfg.Uploads.Dir)

	// Auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/validate", authHandler.Validate)
		auth.GET("/me", authRequired, authHandler.Me)
	}

	// User routes
	users := r.Group("/users", authRequired)
	{
		users.GET("", userHandler.List)
		users.GET("/petugas", adminOnly, userHandler.ListPetugas)
		users.GET("/:id", userHandler.Get)
		users.POST("", adminOnly, userHandler.Create)
		users.PUT("/:id", userHandler.Update)
		users.PATCH("/:id/verify", adminOnly, userHandler.Verify)
		users.DELETE("/:id", adminOnly, userHandler.Delete)
	}

	// Complaint routes
	complaints := r.Group("/complaints", authRequired)
	{
		complaints.GET("", complaintHandler.List)
		complaints.POST("", middleware.RequireRoles(model.RoleMasyarakat), complaintHandler.Create)
		complaints.GET("/statistics", middleware.RequireRoles(model.RoleAdmin, model.RolePetugas), statsHandler.Statistics)
		complaints.GET("/my-statistics", middleware.RequireRoles(model.RoleMasyarakat), statsHandler.MyStatistics)
		complaints.GET("/:id", complaintHandler.Detail)
		complaints.POST("/assign-petugas", adminOnly, complaintHandler.AssignPetugas)
		complaints.POST("/update-status", middleware.RequireRoles(model.RoleAdmin, model.RolePetugas), complaintHandler.UpdateStatus)
	}

	// Notification routes
	notifications := r.Group("/notifications")
	{
		// the stream authenticates itself so EventSource can pass ?token=
		notifications.GET("/stream", notificationHandler.StreamNotifications)

		notifications.GET("", authRequired, notificationHandler.GetNotifications)
		notifications.PATCH("/:id/read", authRequired, notificationHandler.MarkAsRead)
		notifications.PATCH("/read-all", authRequired, notificationHandler.MarkAllAsRead)
	}

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Aduan portal starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

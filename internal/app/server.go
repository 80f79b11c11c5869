// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"eventora-service/internal/billing"
	"eventora-service/internal/config"
	"eventora-service/internal/db"
	eventHandler "eventora-service/internal/handlers/event"
	subscriptionHandler "eventora-service/internal/handlers/subscription"
	userHandler "eventora-service/internal/handlers/user"
	"eventora-service/internal/middleware"
	"eventora-service/internal/pkg/jwt"
	"eventora-service/internal/pkg/session"
	"eventora-service/internal/repository/mongodb"
	eventUsecase "eventora-service/internal/service/event"
	subscriptionUsecase "eventora-service/internal/service/subscription"
	userUsecase "eventora-service/internal/service/user"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Server struct {
	cfg         config.AppConfig
	engine      *gin.Engine
	logger      *zap.Logger
	mongoClient *mongo.Client
	scheduler   *cron.Cron
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	// ----- MongoDB -----
	client, database, err := db.ConnectMongo(db.MongoConfig{
		URI:      s.cfg.MongoURI,
		Database: s.cfg.DBName,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	s.mongoClient = client
	log.Println("[MONGO] Connected successfully")

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] Connected successfully")

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- JWT Manager -----
	jwtManager, err := jwt.NewManager(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to build JWT manager: %w", err)
	}

	// ----- Rate Limiter -----
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- Billing Provider -----
	provider := billing.NewStripeProvider(s.cfg.StripeSecretKey, s.cfg.BaseURL)

	// ----- Repositories -----
	userRepo := mongodb.NewUserRepository(database)
	companyRepo := mongodb.NewCompanyRepository(database)
	eventRepo := mongodb.NewEventRepository(database)
	planRepo := mongodb.NewPlanRepository(database)
	paymentRepo := mongodb.NewPaymentPlanRepository(database)
	categoryRepo := mongodb.NewCategoryRepository(database)
	locationRepo := mongodb.NewLocationRepository(database)

	// ----- Services (Usecases) -----
	userService := userUsecase.NewUserService(
		userRepo,
		companyRepo,
		planRepo,
		jwtManager,
		rateLimiter,
		logger,
	)
	eventService := eventUsecase.NewEventService(
		eventRepo,
		companyRepo,
		userRepo,
		planRepo,
		paymentRepo,
		categoryRepo,
		locationRepo,
		logger,
	)
	subscriptionService := subscriptionUsecase.NewSubscriptionService(
		companyRepo,
		planRepo,
		provider,
		logger,
	)

	// ----- Expiry Sweep -----
	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(s.cfg.ExpirySchedule, func() {
		expired, err := subscriptionService.ExpireOverdue(context.Background())
		if err != nil {
			logger.Error("expiry sweep failed", zap.Error(err))
			return
		}
		logger.Info("expiry sweep finished", zap.Int("expired", expired))
	}); err != nil {
		return fmt.Errorf("failed to schedule expiry sweep: %w", err)
	}
	s.scheduler.Start()

	// ----- Handlers -----
	userHandlerInst := userHandler.NewUserHandler(userService)
	eventHandlerInst := eventHandler.NewEventHandler(eventService)
	subscriptionHandlerInst := subscriptionHandler.NewSubscriptionHandler(subscriptionService)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		UserHandler:         userHandlerInst,
		EventHandler:        eventHandlerInst,
		SubscriptionHandler: subscriptionHandlerInst,
		AuthMiddleware:      authMiddleware,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("Server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}

// Shutdown stops the sweep scheduler and closes the database connection.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.mongoClient != nil {
		return s.mongoClient.Disconnect(ctx)
	}
	return nil
}

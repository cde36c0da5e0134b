package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/yourusername/tutorconnect-api/internal/config"
	"github.com/yourusername/tutorconnect-api/internal/domain/repository"
	"github.com/yourusername/tutorconnect-api/internal/handler"
	"github.com/yourusername/tutorconnect-api/internal/middleware"
	"github.com/yourusername/tutorconnect-api/internal/pkg/report"
	"github.com/yourusername/tutorconnect-api/internal/repository/memory"
	pgRepo "github.com/yourusername/tutorconnect-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/tutorconnect-api/internal/repository/redis"
	"github.com/yourusername/tutorconnect-api/internal/service"
	"github.com/yourusername/tutorconnect-api/internal/service/quizgen"
	ws "github.com/yourusername/tutorconnect-api/internal/websocket"
	"github.com/yourusername/tutorconnect-api/pkg/auth"
	"github.com/yourusername/tutorconnect-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	isProduction := gin.Mode() == gin.ReleaseMode

	hostname, _ := os.Hostname()
	report.Init(report.Config{
		Token:       cfg.Rollbar.Token,
		Environment: cfg.Rollbar.Environment,
		Host:        hostname,
	})
	defer report.Close()

	if err := handler.RegisterValidators(); err != nil {
		log.Printf("Failed to register validators: %v", err)
		os.Exit(1)
	}

	// Redis нужен для хранилища redis, кластерных уведомлений и общих счетчиков rate limit
	var redisClient redis.UniversalClient
	if cfg.Redis.IsConfigured() {
		redisClient, err = database.NewUniversalRedisClient(cfg.Redis)
		if err != nil {
			log.Printf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		log.Println("Successfully connected to Redis")
	}

	// Хранилище ключ-значение и кеш
	var (
		kvStore   repository.KeyValueStore
		cacheRepo repository.CacheRepository
		counter   middleware.Counter
	)
	if redisClient != nil {
		cache, err := redisRepo.NewCacheRepo(redisClient, cfg.Storage.Prefix+"cache:")
		if err != nil {
			log.Printf("Failed to initialize CacheRepo: %v", err)
			os.Exit(1)
		}
		cacheRepo = cache
		counter = middleware.NewRedisCounter(redisClient)
	} else {
		cacheRepo = memory.NewCacheRepo()
		counter = middleware.NewMemoryCounter()
	}

	switch cfg.Storage.Driver {
	case config.StorageRedis:
		store, err := redisRepo.NewKVStore(redisClient, cfg.Storage.Prefix)
		if err != nil {
			log.Printf("Failed to initialize KVStore: %v", err)
			os.Exit(1)
		}
		kvStore = store
	default:
		log.Println("Хранилище результатов и профилей в памяти процесса, данные не переживут перезапуск")
		kvStore = memory.NewKVStore()
	}

	// PostgreSQL: учетные записи и удаленная таблица профилей
	var (
		db             *gorm.DB
		userRepo       repository.UserRepository
		profileBackend repository.ProfileBackend
	)
	if cfg.Database.IsConfigured() {
		db, err = database.NewPostgresDB(cfg.Database.PostgresConnectionString(), !isProduction)
		if err != nil {
			log.Printf("Failed to connect to database: %v", err)
			os.Exit(1)
		}
		if err := database.MigrateDB(db, database.DefaultMigrationsDir); err != nil {
			log.Printf("Failed to migrate database: %v", err)
			os.Exit(1)
		}
		userRepo = pgRepo.NewUserRepo(db)
		profileBackend = pgRepo.NewProfileRepo(db)
	} else {
		log.Println("DATABASE_HOST не задан: учетные записи в памяти, профили в демо-режиме")
		userRepo = memory.NewUserRepo()
	}

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs, cfg.JWT.WSTicketExpirySec, cacheRepo)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	emailService, err := newEmailService(cfg.Email)
	if err != nil {
		log.Printf("Failed to initialize email service: %v", err)
		os.Exit(1)
	}

	generator, err := newQuizGenerator(cfg.LLM)
	if err != nil {
		log.Printf("Failed to initialize quiz generator: %v", err)
		os.Exit(1)
	}

	// WebSocket Hub для уведомлений о наградах
	var pubSub ws.PubSubProvider = &ws.NoOpPubSub{}
	if cfg.Cluster.Enabled {
		redisPubSub, err := ws.NewRedisPubSub(redisClient)
		if err != nil {
			log.Printf("Failed to initialize Redis PubSub: %v", err)
			os.Exit(1)
		}
		pubSub = redisPubSub
		log.Println("WebSocket: включена рассылка между инстансами через Redis")
	}
	wsHub := ws.NewHub(pubSub)
	wsManager := ws.NewManager(wsHub)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go func() {
		if err := wsHub.Run(hubCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("WebSocket hub stopped: %v", err)
		}
	}()

	// Инициализируем сервисы
	profileService := service.NewProfileService(kvStore, profileBackend)
	authService, err := service.NewAuthService(userRepo, jwtService, profileService, emailService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	catalog := service.NewQuizCatalog(service.DefaultQuizzes(), kvStore)
	resultLog := service.NewResultLog(kvStore)
	claimer := service.NewRewardClaimer(resultLog, service.NewSimulatedLedger(cfg.Reward.Delay()), wsManager, cfg.Reward.Delay())
	quizService := service.NewQuizService(catalog, resultLog, claimer, profileService, generator)

	// Инициализируем роутер Gin
	router := gin.Default()

	// В production не доверяем прокси-заголовкам (защита от IP spoofing)
	trustedProxies := []string{"127.0.0.1", "::1"}
	if isProduction {
		trustedProxies = nil
	}
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		log.Printf("Warning: failed to set trusted proxies: %v", err)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok", "storage": cfg.Storage.Driver, "ws_clients": wsHub.ClientCount()}
		if db != nil {
			if err := database.Ping(db); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, status)
	})

	handler.RegisterRoutes(router, handler.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Profile: handler.NewProfileHandler(profileService),
		Quiz:    handler.NewQuizHandler(quizService),
		Result:  handler.NewResultHandler(quizService),
		WS:      handler.NewWSHandler(wsHub, wsManager, cfg.CORS.AllowOrigins),
	}, middleware.NewAuthMiddleware(jwtService), middleware.NewRateLimiter(counter))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Сервер запущен на порту %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
			os.Exit(1)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Завершение работы сервера...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	stopHub()
	if err := pubSub.Close(); err != nil {
		log.Printf("Ошибка закрытия PubSub: %v", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка закрытия Redis: %v", err)
		}
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	log.Println("Сервер остановлен")
}

func newEmailService(cfg config.EmailConfig) (service.EmailService, error) {
	switch cfg.Provider {
	case "resend":
		return service.NewResendEmailService(cfg.ResendAPIKey, cfg.FromEmail)
	case "sendgrid":
		return service.NewSendgridEmailService(cfg.SendgridKey, cfg.FromName, cfg.FromEmail)
	}
	return &service.NoopEmailService{}, nil
}

func newQuizGenerator(cfg config.LLMConfig) (quizgen.Generator, error) {
	if cfg.Provider == "openai" {
		return quizgen.NewOpenAIGenerator(quizgen.OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	}
	return quizgen.NewTemplateGenerator(time.Duration(cfg.TemplateDelayMs) * time.Millisecond), nil
}

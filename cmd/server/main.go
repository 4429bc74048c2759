package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/audiofx/api/internal/client"
	"github.com/audiofx/api/internal/config"
	"github.com/audiofx/api/internal/handler"
	"github.com/audiofx/api/internal/middleware"
	"github.com/audiofx/api/internal/model"
	"github.com/audiofx/api/internal/repo"
	"github.com/audiofx/api/internal/service"
	"github.com/audiofx/api/internal/storage"
	"github.com/audiofx/api/internal/store"
	"github.com/audiofx/api/internal/worker"
	ws "github.com/audiofx/api/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Redis backs job records, file handles, download tokens, the task
	// queue and rate limiting. Without it everything falls back to
	// in-process equivalents.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	redisAvailable := true
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available, using in-memory stores: %v", err)
		redisAvailable = false
		redisClient = nil
	}

	var stores interface {
		store.JobStore
		store.FileStore
		store.TokenStore
		store.DownloadStore
	}
	if redisAvailable {
		stores = store.NewRedis(redisClient)
	} else {
		stores = store.NewMemory()
	}

	// Postgres holds accounts and history. Without it accounts are
	// in-memory only and vanish on restart.
	var users repo.UserRepo
	var history repo.HistoryRepo
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pool.Close()

		pg := repo.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
		}
		users, history = pg, pg
	} else {
		log.Println("Info: Postgres not configured, using in-memory repos")
		mem := repo.NewMemory()
		users, history = mem, mem
	}

	// Artifact storage: local disk by default, R2 when configured.
	var st storage.Storage
	if cfg.Storage.Backend == "r2" {
		r2, err := storage.NewR2(&cfg.Storage.R2)
		if err != nil {
			log.Fatalf("Failed to initialize R2 storage: %v", err)
		}
		st = r2
	} else {
		local, err := storage.NewLocal("data")
		if err != nil {
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
		st = local
	}

	validate := validator.New()

	hub := ws.NewHub()
	go hub.Run()

	fxClient := client.NewFXClient(&cfg.FX)
	if !fxClient.IsConfigured() {
		log.Println("Info: effects service not configured, jobs run in pass-through mode")
	}

	fxWorker := worker.NewFXWorker(stores, stores, st, fxClient, history, hub, cfg.Storage.ProcessedDir)

	// With Redis the queue is asynq; without it jobs run inline in a
	// goroutine so the API still behaves end to end.
	var enqueuer service.Enqueuer
	var asynqClient *asynq.Client
	if redisAvailable {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer asynqClient.Close()
		enqueuer = worker.NewAsynqEnqueuer(asynqClient)
	} else {
		enqueuer = &inlineEnqueuer{worker: fxWorker}
	}

	uploadService := service.NewUploadService(st, stores, cfg.Storage.OriginalDir)
	processService := service.NewProcessService(stores, stores, enqueuer)
	tokenService := service.NewTokenService(stores)
	historyService := service.NewHistoryService(history, tokenService, cfg.Storage.ProcessedDir)
	authService := service.NewAuthService(users, cfg.JWT)

	uploadHandler := handler.NewUploadHandler(uploadService)
	processHandler := handler.NewProcessHandler(processService, validate)
	statusHandler := handler.NewStatusHandler(processService, tokenService)
	downloadHandler := handler.NewDownloadHandler(tokenService, stores, st)
	historyHandler := handler.NewHistoryHandler(historyService)
	authHandler := handler.NewAuthHandler(authService, validate)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    50 * 1024 * 1024, // 50MB
	})

	app.Use(recover.New())
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if strings.EqualFold(cfg.Server.LogLevel, "debug") {
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams}\n"
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"timestamp": time.Now().Unix(),
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"redis":    redisAvailable,
				"postgres": cfg.Postgres.URL != "",
				"fx":       fxClient.IsConfigured(),
			},
		})
	})

	api := app.Group("/api")

	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	// Upload and processing work with or without a token; only
	// authenticated jobs are recorded in history.
	api.Post("/files", authMiddleware.Optional(), rateLimiter.UploadLimit(cfg.RateLimit.UploadPerHour), uploadHandler.Upload)
	api.Post("/process", authMiddleware.Optional(), rateLimiter.ProcessLimit(cfg.RateLimit.ProcessPerHour), processHandler.Process)
	api.Get("/status/:taskId", statusHandler.Status)
	api.Get("/temp-download/:token", downloadHandler.TempDownload)

	api.Get("/history", authMiddleware.Authenticate(), historyHandler.History)
	api.Get("/history-download-link", authMiddleware.Authenticate(), historyHandler.DownloadLink)
	api.Get("/download/:fileId", authMiddleware.Authenticate(), downloadHandler.Download)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status/:taskId", websocket.New(func(c *websocket.Conn) {
		hub.HandleConnection(c, c.Params("taskId"))
	}))

	if redisAvailable {
		go startWorkerServer(cfg, fxWorker)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func startWorkerServer(cfg *config.Config, fxWorker *worker.FXWorker) {
	asynqLogLevel := asynq.InfoLevel
	switch {
	case strings.EqualFold(cfg.Server.LogLevel, "debug"):
		asynqLogLevel = asynq.DebugLevel
	case strings.EqualFold(cfg.Server.LogLevel, "warn"):
		asynqLogLevel = asynq.WarnLevel
	case strings.EqualFold(cfg.Server.LogLevel, "error"):
		asynqLogLevel = asynq.ErrorLevel
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				worker.QueueProcess: 10,
			},
			LogLevel: asynqLogLevel,
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(worker.TaskTypeProcess, fxWorker.ProcessTask)

	if err := srv.Run(mux); err != nil {
		log.Printf("Asynq worker error: %v", err)
	}
}

// inlineEnqueuer runs jobs in-process when no queue backend exists.
type inlineEnqueuer struct {
	worker *worker.FXWorker
}

func (e *inlineEnqueuer) Enqueue(ctx context.Context, payload *model.ProcessJobPayload) error {
	go func() {
		if err := e.worker.ProcessJob(context.Background(), payload); err != nil {
			log.Printf("Inline job %s failed: %v", payload.JobID, err)
		}
	}()
	return nil
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"detail": message,
	})
}

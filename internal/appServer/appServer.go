package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Videeksha22/event-ticket-booking-system/config"
	repository "github.com/Videeksha22/event-ticket-booking-system/internal/database/postgres"
	"github.com/Videeksha22/event-ticket-booking-system/internal/service"
	"github.com/Videeksha22/event-ticket-booking-system/internal/transport"
	"github.com/Videeksha22/event-ticket-booking-system/internal/worker"

	"github.com/Videeksha22/event-ticket-booking-system/pkg/postgres"
	"github.com/Videeksha22/event-ticket-booking-system/pkg/queue"
	"github.com/Videeksha22/event-ticket-booking-system/pkg/redis"
	"github.com/Videeksha22/event-ticket-booking-system/pkg/scheduler"
	"github.com/Videeksha22/event-ticket-booking-system/pkg/telegram"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	// Initialize database
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := postgres.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	eventRepo := repository.NewEventRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	userRepo := repository.NewUserRepository(db)
	ticketTypeRepo := repository.NewTicketTypeRepository(db)

	// Initialize Telegram bot
	var telegramBot *telegram.Bot
	if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" {
		telegramBot = telegram.NewBot(cfg.Telegram.BotToken)
		logger.Info("Telegram bot initialized")
	} else {
		logger.Warn("Telegram bot disabled, notifications will not be delivered")
	}

	var redisQueue *queue.RedisQueue
	var dlqHandler *queue.DefaultDLQHandler
	var taskPublisher service.TaskPublisher

	if cfg.Redis.URL != "" {
		redisConfig := &queue.RedisQueueConfig{
			Addr:     cfg.Redis.URL,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}

		retryManager := queue.NewRetryManager(3, 5*time.Second)
		redisClient := redis.NewRedisClient(&cfg.Redis)
		defer redisClient.Close()
		dlqHandler = queue.NewDefaultDLQHandler(redisClient, "ticket_booking:dlq")

		redisQueue, err = queue.NewRedisQueue(redisConfig, retryManager, dlqHandler)
		if err != nil {
			logger.Errorf("Failed to initialize Redis queue: %v. Continuing without queue...", err)
			redisQueue = nil
		} else {
			logger.Info("Redis queue initialized")
			taskPublisher = service.NewQueueAdapter(redisQueue)
		}
	}

	// Initialize services
	bookingService := service.NewBookingService(ticketRepo, eventRepo, userRepo, taskPublisher, telegramBot, logger)
	eventService := service.NewEventService(eventRepo, userRepo, taskPublisher, logger)
	paymentService := service.NewPaymentService(paymentRepo, ticketRepo, taskPublisher, logger)
	userService := service.NewUserService(userRepo, logger)
	ticketTypeService := service.NewTicketTypeService(ticketTypeRepo, eventRepo, logger)
	reconcilerService := service.NewReconcilerService(eventRepo, ticketRepo, taskPublisher, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize task handler if queue is available
	if redisQueue != nil {
		taskHandler := queue.NewTaskHandler(bookingService, eventService, userService, telegramBot, cfg.Telegram.AdminChatID)

		// Start queue consumer
		go func() {
			if err := redisQueue.Subscribe(ctx, taskHandler.HandleTask); err != nil {
				logger.Errorf("Queue subscriber error: %v", err)
			}
		}()
		logger.Info("Queue subscriber started")
	}

	// Initialize and start the event status scheduler
	schedulerInterval := cfg.Scheduler.Interval
	if schedulerInterval <= 0 {
		schedulerInterval = time.Minute
	}
	statusScheduler := scheduler.NewScheduler(eventRepo, schedulerInterval, logger)
	go statusScheduler.Start(ctx)
	logger.Info("Event status scheduler started")

	// Initialize the inventory reconcile worker
	reconcileInterval := cfg.Worker.ReconcileInterval
	if reconcileInterval <= 0 {
		reconcileInterval = 5 * time.Minute
	}
	reconcileWorker := worker.NewInventoryReconcileWorker(reconcilerService, reconcileInterval)
	go reconcileWorker.Start(ctx)
	logger.Info("Inventory reconcile worker started")

	// Initialize handlers
	eventHandler := transport.NewEventHandler(eventService, ticketTypeService, reconcilerService)
	ticketHandler := transport.NewTicketHandler(bookingService)
	paymentHandler := transport.NewPaymentHandler(paymentService)
	userHandler := transport.NewUserHandler(userService)

	queueAdminHandler := transport.NewQueueAdminHandler(nil, nil)
	if redisQueue != nil {
		queueAdminHandler = transport.NewQueueAdminHandler(redisQueue, dlqHandler)
	}

	// Setup HTTP server
	if cfg.Server.Mode == "release" || cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(eventHandler, ticketHandler, paymentHandler, userHandler, queueAdminHandler)); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logger.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Print("App Shutting Down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("error occured on server shutting down: %s", err.Error())
	}

	if redisQueue != nil {
		if err := redisQueue.Close(); err != nil {
			logger.Errorf("error occured on queue shutting down: %s", err.Error())
		}
	}
}

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cottage-booking/config"
	deliveryHttp "cottage-booking/internal/delivery/http"
	"cottage-booking/internal/delivery/http/handler"
	"cottage-booking/internal/delivery/http/middleware"
	"cottage-booking/internal/infrastructure/cache"
	"cottage-booking/internal/infrastructure/database"
	"cottage-booking/internal/infrastructure/mail"
	"cottage-booking/internal/infrastructure/weather"
	"cottage-booking/internal/repository"
	"cottage-booking/internal/service"
	"cottage-booking/internal/usecase"
	"cottage-booking/pkg/jwt"
	"cottage-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	notifier    *service.EmailNotifier
	lockService *service.CalendarLockService
	dailyTasks  usecase.DailyTaskUsecase
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	app.Log = setupLogger(cfg.App)
	app.Log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if err := database.RunMigrations(cfg.DB, app.Log); err != nil {
		app.Close()
		return nil, err
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize all layers
	if err := app.initialize(); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// initialize wires repositories, services, usecases and the HTTP server.
func (app *App) initialize() error {
	cfg, db, redisClient, log := app.Config, app.DB, app.RedisClient, app.Log

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	bookingRepo := repository.NewBookingRepository()
	approvalRepo := repository.NewApprovalRepository()
	cancellationRepo := repository.NewCancellationRepository()
	recommendationRepo := repository.NewRecommendationRepository()
	subscriberRepo := repository.NewSubscriberRepository()
	paymentRepo := repository.NewPaymentRepository()

	// Initialize services
	var sender mail.Sender
	if cfg.Mail.ResendAPIKey != "" {
		sender = mail.NewResendSender(cfg.Mail)
	} else {
		log.Warn("MAIL_RESEND_API_KEY not set, emails will only be logged")
		sender = mail.NewLogSender(log)
	}
	app.notifier = service.NewEmailNotifier(db, log, userRepo, sender, cfg.Mail, cfg.Tariff)
	app.lockService = service.NewCalendarLockService(redisClient, log, cfg.Booking.LockTTL, cfg.Booking.LockWait)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, jwtService, redisClient)
	bookingUsecase := usecase.NewBookingUsecase(db, log, bookingRepo, approvalRepo, cancellationRepo, paymentRepo, app.lockService, app.notifier, cfg.Booking)
	calendarUsecase := usecase.NewCalendarUsecase(db, log, bookingRepo, cfg.Booking)
	recommendationUsecase := usecase.NewRecommendationUsecase(db, log, recommendationRepo, app.notifier)
	subscriberUsecase := usecase.NewSubscriberUsecase(db, log, subscriberRepo)
	paymentUsecase := usecase.NewPaymentUsecase(db, log, paymentRepo)
	forecast := weather.NewOpenMeteo(cfg.Forecast, log)
	app.dailyTasks = usecase.NewDailyTaskUsecase(db, log, bookingRepo, subscriberRepo, app.notifier, forecast, redisClient, cfg.Tasks)

	if cfg.Admin.Email != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := authUsecase.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
			return fmt.Errorf("failed to seed admin account: %w", err)
		}
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	bookingHandler := handler.NewBookingHandler(bookingUsecase, customValidator)
	calendarHandler := handler.NewCalendarHandler(calendarUsecase, customValidator)
	cancellationHandler := handler.NewCancellationHandler(bookingUsecase, customValidator)
	recommendationHandler := handler.NewRecommendationHandler(recommendationUsecase, customValidator)
	subscriberHandler := handler.NewSubscriberHandler(subscriberUsecase, customValidator)
	paymentHandler := handler.NewPaymentHandler(paymentUsecase)
	taskHandler := handler.NewTaskHandler(app.dailyTasks)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, authUsecase)
	corsMiddleware := middleware.NewCORSMiddleware()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(redisClient, log, "bookings", cfg.RateLimit)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		bookingHandler,
		calendarHandler,
		cancellationHandler,
		recommendationHandler,
		subscriberHandler,
		paymentHandler,
		taskHandler,
		authMiddleware,
		corsMiddleware,
		rateLimitMiddleware,
		cfg.Tasks.CronSecret,
	)

	// Create server
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server, the email worker and the daily task scheduler,
// and blocks until SIGINT/SIGTERM or until one of them fails.
func (app *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return app.run(ctx)
}

func (app *App) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	// The email worker stops only after the server and the scheduler return.
	notifierCtx, stopNotifier := context.WithCancel(context.Background())
	defer stopNotifier()
	schedulerDone := make(chan struct{})

	g.Go(func() error {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return app.notifier.Run(notifierCtx)
	})

	g.Go(func() error {
		defer close(schedulerDone)
		return app.dailyTasks.RunScheduler(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		app.Log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			app.Log.Errorf("Server forced to shutdown: %v", err)
		}
		<-schedulerDone
		stopNotifier()
		return nil
	})

	err := g.Wait()
	app.Close()
	app.Log.Info("Server shutdown complete")
	return err
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.lockService != nil {
		app.lockService.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

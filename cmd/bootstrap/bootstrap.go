package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-management/config"
	deliveryHttp "clinic-management/internal/delivery/http"
	"clinic-management/internal/delivery/http/handler"
	"clinic-management/internal/delivery/http/middleware"
	"clinic-management/internal/infrastructure/cache"
	"clinic-management/internal/infrastructure/database"
	"clinic-management/internal/repository"
	"clinic-management/internal/service"
	"clinic-management/internal/usecase"
	"clinic-management/pkg/clock"
	"clinic-management/pkg/jwt"
	"clinic-management/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Locker      *service.KeyedLocker
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	// Setup logger
	app.Log = NewLogger(cfg.App)

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env, app.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	app.Log.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, app.Log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	app.Log.Info("Redis connected successfully")

	app.Locker = service.NewKeyedLocker(app.Log, cfg.Lock.CleanupInterval, cfg.Lock.StaleThreshold)

	// Initialize all layers
	app.Server = app.initializeServer()

	return app, nil
}

// NewLogger configures a logrus logger from the app config
func NewLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
		log.Warnf("Unknown log level %q, using info", cfg.LogLevel)
	}
	log.SetLevel(level)
	return log
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() *http.Server {
	cfg := app.Config
	log := app.Log
	clk := clock.New()

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	tx := database.NewTransactor(app.DB)

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	branchRepo := repository.NewBranchRepository()
	patientRepo := repository.NewPatientRepository()
	doctorRepo := repository.NewDoctorRepository()
	serviceRepo := repository.NewServiceRepository()
	treatmentRepo := repository.NewTreatmentRepository()
	treatmentServiceRepo := repository.NewTreatmentServiceRepository()
	invoiceRepo := repository.NewInvoiceRepository()
	paymentRepo := repository.NewPaymentRepository()
	xrayRequestRepo := repository.NewXRayRequestRepository()
	xrayFileRepo := repository.NewXRayFileRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	tokenStore := service.NewTokenStore(app.RedisClient)
	invoiceNumbers := service.NewInvoiceNumberGenerator(app.RedisClient)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(tx, log, userRepo, doctorRepo, branchRepo, jwtService, tokenStore, auditService)
	userUsecase := usecase.NewUserUsecase(tx, log, clk, userRepo, branchRepo, tokenStore, auditService)
	branchUsecase := usecase.NewBranchUsecase(tx, log, clk, branchRepo, auditService)
	patientUsecase := usecase.NewPatientUsecase(tx, log, clk, patientRepo, doctorRepo, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(tx, log, clk, doctorRepo, userRepo, auditService)
	serviceUsecase := usecase.NewServiceUsecase(tx, log, clk, serviceRepo, auditService)
	treatmentUsecase := usecase.NewTreatmentUsecase(
		tx, log, clk, app.Locker,
		treatmentRepo, treatmentServiceRepo, serviceRepo, patientRepo, doctorRepo,
		invoiceRepo, xrayRequestRepo, invoiceNumbers, auditService,
	)
	invoiceUsecase := usecase.NewInvoiceUsecase(tx, log, clk, app.Locker, invoiceRepo, paymentRepo, auditService)
	xrayUsecase := usecase.NewXRayUsecase(tx, log, clk, xrayRequestRepo, xrayFileRepo, patientRepo, treatmentRepo, auditService)
	dashboardUsecase := usecase.NewDashboardUsecase(tx, log, patientRepo, doctorRepo, invoiceRepo, branchRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(tx, log, auditLogRepo)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:      handler.NewAuthHandler(authUsecase, customValidator),
		User:      handler.NewUserHandler(userUsecase, customValidator),
		Branch:    handler.NewBranchHandler(branchUsecase, customValidator),
		Patient:   handler.NewPatientHandler(patientUsecase, customValidator),
		Doctor:    handler.NewDoctorHandler(doctorUsecase, customValidator),
		Service:   handler.NewServiceHandler(serviceUsecase, customValidator),
		Treatment: handler.NewTreatmentHandler(treatmentUsecase, customValidator),
		Invoice:   handler.NewInvoiceHandler(invoiceUsecase, customValidator),
		XRay:      handler.NewXRayHandler(xrayUsecase, customValidator),
		Dashboard: handler.NewDashboardHandler(dashboardUsecase),
		AuditLog:  handler.NewAuditLogHandler(auditLogUsecase, customValidator),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUsecase, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware)

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() error {
	errCh := make(chan error, 1)

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		app.Close()
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
	return nil
}

// Close stops background workers and closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.Locker != nil {
		app.Locker.Stop()
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

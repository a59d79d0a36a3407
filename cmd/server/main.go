package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Barbearia-Digital/service-booking/internal/application"
	"github.com/Barbearia-Digital/service-booking/internal/auth"
	"github.com/Barbearia-Digital/service-booking/internal/config"
	"github.com/Barbearia-Digital/service-booking/internal/database"
	"github.com/Barbearia-Digital/service-booking/internal/domain/appointment"
	"github.com/Barbearia-Digital/service-booking/internal/domain/catalog"
	"github.com/Barbearia-Digital/service-booking/internal/domain/voucher"
	"github.com/Barbearia-Digital/service-booking/internal/events"
	"github.com/Barbearia-Digital/service-booking/internal/handler"
	"github.com/Barbearia-Digital/service-booking/internal/health"
	"github.com/Barbearia-Digital/service-booking/internal/kafka"
	"github.com/Barbearia-Digital/service-booking/internal/logger"
	"github.com/Barbearia-Digital/service-booking/internal/metrics"
	"github.com/Barbearia-Digital/service-booking/internal/middleware"
	"github.com/Barbearia-Digital/service-booking/internal/reminder"
	"github.com/Barbearia-Digital/service-booking/internal/repository"
	"github.com/Barbearia-Digital/service-booking/internal/repository/memory"
	"github.com/Barbearia-Digital/service-booking/internal/saga"
)

const serviceName = "service-booking"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("storage", cfg.Storage),
	)

	loc := config.Location(cfg.Timezone)
	metrics.Register()

	// Initialize repositories
	var (
		db          *gorm.DB
		catalogRepo catalog.ServiceRepository
		voucherRepo voucher.VoucherRepository
		apptRepo    appointment.AppointmentRepository
	)
	if cfg.Storage == "memory" {
		catalogRepo = memory.NewServiceRepository()
		voucherRepo = memory.NewVoucherRepository()
		apptRepo = memory.NewAppointmentRepository()
	} else {
		db, err = database.Connect(cfg.DBConfig, zapLogger)
		if err != nil {
			zapLogger.Fatal("failed to connect to database", zap.Error(err))
		}

		if cfg.AppEnv == "development" {
			if err := db.AutoMigrate(&repository.ServiceModel{}, &repository.VoucherModel{}, &repository.AppointmentModel{}); err != nil {
				zapLogger.Fatal("failed to auto-migrate", zap.Error(err))
			}
			zapLogger.Info("database migration completed (dev auto-migrate)")
		} else {
			if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), cfg.MigrationsDir, zapLogger); err != nil {
				zapLogger.Fatal("failed to run migrations", zap.Error(err))
			}
		}

		catalogRepo = repository.NewGormServiceRepository(db)
		voucherRepo = repository.NewGormVoucherRepository(db)
		apptRepo = repository.NewAppointmentRepository(db)
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.TokenTTL)

	// Initialize event publisher: Kafka when brokers are configured, otherwise in-process
	var (
		publisher kafka.Publisher
		localBus  *kafka.LocalBus
	)
	if len(cfg.KafkaConfig.Brokers) > 0 {
		publisher = kafka.NewProducer(cfg.KafkaConfig.Brokers, zapLogger)
	} else {
		localBus = kafka.NewLocalBus(zapLogger)
		publisher = localBus
		zapLogger.Warn("KAFKA_BROKERS not set, using in-process event bus")
	}
	defer publisher.Close()

	// Initialize application services
	catalogService := application.NewCatalogService(catalogRepo, zapLogger)
	voucherService := application.NewVoucherService(voucherRepo, loc, zapLogger)
	sagaService := saga.NewBookingSagaService(apptRepo, voucherRepo, publisher, zapLogger)
	appointmentService := application.NewAppointmentService(apptRepo, catalogRepo, voucherService, sagaService, publisher, zapLogger)
	reportService := application.NewReportService(apptRepo, zapLogger)
	loyaltyService := application.NewLoyaltyService(apptRepo, voucherService, publisher, application.LoyaltyPolicy{
		Every:      cfg.Loyalty.Every,
		Percentage: cfg.Loyalty.Percentage,
		ValidDays:  cfg.Loyalty.ValidDays,
	}, zapLogger)

	// Initialize booking event consumer (loyalty vouchers)
	var bookingConsumer *events.BookingEventConsumer
	if localBus != nil {
		bookingConsumer = events.NewLocalBookingEventConsumer(localBus, loyaltyService, zapLogger)
	} else {
		consumerGroupID := cfg.KafkaConfig.GroupPrefix + "loyalty"
		bookingConsumer = events.NewBookingEventConsumer(cfg.KafkaConfig.Brokers, consumerGroupID, loyaltyService, zapLogger)
	}
	defer bookingConsumer.Close()

	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	go func() {
		zapLogger.Info("starting booking event consumer")
		if err := bookingConsumer.Start(consumerCtx); err != nil {
			if consumerCtx.Err() == nil {
				zapLogger.Error("booking event consumer failed", zap.Error(err))
			}
		}
	}()

	// Schedule reminders for tomorrow's appointments
	reminderJob := reminder.NewJob(apptRepo, publisher, loc, zapLogger)
	if err := reminderJob.Start(cfg.ReminderCron); err != nil {
		zapLogger.Fatal("failed to schedule reminders", zap.Error(err))
	}

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.LoggerMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(metrics.Middleware())

	// Register health and metrics routes
	health.NewHandler(db, serviceName).RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register booking API routes
	api := router.Group("/api")
	handler.NewCatalogHandler(catalogService).RegisterRoutes(api, jwtManager)
	handler.NewVoucherHandler(voucherService).RegisterRoutes(api, jwtManager)
	handler.NewAppointmentHandler(appointmentService).RegisterRoutes(api, jwtManager)
	handler.NewAdminHandler(reportService).RegisterRoutes(api, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down " + serviceName + "...")

	consumerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	reminderJob.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info(serviceName + " stopped")
}

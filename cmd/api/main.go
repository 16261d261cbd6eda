package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/telemeet/telemed-api/internal/cache"
	"github.com/telemeet/telemed-api/internal/config"
	"github.com/telemeet/telemed-api/internal/email"
	"github.com/telemeet/telemed-api/internal/handler"
	authHandler "github.com/telemeet/telemed-api/internal/handler/auth"
	bookingHandler "github.com/telemeet/telemed-api/internal/handler/booking"
	doctorHandler "github.com/telemeet/telemed-api/internal/handler/doctor"
	patientHandler "github.com/telemeet/telemed-api/internal/handler/patient"
	pharmacyHandler "github.com/telemeet/telemed-api/internal/handler/pharmacy"
	prescriptionHandler "github.com/telemeet/telemed-api/internal/handler/prescription"
	triageHandler "github.com/telemeet/telemed-api/internal/handler/triage"
	"github.com/telemeet/telemed-api/internal/middleware"
	"github.com/telemeet/telemed-api/internal/repository/postgres"
	"github.com/telemeet/telemed-api/internal/router"
	authService "github.com/telemeet/telemed-api/internal/service/auth"
	bookingService "github.com/telemeet/telemed-api/internal/service/booking"
	doctorService "github.com/telemeet/telemed-api/internal/service/doctor"
	patientService "github.com/telemeet/telemed-api/internal/service/patient"
	pharmacyService "github.com/telemeet/telemed-api/internal/service/pharmacy"
	prescriptionService "github.com/telemeet/telemed-api/internal/service/prescription"
	scheduleService "github.com/telemeet/telemed-api/internal/service/schedule"
	triageService "github.com/telemeet/telemed-api/internal/service/triage"
	"github.com/telemeet/telemed-api/pkg/auth"
	"github.com/telemeet/telemed-api/pkg/logger"
	"github.com/telemeet/telemed-api/pkg/metrics"
	"github.com/telemeet/telemed-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("telemed")

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Redis backs the offline snapshot cache. An unreachable redis only
	// disables the fallback, it does not prevent startup.
	var snapshots *cache.SnapshotStore
	if opts, err := goredis.ParseURL(cfg.Redis.URL); err == nil {
		client := goredis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			appLogger.Warn("redis unreachable, snapshot fallback disabled", "error", err.Error())
		} else {
			snapshots = cache.NewSnapshotStore(client)
		}
	} else {
		log.Fatal().Err(err).Msg("invalid redis url")
	}

	userRepo := postgres.NewUserRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	slotRepo := postgres.NewSlotRepository(db)
	consultRepo := postgres.NewConsultationRepository(db)
	rxRepo := postgres.NewPrescriptionRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	var emailSvc email.Service = email.NewNoopService()
	if cfg.SMTP.Enabled {
		emailSvc = email.NewSMTPService(cfg.SMTP)
	}

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, authService.TokenExpiry(cfg.JWT.ExpiryHours))
	hasher := security.NewBcryptHasher(0)

	// A nil *SnapshotStore must stay a nil interface inside the services.
	var rxSnapshots prescriptionService.Snapshots
	var orderSnapshots pharmacyService.Snapshots
	if snapshots != nil {
		rxSnapshots = snapshots
		orderSnapshots = snapshots
	}

	authSvc := authService.NewService(userRepo, hasher, jwtSvc)
	doctorSvc := doctorService.NewService(doctorRepo)
	patientSvc := patientService.NewService(patientRepo)
	scheduleSvc := scheduleService.NewService(slotRepo, doctorRepo)
	bookingSvc := bookingService.NewService(consultRepo, slotRepo, doctorRepo, patientRepo, outboxRepo, emailSvc, appLogger, appMetrics)
	rxSvc := prescriptionService.NewService(rxRepo, consultRepo, patientRepo, rxSnapshots, emailSvc, appLogger, appMetrics)
	pharmacySvc := pharmacyService.NewService(orderRepo, rxRepo, outboxRepo, orderSnapshots, cfg.Pharmacy, appLogger, appMetrics)
	triageSvc := triageService.NewService()

	authMw := middleware.NewAuthMiddleware(authSvc)

	handler.RegisterValidations()
	h := handler.NewHandler()
	r := router.NewRouter(
		authMw,
		authHandler.NewHandler(authSvc, doctorSvc),
		triageHandler.NewHandler(triageSvc),
		doctorHandler.NewHandler(doctorSvc, scheduleSvc, authMw),
		patientHandler.NewHandler(patientSvc),
		bookingHandler.NewHandler(bookingSvc, authMw),
		prescriptionHandler.NewHandler(rxSvc, authMw),
		pharmacyHandler.NewHandler(pharmacySvc, authMw),
		h,
		router.Config{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			CORSConfig:       middleware.DefaultCORSConfig(),
			MetricsPrefix:    "telemed_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout,
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info("server exited")
}

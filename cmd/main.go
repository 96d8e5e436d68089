package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/HouseRent-BookingService/internal/api/handlers"
	addBookingMessageHandler "github.com/m04kA/HouseRent-BookingService/internal/api/handlers/add_booking_message"
	cancelBookingHandler "github.com/m04kA/HouseRent-BookingService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/m04kA/HouseRent-BookingService/internal/api/handlers/check_availability"
	createBookingHandler "github.com/m04kA/HouseRent-BookingService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/HouseRent-BookingService/internal/api/handlers/delete_booking"
	getBookingHandler "github.com/m04kA/HouseRent-BookingService/internal/api/handlers/get_booking"
	listOwnerBookingsHandler "github.com/m04kA/HouseRent-BookingService/internal/api/handlers/list_owner_bookings"
	listTenantBookingsHandler "github.com/m04kA/HouseRent-BookingService/internal/api/handlers/list_tenant_bookings"
	rescheduleBookingHandler "github.com/m04kA/HouseRent-BookingService/internal/api/handlers/reschedule_booking"
	updateBookingStatusHandler "github.com/m04kA/HouseRent-BookingService/internal/api/handlers/update_booking_status"
	updatePaymentStatusHandler "github.com/m04kA/HouseRent-BookingService/internal/api/handlers/update_payment_status"
	"github.com/m04kA/HouseRent-BookingService/internal/api/middleware"
	"github.com/m04kA/HouseRent-BookingService/internal/config"
	"github.com/m04kA/HouseRent-BookingService/internal/events"
	bookingRepo "github.com/m04kA/HouseRent-BookingService/internal/infra/storage/booking"
	propertyServiceClient "github.com/m04kA/HouseRent-BookingService/internal/integrations/propertyservice"
	"github.com/m04kA/HouseRent-BookingService/internal/scheduler"
	bookingsService "github.com/m04kA/HouseRent-BookingService/internal/service/bookings"
	checkAvailabilityUC "github.com/m04kA/HouseRent-BookingService/internal/usecase/check_availability"
	completeStaysUC "github.com/m04kA/HouseRent-BookingService/internal/usecase/complete_stays"
	createBookingUC "github.com/m04kA/HouseRent-BookingService/internal/usecase/create_booking"
	rescheduleBookingUC "github.com/m04kA/HouseRent-BookingService/internal/usecase/reschedule_booking"
	"github.com/m04kA/HouseRent-BookingService/pkg/dbmetrics"
	"github.com/m04kA/HouseRent-BookingService/pkg/logger"
	"github.com/m04kA/HouseRent-BookingService/pkg/metrics"
	"github.com/m04kA/HouseRent-BookingService/pkg/rabbitmq"
	"github.com/m04kA/HouseRent-BookingService/pkg/txmanager"
)

const configPath = "config.toml"

func main() {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var logOpts []logger.Option
	if cfg.Logs.Format == "json" {
		logOpts = append(logOpts, logger.WithJSON())
	}
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level, logOpts...)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting HouseRent-BookingService...")
	log.Info("Configuration loaded from %s", configPath)

	// 1. Metrics. A nil collector records nothing.
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// 2. Database
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = wrappedDB.PingContext(pingCtx)
	pingCancel()
	if err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	txManager := txmanager.NewTransactionManager(wrappedDB,
		txmanager.WithMaxAttempts(cfg.Booking.SerializableRetries),
	)

	// 3. Integrations
	propertyClient := propertyServiceClient.NewClient(
		cfg.PropertyService.URL,
		time.Duration(cfg.PropertyService.Timeout)*time.Second,
		log,
	)
	log.Info("Property service client initialized (url=%s, timeout=%ds)",
		cfg.PropertyService.URL, cfg.PropertyService.Timeout)

	var publisher events.Publisher
	if cfg.RabbitMQ.Enabled {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer p.Close()
		publisher = p
		log.Info("Booking events published to exchange %s", cfg.RabbitMQ.Exchange)
	} else {
		log.Info("RabbitMQ disabled, booking events are not published")
	}
	notifier := events.NewNotifier(publisher, metricsCollector, log)

	// 4. Repositories, services and use cases
	bookingRepository := bookingRepo.NewRepository(wrappedDB)

	bookingSvc := bookingsService.NewService(
		bookingRepository,
		txManager,
		notifier,
		metricsCollector,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		propertyClient,
		txManager,
		notifier,
		metricsCollector,
		log,
	)
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		bookingRepository,
		metricsCollector,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		propertyClient,
		txManager,
		notifier,
		log,
	)
	completeStaysUseCase := completeStaysUC.NewUseCase(
		bookingRepository,
		notifier,
		metricsCollector,
		log,
	)

	// 5. Background jobs
	jobs := scheduler.New(metricsCollector, log)
	if cfg.Scheduler.CompleteStaysEnabled {
		err := jobs.Register("complete_stays", cfg.Scheduler.CompleteStaysSpec, func(ctx context.Context) error {
			completed, err := completeStaysUseCase.Execute(ctx)
			if completed > 0 {
				log.Info("complete_stays: %d bookings completed", completed)
			}
			return err
		})
		if err != nil {
			log.Fatal("Failed to register scheduler job: %v", err)
		}
	}
	jobs.Start()

	// 6. Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listTenantBookings := listTenantBookingsHandler.NewHandler(bookingSvc, log)
	listOwnerBookings := listOwnerBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updatePaymentStatus := updatePaymentStatusHandler.NewHandler(bookingSvc, log)
	addBookingMessage := addBookingMessageHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)

	authenticator := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := wrappedDB.PingContext(ctx); err != nil {
			log.Warn("GET /health - Database unavailable: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/properties/{propertyId}/availability", checkAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (Authorization: Bearer <jwt>)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(authenticator.Middleware)

	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/dates", rescheduleBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/payment-status", updatePaymentStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/messages", addBookingMessage.Handle).Methods(http.MethodPost)

	protected.HandleFunc("/tenants/{tenantId}/bookings", listTenantBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/owners/{ownerId}/bookings", listOwnerBookings.Handle).Methods(http.MethodGet)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Error("Scheduler did not stop in time: %v", err)
	}

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}

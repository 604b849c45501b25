package main

import (
	"context"
	"net/http"
	"time"

	"github.com/nafiz-ahmed/meddesk/libs/config"
	"github.com/nafiz-ahmed/meddesk/libs/db"
	"github.com/nafiz-ahmed/meddesk/libs/httpx"
	"github.com/nafiz-ahmed/meddesk/libs/kafkax"
	otelx "github.com/nafiz-ahmed/meddesk/libs/otel"
	"github.com/nafiz-ahmed/meddesk/libs/outbox"
	"github.com/nafiz-ahmed/meddesk/libs/runtime"
	"github.com/nafiz-ahmed/meddesk/services/directory-service/internal/handlers"
	"github.com/nafiz-ahmed/meddesk/services/directory-service/internal/storage"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	config.LoadDotEnv()

	service := config.String("SERVICE_NAME", "directory-service")
	port, err := config.Port("PORT", "8082")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL, db.Options{
		MaxConns: int32(config.Int("DB_MAX_CONNS", 10)),
		MinConns: int32(config.Int("DB_MIN_CONNS", 1)),
	})
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	if config.Bool("DB_AUTO_MIGRATE", true) {
		if err := db.Migrate(ctx, pool, storage.MigrationsFS()); err != nil {
			logger.Error("migrations failed", "err", err)
			panic(err)
		}
	}

	doctors := storage.NewDoctorRepository(pool)
	patients := storage.NewPatientRepository(pool)
	departments := storage.NewDepartmentRepository(pool)
	transfers := storage.NewTransferRepository(pool)
	outboxRepo := outbox.NewRepository(pool)

	brokers := config.String("KAFKA_BROKERS", "")
	publisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   brokers,
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go publisher.Run(ctx)

	if err := startGrpcServer(ctx, logger, doctors); err != nil {
		logger.Error("grpc server init failed", "err", err)
	}

	h := handlers.New(doctors, patients, departments, transfers, outboxRepo, logger)

	mux := runtime.NewBaseMux(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)},
	)
	mux.HandleFunc("/api/v1/doctors", h.Doctors)
	mux.HandleFunc("/api/v1/doctors/schedule", h.DoctorSchedule)
	mux.HandleFunc("/api/v1/patients", h.Patients)
	mux.HandleFunc("/api/v1/departments", h.Departments)
	mux.HandleFunc("/api/v1/transfers", h.Transfers)

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20))),
		httpx.WithTimeout(time.Duration(config.Int("REQUEST_TIMEOUT_SECONDS", 10))*time.Second),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "directory")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/nafiz-ahmed/meddesk/libs/config"
	"github.com/nafiz-ahmed/meddesk/libs/db"
	"github.com/nafiz-ahmed/meddesk/libs/httpx"
	"github.com/nafiz-ahmed/meddesk/libs/inbox"
	"github.com/nafiz-ahmed/meddesk/libs/kafkax"
	otelx "github.com/nafiz-ahmed/meddesk/libs/otel"
	"github.com/nafiz-ahmed/meddesk/libs/outbox"
	"github.com/nafiz-ahmed/meddesk/libs/runtime"
	"github.com/nafiz-ahmed/meddesk/services/notification-service/internal/contacts"
	"github.com/nafiz-ahmed/meddesk/services/notification-service/internal/email"
	"github.com/nafiz-ahmed/meddesk/services/notification-service/internal/notifier"
	"github.com/nafiz-ahmed/meddesk/services/notification-service/internal/sms"
	"github.com/nafiz-ahmed/meddesk/services/notification-service/internal/storage"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func writeOutboxResult(ctx context.Context, pool *db.Pool, outboxRepo *outbox.Repository, evt notifier.AppointmentEvent, channel, providerID, reason string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	eventType := "notification.sent.v1"
	fields := map[string]any{
		"appointment_id": evt.AppointmentID,
		"patient_id":     evt.PatientID,
		"channel":        channel,
	}
	if reason != "" {
		eventType = "notification.failed.v1"
		fields["error_reason"] = reason
		fields["failed_at"] = time.Now().UTC().Format(time.RFC3339)
	} else {
		if strings.TrimSpace(providerID) == "" {
			providerID = "unknown"
		}
		fields["provider_id"] = providerID
		fields["sent_at"] = time.Now().UTC().Format(time.RFC3339)
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	if err := outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "notification",
		AggregateID:   evt.AppointmentID,
		EventType:     eventType,
		Payload:       payload,
	}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func main() {
	config.LoadDotEnv()

	service := config.String("SERVICE_NAME", "notification-service")
	port, err := config.Port("PORT", "8083")
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

	inboxRepo := inbox.NewRepository(pool)
	notificationsRepo := storage.NewRepository(pool)
	outboxRepo := outbox.NewRepository(pool)

	brokers := config.String("KAFKA_BROKERS", "")
	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   brokers,
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	emailSender := email.NewSMTPSender(
		config.String("SMTP_HOST", "mailpit"),
		config.String("SMTP_PORT", "1025"),
		config.String("SMTP_FROM", "no-reply@meddesk.local"),
	)

	var smsSender sms.Sender
	switch strings.ToLower(config.String("SMS_PROVIDER", "noop")) {
	case "webhook":
		smsSender = sms.NewWebhookSender(config.String("SMS_WEBHOOK_URL", ""), config.String("SMS_WEBHOOK_TOKEN", ""))
	default:
		smsSender = sms.NewNoopSender()
	}

	directory := contacts.NewClient(config.String("DIRECTORY_HTTP_URL", ""))

	handleEvent := func(ctx context.Context, msg kafka.Message) error {
		var evt notifier.AppointmentEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.Error("invalid appointment event payload", "err", err, "topic", msg.Topic)
			return nil
		}
		if !evt.Valid() {
			logger.Error("appointment event missing ids", "topic", msg.Topic)
			return nil
		}

		contact, err := directory.GetPatient(ctx, evt.PatientID)
		if err != nil {
			logger.Warn("patient contact lookup failed", "err", err, "patient_id", evt.PatientID)
			contact = nil
		}
		patientName := ""
		if contact != nil {
			patientName = contact.FullName
		}

		subject, body, ok := notifier.Render(msg.Topic, evt, patientName)
		if !ok {
			logger.Warn("no notification for event type", "topic", msg.Topic)
			return nil
		}

		process := func(channel, recipient string, send func() error) error {
			if recipient == "" {
				return nil
			}
			status := "sent"
			reason := ""
			providerID := ""
			if err := send(); err != nil {
				status = "failed"
				reason = err.Error()
				logger.Error("notification send failed", "channel", channel, "err", err, "recipient", recipient)
			} else if channel == "sms" {
				providerID = smsSender.ProviderID()
			} else {
				providerID = "smtp"
			}

			if err := notificationsRepo.Insert(ctx, storage.Notification{
				AppointmentID: evt.AppointmentID,
				PatientID:     evt.PatientID,
				Channel:       channel,
				Recipient:     recipient,
				Payload:       map[string]any{"subject": subject, "body": body},
				Status:        status,
			}); err != nil {
				return err
			}
			return writeOutboxResult(ctx, pool, outboxRepo, evt, channel, providerID, reason)
		}

		if contact != nil {
			if err := process("email", strings.TrimSpace(contact.Email), func() error {
				return emailSender.Send(contact.Email, subject, body)
			}); err != nil {
				return err
			}
			if err := process("sms", strings.TrimSpace(contact.Phone), func() error {
				return smsSender.Send(ctx, contact.Phone, body)
			}); err != nil {
				return err
			}
		} else {
			logger.Info("no contact on file, notification skipped", "patient_id", evt.PatientID)
		}

		logger.Info("appointment event processed", "topic", msg.Topic, "appointment_id", evt.AppointmentID)
		return nil
	}

	startConsumer := func(topic string) {
		if strings.TrimSpace(topic) == "" {
			return
		}
		c := kafkax.NewConsumer(logger, inboxRepo, kafkax.ConsumerConfig{
			Brokers: brokers,
			GroupID: config.String("KAFKA_GROUP_ID", "notification-service"),
			Topic:   topic,
		}, handleEvent)
		go c.Run(ctx)
	}
	startConsumer(config.String("KAFKA_BOOKED_TOPIC", notifier.TopicBooked))
	startConsumer(config.String("KAFKA_CANCELLED_TOPIC", notifier.TopicCancelled))

	mux := runtime.NewBaseMux(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)},
	)
	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
	)
	handler = otelhttp.NewHandler(handler, "notification")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
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

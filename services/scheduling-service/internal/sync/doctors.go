// Package sync keeps the local doctor cache current by applying
// directory.doctor.updated.v1 events.
package sync

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nafiz-ahmed/meddesk/libs/db"
	"github.com/nafiz-ahmed/meddesk/libs/kafkax"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/model"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/storage"
	"github.com/segmentio/kafka-go"
)

type doctorUpdatedEvent struct {
	DoctorID      string                       `json:"doctor_id"`
	FullName      string                       `json:"full_name"`
	Department    string                       `json:"department"`
	WorkSchedule  map[string]model.DaySchedule `json:"work_schedule"`
	FallbackSlots []string                     `json:"fallback_slots"`
}

// DoctorUpdatedHandler returns the consumer handler that upserts the doctor
// cache row for each directory update event.
func DoctorUpdatedHandler(pool *db.Pool, doctors *storage.DoctorCacheRepository, logger *slog.Logger) kafkax.Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		var evt doctorUpdatedEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.Error("malformed doctor update event", "err", err)
			return nil // poison message, drop it
		}
		if evt.DoctorID == "" {
			logger.Warn("doctor update event without doctor_id")
			return nil
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(ctx) }()

		doc := model.Doctor{
			ID:            evt.DoctorID,
			FullName:      evt.FullName,
			Department:    evt.Department,
			WorkSchedule:  evt.WorkSchedule,
			FallbackSlots: evt.FallbackSlots,
		}
		if err := doctors.Upsert(ctx, tx, doc); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return err
		}
		logger.Info("doctor cache updated", "doctor_id", evt.DoctorID)
		return nil
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/nafiz-ahmed/meddesk/libs/outbox"
	"github.com/nafiz-ahmed/meddesk/services/directory-service/internal/model"
	"github.com/nafiz-ahmed/meddesk/services/directory-service/internal/storage"
)

type Handler struct {
	doctors     *storage.DoctorRepository
	patients    *storage.PatientRepository
	departments *storage.DepartmentRepository
	transfers   *storage.TransferRepository
	outboxRepo  *outbox.Repository
	logger      *slog.Logger
}

func New(
	doctors *storage.DoctorRepository,
	patients *storage.PatientRepository,
	departments *storage.DepartmentRepository,
	transfers *storage.TransferRepository,
	outboxRepo *outbox.Repository,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		doctors:     doctors,
		patients:    patients,
		departments: departments,
		transfers:   transfers,
		outboxRepo:  outboxRepo,
		logger:      logger,
	}
}

// publishDoctorUpdated writes the directory.doctor.updated.v1 event in the
// same tx as the doctor change. Consumers key their cache on doctor_id.
func (h *Handler) publishDoctorUpdated(ctx context.Context, tx pgx.Tx, doc *model.Doctor) error {
	payload, err := json.Marshal(map[string]any{
		"doctor_id":      doc.ID,
		"full_name":      doc.FullName,
		"department":     doc.Department,
		"work_schedule":  doc.WorkSchedule,
		"fallback_slots": doc.FallbackSlots,
	})
	if err != nil {
		return err
	}
	return h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "doctor",
		AggregateID:   doc.ID,
		EventType:     "directory.doctor.updated.v1",
		Payload:       payload,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

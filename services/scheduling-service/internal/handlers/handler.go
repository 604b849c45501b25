package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nafiz-ahmed/meddesk/libs/outbox"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/directory"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/model"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/storage"
)

type Handler struct {
	appts      *storage.AppointmentRepository
	waitlist   *storage.WaitlistRepository
	doctors    *storage.DoctorCacheRepository
	outboxRepo *outbox.Repository
	directory  directory.Provider
	logger     *slog.Logger
}

func New(
	appts *storage.AppointmentRepository,
	waitlist *storage.WaitlistRepository,
	doctors *storage.DoctorCacheRepository,
	outboxRepo *outbox.Repository,
	provider directory.Provider,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		appts:      appts,
		waitlist:   waitlist,
		doctors:    doctors,
		outboxRepo: outboxRepo,
		directory:  provider,
		logger:     logger,
	}
}

// lookupDoctor resolves a doctor by id or legacy name: directory gRPC when
// wired, the event-synced local cache otherwise. An unknown doctor is (nil,
// nil); the scheduling core degrades gracefully on nil.
func (h *Handler) lookupDoctor(ctx context.Context, ref string) (*model.Doctor, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	if h.directory != nil {
		return h.directory.GetDoctor(ctx, ref)
	}
	return h.doctors.GetByRef(ctx, ref)
}

// doctorRefs lists the reference values appointment rows may carry for this
// doctor: the canonical id plus the legacy display-name key.
func doctorRefs(doc *model.Doctor, raw string) []string {
	if doc == nil {
		return []string{raw}
	}
	refs := []string{doc.ID}
	if doc.FullName != "" {
		refs = append(refs, doc.FullName)
	}
	return refs
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

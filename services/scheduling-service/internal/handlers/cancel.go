package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/nafiz-ahmed/meddesk/libs/outbox"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/lifecycle"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/model"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/storage"
)

type cancelRequest struct {
	AppointmentID       string `json:"appointment_id"`
	CreateWaitlistEntry bool   `json:"create_waitlist_entry"`
}

type cancelResponse struct {
	AppointmentID    string                     `json:"appointment_id"`
	Status           string                     `json:"status"`
	WaitlistProposal lifecycle.WaitlistProposal `json:"waitlist_proposal"`
	WaitlistEntryID  string                     `json:"waitlist_entry_id,omitempty"`
}

// Cancel transitions a scheduled appointment to cancelled, frees the slot and
// returns a waitlist proposal. The proposal is persisted only when the caller
// opts in with create_waitlist_entry.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	if req.AppointmentID == "" {
		http.Error(w, "appointment_id is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tx, err := h.appts.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appt, err := h.appts.GetForUpdate(ctx, tx, req.AppointmentID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if !lifecycle.CanTransition(appt.Status, model.StatusCancelled) {
		http.Error(w, "appointment is not scheduled", http.StatusConflict)
		return
	}

	ok, err := h.appts.TransitionStatus(ctx, tx, appt.ID, model.StatusCancelled)
	if err != nil {
		http.Error(w, "failed to update appointment", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "appointment is not scheduled", http.StatusConflict)
		return
	}

	// The doctor lookup is best effort; a missing record just means the
	// proposal falls back to the Unknown department.
	doc, err := h.lookupDoctor(ctx, appt.DoctorRef)
	if err != nil {
		h.logger.Warn("doctor lookup failed during cancel", "doctor_ref", appt.DoctorRef, "error", err)
		doc = nil
	}
	proposal := lifecycle.ProposeWaitlistEntry(appt, doc)

	resp := cancelResponse{
		AppointmentID:    appt.ID,
		Status:           model.StatusCancelled,
		WaitlistProposal: proposal,
	}
	if req.CreateWaitlistEntry {
		entryID, err := h.waitlist.Create(ctx, tx, &model.WaitlistEntry{
			PatientID:     proposal.PatientID,
			Department:    proposal.Department,
			PreferredDate: proposal.PreferredDate,
			Notes:         proposal.Notes,
		})
		if err != nil {
			http.Error(w, "failed to create waitlist entry", http.StatusInternalServerError)
			return
		}
		resp.WaitlistEntryID = entryID
	}

	payload, err := json.Marshal(map[string]any{
		"appointment_id":    appt.ID,
		"patient_id":        appt.PatientID,
		"doctor_ref":        appt.DoctorRef,
		"visit_date":        appt.VisitDate,
		"slot_time":         appt.SlotTime,
		"waitlist_entry_id": resp.WaitlistEntryID,
		"cancelled_at":      time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		http.Error(w, "failed to build event payload", http.StatusInternalServerError)
		return
	}
	if err := h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     "scheduling.appointment.cancelled.v1",
		Payload:       payload,
	}); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("appointment cancelled", "appointment_id", appt.ID, "waitlisted", req.CreateWaitlistEntry)
	writeJSON(w, http.StatusOK, resp)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nafiz-ahmed/meddesk/libs/outbox"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/availability"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/lifecycle"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/model"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/schedule"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/storage"
)

type createAppointmentRequest struct {
	PatientID string `json:"patient_id"`
	Doctor    string `json:"doctor"` // canonical id or legacy name
	Date      string `json:"date"`
	Time      string `json:"time"`
	Notes     string `json:"notes"`
}

type appointmentItem struct {
	AppointmentID string `json:"appointment_id"`
	PatientID     string `json:"patient_id"`
	DoctorRef     string `json:"doctor_ref"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Status        string `json:"status"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// Create books a new appointment. The availability engine is the pre-save
// guard; the slot-guard index closes the remaining check-then-write race, so
// a loser of that race still gets a clean 409 instead of a double booking.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.PatientID = strings.TrimSpace(req.PatientID)
	req.Doctor = strings.TrimSpace(req.Doctor)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = schedule.Normalize(req.Time)

	if req.PatientID == "" || req.Doctor == "" || req.Date == "" || req.Time == "" {
		http.Error(w, "patient_id, doctor, date and time are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	doc, err := h.lookupDoctor(ctx, req.Doctor)
	if err != nil {
		http.Error(w, "failed to resolve doctor", http.StatusInternalServerError)
		return
	}

	appts, err := h.appts.ListForDoctorDate(ctx, doctorRefs(doc, req.Doctor), req.Date)
	if err != nil {
		http.Error(w, "failed to load appointments", http.StatusInternalServerError)
		return
	}
	if availability.HasConflict(doc, req.Date, req.Time, appts, "") {
		http.Error(w, "slot already booked", http.StatusConflict)
		return
	}

	doctorRef := req.Doctor
	if doc != nil {
		doctorRef = doc.ID
	}
	appt := &model.Appointment{
		PatientID: req.PatientID,
		DoctorRef: doctorRef,
		VisitDate: req.Date,
		SlotTime:  req.Time,
		Status:    model.StatusScheduled,
		Notes:     strings.TrimSpace(req.Notes),
	}

	tx, err := h.appts.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id, err := h.appts.Create(ctx, tx, appt)
	if err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "slot already booked", http.StatusConflict)
			return
		}
		http.Error(w, "failed to create appointment", http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(map[string]any{
		"appointment_id": id,
		"patient_id":     appt.PatientID,
		"doctor_ref":     appt.DoctorRef,
		"visit_date":     appt.VisitDate,
		"slot_time":      appt.SlotTime,
		"booked_at":      time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		http.Error(w, "failed to build event payload", http.StatusInternalServerError)
		return
	}
	if err := h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   id,
		EventType:     "scheduling.appointment.booked.v1",
		Payload:       payload,
	}); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "slot already booked", http.StatusConflict)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("appointment booked", "appointment_id", id, "doctor_ref", appt.DoctorRef, "date", appt.VisitDate, "slot", appt.SlotTime)
	writeJSON(w, http.StatusCreated, map[string]string{"appointment_id": id})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	appts, err := h.appts.List(r.Context(), storage.AppointmentFilter{
		DoctorRef: strings.TrimSpace(q.Get("doctor")),
		Date:      strings.TrimSpace(q.Get("date")),
		PatientID: strings.TrimSpace(q.Get("patient_id")),
		Limit:     limit,
	})
	if err != nil {
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}

	items := make([]appointmentItem, 0, len(appts))
	for _, a := range appts {
		items = append(items, appointmentItem{
			AppointmentID: a.ID,
			PatientID:     a.PatientID,
			DoctorRef:     a.DoctorRef,
			Date:          a.VisitDate,
			Time:          a.SlotTime,
			Status:        a.Status,
			Notes:         a.Notes,
			CreatedAt:     a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

type updateAppointmentRequest struct {
	AppointmentID string `json:"appointment_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Notes         string `json:"notes"`
}

// Update edits date/time/notes on an existing appointment. The edited
// appointment is excluded from its own conflict check, so moving an
// appointment back to its current slot is never rejected.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req updateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = schedule.Normalize(req.Time)
	if req.AppointmentID == "" {
		http.Error(w, "appointment_id is required", http.StatusBadRequest)
		return
	}
	if req.Date == "" && req.Time == "" && strings.TrimSpace(req.Notes) == "" {
		http.Error(w, "nothing to update", http.StatusBadRequest)
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

	newDate := appt.VisitDate
	if req.Date != "" {
		newDate = req.Date
	}
	newTime := schedule.Normalize(appt.SlotTime)
	if req.Time != "" {
		newTime = req.Time
	}

	if newDate != appt.VisitDate || newTime != schedule.Normalize(appt.SlotTime) {
		doc, err := h.lookupDoctor(ctx, appt.DoctorRef)
		if err != nil {
			http.Error(w, "failed to resolve doctor", http.StatusInternalServerError)
			return
		}
		others, err := h.appts.ListForDoctorDate(ctx, doctorRefs(doc, appt.DoctorRef), newDate)
		if err != nil {
			http.Error(w, "failed to load appointments", http.StatusInternalServerError)
			return
		}
		if availability.HasConflict(doc, newDate, newTime, others, appt.ID) {
			http.Error(w, "slot already booked", http.StatusConflict)
			return
		}
	}

	if _, err := h.appts.UpdateFields(ctx, tx, appt.ID, req.Date, req.Time, strings.TrimSpace(req.Notes)); err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "slot already booked", http.StatusConflict)
			return
		}
		http.Error(w, "failed to update appointment", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "slot already booked", http.StatusConflict)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type completeRequest struct {
	AppointmentID string `json:"appointment_id"`
}

// Complete transitions a scheduled appointment to completed. No side effects
// beyond the status write.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req completeRequest
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
	if !lifecycle.CanTransition(appt.Status, model.StatusCompleted) {
		http.Error(w, "appointment is not scheduled", http.StatusConflict)
		return
	}

	ok, err := h.appts.TransitionStatus(ctx, tx, appt.ID, model.StatusCompleted)
	if err != nil {
		http.Error(w, "failed to update appointment", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "appointment is not scheduled", http.StatusConflict)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"appointment_id": appt.ID,
		"status":         model.StatusCompleted,
	})
}

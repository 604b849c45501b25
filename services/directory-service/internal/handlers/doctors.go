package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/nafiz-ahmed/meddesk/services/directory-service/internal/model"
	"github.com/nafiz-ahmed/meddesk/services/directory-service/internal/storage"
)

type doctorRequest struct {
	FullName      string             `json:"full_name"`
	Department    string             `json:"department"`
	WorkSchedule  model.WorkSchedule `json:"work_schedule"`
	FallbackSlots []string           `json:"fallback_slots"`
}

// Doctors serves /api/v1/doctors: GET lists (or fetches one with ?ref=),
// POST creates, PATCH edits. Every write publishes directory.doctor.updated.v1.
func (h *Handler) Doctors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getDoctors(w, r)
	case http.MethodPost:
		h.createDoctor(w, r)
	case http.MethodPatch:
		h.updateDoctor(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) getDoctors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if ref := strings.TrimSpace(q.Get("ref")); ref != "" {
		doc, err := h.doctors.GetByRef(r.Context(), ref)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "doctor not found", http.StatusNotFound)
				return
			}
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, doc)
		return
	}

	limit := 0
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	docs, err := h.doctors.List(r.Context(), strings.TrimSpace(q.Get("department")), limit)
	if err != nil {
		http.Error(w, "failed to list doctors", http.StatusInternalServerError)
		return
	}
	if docs == nil {
		docs = []model.Doctor{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *Handler) createDoctor(w http.ResponseWriter, r *http.Request) {
	var req doctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		http.Error(w, "full_name is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tx, err := h.doctors.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	doc := &model.Doctor{
		FullName:      req.FullName,
		Department:    strings.TrimSpace(req.Department),
		WorkSchedule:  req.WorkSchedule,
		FallbackSlots: req.FallbackSlots,
	}
	id, err := h.doctors.Create(ctx, tx, doc)
	if err != nil {
		if storage.IsDuplicate(err) {
			http.Error(w, "doctor already exists", http.StatusConflict)
			return
		}
		http.Error(w, "failed to create doctor", http.StatusInternalServerError)
		return
	}
	doc.ID = id

	if err := h.publishDoctorUpdated(ctx, tx, doc); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("doctor created", "doctor_id", id, "department", doc.Department)
	writeJSON(w, http.StatusCreated, map[string]string{"doctor_id": id})
}

func (h *Handler) updateDoctor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DoctorID string `json:"doctor_id"`
		doctorRequest
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.DoctorID = strings.TrimSpace(req.DoctorID)
	if req.DoctorID == "" {
		http.Error(w, "doctor_id is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tx, err := h.doctors.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := h.doctors.GetForUpdate(ctx, tx, req.DoctorID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "doctor not found", http.StatusNotFound)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	if name := strings.TrimSpace(req.FullName); name != "" {
		current.FullName = name
	}
	if dept := strings.TrimSpace(req.Department); dept != "" {
		current.Department = dept
	}
	if req.WorkSchedule != nil {
		current.WorkSchedule = req.WorkSchedule
	}
	if req.FallbackSlots != nil {
		current.FallbackSlots = req.FallbackSlots
	}

	if _, err := h.doctors.Update(ctx, tx, current); err != nil {
		if storage.IsDuplicate(err) {
			http.Error(w, "doctor name already taken", http.StatusConflict)
			return
		}
		http.Error(w, "failed to update doctor", http.StatusInternalServerError)
		return
	}
	if err := h.publishDoctorUpdated(ctx, tx, current); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

type scheduleRequest struct {
	Weekday       string   `json:"weekday"`
	Enabled       bool     `json:"enabled"`
	Slots         []string `json:"slots"`
	FallbackSlots []string `json:"fallback_slots"`
}

// DoctorSchedule serves PUT /api/v1/doctors/schedule?doctor_id=: it replaces
// one weekday's configuration and optionally the static fallback slots,
// leaving the other weekdays untouched.
func (h *Handler) DoctorSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	doctorID := strings.TrimSpace(r.URL.Query().Get("doctor_id"))
	if doctorID == "" {
		http.Error(w, "doctor_id is required", http.StatusBadRequest)
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	weekday, ok := canonicalWeekday(req.Weekday)
	if !ok {
		http.Error(w, "weekday must be a day name, e.g. Monday", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tx, err := h.doctors.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	doc, err := h.doctors.GetForUpdate(ctx, tx, doctorID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "doctor not found", http.StatusNotFound)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	if doc.WorkSchedule == nil {
		doc.WorkSchedule = model.WorkSchedule{}
	}
	slots := req.Slots
	if slots == nil {
		slots = []string{}
	}
	doc.WorkSchedule[weekday] = model.DaySchedule{Enabled: req.Enabled, Slots: slots}
	if req.FallbackSlots != nil {
		doc.FallbackSlots = req.FallbackSlots
	}

	if _, err := h.doctors.Update(ctx, tx, doc); err != nil {
		http.Error(w, "failed to update schedule", http.StatusInternalServerError)
		return
	}
	if err := h.publishDoctorUpdated(ctx, tx, doc); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("doctor schedule updated", "doctor_id", doc.ID, "weekday", weekday)
	writeJSON(w, http.StatusOK, doc)
}

var weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func canonicalWeekday(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, day := range weekdays {
		if strings.EqualFold(s, day) {
			return day, true
		}
	}
	return "", false
}

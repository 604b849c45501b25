package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/lifecycle"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/model"
)

type waitlistItem struct {
	EntryID       string `json:"entry_id"`
	PatientID     string `json:"patient_id"`
	Department    string `json:"department"`
	PreferredDate string `json:"preferred_date"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type createWaitlistRequest struct {
	PatientID     string `json:"patient_id"`
	Department    string `json:"department"`
	PreferredDate string `json:"preferred_date"`
	Notes         string `json:"notes"`
}

// Waitlist serves GET (list, optional department filter) and POST (manual
// entry) on /api/v1/waitlist.
func (h *Handler) Waitlist(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listWaitlist(w, r)
	case http.MethodPost:
		h.createWaitlist(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) listWaitlist(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	entries, err := h.waitlist.List(r.Context(), strings.TrimSpace(q.Get("department")), limit)
	if err != nil {
		http.Error(w, "failed to list waitlist", http.StatusInternalServerError)
		return
	}

	items := make([]waitlistItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, waitlistItem{
			EntryID:       e.ID,
			PatientID:     e.PatientID,
			Department:    e.Department,
			PreferredDate: e.PreferredDate,
			Notes:         e.Notes,
			CreatedAt:     e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createWaitlist(w http.ResponseWriter, r *http.Request) {
	var req createWaitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.PatientID = strings.TrimSpace(req.PatientID)
	req.Department = strings.TrimSpace(req.Department)
	if req.PatientID == "" {
		http.Error(w, "patient_id is required", http.StatusBadRequest)
		return
	}
	if req.Department == "" {
		req.Department = lifecycle.UnknownDepartment
	}

	ctx := r.Context()
	tx, err := h.appts.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id, err := h.waitlist.Create(ctx, tx, &model.WaitlistEntry{
		PatientID:     req.PatientID,
		Department:    req.Department,
		PreferredDate: strings.TrimSpace(req.PreferredDate),
		Notes:         strings.TrimSpace(req.Notes),
	})
	if err != nil {
		http.Error(w, "failed to create waitlist entry", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"entry_id": id})
}

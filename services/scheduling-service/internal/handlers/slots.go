package handlers

import (
	"net/http"
	"strings"

	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/availability"
)

type slotsResponse struct {
	Doctor string   `json:"doctor"`
	Date   string   `json:"date"`
	Slots  []string `json:"slots"`
}

// Slots answers GET /api/v1/slots?doctor=<id-or-name>&date=YYYY-MM-DD with
// the ordered free slots for that doctor/date. Missing or unknown inputs
// yield an empty list, never an error: field presence is the caller's job.
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	doctorRef := strings.TrimSpace(q.Get("doctor"))
	date := strings.TrimSpace(q.Get("date"))
	excludeID := strings.TrimSpace(q.Get("exclude_id"))

	resp := slotsResponse{Doctor: doctorRef, Date: date, Slots: []string{}}
	if doctorRef == "" || date == "" {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	ctx := r.Context()
	doc, err := h.lookupDoctor(ctx, doctorRef)
	if err != nil {
		http.Error(w, "failed to resolve doctor", http.StatusInternalServerError)
		return
	}

	appts, err := h.appts.ListForDoctorDate(ctx, doctorRefs(doc, doctorRef), date)
	if err != nil {
		http.Error(w, "failed to load appointments", http.StatusInternalServerError)
		return
	}

	if slots := availability.AvailableSlots(doc, date, appts, excludeID); slots != nil {
		resp.Slots = slots
	}
	writeJSON(w, http.StatusOK, resp)
}

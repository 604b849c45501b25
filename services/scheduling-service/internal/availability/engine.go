// Package availability computes which of a doctor's slots remain bookable on
// a date and guards prospective bookings against double-booking. Availability
// is always a subtraction over the full appointment snapshot, never a
// persisted slot state, so it cannot drift from the appointment ledger.
package availability

import (
	"strings"

	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/model"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/schedule"
)

// MatchesDoctor reports whether an appointment's doctor reference points at
// doc. Historical records joined on the doctor's display name instead of the
// id; that legacy dual-keying lives entirely behind this one seam.
func MatchesDoctor(ref string, doc *model.Doctor) bool {
	if doc == nil {
		return false
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	if ref == doc.ID {
		return true
	}
	return doc.FullName != "" && strings.EqualFold(ref, doc.FullName)
}

// AvailableSlots returns the slots from the doctor's resolved schedule for
// date that are not held by a live (non-cancelled) appointment, preserving
// the schedule's declared order and dropping duplicates. excludeID, when
// non-empty, ignores that appointment so an edit does not conflict with
// itself. A nil doctor or blank date yields no availability.
func AvailableSlots(doc *model.Doctor, date string, appts []model.Appointment, excludeID string) []string {
	if doc == nil || strings.TrimSpace(date) == "" {
		return nil
	}

	taken := takenSlots(doc, date, appts, excludeID)

	var out []string
	seen := make(map[string]struct{})
	for _, s := range schedule.Resolve(doc, date) {
		ns := schedule.Normalize(s)
		if _, dup := seen[ns]; dup {
			continue
		}
		seen[ns] = struct{}{}
		if _, booked := taken[ns]; booked {
			continue
		}
		out = append(out, ns)
	}
	return out
}

// HasConflict reports whether a live appointment already holds slot for this
// doctor and date. It is the authoritative pre-save guard: callers must
// reject the write when it returns true rather than picking another slot.
// Missing doctor, date, or slot conflicts with nothing.
func HasConflict(doc *model.Doctor, date, slot string, appts []model.Appointment, excludeID string) bool {
	if doc == nil || strings.TrimSpace(date) == "" || strings.TrimSpace(slot) == "" {
		return false
	}
	target := schedule.Normalize(slot)
	_, held := takenSlots(doc, date, appts, excludeID)[target]
	return held
}

func takenSlots(doc *model.Doctor, date string, appts []model.Appointment, excludeID string) map[string]struct{} {
	taken := make(map[string]struct{})
	for _, a := range appts {
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(a.Status), model.StatusCancelled) {
			continue
		}
		if strings.TrimSpace(a.VisitDate) != strings.TrimSpace(date) {
			continue
		}
		if !MatchesDoctor(a.DoctorRef, doc) {
			continue
		}
		taken[schedule.Normalize(a.SlotTime)] = struct{}{}
	}
	return taken
}

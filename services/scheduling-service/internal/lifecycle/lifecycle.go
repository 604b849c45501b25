// Package lifecycle owns the appointment status machine and the cancellation
// side effect: turning a cancelled booking into a waitlist proposal the
// operator may accept or decline.
package lifecycle

import (
	"fmt"
	"strings"

	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/model"
)

// NormalizeStatus maps any casing of a known status onto its canonical
// lower-case form. Unknown statuses return ok=false.
func NormalizeStatus(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case model.StatusScheduled:
		return model.StatusScheduled, true
	case model.StatusCompleted:
		return model.StatusCompleted, true
	case model.StatusCancelled:
		return model.StatusCancelled, true
	default:
		return "", false
	}
}

// CanTransition reports whether from -> to is an authorized operator action.
// Completed and cancelled are terminal.
func CanTransition(from, to string) bool {
	f, ok := NormalizeStatus(from)
	if !ok {
		return false
	}
	t, ok := NormalizeStatus(to)
	if !ok {
		return false
	}
	if f != model.StatusScheduled {
		return false
	}
	return t == model.StatusCompleted || t == model.StatusCancelled
}

// WaitlistProposal is the entry offered to the operator when an appointment
// is cancelled. It is a value, not a write: persisting it is the caller's
// decision, and declining it is not an error.
type WaitlistProposal struct {
	PatientID     string `json:"patient_id"`
	Department    string `json:"department"`
	PreferredDate string `json:"preferred_date"`
	Notes         string `json:"notes"`
}

// UnknownDepartment is substituted when the cancelled appointment's doctor
// has no resolvable department.
const UnknownDepartment = "Unknown"

// ProposeWaitlistEntry builds the waitlist proposal for a cancelled
// appointment. The department comes from the doctor record; doc may be nil
// when the doctor cannot be resolved.
func ProposeWaitlistEntry(appt model.Appointment, doc *model.Doctor) WaitlistProposal {
	department := UnknownDepartment
	doctorName := strings.TrimSpace(appt.DoctorRef)
	if doc != nil {
		if d := strings.TrimSpace(doc.Department); d != "" {
			department = d
		}
		if n := strings.TrimSpace(doc.FullName); n != "" {
			doctorName = n
		}
	}
	slot := strings.TrimSpace(appt.SlotTime)
	return WaitlistProposal{
		PatientID:     appt.PatientID,
		Department:    department,
		PreferredDate: appt.VisitDate,
		Notes:         fmt.Sprintf("Cancelled booking with %s at %s on %s", doctorName, slot, appt.VisitDate),
	}
}

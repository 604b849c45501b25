package model

import "time"

// Appointment statuses. Stored lower-case; legacy records may carry any
// casing, so comparisons go through lifecycle.NormalizeStatus.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// DaySchedule is one weekday's booking configuration. When Enabled is false
// the slot list is ignored, whatever it contains.
type DaySchedule struct {
	Enabled bool     `json:"enabled"`
	Slots   []string `json:"slots"`
}

// WorkSchedule maps weekday names ("Sunday".."Saturday") to that day's
// configuration. A missing key means the day is disabled.
type WorkSchedule map[string]DaySchedule

// Doctor is the scheduling view of a doctor record, synced from the
// directory service. FullName doubles as a legacy join key: historical
// appointment rows referenced doctors by display name instead of id.
type Doctor struct {
	ID            string       `json:"id"`
	FullName      string       `json:"full_name"`
	Department    string       `json:"department"`
	WorkSchedule  WorkSchedule `json:"work_schedule"`
	FallbackSlots []string     `json:"fallback_slots"`
}

type Appointment struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	DoctorRef string    `json:"doctor_ref"` // canonical doctor id, or a legacy doctor name
	VisitDate string    `json:"visit_date"` // naive calendar date, YYYY-MM-DD
	SlotTime  string    `json:"slot_time"`  // time-of-day label, normally HH:MM
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type WaitlistEntry struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patient_id"`
	Department    string    `json:"department"`
	PreferredDate string    `json:"preferred_date"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

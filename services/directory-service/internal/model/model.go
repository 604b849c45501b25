package model

import "time"

// DaySchedule is one weekday's booking configuration for a doctor. A disabled
// day keeps its slot list; it just stops being served until re-enabled.
type DaySchedule struct {
	Enabled bool     `json:"enabled"`
	Slots   []string `json:"slots"`
}

// WorkSchedule maps weekday names ("Sunday".."Saturday") to that day's
// configuration.
type WorkSchedule map[string]DaySchedule

type Doctor struct {
	ID            string       `json:"id"`
	FullName      string       `json:"full_name"`
	Department    string       `json:"department"`
	WorkSchedule  WorkSchedule `json:"work_schedule"`
	FallbackSlots []string     `json:"fallback_slots"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type Patient struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type Department struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Transfer records a patient moving between departments, e.g. after a
// referral.
type Transfer struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patient_id"`
	FromDepartment string    `json:"from_department"`
	ToDepartment   string    `json:"to_department"`
	Reason         string    `json:"reason"`
	CreatedAt      time.Time `json:"created_at"`
}

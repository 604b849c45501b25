package availability

import (
	"testing"

	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/model"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/schedule"
)

// 2026-02-02 is a Monday.
const monday = "2026-02-02"

func mondayDoctor() *model.Doctor {
	return &model.Doctor{
		ID:       "doc-1",
		FullName: "Dr. Farhana Rahman",
		WorkSchedule: model.WorkSchedule{
			"Monday": {Enabled: true, Slots: []string{"09:00", "09:30", "10:00"}},
		},
	}
}

func scheduledAt(id, slot string) model.Appointment {
	return model.Appointment{
		ID:        id,
		PatientID: "pat-1",
		DoctorRef: "doc-1",
		VisitDate: monday,
		SlotTime:  slot,
		Status:    model.StatusScheduled,
	}
}

func TestAvailableSlots_SubtractsBooked(t *testing.T) {
	appts := []model.Appointment{scheduledAt("a1", "09:30")}
	got := AvailableSlots(mondayDoctor(), monday, appts, "")
	want := []string{"09:00", "10:00"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestAvailableSlots_CancelledFreesSlot(t *testing.T) {
	for _, status := range []string{"cancelled", "Cancelled", "CANCELLED"} {
		appt := scheduledAt("a1", "09:30")
		appt.Status = status
		got := AvailableSlots(mondayDoctor(), monday, []model.Appointment{appt}, "")
		if len(got) != 3 {
			t.Fatalf("status %q: cancelled booking must free its slot, got %v", status, got)
		}
	}
}

func TestAvailableSlots_ExcludeIDIgnoresSelf(t *testing.T) {
	appts := []model.Appointment{scheduledAt("a1", "09:30")}
	got := AvailableSlots(mondayDoctor(), monday, appts, "a1")
	if len(got) != 3 {
		t.Fatalf("excluded appointment must be treated as nonexistent, got %v", got)
	}
}

func TestAvailableSlots_LegacyNameReference(t *testing.T) {
	appt := scheduledAt("a1", "09:30")
	appt.DoctorRef = "dr. farhana rahman" // legacy rows joined on display name
	got := AvailableSlots(mondayDoctor(), monday, []model.Appointment{appt}, "")
	if len(got) != 2 {
		t.Fatalf("legacy name reference must match the doctor, got %v", got)
	}
}

func TestAvailableSlots_AMPMLabelsCompareEqual(t *testing.T) {
	appt := scheduledAt("a1", "09:30 AM")
	got := AvailableSlots(mondayDoctor(), monday, []model.Appointment{appt}, "")
	if len(got) != 2 {
		t.Fatalf("12-hour labeled booking must block the 24-hour slot, got %v", got)
	}
	for _, s := range got {
		if s == "09:30" {
			t.Fatalf("09:30 should be taken, got %v", got)
		}
	}
}

func TestAvailableSlots_OtherDoctorAndDateIgnored(t *testing.T) {
	other := scheduledAt("a1", "09:30")
	other.DoctorRef = "doc-2"
	wrongDay := scheduledAt("a2", "09:00")
	wrongDay.VisitDate = "2026-02-03"
	got := AvailableSlots(mondayDoctor(), monday, []model.Appointment{other, wrongDay}, "")
	if len(got) != 3 {
		t.Fatalf("appointments for other doctors/dates must not subtract, got %v", got)
	}
}

func TestAvailableSlots_MissingInputsYieldEmpty(t *testing.T) {
	if got := AvailableSlots(nil, monday, nil, ""); got != nil {
		t.Fatalf("nil doctor: expected no availability, got %v", got)
	}
	if got := AvailableSlots(mondayDoctor(), "  ", nil, ""); got != nil {
		t.Fatalf("blank date: expected no availability, got %v", got)
	}
}

func TestAvailableSlots_PartitionInvariant(t *testing.T) {
	// available + taken must reconstruct the candidate set.
	doc := mondayDoctor()
	appts := []model.Appointment{
		scheduledAt("a1", "09:30"),
		scheduledAt("a2", "10:00"),
	}
	avail := AvailableSlots(doc, monday, appts, "")

	members := make(map[string]bool)
	for _, s := range avail {
		members[s] = true
	}
	for _, a := range appts {
		members[schedule.Normalize(a.SlotTime)] = true
	}
	for _, s := range schedule.Resolve(doc, monday) {
		if !members[s] {
			t.Fatalf("candidate slot %s is neither available nor taken", s)
		}
	}
}

func TestHasConflict(t *testing.T) {
	appts := []model.Appointment{scheduledAt("a1", "09:30")}
	doc := mondayDoctor()

	if !HasConflict(doc, monday, "09:30", appts, "") {
		t.Fatalf("expected conflict at 09:30")
	}
	if !HasConflict(doc, monday, "09:30 PM", appts, "") {
		t.Fatalf("expected conflict for AM/PM-suffixed target label")
	}
	if HasConflict(doc, monday, "09:30", appts, "a1") {
		t.Fatalf("editing an appointment must not conflict with itself")
	}
	if HasConflict(doc, monday, "09:00", appts, "") {
		t.Fatalf("free slot must not conflict")
	}

	cancelled := scheduledAt("a2", "10:00")
	cancelled.Status = "Cancelled"
	if HasConflict(doc, monday, "10:00", []model.Appointment{cancelled}, "") {
		t.Fatalf("cancelled appointment must not conflict")
	}
}

func TestHasConflict_PermissiveOnMissingInputs(t *testing.T) {
	appts := []model.Appointment{scheduledAt("a1", "09:30")}
	if HasConflict(nil, monday, "09:30", appts, "") {
		t.Fatalf("nil doctor: nothing to conflict with")
	}
	if HasConflict(mondayDoctor(), "", "09:30", appts, "") {
		t.Fatalf("blank date: nothing to conflict with")
	}
	if HasConflict(mondayDoctor(), monday, "", appts, "") {
		t.Fatalf("blank slot: nothing to conflict with")
	}
}

func TestMatchesDoctor(t *testing.T) {
	doc := mondayDoctor()
	if !MatchesDoctor("doc-1", doc) {
		t.Fatalf("id reference must match")
	}
	if !MatchesDoctor("Dr. Farhana Rahman", doc) {
		t.Fatalf("name reference must match")
	}
	if !MatchesDoctor("DR. FARHANA RAHMAN", doc) {
		t.Fatalf("name matching is case-insensitive")
	}
	if MatchesDoctor("doc-2", doc) {
		t.Fatalf("foreign id must not match")
	}
	if MatchesDoctor("", doc) || MatchesDoctor("doc-1", nil) {
		t.Fatalf("blank ref or nil doctor must not match")
	}
}

package lifecycle

import (
	"strings"
	"testing"

	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/model"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"scheduled", "scheduled", true},
		{"Scheduled", "scheduled", true},
		{" COMPLETED ", "completed", true},
		{"Cancelled", "cancelled", true},
		{"pending", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := NormalizeStatus(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("NormalizeStatus(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{"scheduled", "completed"},
		{"scheduled", "cancelled"},
		{"Scheduled", "Cancelled"},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Fatalf("%s -> %s should be allowed", pair[0], pair[1])
		}
	}

	denied := [][2]string{
		{"completed", "cancelled"},
		{"completed", "scheduled"},
		{"cancelled", "completed"},
		{"cancelled", "scheduled"},
		{"scheduled", "scheduled"},
		{"scheduled", "pending"},
		{"pending", "completed"},
	}
	for _, pair := range denied {
		if CanTransition(pair[0], pair[1]) {
			t.Fatalf("%s -> %s should be denied", pair[0], pair[1])
		}
	}
}

func TestProposeWaitlistEntry(t *testing.T) {
	appt := model.Appointment{
		ID:        "a1",
		PatientID: "pat-7",
		DoctorRef: "doc-1",
		VisitDate: "2026-02-02",
		SlotTime:  "09:30",
		Status:    model.StatusScheduled,
	}
	doc := &model.Doctor{ID: "doc-1", FullName: "Dr. Karim", Department: "Cardiology"}

	p := ProposeWaitlistEntry(appt, doc)
	if p.PatientID != "pat-7" {
		t.Fatalf("patient: got %s", p.PatientID)
	}
	if p.Department != "Cardiology" {
		t.Fatalf("department: got %s", p.Department)
	}
	if p.PreferredDate != "2026-02-02" {
		t.Fatalf("preferred date defaults to the cancelled date, got %s", p.PreferredDate)
	}
	if !strings.Contains(p.Notes, "Dr. Karim") || !strings.Contains(p.Notes, "09:30") {
		t.Fatalf("notes must trace doctor and time, got %q", p.Notes)
	}
}

func TestProposeWaitlistEntry_UnknownDepartment(t *testing.T) {
	appt := model.Appointment{PatientID: "pat-7", DoctorRef: "doc-9", VisitDate: "2026-02-02", SlotTime: "09:30"}

	if p := ProposeWaitlistEntry(appt, nil); p.Department != UnknownDepartment {
		t.Fatalf("nil doctor: got department %q", p.Department)
	}
	doc := &model.Doctor{ID: "doc-9", FullName: "Dr. Hasan", Department: "  "}
	if p := ProposeWaitlistEntry(appt, doc); p.Department != UnknownDepartment {
		t.Fatalf("blank department: got %q", p.Department)
	}
}

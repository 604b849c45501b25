package notifier

import (
	"strings"
	"testing"
)

func TestRenderBooked(t *testing.T) {
	evt := AppointmentEvent{
		AppointmentID: "appt-1",
		PatientID:     "pat-1",
		DoctorRef:     "Dr. Farhana Rahman",
		VisitDate:     "2026-02-02",
		SlotTime:      "09:30",
	}
	subject, body, ok := Render(TopicBooked, evt, "Anika")
	if !ok {
		t.Fatalf("expected booked event to render")
	}
	if subject != "Appointment confirmed" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "Hello Anika") {
		t.Fatalf("body missing greeting: %q", body)
	}
	if !strings.Contains(body, "Dr. Farhana Rahman") || !strings.Contains(body, "2026-02-02 at 09:30") {
		t.Fatalf("body missing appointment details: %q", body)
	}
}

func TestRenderCancelledWithoutName(t *testing.T) {
	evt := AppointmentEvent{
		AppointmentID: "appt-2",
		PatientID:     "pat-2",
		DoctorRef:     "doc-1",
		VisitDate:     "2026-02-03",
		SlotTime:      "10:00",
	}
	subject, body, ok := Render(TopicCancelled, evt, "")
	if !ok {
		t.Fatalf("expected cancelled event to render")
	}
	if subject != "Appointment cancelled" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.HasPrefix(body, "Hello,") {
		t.Fatalf("expected generic greeting, got %q", body)
	}
	if !strings.Contains(body, "has been cancelled") {
		t.Fatalf("body missing cancellation text: %q", body)
	}
}

func TestRenderUnknownEventType(t *testing.T) {
	if _, _, ok := Render("directory.doctor.updated.v1", AppointmentEvent{}, ""); ok {
		t.Fatalf("expected unknown event type to be rejected")
	}
}

func TestEventValid(t *testing.T) {
	if (AppointmentEvent{}).Valid() {
		t.Fatalf("empty event should be invalid")
	}
	if !(AppointmentEvent{AppointmentID: "a", PatientID: "p"}).Valid() {
		t.Fatalf("event with ids should be valid")
	}
}

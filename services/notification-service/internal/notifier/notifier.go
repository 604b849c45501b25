// Package notifier turns appointment events into the messages sent to
// patients.
package notifier

import (
	"fmt"
	"strings"
)

const (
	TopicBooked    = "scheduling.appointment.booked.v1"
	TopicCancelled = "scheduling.appointment.cancelled.v1"
)

// AppointmentEvent is the shared shape of booked and cancelled event payloads.
type AppointmentEvent struct {
	AppointmentID string `json:"appointment_id"`
	PatientID     string `json:"patient_id"`
	DoctorRef     string `json:"doctor_ref"`
	VisitDate     string `json:"visit_date"`
	SlotTime      string `json:"slot_time"`
}

func (e AppointmentEvent) Valid() bool {
	return e.AppointmentID != "" && e.PatientID != ""
}

// Render builds subject and body for an appointment event. ok is false for
// event types this service does not notify on.
func Render(eventType string, evt AppointmentEvent, patientName string) (subject string, body string, ok bool) {
	greeting := "Hello"
	if name := strings.TrimSpace(patientName); name != "" {
		greeting = "Hello " + name
	}
	when := fmt.Sprintf("%s at %s", evt.VisitDate, evt.SlotTime)

	switch eventType {
	case TopicBooked:
		subject = "Appointment confirmed"
		body = fmt.Sprintf("%s, your appointment with %s on %s is confirmed.", greeting, evt.DoctorRef, when)
		return subject, body, true
	case TopicCancelled:
		subject = "Appointment cancelled"
		body = fmt.Sprintf("%s, your appointment with %s on %s has been cancelled. Contact the front desk to rebook.", greeting, evt.DoctorRef, when)
		return subject, body, true
	default:
		return "", "", false
	}
}

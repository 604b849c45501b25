// booking-sim drives a local meddesk stack end to end: it creates a doctor
// with a weekly schedule through the directory API, then books a slot through
// the gateway and prints the remaining availability.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

func main() {
	var (
		baseURL = flag.String("base-url", getenv("BASE_URL", "http://localhost:8080"), "gateway base url")
		doctor  = flag.String("doctor", getenv("DOCTOR_NAME", "Dr. Demo Doctor"), "doctor full name")
		dept    = flag.String("department", getenv("DEPARTMENT", "General Medicine"), "doctor department")
		patient = flag.String("patient-id", getenv("PATIENT_ID", ""), "patient id to book for")
		date    = flag.String("date", getenv("VISIT_DATE", ""), "visit date (YYYY-MM-DD), defaults to next Monday")
		slot    = flag.String("slot", getenv("SLOT_TIME", "09:00"), "slot label to book")
	)
	flag.Parse()

	if strings.TrimSpace(*patient) == "" {
		fatal("PATIENT_ID is required")
	}
	visitDate := strings.TrimSpace(*date)
	if visitDate == "" {
		visitDate = nextMonday()
	}

	base := strings.TrimRight(*baseURL, "/")

	doctorID, err := createDoctor(base, *doctor, *dept)
	if err != nil {
		fatal(err.Error())
	}
	fmt.Printf("doctor_id=%s\n", doctorID)

	apptID, err := book(base, *patient, doctorID, visitDate, *slot)
	if err != nil {
		fatal(err.Error())
	}
	fmt.Printf("appointment_id=%s\n", apptID)

	slots, err := freeSlots(base, doctorID, visitDate)
	if err != nil {
		fatal(err.Error())
	}
	fmt.Printf("remaining_slots=%s\n", strings.Join(slots, ","))
}

func createDoctor(base, name, dept string) (string, error) {
	days := map[string]any{}
	for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"} {
		days[day] = map[string]any{
			"enabled": true,
			"slots":   []string{"09:00", "09:30", "10:00", "10:30", "11:00"},
		}
	}
	var resp struct {
		DoctorID string `json:"doctor_id"`
	}
	err := postJSON(base+"/api/v1/doctors", map[string]any{
		"full_name":     name,
		"department":    dept,
		"work_schedule": days,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.DoctorID, nil
}

func book(base, patientID, doctorID, date, slot string) (string, error) {
	var resp struct {
		AppointmentID string `json:"appointment_id"`
	}
	err := postJSON(base+"/api/v1/appointments", map[string]any{
		"patient_id": patientID,
		"doctor":     doctorID,
		"date":       date,
		"time":       slot,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.AppointmentID, nil
}

func freeSlots(base, doctorID, date string) ([]string, error) {
	u := fmt.Sprintf("%s/api/v1/slots?doctor=%s&date=%s", base, url.QueryEscape(doctorID), url.QueryEscape(date))
	resp, err := http.Get(u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", u, resp.StatusCode)
	}
	var body struct {
		Slots []string `json:"slots"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Slots, nil
}

func postJSON(u string, payload any, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := http.Post(u, "application/json", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("POST %s: status %d: %s", u, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func nextMonday() string {
	now := time.Now()
	for now.Weekday() != time.Monday {
		now = now.AddDate(0, 0, 1)
	}
	return now.Format("2006-01-02")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

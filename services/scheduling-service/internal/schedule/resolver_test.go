package schedule

import (
	"testing"

	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/model"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"09:00", "09:00"},
		{"  09:00  ", "09:00"},
		{"09:00 AM", "09:00"},
		{"09:00AM", "09:00"},
		{"02:30 pm", "02:30"},
		{"02:30Pm", "02:30"},
		{"", ""},
		{"AM", ""},
	}
	for _, c := range cases {
		got := Normalize(c.in)
		if got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
		if again := Normalize(got); again != got {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", c.in, got, again)
		}
	}
}

func TestDefaultGrid(t *testing.T) {
	grid := DefaultGrid()
	if len(grid) != 17 {
		t.Fatalf("expected 17 slots, got %d", len(grid))
	}
	if grid[0] != "09:00" {
		t.Fatalf("expected first slot 09:00, got %s", grid[0])
	}
	if grid[len(grid)-1] != "17:00" {
		t.Fatalf("expected last slot 17:00, got %s", grid[len(grid)-1])
	}
	if grid[1] != "09:30" {
		t.Fatalf("expected 30-minute step, got %s after 09:00", grid[1])
	}
}

func TestResolve_EnabledDayVerbatimOrder(t *testing.T) {
	doc := &model.Doctor{
		ID: "d1",
		WorkSchedule: model.WorkSchedule{
			// 2026-02-02 is a Monday.
			"Monday": {Enabled: true, Slots: []string{"10:00", "09:00", "11:30 AM"}},
		},
	}
	got := Resolve(doc, "2026-02-02")
	want := []string{"10:00", "09:00", "11:30"}
	if len(got) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slot %d: got %s, want %s (declared order must be preserved)", i, got[i], want[i])
		}
	}
}

func TestResolve_DisabledDayFallsBackToStaticList(t *testing.T) {
	doc := &model.Doctor{
		ID: "d1",
		WorkSchedule: model.WorkSchedule{
			"Monday": {Enabled: false, Slots: []string{"10:00"}},
		},
		FallbackSlots: []string{"13:00", "14:00"},
	}
	got := Resolve(doc, "2026-02-02")
	if len(got) != 2 || got[0] != "13:00" || got[1] != "14:00" {
		t.Fatalf("expected static fallback slots, got %v", got)
	}
}

func TestResolve_DisabledDayNoFallbackYieldsDefaultGrid(t *testing.T) {
	doc := &model.Doctor{
		ID: "d1",
		WorkSchedule: model.WorkSchedule{
			"Monday": {Enabled: false, Slots: []string{"10:00"}},
		},
	}
	got := Resolve(doc, "2026-02-02")
	if len(got) != 17 {
		t.Fatalf("expected default grid, got %v", got)
	}
}

func TestResolve_MissingWeekdayKeyTreatedAsDisabled(t *testing.T) {
	doc := &model.Doctor{
		ID: "d1",
		WorkSchedule: model.WorkSchedule{
			"Tuesday": {Enabled: true, Slots: []string{"10:00"}},
		},
		FallbackSlots: []string{"08:00"},
	}
	got := Resolve(doc, "2026-02-02") // Monday: not configured
	if len(got) != 1 || got[0] != "08:00" {
		t.Fatalf("expected fallback slots for missing weekday, got %v", got)
	}
}

func TestResolve_EnabledDayEmptySlotsFallsThrough(t *testing.T) {
	doc := &model.Doctor{
		ID: "d1",
		WorkSchedule: model.WorkSchedule{
			"Monday": {Enabled: true, Slots: nil},
		},
		FallbackSlots: []string{"08:00"},
	}
	got := Resolve(doc, "2026-02-02")
	if len(got) != 1 || got[0] != "08:00" {
		t.Fatalf("expected fallback for enabled-but-empty day, got %v", got)
	}
}

func TestResolve_InvalidDateNeverErrors(t *testing.T) {
	doc := &model.Doctor{
		ID: "d1",
		WorkSchedule: model.WorkSchedule{
			"Monday": {Enabled: true, Slots: []string{"10:00"}},
		},
		FallbackSlots: []string{"08:00"},
	}
	for _, date := range []string{"", "not-a-date", "2026-13-45", "02/02/2026"} {
		got := Resolve(doc, date)
		if len(got) != 1 || got[0] != "08:00" {
			t.Fatalf("date %q: expected fallback slots, got %v", date, got)
		}
	}
}

func TestResolve_UnknownDoctorGetsDefaultGrid(t *testing.T) {
	if got := Resolve(nil, "2026-02-02"); len(got) != 17 {
		t.Fatalf("expected default grid for unknown doctor, got %v", got)
	}
	if got := Resolve(&model.Doctor{ID: "d1"}, "2026-02-02"); len(got) != 17 {
		t.Fatalf("expected default grid for unconfigured doctor, got %v", got)
	}
}

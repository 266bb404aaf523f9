package booking

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"09:00", 540, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"9:30", 570, false},
		{"24:00", 0, true},
		{"10:60", 0, true},
		{"banana", 0, true},
	}
	for _, c := range cases {
		got, err := ParseTimeOfDay(c.in)
		if c.wantErr {
			if err == nil {
				t.Fatalf("parse %q: expected error, got %v", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parse %q: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("parse %q: got %d, want %d", c.in, got, c.want)
		}
	}
}

func TestTimeOfDayString(t *testing.T) {
	if got := TimeOfDay(570).String(); got != "09:30" {
		t.Fatalf("got %q, want 09:30", got)
	}
	if got := TimeOfDay(0).String(); got != "00:00" {
		t.Fatalf("got %q, want 00:00", got)
	}
}

func TestTimeOfDayAt(t *testing.T) {
	date := time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC)
	at := TimeOfDay(570).At(date)
	if at.Hour() != 9 || at.Minute() != 30 {
		t.Fatalf("got %v, want 09:30 on the date", at)
	}
	if !sameDate(at, date) {
		t.Fatalf("At moved to a different date: %v", at)
	}
}

func TestStatusTransitions(t *testing.T) {
	for _, terminal := range []Status{StatusCompleted, StatusCancelled} {
		if !terminal.Terminal() {
			t.Fatalf("%s should be terminal", terminal)
		}
		for _, target := range []Status{StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled} {
			if terminal.CanTransitionTo(target) {
				t.Fatalf("%s -> %s should be refused", terminal, target)
			}
		}
	}

	for _, open := range []Status{StatusScheduled, StatusConfirmed} {
		if open.Terminal() {
			t.Fatalf("%s should not be terminal", open)
		}
		if !open.CanTransitionTo(StatusCancelled) {
			t.Fatalf("%s -> CANCELLED should be allowed", open)
		}
		if !open.CanTransitionTo(StatusCompleted) {
			t.Fatalf("%s -> COMPLETED should be allowed", open)
		}
	}

	if Status("NOPE").Valid() {
		t.Fatal("unknown status should be invalid")
	}
}

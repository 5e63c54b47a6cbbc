package plan

import (
	"testing"

	"parkboard/internal/clock"
)

var now = clock.CurrentTime{Year: 2025, Month: 3, Day: 7, Hour: 9}

func TestClassifyToday(t *testing.T) {
	c := Classify("2025-03-07", now)
	if c.Kind != KindToday || c.DayOffset != 0 {
		t.Fatalf("got %+v want today", c)
	}
	// trailing text after the date prefix is ignored
	c = Classify("2025-03-07T00:00:00Z", now)
	if c.Kind != KindToday {
		t.Fatalf("got %+v want today", c)
	}
}

func TestClassifyFuture(t *testing.T) {
	c := Classify("2025-03-12", now)
	if c.Kind != KindFuture {
		t.Fatalf("got %+v want future", c)
	}
	if c.DayOffset != 5 {
		t.Fatalf("day offset = %d want 5", c.DayOffset)
	}
}

func TestClassifyPast(t *testing.T) {
	c := Classify("2020-01-01", now)
	if c.Kind != KindPast {
		t.Fatalf("got %+v want past", c)
	}
	if c.DayOffset != 6 {
		t.Fatalf("day offset = %d want now.Day-1 = 6", c.DayOffset)
	}
}

func TestClassifyMalformed(t *testing.T) {
	for _, text := range []string{"", "soon!", "2025", "2025-3-7", "yyyy-mm-dd", "2025-03-xx"} {
		c := Classify(text, now)
		if c.Kind != KindError || c.DayOffset != 0 {
			t.Errorf("Classify(%q) = %+v want error", text, c)
		}
	}
}

// The comparison is per-field, so the first of next month reads as past with
// a field-only offset. Locked in here so a change to calendar arithmetic is a
// deliberate one.
func TestClassifyMonthBoundaryFieldwise(t *testing.T) {
	eom := clock.CurrentTime{Year: 2025, Month: 3, Day: 31}
	c := Classify("2025-04-01", eom)
	if c.Kind != KindPast {
		t.Fatalf("got %+v want past", c)
	}
	if c.DayOffset != 30 {
		t.Fatalf("day offset = %d want 30", c.DayOffset)
	}
}

func TestSelectCurrent(t *testing.T) {
	plans := []Plan{
		{UserID: "u1", Date: "2025-01-01"},
		{UserID: "u1", Date: "2025-03-07", Current: true},
		{UserID: "u1", Date: "2025-06-01", Current: true},
	}
	p, ok := SelectCurrent(plans)
	if !ok || p.Date != "2025-03-07" {
		t.Fatalf("got %+v,%v want first current plan", p, ok)
	}
	if _, ok := SelectCurrent(nil); ok {
		t.Fatal("expected no current plan")
	}
	if _, ok := SelectCurrent([]Plan{{Date: "2025-01-01"}}); ok {
		t.Fatal("expected no current plan")
	}
}

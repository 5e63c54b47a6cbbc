package schedule

import (
	"testing"

	"parkboard/internal/clock"
)

func TestNextSlotAfterBoundaries(t *testing.T) {
	cases := []struct {
		minutes int
		want    SlotID
		ok      bool
	}{
		{0, Slot1000, true},
		{599, Slot1000, true},
		{600, Slot1045, true},
		{644, Slot1045, true},
		{645, Slot1130, true},
		{780, Slot1345, true},
		{1229, Slot2030, true},
		{1230, Slot2115, true},
		{1274, Slot2115, true},
		{1275, "", false},
		{1440, "", false},
	}
	for _, tc := range cases {
		got, ok := NextSlotAfter(tc.minutes)
		if got != tc.want || ok != tc.ok {
			t.Errorf("NextSlotAfter(%d) = %q,%v want %q,%v", tc.minutes, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNextSlotAfterWholeTable(t *testing.T) {
	for _, w := range Windows() {
		got, ok := NextSlotAfter(w.Upper - 1)
		if !ok || got != w.Slot {
			t.Errorf("NextSlotAfter(%d) = %q,%v want %q", w.Upper-1, got, ok, w.Slot)
		}
	}
}

func TestMinutesUntil(t *testing.T) {
	cases := []struct {
		hour, minute int
		want         int
	}{
		{10, 0, 0},
		{9, 30, 30},
		{10, 30, -30},
	}
	for _, tc := range cases {
		now := clock.CurrentTime{Hour: tc.hour, Minute: tc.minute}
		got, err := MinutesUntil(Slot1000, now)
		if err != nil {
			t.Fatalf("MinutesUntil: %v", err)
		}
		if got != tc.want {
			t.Errorf("MinutesUntil(event_1000, %02d:%02d) = %d want %d", tc.hour, tc.minute, got, tc.want)
		}
	}
}

func TestStartMinutes(t *testing.T) {
	m, err := StartMinutes(Slot2115)
	if err != nil {
		t.Fatalf("StartMinutes: %v", err)
	}
	if m != 21*60+15 {
		t.Errorf("StartMinutes(event_2115) = %d want %d", m, 21*60+15)
	}
	if _, err := StartMinutes("event_bad"); err == nil {
		t.Error("expected error for malformed slot id")
	}
	if _, err := StartMinutes("nounderscore"); err == nil {
		t.Error("expected error for slot id without suffix")
	}
}

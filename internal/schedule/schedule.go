package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"parkboard/internal/clock"
)

// SlotID identifies a scheduling window by its nominal start time (HHMM).
type SlotID string

const (
	Slot1000 SlotID = "event_1000"
	Slot1045 SlotID = "event_1045"
	Slot1130 SlotID = "event_1130"
	Slot1215 SlotID = "event_1215"
	Slot1300 SlotID = "event_1300"
	Slot1345 SlotID = "event_1345"
	Slot1430 SlotID = "event_1430"
	Slot1515 SlotID = "event_1515"
	Slot1600 SlotID = "event_1600"
	Slot1645 SlotID = "event_1645"
	Slot1730 SlotID = "event_1730"
	Slot1815 SlotID = "event_1815"
	Slot1900 SlotID = "event_1900"
	Slot1945 SlotID = "event_1945"
	Slot2030 SlotID = "event_2030"
	Slot2115 SlotID = "event_2115"
)

// Window maps a strict upper bound in minutes-of-day to the slot whose
// window opens there.
type Window struct {
	Upper int    `json:"upper"`
	Slot  SlotID `json:"slot"`
}

// slotTable is ordered ascending; NextSlotAfter returns the first entry whose
// upper bound strictly exceeds the input.
var slotTable = []Window{
	{600, Slot1000},
	{645, Slot1045},
	{690, Slot1130},
	{735, Slot1215},
	{780, Slot1300},
	{825, Slot1345},
	{870, Slot1430},
	{915, Slot1515},
	{960, Slot1600},
	{1005, Slot1645},
	{1050, Slot1730},
	{1095, Slot1815},
	{1140, Slot1900},
	{1185, Slot1945},
	{1230, Slot2030},
	{1275, Slot2115},
}

// NextSlotAfter returns the next slot for the given minutes-of-day. The second
// return value is false when no slot window opens later in the day.
func NextSlotAfter(minutesOfDay int) (SlotID, bool) {
	for _, w := range slotTable {
		if minutesOfDay < w.Upper {
			return w.Slot, true
		}
	}
	return "", false
}

// NextSlotFor is NextSlotAfter keyed on a clock snapshot.
func NextSlotFor(now clock.CurrentTime) (SlotID, bool) {
	return NextSlotAfter(now.MinutesOfDay())
}

// StartMinutes parses the HHMM suffix of a slot id into minutes-of-day.
func StartMinutes(slot SlotID) (int, error) {
	s := string(slot)
	i := strings.LastIndex(s, "_")
	if i < 0 || len(s)-i-1 != 4 {
		return 0, fmt.Errorf("malformed slot id %q", slot)
	}
	hh, err := strconv.Atoi(s[i+1 : i+3])
	if err != nil {
		return 0, fmt.Errorf("malformed slot id %q", slot)
	}
	mm, err := strconv.Atoi(s[i+3:])
	if err != nil {
		return 0, fmt.Errorf("malformed slot id %q", slot)
	}
	return hh*60 + mm, nil
}

// MinutesUntil returns the signed distance from now to the slot's nominal
// start. Negative when now is already past the start.
func MinutesUntil(slot SlotID, now clock.CurrentTime) (int, error) {
	start, err := StartMinutes(slot)
	if err != nil {
		return 0, err
	}
	return start - now.MinutesOfDay(), nil
}

// Windows returns a copy of the slot table in ascending order.
func Windows() []Window {
	out := make([]Window, len(slotTable))
	copy(out, slotTable)
	return out
}

package plan

import (
	"strconv"

	"parkboard/internal/activity"
	"parkboard/internal/clock"
)

// Plan is a user's itinerary record for a single date. Slot keys follow the
// schedule slot ids; a missing key means no activity is booked for that slot.
type Plan struct {
	UserID  string                  `json:"user_id"`
	Date    string                  `json:"date"`
	Current bool                    `json:"current_plan"`
	Slots   map[string]activity.Ref `json:"slots,omitempty"`
}

// SelectCurrent returns the first plan flagged current_plan.
func SelectCurrent(plans []Plan) (Plan, bool) {
	for _, p := range plans {
		if p.Current {
			return p, true
		}
	}
	return Plan{}, false
}

// Kind classifies a plan date relative to now.
type Kind string

const (
	KindPast   Kind = "past"
	KindToday  Kind = "today"
	KindFuture Kind = "future"
	KindError  Kind = "error"
)

// Classification is the result of comparing a plan date to the clock.
type Classification struct {
	Kind      Kind `json:"kind"`
	DayOffset int  `json:"day_offset"`
}

// Classify compares the plan date text (YYYY-MM-DD prefix) to now, field by
// field. Unparsable input degrades to KindError instead of failing.
//
// The comparison and day offset are per-field, not calendar arithmetic: day
// 31 against day 1 of the next month classifies as past with a wrong offset.
// Callers depend on this exact behavior.
func Classify(dateText string, now clock.CurrentTime) Classification {
	if len(dateText) < 10 {
		return Classification{Kind: KindError}
	}
	year, err := strconv.Atoi(dateText[0:4])
	if err != nil {
		return Classification{Kind: KindError}
	}
	month, err := strconv.Atoi(dateText[5:7])
	if err != nil {
		return Classification{Kind: KindError}
	}
	day, err := strconv.Atoi(dateText[8:10])
	if err != nil {
		return Classification{Kind: KindError}
	}
	switch {
	case year == now.Year && month == now.Month && day == now.Day:
		return Classification{Kind: KindToday}
	case year >= now.Year && month >= now.Month && day >= now.Day:
		return Classification{Kind: KindFuture, DayOffset: day - now.Day}
	default:
		return Classification{Kind: KindPast, DayOffset: now.Day - day}
	}
}

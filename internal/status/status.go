package status

import (
	"context"
	"fmt"

	"parkboard/internal/activity"
	"parkboard/internal/clock"
	"parkboard/internal/plan"
	"parkboard/internal/schedule"
)

// State is the terminal state of a resolution cycle.
type State string

const (
	StateNoPlan State = "no_plan"
	StatePast   State = "past"
	StateToday  State = "today"
	StateFuture State = "future"
	StateError  State = "error"
)

// Payload is the 4-line display content produced each cycle. Lines are not
// truncated here; width limits belong to the display surface.
type Payload struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
	Line3 string `json:"line3"`
	Line4 string `json:"line4"`
}

// Lines returns the payload in render order.
func (p Payload) Lines() [4]string {
	return [4]string{p.Line1, p.Line2, p.Line3, p.Line4}
}

const (
	placeholderName = "Guest"
	unknownTimeLine = "(time unknown)"
	errorIndicator  = "ERROR"
)

// PlanSource fetches the user's plans and display name from the record store.
type PlanSource interface {
	ListPlans(ctx context.Context, userID string) ([]plan.Plan, error)
	DisplayName(ctx context.Context, userID string) (string, error)
}

// Composer assembles a display payload from one cycle's inputs. All fetch and
// parse failures degrade to fixed error text; Compose never fails outright.
type Composer struct {
	Plans      PlanSource
	Activities activity.Lookup
	Clock      clock.Source
	UserID     string
}

// Result carries the payload plus the intermediate resolution facts for
// logging and history.
type Result struct {
	State          State
	Payload        Payload
	Classification plan.Classification
	Slot           schedule.SlotID
	MinutesUntil   int
	Cause          error
}

// Compose runs one resolution cycle: select the current plan, classify its
// date, and assemble the four display lines.
func (c Composer) Compose(ctx context.Context) Result {
	now, nowErr := c.Clock.Now()
	res := Result{}
	res.Payload.Line1 = c.composeLine1(ctx, now, nowErr)

	plans, err := c.Plans.ListPlans(ctx, c.UserID)
	if err != nil {
		return c.errorResult(res, err)
	}
	p, ok := plan.SelectCurrent(plans)
	if !ok {
		res.State = StateNoPlan
		res.Payload.Line2 = "No current plan"
		return res
	}
	if nowErr != nil {
		return c.errorResult(res, fmt.Errorf("clock unavailable: %w", nowErr))
	}

	cls := plan.Classify(p.Date, now)
	res.Classification = cls
	switch cls.Kind {
	case plan.KindError:
		return c.errorResult(res, fmt.Errorf("unparsable plan date %q", p.Date))
	case plan.KindPast:
		res.State = StatePast
		res.Payload.Line2 = "Your Trip Was"
		res.Payload.Line3 = fmt.Sprintf("%d days", cls.DayOffset)
		res.Payload.Line4 = "ago :("
		return res
	case plan.KindFuture:
		res.State = StateFuture
		res.Payload.Line2 = "Your Trip Is In"
		res.Payload.Line3 = fmt.Sprintf("%d days", cls.DayOffset)
		res.Payload.Line4 = "woohoo!"
		return res
	}
	return c.composeToday(ctx, res, p, now)
}

// composeToday resolves the next slot and its activity. Any failure past this
// point keeps line1 and substitutes the error indicator for lines 2-4.
func (c Composer) composeToday(ctx context.Context, res Result, p plan.Plan, now clock.CurrentTime) Result {
	slot, ok := schedule.NextSlotFor(now)
	if !ok {
		return c.errorResult(res, fmt.Errorf("no more slots today"))
	}
	res.Slot = slot
	ref, booked := p.Slots[string(slot)]
	if !booked {
		return c.errorResult(res, fmt.Errorf("no activity booked for slot %s", slot))
	}
	details, err := c.Activities.Resolve(ctx, ref)
	if err != nil {
		return c.errorResult(res, err)
	}
	minutes, err := schedule.MinutesUntil(slot, now)
	if err != nil {
		return c.errorResult(res, err)
	}
	res.MinutesUntil = minutes
	if minutes < 0 {
		minutes = -minutes
	}
	res.State = StateToday
	res.Payload.Line2 = details.Name
	res.Payload.Line3 = fmt.Sprintf("%d minutes", minutes)
	res.Payload.Line4 = "in " + details.Location
	return res
}

func (c Composer) composeLine1(ctx context.Context, now clock.CurrentTime, nowErr error) string {
	name, err := c.Plans.DisplayName(ctx, c.UserID)
	if err != nil || name == "" {
		name = placeholderName
	}
	if nowErr != nil {
		return unknownTimeLine
	}
	return fmt.Sprintf("%s %s %s", name, now.ShortDate(), now.Clock12())
}

func (c Composer) errorResult(res Result, cause error) Result {
	res.State = StateError
	res.Cause = cause
	res.Payload.Line2 = errorIndicator
	res.Payload.Line3 = errorIndicator
	res.Payload.Line4 = errorIndicator
	return res
}

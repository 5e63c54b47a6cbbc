package clock

import (
	"fmt"
	"time"
)

// CurrentTime is a wall-clock snapshot captured once per cycle.
type CurrentTime struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// MinutesOfDay returns minutes elapsed since midnight.
func (t CurrentTime) MinutesOfDay() int {
	return t.Hour*60 + t.Minute
}

// ShortDate formats the snapshot as MM/DD.
func (t CurrentTime) ShortDate() string {
	return fmt.Sprintf("%02d/%02d", t.Month, t.Day)
}

// Clock12 formats the snapshot as 12-hour time, e.g. "9:05 AM".
func (t CurrentTime) Clock12() string {
	hour12 := t.Hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	ampm := "AM"
	if t.Hour >= 12 {
		ampm = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour12, t.Minute, ampm)
}

// FromTime converts a time.Time into a snapshot.
func FromTime(t time.Time) CurrentTime {
	return CurrentTime{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// Source yields the current wall-clock time. Implementations may fail when
// the clock has not been synchronized yet.
type Source interface {
	Now() (CurrentTime, error)
}

// SystemSource reads the OS clock in a fixed location.
type SystemSource struct {
	Location *time.Location
	Clock    func() time.Time
}

// NewSystemSource resolves the timezone name and returns a system clock source.
func NewSystemSource(timezone string) (*SystemSource, error) {
	if timezone == "" {
		return &SystemSource{Location: time.Local}, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", timezone, err)
	}
	return &SystemSource{Location: loc}, nil
}

func (s *SystemSource) Now() (CurrentTime, error) {
	now := time.Now
	if s.Clock != nil {
		now = s.Clock
	}
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return FromTime(now().In(loc)), nil
}

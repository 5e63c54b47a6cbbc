package kiosk

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"parkboard/internal/display"
	"parkboard/internal/history"
	"parkboard/internal/status"
)

// Engine drives the poll loop: one full resolution cycle at a time, recorded
// to history and pushed to the display surface.
type Engine struct {
	DB       *sql.DB
	History  history.Repo
	Events   history.EventWriter
	Composer status.Composer
	Display  display.Surface
	Log      zerolog.Logger
	Interval time.Duration
	Now      func() time.Time
}

func New(db *sql.DB, composer status.Composer, surface display.Surface, interval time.Duration, log zerolog.Logger) *Engine {
	return &Engine{
		DB:       db,
		History:  history.Repo{DB: db},
		Events:   history.EventWriter{DB: db},
		Composer: composer,
		Display:  surface,
		Log:      log,
		Interval: interval,
		Now:      time.Now,
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Cycle runs a single resolution cycle, records it, and renders the payload.
// The composer always yields a renderable payload; Cycle only fails on
// persistence or render errors.
func (e *Engine) Cycle(ctx context.Context) (status.Result, error) {
	res := e.Composer.Compose(ctx)
	if err := e.record(ctx, res); err != nil {
		return res, fmt.Errorf("record cycle: %w", err)
	}
	if e.Display != nil {
		if err := e.Display.Render(res.Payload); err != nil {
			return res, fmt.Errorf("render payload: %w", err)
		}
	}
	return res, nil
}

func (e *Engine) record(ctx context.Context, res status.Result) error {
	if e.DB == nil {
		return nil
	}
	c := history.Cycle{
		ID:     uuid.New().String(),
		TS:     e.now().UTC().Format(time.RFC3339),
		UserID: e.Composer.UserID,
		State:  string(res.State),
		Line1:  res.Payload.Line1,
		Line2:  res.Payload.Line2,
		Line3:  res.Payload.Line3,
		Line4:  res.Payload.Line4,
		Slot:   string(res.Slot),
	}
	switch res.State {
	case status.StatePast, status.StateFuture:
		off := res.Classification.DayOffset
		c.DayOffset = &off
	}
	if res.Cause != nil {
		c.Cause = res.Cause.Error()
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.History.InsertCycle(ctx, tx, c); err != nil {
		return err
	}
	payload := history.EventPayload{"state": c.State}
	if c.Cause != "" {
		payload["cause"] = c.Cause
	}
	if err := e.Events.Append(ctx, tx, "cycle.completed", c.ID, payload); err != nil {
		return err
	}
	return tx.Commit()
}

// Run polls until the context is canceled. Cycle failures are logged, never
// fatal; the loop always continues after the fixed delay.
func (e *Engine) Run(ctx context.Context) error {
	interval := e.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	e.Log.Info().Dur("interval", interval).Str("user_id", e.Composer.UserID).Msg("kiosk loop starting")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		res, err := e.Cycle(ctx)
		if err != nil {
			e.Log.Error().Err(err).Msg("cycle failed")
		} else {
			evt := e.Log.Info().Str("state", string(res.State)).Str("line1", res.Payload.Line1)
			if res.Cause != nil {
				evt = evt.Str("cause", res.Cause.Error())
			}
			evt.Msg("cycle completed")
		}
		select {
		case <-ctx.Done():
			e.Log.Info().Msg("kiosk loop stopping")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

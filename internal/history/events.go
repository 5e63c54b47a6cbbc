package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// EventWriter appends kiosk lifecycle events alongside cycle rows.
type EventWriter struct {
	DB  *sql.DB
	Now func() time.Time
}

type EventPayload map[string]any

func (w EventWriter) Append(ctx context.Context, tx *sql.Tx, evtType, cycleID string, payload EventPayload) error {
	if w.Now == nil {
		w.Now = time.Now
	}
	ts := w.Now().UTC().Format(time.RFC3339)
	if payload == nil {
		payload = EventPayload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO events(ts,type,cycle_id,payload_json) VALUES (?,?,?,?)`,
		ts, evtType, nullable(cycleID), string(data))
	return err
}

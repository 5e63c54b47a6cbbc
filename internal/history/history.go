package history

import (
	"context"
	"database/sql"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Cycle is one recorded resolution cycle.
type Cycle struct {
	ID        string `json:"id"`
	TS        string `json:"ts" format:"date-time"`
	UserID    string `json:"user_id"`
	State     string `json:"state" enum:"no_plan,past,today,future,error"`
	Line1     string `json:"line1"`
	Line2     string `json:"line2"`
	Line3     string `json:"line3"`
	Line4     string `json:"line4"`
	DayOffset *int   `json:"day_offset,omitempty"`
	Slot      string `json:"slot,omitempty"`
	Cause     string `json:"cause,omitempty"`
}

// Repo persists cycle history.
type Repo struct {
	DB *sql.DB
}

func (r Repo) InsertCycle(ctx context.Context, tx *sql.Tx, c Cycle) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO cycles(id,ts,user_id,state,line1,line2,line3,line4,day_offset,slot,cause) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		c.ID, c.TS, c.UserID, c.State, c.Line1, c.Line2, c.Line3, c.Line4, c.DayOffset, nullable(c.Slot), nullable(c.Cause))
	return err
}

func scanCycle(scan func(dest ...any) error) (Cycle, error) {
	var c Cycle
	var dayOffset sql.NullInt64
	var slot, cause sql.NullString
	err := scan(&c.ID, &c.TS, &c.UserID, &c.State, &c.Line1, &c.Line2, &c.Line3, &c.Line4, &dayOffset, &slot, &cause)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	if err != nil {
		return c, err
	}
	if dayOffset.Valid {
		v := int(dayOffset.Int64)
		c.DayOffset = &v
	}
	c.Slot = slot.String
	c.Cause = cause.String
	return c, nil
}

const cycleColumns = `id,ts,user_id,state,line1,line2,line3,line4,day_offset,slot,cause`

// Latest returns the most recently recorded cycle.
func (r Repo) Latest(ctx context.Context) (Cycle, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+cycleColumns+` FROM cycles ORDER BY ts DESC, rowid DESC LIMIT 1`)
	return scanCycle(row.Scan)
}

// List returns recent cycles, newest first.
func (r Repo) List(ctx context.Context, limit int) ([]Cycle, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT `+cycleColumns+` FROM cycles ORDER BY ts DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Cycle
	for rows.Next() {
		c, err := scanCycle(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

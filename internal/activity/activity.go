package activity

import (
	"context"
	"fmt"
)

// Category tags the kind of point of interest an activity refers to.
type Category string

const (
	CategoryShops   Category = "Shops"
	CategoryRides   Category = "Rides"
	CategoryDining  Category = "Dining"
	CategoryShows   Category = "Shows"
	CategoryAnimals Category = "Animals"
)

// Ref is the activity reference embedded in a plan slot. The full record is
// fetched on demand from the category's table.
type Ref struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
}

// Record is a raw row returned by the record store.
type Record map[string]any

// Details is the resolved display information for an activity.
type Details struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Source fetches records from a named table filtered by id.
type Source interface {
	FetchRecords(ctx context.Context, table, id string) ([]Record, error)
}

// UnsupportedCategoryError reports a category outside the dispatch table.
type UnsupportedCategoryError struct {
	Category Category
}

func (e UnsupportedCategoryError) Error() string {
	return fmt.Sprintf("unsupported activity category %q", e.Category)
}

// MalformedActivityError reports an activity reference missing required fields.
type MalformedActivityError struct {
	Reason string
}

func (e MalformedActivityError) Error() string {
	return fmt.Sprintf("malformed activity reference: %s", e.Reason)
}

// NotFoundError reports an empty or failed id-filtered fetch.
type NotFoundError struct {
	Table string
	ID    string
	Cause error
}

func (e NotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("activity %s not found in %s: %v", e.ID, e.Table, e.Cause)
	}
	return fmt.Sprintf("activity %s not found in %s", e.ID, e.Table)
}

func (e NotFoundError) Unwrap() error { return e.Cause }

type binding struct {
	table     string
	nameField string
}

// bindings is the closed category dispatch table; adding a category is a
// table edit.
var bindings = map[Category]binding{
	CategoryShops:   {table: "shops", nameField: "shop_name"},
	CategoryRides:   {table: "rides", nameField: "ride_name"},
	CategoryDining:  {table: "dining", nameField: "dining_name"},
	CategoryShows:   {table: "shows", nameField: "show_name"},
	CategoryAnimals: {table: "animals", nameField: "habitat_name"},
}

// Lookup resolves activity references against the record store.
type Lookup struct {
	Source Source
}

// Resolve fetches the activity's record and maps it to display details.
// Absent name/location fields degrade to empty strings; only a missing record
// or transport failure is a hard error.
func (l Lookup) Resolve(ctx context.Context, ref Ref) (Details, error) {
	b, ok := bindings[ref.Category]
	if !ok {
		return Details{}, UnsupportedCategoryError{Category: ref.Category}
	}
	if ref.ID == "" {
		return Details{}, MalformedActivityError{Reason: "id is required"}
	}
	recs, err := l.Source.FetchRecords(ctx, b.table, ref.ID)
	if err != nil {
		return Details{}, NotFoundError{Table: b.table, ID: ref.ID, Cause: err}
	}
	if len(recs) == 0 {
		return Details{}, NotFoundError{Table: b.table, ID: ref.ID}
	}
	rec := recs[0]
	return Details{
		Name:     stringField(rec, b.nameField),
		Location: stringField(rec, "location"),
	}, nil
}

// Table returns the record-store table backing a category.
func Table(c Category) (string, bool) {
	b, ok := bindings[c]
	return b.table, ok
}

func stringField(rec Record, key string) string {
	v, ok := rec[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

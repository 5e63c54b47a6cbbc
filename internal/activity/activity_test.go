package activity

import (
	"context"
	"errors"
	"testing"
)

type stubSource struct {
	recs      []Record
	err       error
	calls     int
	lastTable string
	lastID    string
}

func (s *stubSource) FetchRecords(ctx context.Context, table, id string) ([]Record, error) {
	s.calls++
	s.lastTable = table
	s.lastID = id
	return s.recs, s.err
}

func TestResolveDispatch(t *testing.T) {
	cases := []struct {
		category  Category
		nameField string
		table     string
	}{
		{CategoryShops, "shop_name", "shops"},
		{CategoryRides, "ride_name", "rides"},
		{CategoryDining, "dining_name", "dining"},
		{CategoryShows, "show_name", "shows"},
		{CategoryAnimals, "habitat_name", "animals"},
	}
	for _, tc := range cases {
		src := &stubSource{recs: []Record{{tc.nameField: "Name", "location": "Somewhere"}}}
		l := Lookup{Source: src}
		d, err := l.Resolve(context.Background(), Ref{ID: "a1", Category: tc.category})
		if err != nil {
			t.Fatalf("%s: %v", tc.category, err)
		}
		if src.lastTable != tc.table || src.lastID != "a1" {
			t.Errorf("%s: fetched %s/%s want %s/a1", tc.category, src.lastTable, src.lastID, tc.table)
		}
		if d.Name != "Name" || d.Location != "Somewhere" {
			t.Errorf("%s: got %+v", tc.category, d)
		}
	}
}

func TestResolveUnsupportedCategory(t *testing.T) {
	src := &stubSource{}
	l := Lookup{Source: src}
	_, err := l.Resolve(context.Background(), Ref{ID: "a1", Category: "Parades"})
	var uce UnsupportedCategoryError
	if !errors.As(err, &uce) {
		t.Fatalf("got %v want UnsupportedCategoryError", err)
	}
	if src.calls != 0 {
		t.Fatalf("fetch issued for unsupported category")
	}
}

func TestResolveMissingID(t *testing.T) {
	src := &stubSource{}
	l := Lookup{Source: src}
	_, err := l.Resolve(context.Background(), Ref{Category: CategoryRides})
	var mae MalformedActivityError
	if !errors.As(err, &mae) {
		t.Fatalf("got %v want MalformedActivityError", err)
	}
	if src.calls != 0 {
		t.Fatalf("fetch issued for malformed reference")
	}
}

func TestResolveNotFound(t *testing.T) {
	l := Lookup{Source: &stubSource{}}
	_, err := l.Resolve(context.Background(), Ref{ID: "missing", Category: CategoryShows})
	var nfe NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("got %v want NotFoundError", err)
	}
	if nfe.Table != "shows" || nfe.ID != "missing" {
		t.Fatalf("got %+v", nfe)
	}
}

func TestResolveTransportFailure(t *testing.T) {
	cause := errors.New("connection refused")
	l := Lookup{Source: &stubSource{err: cause}}
	_, err := l.Resolve(context.Background(), Ref{ID: "a1", Category: CategoryDining})
	var nfe NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("got %v want NotFoundError", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not preserved: %v", err)
	}
}

func TestResolveTolerantFields(t *testing.T) {
	l := Lookup{Source: &stubSource{recs: []Record{{"unrelated": 42}}}}
	d, err := l.Resolve(context.Background(), Ref{ID: "a1", Category: CategoryAnimals})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if d.Name != "" || d.Location != "" {
		t.Fatalf("got %+v want empty details", d)
	}
}

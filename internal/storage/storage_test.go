package storage

import (
	"errors"
	"testing"

	"github.com/dukerupert/spesa/internal/database"
)

type recordingReporter struct {
	errs []error
}

func (r *recordingReporter) Report(err error) {
	r.errs = append(r.errs, err)
}

func newSQLiteAdapter(t *testing.T) *SQLite {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLite(db)
}

func TestSQLiteAdapterRoundTrip(t *testing.T) {
	adapter := newSQLiteAdapter(t)

	if data, err := adapter.Load("shoppingLists"); err != nil || data != nil {
		t.Fatalf("Load of unsaved key = %v, %v; want nil, nil", data, err)
	}

	if err := adapter.Save("shoppingLists", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := adapter.Load("shoppingLists")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != `[{"id":"a"}]` {
		t.Errorf("loaded %q", data)
	}

	// Saving again overwrites.
	if err := adapter.Save("shoppingLists", []byte(`[]`)); err != nil {
		t.Fatalf("save overwrite: %v", err)
	}
	data, _ = adapter.Load("shoppingLists")
	if string(data) != `[]` {
		t.Errorf("after overwrite loaded %q", data)
	}
}

func TestMemoryAdapterIsolatesCallers(t *testing.T) {
	adapter := NewMemory()
	value := []byte("abc")
	if err := adapter.Save("k", value); err != nil {
		t.Fatalf("save: %v", err)
	}
	value[0] = 'x'

	got, _ := adapter.Load("k")
	if string(got) != "abc" {
		t.Errorf("stored value mutated through caller slice: %q", got)
	}
}

type failingAdapter struct {
	loadErr error
	saveErr error
}

func (f *failingAdapter) Load(string) ([]byte, error) { return nil, f.loadErr }
func (f *failingAdapter) Save(string, []byte) error   { return f.saveErr }

func TestSnapshotsReportsAndSwallows(t *testing.T) {
	reporter := &recordingReporter{}
	s := NewSnapshots(&failingAdapter{
		loadErr: errors.New("read fault"),
		saveErr: errors.New("write fault"),
	}, reporter)

	var v []string
	if s.Load("k", &v) {
		t.Error("Load on failing adapter should report absent")
	}
	s.Save("k", []string{"a"})

	if len(reporter.errs) != 2 {
		t.Fatalf("reported %d faults, want 2", len(reporter.errs))
	}
}

func TestSnapshotsDecodeFailureIsAbsent(t *testing.T) {
	adapter := NewMemory()
	adapter.Save("k", []byte("{broken"))
	reporter := &recordingReporter{}
	s := NewSnapshots(adapter, reporter)

	var v map[string]string
	if s.Load("k", &v) {
		t.Error("Load of corrupt snapshot should report absent")
	}
	if len(reporter.errs) != 1 {
		t.Errorf("reported %d faults, want 1", len(reporter.errs))
	}
}

func TestSnapshotsRoundTrip(t *testing.T) {
	s := NewSnapshots(NewMemory(), &recordingReporter{})

	type pair struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	s.Save("k", []pair{{ID: "1", Name: "a"}})

	var got []pair
	if !s.Load("k", &got) {
		t.Fatal("expected saved snapshot")
	}
	if len(got) != 1 || got[0] != (pair{ID: "1", Name: "a"}) {
		t.Errorf("got %v", got)
	}
}

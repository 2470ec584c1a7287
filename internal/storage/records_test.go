package storage

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pixil98/go-testutil"
)

// mockRecord implements Record for testing RecordStore
type mockRecord struct {
	Name  string `json:"name" yaml:"name"`
	Level string `json:"level" yaml:"level"`
	Score int    `json:"score" yaml:"score"`
}

func (r *mockRecord) RecordName() string {
	return r.Name
}

func newTestStore(t *testing.T, ser Serializer) *RecordStore[*mockRecord] {
	t.Helper()
	store, err := NewRecordStore[*mockRecord](t.TempDir(), ser)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	return store
}

func collectSaves(t *testing.T, store *RecordStore[*mockRecord]) []string {
	t.Helper()
	var names []string
	for name, err := range store.ListSaves() {
		if err != nil {
			t.Fatalf("unexpected error listing saves: %v", err)
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func TestNewRecordStore_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "saves")

	store, err := NewRecordStore[*mockRecord](path, JSONSerializer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected directory to exist: %v", err)
	}
	testutil.AssertEqual(t, "is dir", info.IsDir(), true)
	testutil.AssertEqual(t, "path", store.Path(), path)
}

func TestRecordStore_SaveLoad(t *testing.T) {
	tests := map[string]struct {
		ser     Serializer
		expFile string
	}{
		"json": {ser: JSONSerializer{}, expFile: "Slot One.json"},
		"yaml": {ser: YAMLSerializer{}, expFile: "Slot One.yaml"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store := newTestStore(t, tt.ser)
			in := &mockRecord{Name: "Slot One", Level: "Caves", Score: 12}

			if err := store.Save(in, true); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if _, err := os.Stat(filepath.Join(store.Path(), tt.expFile)); err != nil {
				t.Fatalf("expected %s to exist: %v", tt.expFile, err)
			}

			out, err := store.Load("Slot One")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "record", *out, *in)
		})
	}
}

func TestRecordStore_Save_OverwriteGuard(t *testing.T) {
	store := newTestStore(t, JSONSerializer{})

	if err := store.Save(&mockRecord{Name: "slot", Score: 1}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fp := filepath.Join(store.Path(), "slot.json")
	before, err := os.ReadFile(fp)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}

	err = store.Save(&mockRecord{Name: "slot", Score: 2}, false)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	testutil.AssertErrorContains(t, err, "slot.json")

	after, err := os.ReadFile(fp)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	testutil.AssertEqual(t, "content unchanged", string(after), string(before))

	err = store.Save(&mockRecord{Name: "slot", Score: 3}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := store.Load("slot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "score", out.Score, 3)
}

func TestRecordStore_Save_InvalidName(t *testing.T) {
	tests := map[string]struct {
		name string
	}{
		"empty":      {name: ""},
		"whitespace": {name: "   "},
		"separator":  {name: "../escape"},
		"backslash":  {name: `a\b`},
		"dot dot":    {name: ".."},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store := newTestStore(t, JSONSerializer{})
			err := store.Save(&mockRecord{Name: tt.name}, true)
			if !errors.Is(err, ErrInvalidName) {
				t.Errorf("expected ErrInvalidName, got %v", err)
			}
			testutil.AssertEqual(t, "saves", len(collectSaves(t, store)), 0)
		})
	}
}

func TestRecordStore_Load_Errors(t *testing.T) {
	tests := map[string]struct {
		content *string
		expErr  error
	}{
		"missing file": {
			content: nil,
			expErr:  ErrNotFound,
		},
		"invalid json": {
			content: ptr(`{invalid json`),
			expErr:  ErrCorruptData,
		},
		"null document": {
			content: ptr(`null`),
			expErr:  ErrCorruptData,
		},
		"wrong field type": {
			content: ptr(`{"name":"x","score":"many"}`),
			expErr:  ErrCorruptData,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store := newTestStore(t, JSONSerializer{})
			if tt.content != nil {
				err := os.WriteFile(filepath.Join(store.Path(), "target.json"), []byte(*tt.content), 0644)
				if err != nil {
					t.Fatalf("failed to write test file: %v", err)
				}
			}

			_, err := store.Load("target")
			if !errors.Is(err, tt.expErr) {
				t.Fatalf("expected %v, got %v", tt.expErr, err)
			}
		})
	}
}

func TestRecordStore_Load_MissingHasNoSideEffect(t *testing.T) {
	store := newTestStore(t, JSONSerializer{})

	_, err := store.Load("ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	entries, err := os.ReadDir(store.Path())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "entries", len(entries), 0)
}

func TestRecordStore_Load_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	store := newTestStore(t, JSONSerializer{})
	if err := store.Save(&mockRecord{Name: "locked"}, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fp := filepath.Join(store.Path(), "locked.json")
	if err := os.Chmod(fp, 0000); err != nil {
		t.Fatalf("failed to chmod: %v", err)
	}

	_, err := store.Load("locked")
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestRecordStore_Delete(t *testing.T) {
	store := newTestStore(t, JSONSerializer{})
	for _, n := range []string{"keep", "drop"} {
		if err := store.Save(&mockRecord{Name: n}, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := store.Delete("drop"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSaves(t, store, "keep")

	// Deleting again, or deleting something never saved, is a no-op.
	if err := store.Delete("drop"); err != nil {
		t.Errorf("unexpected error on repeated delete: %v", err)
	}
	if err := store.Delete("never-existed"); err != nil {
		t.Errorf("unexpected error deleting missing record: %v", err)
	}
	assertSaves(t, store, "keep")
}

func TestRecordStore_ListSaves(t *testing.T) {
	store := newTestStore(t, JSONSerializer{})
	for _, n := range []string{"A", "B", "C"} {
		if err := store.Save(&mockRecord{Name: n}, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := store.Delete("B"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Non-record files and directories are not saves.
	if err := os.WriteFile(filepath.Join(store.Path(), "notes.txt"), []byte("hi"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if err := os.Mkdir(filepath.Join(store.Path(), "dir.json"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	assertSaves(t, store, "A", "C")

	// Each call rescans.
	if err := store.Save(&mockRecord{Name: "D"}, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSaves(t, store, "A", "C", "D")
}

func TestRecordStore_ListSaves_StopsEarly(t *testing.T) {
	store := newTestStore(t, JSONSerializer{})
	for _, n := range []string{"A", "B", "C"} {
		if err := store.Save(&mockRecord{Name: n}, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	count := 0
	for range store.ListSaves() {
		count++
		break
	}
	testutil.AssertEqual(t, "count", count, 1)
}

func TestRecordStore_DeleteAll(t *testing.T) {
	store := newTestStore(t, JSONSerializer{})
	for _, n := range []string{"A", "B", "C"} {
		if err := store.Save(&mockRecord{Name: n}, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	other := filepath.Join(store.Path(), "settings.ini")
	if err := os.WriteFile(other, []byte("volume=3"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if err := store.DeleteAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "saves", len(collectSaves(t, store)), 0)
	if _, err := os.Stat(other); err != nil {
		t.Errorf("expected non-record file to survive: %v", err)
	}

	// Nothing left to delete is fine too.
	if err := store.DeleteAll(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRecordStore_Exists(t *testing.T) {
	store := newTestStore(t, JSONSerializer{})
	if err := store.Save(&mockRecord{Name: "here"}, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := store.Exists("here")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "here", ok, true)

	ok, err = store.Exists("gone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "gone", ok, false)
}

func assertSaves(t *testing.T, store *RecordStore[*mockRecord], exp ...string) {
	t.Helper()
	got := collectSaves(t, store)
	if !slices.Equal(got, exp) {
		t.Errorf("saves: got %v, expected %v", got, exp)
	}
}

func ptr[T any](v T) *T {
	return &v
}

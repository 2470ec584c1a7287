package game

import (
	"strings"
	"testing"

	"github.com/pixil98/go-savestate/internal/identity"
	"github.com/pixil98/go-savestate/internal/storage"
	"github.com/pixil98/go-testutil"
)

func sampleRecord(t *testing.T) *GameRecord {
	t.Helper()
	rec := NewGameRecord("Slot 1", "Caves")
	rec.PlayerData = &PlayerData{
		Id:        identity.New(),
		Position:  Vec3{X: 1.25, Y: -3, Z: 0.5},
		Health:    42,
		Inventory: []string{"torch", "rope"},
	}
	rec.Chests = []*ChestData{
		{Id: identity.New(), Opened: true},
		{Id: identity.New(), Contents: []string{"gold"}},
	}
	if err := rec.Ext.Set("visits", map[string]int{"Caves": 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec
}

func assertRecordsEqual(t *testing.T, got, exp *GameRecord) {
	t.Helper()
	testutil.AssertEqual(t, "name", got.Name, exp.Name)
	testutil.AssertEqual(t, "level", got.CurrentLevelName, exp.CurrentLevelName)

	if (got.PlayerData == nil) != (exp.PlayerData == nil) {
		t.Fatalf("player data presence: got %v, expected %v", got.PlayerData, exp.PlayerData)
	}
	if exp.PlayerData != nil {
		testutil.AssertEqual(t, "player id", got.PlayerData.Id, exp.PlayerData.Id)
		testutil.AssertEqual(t, "player position", got.PlayerData.Position, exp.PlayerData.Position)
		testutil.AssertEqual(t, "player health", got.PlayerData.Health, exp.PlayerData.Health)
		testutil.AssertEqual(t, "player inventory",
			strings.Join(got.PlayerData.Inventory, ","), strings.Join(exp.PlayerData.Inventory, ","))
	}

	testutil.AssertEqual(t, "chest count", len(got.Chests), len(exp.Chests))
	for i := range exp.Chests {
		testutil.AssertEqual(t, "chest id", got.Chests[i].Id, exp.Chests[i].Id)
		testutil.AssertEqual(t, "chest opened", got.Chests[i].Opened, exp.Chests[i].Opened)
		testutil.AssertEqual(t, "chest contents",
			strings.Join(got.Chests[i].Contents, ","), strings.Join(exp.Chests[i].Contents, ","))
	}

	var gotVisits, expVisits map[string]int
	if _, err := got.Ext.Get("visits", &gotVisits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := exp.Ext.Get("visits", &expVisits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "visits", gotVisits["Caves"], expVisits["Caves"])
}

func TestGameRecord_RoundTrip(t *testing.T) {
	tests := map[string]struct {
		ser storage.Serializer
		rec func(t *testing.T) *GameRecord
	}{
		"json full": {
			ser: storage.JSONSerializer{},
			rec: sampleRecord,
		},
		"yaml full": {
			ser: storage.YAMLSerializer{},
			rec: sampleRecord,
		},
		"json fresh game": {
			ser: storage.JSONSerializer{},
			rec: func(*testing.T) *GameRecord { return NewGameRecord(DefaultGameName, DefaultLevel) },
		},
		"yaml empty level": {
			ser: storage.YAMLSerializer{},
			rec: func(*testing.T) *GameRecord { return NewGameRecord("x", "") },
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			in := tt.rec(t)

			data, err := tt.ser.Serialize(in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var out *GameRecord
			if err := tt.ser.Deserialize(data, &out); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			assertRecordsEqual(t, out, in)
		})
	}
}

func TestGameRecord_StoreRoundTrip(t *testing.T) {
	store, err := storage.NewRecordStore[*GameRecord](t.TempDir(), storage.JSONSerializer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in := sampleRecord(t)
	if err := store.Save(in, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := store.Load("Slot 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertRecordsEqual(t, out, in)
}

func TestGameRecord_Validate(t *testing.T) {
	dup := identity.New()

	tests := map[string]struct {
		rec    *GameRecord
		expErr string
	}{
		"valid": {
			rec: NewGameRecord(DefaultGameName, DefaultLevel),
		},
		"empty name": {
			rec:    NewGameRecord("", DefaultLevel),
			expErr: "name is required",
		},
		"blank name": {
			rec:    NewGameRecord("  ", DefaultLevel),
			expErr: "name is required",
		},
		"duplicate chest ids": {
			rec: &GameRecord{
				Name:   "dup",
				Chests: []*ChestData{{Id: dup}, {Id: dup}},
			},
			expErr: "duplicate id",
		},
		"nil chest": {
			rec:    &GameRecord{Name: "nil", Chests: []*ChestData{nil}},
			expErr: "chest 0 is empty",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

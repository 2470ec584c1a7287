// Package binding reconciles live entities with the records persisted for
// them, joining on identity.ID.
package binding

import (
	"reflect"

	"github.com/pixil98/go-savestate/internal/identity"
)

// Saveable is a persisted per-entity record.
type Saveable interface {
	ID() identity.ID
	SetID(identity.ID)
}

// Bindable is a live entity that can absorb a persisted record of type R.
// Bind must at least copy the record's id onto the entity.
type Bindable[R Saveable] interface {
	ID() identity.ID
	SetID(identity.ID)
	Bind(R)
}

// One binds a single entity to its record. found reports whether the
// entity is currently instantiated; when it is not, data is returned
// untouched. A nil data gets a fresh record from newRecord, seeded from
// the entity and carrying its id. The bound record is returned so the
// caller can keep it.
func One[R Saveable, E Bindable[R]](entity E, found bool, data R, newRecord func(E) R) R {
	if !found {
		return data
	}

	if isNil(data) {
		data = newRecord(entity)
		data.SetID(entity.ID())
	}

	entity.Bind(data)
	return data
}

// Many binds every entity to the first record sharing its id, appending a
// fresh record for entities seen for the first time. Records with no live
// entity stay in place so data for unloaded areas survives. The possibly
// grown slice is returned.
func Many[R Saveable, E Bindable[R]](entities []E, records []R, newRecord func(E) R) []R {
	for _, entity := range entities {
		data, ok := find(records, entity.ID())
		if !ok {
			data = newRecord(entity)
			data.SetID(entity.ID())
			records = append(records, data)
		}
		entity.Bind(data)
	}
	return records
}

func find[R Saveable](records []R, id identity.ID) (R, bool) {
	for _, r := range records {
		if !isNil(r) && r.ID() == id {
			return r, true
		}
	}
	var zero R
	return zero, false
}

func isNil[R any](r R) bool {
	v := reflect.ValueOf(any(r))
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}

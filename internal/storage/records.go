package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

// Record is anything persisted by name. The name doubles as the storage key.
type Record interface {
	RecordName() string
}

// RecordStore is a name addressed store of whole-file records under a
// single root directory. Each record lives in <root>/<name>.<ext>.
//
// RecordStore does no locking. Callers sharing one across goroutines must
// serialize access themselves.
type RecordStore[T Record] struct {
	path       string
	ext        string
	serializer Serializer
}

// NewRecordStore returns a store rooted at path, creating the directory if
// needed. T is expected to be a pointer type.
func NewRecordStore[T Record](path string, ser Serializer) (*RecordStore[T], error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating save directory %q: %w: %w", path, ErrStorage, err)
	}

	return &RecordStore[T]{
		path:       path,
		ext:        "." + ser.Extension(),
		serializer: ser,
	}, nil
}

// Path returns the root directory of the store.
func (s *RecordStore[T]) Path() string {
	return s.path
}

// Save writes rec under its name. When overwrite is false and a record
// with that name exists, Save returns ErrConflict and writes nothing.
func (s *RecordStore[T]) Save(rec T, overwrite bool) error {
	name := rec.RecordName()
	fp, err := s.filePath(name)
	if err != nil {
		return err
	}

	if !overwrite {
		exists, err := s.exists(fp)
		if err != nil {
			return storageErr("checking", name, err)
		}
		if exists {
			return fmt.Errorf("saving %q: %w", name+s.ext, ErrConflict)
		}
	}

	data, err := s.serializer.Serialize(rec)
	if err != nil {
		return fmt.Errorf("saving %q: %w", name, err)
	}

	if err := atomicWrite(fp, data, 0644); err != nil {
		return storageErr("saving", name, err)
	}

	return nil
}

// Load reads and decodes the record stored under name.
func (s *RecordStore[T]) Load(name string) (T, error) {
	var rec T

	fp, err := s.filePath(name)
	if err != nil {
		return rec, err
	}

	data, err := os.ReadFile(fp)
	if errors.Is(err, fs.ErrNotExist) {
		return rec, fmt.Errorf("loading %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return rec, storageErr("loading", name, err)
	}

	return decodeRecord[T](s.serializer, name, data)
}

// Delete removes the record stored under name. Deleting a record that
// does not exist is not an error.
func (s *RecordStore[T]) Delete(name string) error {
	fp, err := s.filePath(name)
	if err != nil {
		return err
	}

	err = os.Remove(fp)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return storageErr("deleting", name, err)
	}
	return nil
}

// DeleteAll removes every record file under the root. Files with other
// extensions and subdirectories are left alone.
func (s *RecordStore[T]) DeleteAll() error {
	var names []string
	for name, err := range s.ListSaves() {
		if err != nil {
			return err
		}
		names = append(names, name)
	}

	for _, name := range names {
		if err := s.Delete(name); err != nil {
			return err
		}
	}
	return nil
}

// Exists reports whether a record is stored under name.
func (s *RecordStore[T]) Exists(name string) (bool, error) {
	fp, err := s.filePath(name)
	if err != nil {
		return false, err
	}

	ok, err := s.exists(fp)
	if err != nil {
		return false, storageErr("checking", name, err)
	}
	return ok, nil
}

// ListSaves yields the name of every record under the root in directory
// order. Each call rescans the directory.
func (s *RecordStore[T]) ListSaves() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		dir, err := os.Open(s.path)
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		if err != nil {
			yield("", storageErr("listing", s.path, err))
			return
		}
		// Ignoring close error - directory is read-only, error is not actionable
		defer func() { _ = dir.Close() }()

		for {
			entries, err := dir.ReadDir(64)
			for _, e := range entries {
				if e.IsDir() || filepath.Ext(e.Name()) != s.ext {
					continue
				}
				if !yield(strings.TrimSuffix(e.Name(), s.ext), nil) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", storageErr("listing", s.path, err))
				return
			}
		}
	}
}

func (s *RecordStore[T]) filePath(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.path, name+s.ext), nil
}

func (s *RecordStore[T]) exists(fp string) (bool, error) {
	_, err := os.Stat(fp)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// validateName keeps every record directly under the store root.
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q must not contain path elements", ErrInvalidName, name)
	}
	return nil
}

func decodeRecord[T Record](ser Serializer, name string, data []byte) (T, error) {
	var rec T
	if err := ser.Deserialize(data, &rec); err != nil {
		return rec, fmt.Errorf("loading %q: %w: %w", name, ErrCorruptData, err)
	}
	if isNil(rec) {
		return rec, fmt.Errorf("loading %q: %w: empty record", name, ErrCorruptData)
	}
	return rec, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func storageErr(action, name string, err error) error {
	return fmt.Errorf("%s %q: %w: %w", action, name, ErrStorage, err)
}

// atomicWrite writes data to a temp file then renames it to the target path.
// This prevents partial or empty files if the process is interrupted.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			slog.Warn("failed to remove temp file after rename failure", "path", tmp, "error", removeErr)
		}
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

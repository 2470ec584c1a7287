package messaging

import (
	"errors"
	"sync"

	"github.com/pixil98/go-savestate/internal/game"
	"github.com/pixil98/go-savestate/internal/storage"
)

// ErrRemote marks an error reported by the far side of a request.
var ErrRemote = errors.New("remote error")

type errorCode struct {
	code string
	err  error
}

var (
	codesMu sync.RWMutex
	codes   = []errorCode{
		{"not_found", storage.ErrNotFound},
		{"conflict", storage.ErrConflict},
		{"corrupt_data", storage.ErrCorruptData},
		{"invalid_name", storage.ErrInvalidName},
		{"storage", storage.ErrStorage},
		{"level_not_found", game.ErrLevelNotFound},
	}
)

// RegisterError gives err a wire code so Request can hand the same
// sentinel back to callers on the other side. Later registrations of a
// code replace earlier ones.
func RegisterError(code string, err error) {
	codesMu.Lock()
	defer codesMu.Unlock()

	for i, c := range codes {
		if c.code == code {
			codes[i].err = err
			return
		}
	}
	codes = append(codes, errorCode{code: code, err: err})
}

// codeFor returns the code of the first registered sentinel err wraps.
func codeFor(err error) string {
	codesMu.RLock()
	defer codesMu.RUnlock()

	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

func errorFor(code string) error {
	codesMu.RLock()
	defer codesMu.RUnlock()

	for _, c := range codes {
		if c.code == code {
			return c.err
		}
	}
	return nil
}

// RemoteError is a handler failure carried back over nats. It matches
// ErrRemote and, when the far side sent a known code, that sentinel.
type RemoteError struct {
	Subject string
	Code    string
	Message string

	sentinel error
}

func (e *RemoteError) Error() string {
	return e.Subject + ": " + e.Message
}

func (e *RemoteError) Unwrap() []error {
	if e.sentinel == nil {
		return []error{ErrRemote}
	}
	return []error{ErrRemote, e.sentinel}
}

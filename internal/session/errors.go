package session

import (
	"errors"

	"github.com/pixil98/go-savestate/internal/messaging"
)

var (
	ErrNoGame = errors.New("no game in progress")
)

func init() {
	messaging.RegisterError("no_game", ErrNoGame)
}

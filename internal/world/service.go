package world

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-savestate/internal/messaging"
)

// Service exposes a Host on the level subjects of a nats server.
type Service struct {
	server *messaging.NatsServer
	host   *Host
}

func NewService(server *messaging.NatsServer, host *Host) *Service {
	return &Service{server: server, host: host}
}

func (s *Service) Start(ctx context.Context) error {
	if err := s.server.WaitReady(ctx); err != nil {
		return nil
	}

	stop, err := messaging.ServeLevels(s.server, s.host)
	if err != nil {
		return fmt.Errorf("serving levels: %w", err)
	}
	defer stop()

	slog.InfoContext(ctx, "level host ready")
	<-ctx.Done()
	return nil
}

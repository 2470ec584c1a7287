package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Handler answers a request. A returned error is sent back to the caller.
type Handler func(data []byte) ([]byte, error)

// Reply is the envelope every Handle'd subject answers with.
type Reply struct {
	Error string          `json:"error,omitempty"`
	Code  string          `json:"code,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func respond(msg *nats.Msg, handler Handler) {
	var reply Reply

	data, err := handler(msg.Data)
	if err != nil {
		reply.Error = err.Error()
		reply.Code = codeFor(err)
	} else if len(data) > 0 {
		if json.Valid(data) {
			reply.Data = data
		} else {
			reply.Data, _ = json.Marshal(string(data))
		}
	}

	if msg.Reply == "" {
		return
	}

	out, err := json.Marshal(reply)
	if err != nil {
		slog.Error("encoding reply", "subject", msg.Subject, "error", err)
		return
	}
	if err := msg.Respond(out); err != nil {
		slog.Warn("sending reply", "subject", msg.Subject, "error", err)
	}
}

// Request sends data on subject over conn and unwraps the Reply. Errors
// raised by the handler come back as a *RemoteError wrapping ErrRemote
// and, for registered codes, the original sentinel.
func Request(ctx context.Context, conn *nats.Conn, subject string, data []byte) ([]byte, error) {
	msg, err := conn.RequestWithContext(ctx, subject, data)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", subject, err)
	}

	var reply Reply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return nil, fmt.Errorf("decoding reply from %s: %w", subject, err)
	}
	if reply.Error != "" {
		return nil, &RemoteError{
			Subject:  subject,
			Code:     reply.Code,
			Message:  reply.Error,
			sentinel: errorFor(reply.Code),
		}
	}

	return reply.Data, nil
}

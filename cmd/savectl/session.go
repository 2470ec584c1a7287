package main

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/pixil98/go-savestate/internal/messaging"
	"github.com/pixil98/go-savestate/internal/session"
	"github.com/pixil98/go-savestate/internal/storage"
)

func newSessionCmds() []*cobra.Command {
	var interactive bool

	loadCmd := &cobra.Command{
		Use:   "load [name]",
		Short: "Load a save on the daemon",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDaemon(func(nc *nats.Conn) error {
				name, err := pickSave(cmd, nc, args, interactive)
				if err != nil {
					return err
				}
				return printStatus(cmd, nc, messaging.SubjectSessionLoad, name)
			})
		},
	}
	loadCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Choose the save from a list")

	return []*cobra.Command{
		statusCommand("new", "Start a new game on the daemon", messaging.SubjectSessionNew),
		statusCommand("save", "Save the game in progress", messaging.SubjectSessionSave),
		statusCommand("reload", "Discard unsaved progress and reload the current save", messaging.SubjectSessionReload),
		statusCommand("status", "Show the game in progress", messaging.SubjectSessionStatus),
		loadCmd,
	}
}

func statusCommand(use, short, subject string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDaemon(func(nc *nats.Conn) error {
				return printStatus(cmd, nc, subject, "")
			})
		},
	}
}

func withDaemon(fn func(*nats.Conn) error) error {
	nc, err := nats.Connect(flagNatsURL, nats.Name("savectl"), nats.Timeout(flagTimeout))
	if err != nil {
		return fmt.Errorf("connecting to daemon at %s: %w", flagNatsURL, err)
	}
	defer nc.Close()

	slog.Debug("connected to daemon", "url", nc.ConnectedUrl())
	return fn(nc)
}

func request(cmd *cobra.Command, nc *nats.Conn, subject string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
	defer cancel()

	return messaging.Request(ctx, nc, subject, payload)
}

func printStatus(cmd *cobra.Command, nc *nats.Conn, subject, payload string) error {
	data, err := request(cmd, nc, subject, []byte(payload))
	if err != nil {
		return err
	}

	var st session.Status
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decoding status: %w", err)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (level %s)\n", st.Name, st.Level)
	return err
}

func pickSave(cmd *cobra.Command, nc *nats.Conn, args []string, interactive bool) (string, error) {
	if !interactive {
		if len(args) == 0 {
			return "", fmt.Errorf("a save name is required without -i")
		}
		return args[0], nil
	}

	data, err := request(cmd, nc, messaging.SubjectSessionList, nil)
	if err != nil {
		return "", err
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return "", fmt.Errorf("decoding save list: %w", err)
	}

	sel, err := storage.NewSlotSelector(seqOf(names))
	if err != nil {
		return "", err
	}
	return sel.Prompt(stdio(cmd), "Saved games:")
}

func seqOf(names []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, n := range names {
			if !yield(n, nil) {
				return
			}
		}
	}
}

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-savestate/internal/game"
	"github.com/pixil98/go-savestate/internal/messaging"
	"github.com/pixil98/go-savestate/internal/session"
	"github.com/pixil98/go-savestate/internal/storage"
	"github.com/pixil98/go-testutil"
)

func TestRenderList(t *testing.T) {
	tests := map[string]struct {
		names    []string
		expLines []string
	}{
		"empty": {
			expLines: []string{"No saves in saves."},
		},
		"one": {
			names:    []string{"New Game"},
			expLines: []string{"1 save in saves:", "1. New Game"},
		},
		"several": {
			names:    []string{"a", "b", "c"},
			expLines: []string{"3 saves in saves:", "1. a", "2. b", "3. c"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := renderList("saves", tt.names, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, l := range tt.expLines {
				if !strings.Contains(out, l) {
					t.Errorf("output %q missing %q", out, l)
				}
			}
		})
	}
}

func TestRenderList_Width(t *testing.T) {
	names := []string{strings.Repeat("long slot name ", 6)}

	out, err := renderList("saves", names, 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(out, "\n")
	if len(lines) < 3 {
		t.Errorf("expected the slot name to wrap, got %q", out)
	}
	for _, l := range lines {
		if len(l) > 24 {
			t.Errorf("line %q longer than 24 columns", l)
		}
	}
}

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func seedStore(t *testing.T, dir string, names ...string) *storage.RecordStore[*game.GameRecord] {
	t.Helper()

	store, err := storage.NewRecordStore[*game.GameRecord](dir, storage.JSONSerializer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, n := range names {
		if err := store.Save(game.NewGameRecord(n, game.DefaultLevel), false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	return store
}

func TestOfflineCommands(t *testing.T) {
	dir := t.TempDir()
	store := seedStore(t, dir, "alpha", "beta")

	out, err := runCmd(t, "", "--store", dir, "--format", "json", "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "1. alpha") || !strings.Contains(out, "2. beta") {
		t.Errorf("unexpected list output %q", out)
	}

	out, err = runCmd(t, "", "--store", dir, "--format", "json", "show", "alpha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "current_level_name: Demo") {
		t.Errorf("unexpected show output %q", out)
	}

	_, err = runCmd(t, "", "--store", dir, "--format", "json", "show", "ghost")
	testutil.AssertErrorContains(t, err, "not found")

	if _, err := runCmd(t, "", "--store", dir, "--format", "json", "delete", "alpha"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ok, err := store.Exists("alpha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "alpha exists", ok, false)

	out, err = runCmd(t, "", "--store", dir, "--format", "json", "delete", "alpha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `No save named "alpha".`) {
		t.Errorf("unexpected delete output %q", out)
	}
}

func TestDeleteCommand_Daemon(t *testing.T) {
	dir := t.TempDir()
	store := seedStore(t, dir, "alpha", "beta")

	srv, err := messaging.NewNatsServer(messaging.WithPort(-1))
	if err != nil {
		t.Fatalf("unexpected error creating server: %v", err)
	}
	svc := session.NewService(srv, store, game.NewWorld())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 2)
	go func() { done <- srv.Start(ctx) }()
	go func() { done <- svc.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		for range 2 {
			if err := <-done; err != nil {
				t.Errorf("worker stopped with error: %v", err)
			}
		}
	})

	if err := srv.WaitReady(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	url := srv.ClientURL()

	// Handlers are registered after the server is ready. With no game in
	// progress status answers with a remote error.
	deadline := time.Now().Add(5 * time.Second)
	for {
		_, err := runCmd(t, "", "--nats", url, "--timeout", "1s", "status")
		if errors.Is(err, session.ErrNoGame) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("daemon never answered: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, err := runCmd(t, "", "--nats", url, "delete", "--daemon", "alpha"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ok, err := store.Exists("alpha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "alpha exists", ok, false)

	ok, err = store.Exists("beta")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "beta exists", ok, true)

	_, err = runCmd(t, "", "--nats", url, "delete", "--daemon", "../escape")
	if !errors.Is(err, storage.ErrInvalidName) {
		t.Errorf("expected ErrInvalidName through the daemon, got %v", err)
	}
}

func TestDeleteAllCommand(t *testing.T) {
	tests := map[string]struct {
		stdin     string
		args      []string
		expRemain int
	}{
		"declined": {
			stdin:     "n\n",
			expRemain: 2,
		},
		"confirmed": {
			stdin:     "yes\n",
			expRemain: 0,
		},
		"flag skips prompt": {
			args:      []string{"-y"},
			expRemain: 0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			store := seedStore(t, dir, "alpha", "beta")
			if err := os.WriteFile(filepath.Join(dir, "settings.ini"), []byte("volume=3"), 0644); err != nil {
				t.Fatalf("failed to write test file: %v", err)
			}

			args := append([]string{"--store", dir, "--format", "json", "delete-all"}, tt.args...)
			if _, err := runCmd(t, tt.stdin, args...); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			remain := 0
			for _, err := range store.ListSaves() {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				remain++
			}
			testutil.AssertEqual(t, "remaining", remain, tt.expRemain)

			if _, err := os.Stat(filepath.Join(dir, "settings.ini")); err != nil {
				t.Errorf("non-save file removed: %v", err)
			}
		})
	}
}

func TestUnknownFormat(t *testing.T) {
	_, err := runCmd(t, "", "--store", t.TempDir(), "--format", "xml", "list")
	testutil.AssertErrorContains(t, err, "unknown store format")
}

package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/pixil98/go-savestate/internal"
	"github.com/pixil98/go-savestate/internal/display"
	"github.com/pixil98/go-savestate/internal/messaging"
	"github.com/pixil98/go-savestate/internal/storage"
)

const listTemplate = `{{- if not .Names -}}
No saves in {{ .Store }}.
{{- else -}}
{{ len .Names }} {{ if eq (len .Names) 1 }}save{{ else }}saves{{ end }} in {{ .Store }}:
{{- range $i, $n := .Names }}
  {{ add1 $i | printf "%2d" }}. {{ $n }}
{{- end }}
{{- end }}`

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List save slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore(flagStore, flagFormat)
			if err != nil {
				return err
			}
			defer closeStore()

			names, err := collectNames(store)
			if err != nil {
				return err
			}

			out, err := renderList(flagStore, names, flagWidth)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a save as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore(flagStore, flagFormat)
			if err != nil {
				return err
			}
			defer closeStore()

			rec, err := store.Load(args[0])
			if err != nil {
				return err
			}

			data, err := storage.YAMLSerializer{}.Serialize(rec)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newDeleteCmd() *cobra.Command {
	var daemon bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if daemon {
				return withDaemon(func(nc *nats.Conn) error {
					_, err := request(cmd, nc, messaging.SubjectSessionDelete, []byte(args[0]))
					return err
				})
			}

			store, closeStore, err := openStore(flagStore, flagFormat)
			if err != nil {
				return err
			}
			defer closeStore()

			ok, err := store.Exists(args[0])
			if err != nil {
				return err
			}
			if !ok {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "No save named %q.\n", args[0])
				return err
			}

			return store.Delete(args[0])
		},
	}
	cmd.Flags().BoolVar(&daemon, "daemon", false, "Delete through the running daemon")

	return cmd
}

func newDeleteAllCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore(flagStore, flagFormat)
			if err != nil {
				return err
			}
			defer closeStore()

			if !yes {
				ok, err := internal.PromptYN(stdio(cmd), fmt.Sprintf("Delete every save in %s? ", flagStore))
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}

			return store.DeleteAll()
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func collectNames(store saveStore) ([]string, error) {
	var names []string
	for name, err := range store.ListSaves() {
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func renderList(store string, names []string, width int) (string, error) {
	return display.ExpandTemplate(listTemplate, map[string]any{
		"Store": store,
		"Names": names,
	}, width)
}

// stdio joins a command's input and output into the io.ReadWriter the
// prompts expect.
func stdio(cmd *cobra.Command) io.ReadWriter {
	return struct {
		io.Reader
		io.Writer
	}{cmd.InOrStdin(), cmd.OutOrStdout()}
}

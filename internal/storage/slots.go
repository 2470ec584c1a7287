package storage

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"strconv"

	"github.com/pixil98/go-savestate/internal"
)

const (
	defaultSelectorRowLength = 80
	defaultSelectorRowCount  = 5
)

// SlotSelector lists save names in numbered columns and lets a user pick
// one by number.
type SlotSelector struct {
	names  []string
	output []string
}

// NewSlotSelector drains names and lays them out sorted.
func NewSlotSelector(names iter.Seq2[string, error]) (*SlotSelector, error) {
	s := &SlotSelector{}
	for name, err := range names {
		if err != nil {
			return nil, err
		}
		s.names = append(s.names, name)
	}
	slices.Sort(s.names)
	s.build()

	return s, nil
}

func (s *SlotSelector) build() {
	colWidth := 1
	for _, n := range s.names {
		l := len(n) + 7 // Plus 7 for number and spacing (nn. <val>  )
		if l > colWidth {
			colWidth = l
		}
	}

	// Fill columns first, left to right, but grow past the default row
	// count if the names don't fit across.
	numCols := max(defaultSelectorRowLength/colWidth, 1)
	numRows := max((len(s.names)+numCols-1)/numCols, defaultSelectorRowCount)

	rows := make([]string, numRows)
	for i, n := range s.names {
		rows[i%numRows] += fmt.Sprintf("%2d. %-*s  ", i+1, colWidth-5, n)
	}

	s.output = rows
}

// Len is the number of selectable slots.
func (s *SlotSelector) Len() int {
	return len(s.names)
}

func (s *SlotSelector) Prompt(rw io.ReadWriter, prompt string) (string, error) {
	if len(s.names) == 0 {
		return "", fmt.Errorf("no saves to choose from")
	}

	_, err := fmt.Fprintf(rw, "%s\n", prompt)
	if err != nil {
		return "", err
	}

	for _, str := range s.output {
		if len(str) > 0 {
			_, err = fmt.Fprintf(rw, "%s\n", str)
			if err != nil {
				return "", err
			}
		}
	}

	selection, err := internal.Prompt(rw, "Make your selection: ", internal.WithValidator(
		func(str string) (bool, string) {
			i, err := strconv.Atoi(str)
			if err != nil || s.Select(i) == "" {
				return false, "Invalid selection!\n"
			}
			return true, ""
		},
	), internal.WithMaxTries(3))
	if err != nil {
		return "", err
	}

	i, err := strconv.Atoi(selection)
	if err != nil {
		return "", err
	}

	return s.Select(i), nil
}

// Select returns the name at 1-based position i, or "" when out of range.
func (s *SlotSelector) Select(i int) string {
	if i < 1 || i > len(s.names) {
		return ""
	}
	return s.names[i-1]
}

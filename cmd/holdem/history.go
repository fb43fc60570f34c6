package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/cardroom/holdem/internal/phh"
)

// HistoryCmd replays recorded .phh hand histories as readable text.
type HistoryCmd struct {
	Paths []string `arg:"" name:"path" help:".phh files or directories containing them"`
	Limit int      `help:"Maximum hands to print (0 = all)"`
}

func (c *HistoryCmd) Run() error {
	files, err := collectHistoryFiles(c.Paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .phh files found")
	}
	if c.Limit > 0 && len(files) > c.Limit {
		files = files[:c.Limit]
	}

	for i, file := range files {
		hand, err := phh.DecodeFile(file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if i > 0 {
			fmt.Println()
		}
		renderHand(os.Stdout, hand)
	}
	return nil
}

// collectHistoryFiles expands directories into their .phh files. Hand IDs
// embed a creation timestamp, so sorted file names replay in played order.
func collectHistoryFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(path, "*.phh"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files, nil
}

func renderHand(w io.Writer, h *phh.HandHistory) {
	fmt.Fprintf(w, "hand %s", h.HandID)
	if h.Table != "" {
		fmt.Fprintf(w, "  table %s", h.Table)
	}
	if h.Time != "" {
		fmt.Fprintf(w, "  %04d-%02d-%02d %s %s", h.Year, h.Month, h.Day, h.Time, h.TimeZone)
	}
	fmt.Fprintln(w)

	for i, name := range h.Players {
		if i >= len(h.StartingStacks) {
			break
		}
		fmt.Fprintf(w, "  p%d %-14s %6d", i+1, name, h.StartingStacks[i])
		if i < len(h.FinishingStacks) {
			net := h.FinishingStacks[i] - h.StartingStacks[i]
			fmt.Fprintf(w, " -> %6d", h.FinishingStacks[i])
			if net != 0 {
				fmt.Fprintf(w, "  (%+d)", net)
			}
		}
		fmt.Fprintln(w)
	}

	for _, action := range h.Actions {
		fmt.Fprintln(w, "    "+action)
	}
}

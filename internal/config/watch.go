package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Dicklesworthstone/tln/internal/watcher"
)

// Watch starts watching the config file for changes and calls onChange
// with the reloaded config when it is modified. It returns a close
// function to stop watching.
//
// Each reload is logged with a unified diff of the file so operators can
// see exactly which settings changed.
func Watch(path string, onChange func(*Config)) (func(), error) {
	if path == "" {
		path = DefaultPath()
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	path = absPath

	prev, _ := os.ReadFile(path)

	// Debounce so a single editor save does not trigger multiple reloads.
	w, err := watcher.New(func(events []watcher.Event) {
		touched := false
		for _, e := range events {
			if filepath.Clean(e.Path) == filepath.Clean(path) {
				touched = true
				break
			}
		}
		if !touched {
			return
		}

		cfg, err := Load(path)
		if err != nil {
			log.Printf("error reloading config: %v", err)
			return
		}

		cur, _ := os.ReadFile(path)
		if summary := DiffSummary(string(prev), string(cur)); summary != "" {
			log.Printf("config reloaded:\n%s", summary)
		}
		prev = cur

		if onChange != nil {
			onChange(cfg)
		}
	}, watcher.WithDebounce(500*time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}

	if err := w.Add(path); err != nil {
		// The file may not exist yet; watch its directory instead.
		dir := filepath.Dir(path)
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watching config path %s: %w", path, err)
		}
	}

	return func() {
		w.Close()
	}, nil
}

// DiffSummary returns a unified diff of two config file contents, or ""
// when they are identical.
func DiffSummary(before, after string) string {
	if before == after {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, true)
	patches := dmp.PatchMake(before, diffs)
	return strings.TrimSpace(dmp.PatchToText(patches))
}

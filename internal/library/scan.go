package library

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ekisa-team/signbridge/internal/token"
)

// Prober reports the duration of a media file in seconds.
type Prober interface {
	Probe(ctx context.Context, path string) (float64, error)
}

// splitStem derives the token from a file stem. Anything after the first
// underscore marks a variant clip.
func splitStem(stem string) (tok string, variant bool) {
	head, _, found := strings.Cut(stem, "_")
	return token.Canonical(head), found
}

// scan walks dir for media files and groups them by token. Files are visited
// per extension in configured order, then by name, so the primary chosen for
// a token is stable across scans.
func scan(dir string, extensions []string) map[string]*Entry {
	entries := make(map[string]*Entry)

	files, err := os.ReadDir(dir)
	if err != nil {
		slog.Warn("Cannot read video library", "dir", dir, "error", err)
		return entries
	}

	for _, ext := range extensions {
		for _, f := range files {
			name := f.Name()
			if f.IsDir() || strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ext) {
				continue
			}
			if !f.Type().IsRegular() {
				if info, err := os.Stat(filepath.Join(dir, name)); err != nil || !info.Mode().IsRegular() {
					continue
				}
			}

			tok, variant := splitStem(strings.TrimSuffix(name, filepath.Ext(name)))
			if tok == "" {
				continue
			}

			e, ok := entries[tok]
			if !ok {
				e = &Entry{Variants: []string{}, Duration: DefaultDuration}
				entries[tok] = e
			}

			path := filepath.Join(dir, name)
			switch {
			case variant:
				e.Variants = append(e.Variants, path)
			case e.Primary == "":
				e.Primary = path
			default:
				slog.Debug("Duplicate primary clip ignored", "token", tok, "path", path)
			}
		}
	}

	for _, e := range entries {
		slices.Sort(e.Variants)
	}
	return entries
}

// probeAll fills in the duration of every primary clip using at most workers
// concurrent probes. Probe failures keep DefaultDuration.
func probeAll(ctx context.Context, entries map[string]*Entry, prober Prober, workers int) {
	if prober == nil {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))

	for tok, e := range entries {
		if e.Primary == "" {
			continue
		}
		g.Go(func() error {
			d, err := prober.Probe(ctx, e.Primary)
			if err != nil {
				slog.Debug("Probe failed, using default duration", "token", tok, "error", err)
				return nil
			}
			e.Duration = d
			return nil
		})
	}
	_ = g.Wait()
}

// scanLetters maps each letter A-Z to its fingerspelling clip.
func scanLetters(dir string, extensions []string) map[rune]string {
	letters := make(map[rune]string, 26)
	if dir == "" {
		return letters
	}
	for r := 'A'; r <= 'Z'; r++ {
		for _, ext := range extensions {
			path := filepath.Join(dir, string(r)+ext)
			if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
				letters[r] = path
				break
			}
		}
	}
	return letters
}

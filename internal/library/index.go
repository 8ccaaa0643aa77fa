// Package library indexes the recorded sign-video library and the A-Z
// fingerspelling clips.
//
// The index is built by scanning the video directory, probing each primary
// clip's duration and persisting the result as a JSON cache. Rebuilds publish
// a complete new snapshot atomically, so lookups running concurrently with
// Refresh see either the old or the new index.
package library

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"maps"
	"math"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ekisa-team/signbridge/internal/token"
	"github.com/ekisa-team/signbridge/internal/xfs"
)

// Options configures an Index.
type Options struct {
	VideoDir       string
	FingerspellDir string

	// IndexFile defaults to video_index.json inside VideoDir.
	IndexFile string

	// Extensions lists recognised media extensions in priority order.
	Extensions []string

	// Prober measures primary clip durations. Nil leaves DefaultDuration.
	Prober Prober

	// Workers bounds concurrent probes.
	Workers int

	VideoURLPrefix       string
	FingerspellURLPrefix string
}

func (o *Options) applyDefaults() error {
	if o.VideoDir == "" {
		return ErrNoVideoDir
	}
	if abs, err := filepath.Abs(o.VideoDir); err == nil {
		o.VideoDir = abs
	}
	if o.FingerspellDir != "" {
		if abs, err := filepath.Abs(o.FingerspellDir); err == nil {
			o.FingerspellDir = abs
		}
	}
	if o.IndexFile == "" {
		o.IndexFile = filepath.Join(o.VideoDir, "video_index.json")
	}
	if len(o.Extensions) == 0 {
		o.Extensions = []string{".mp4", ".webm"}
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.VideoURLPrefix == "" {
		o.VideoURLPrefix = "/asl-videos"
	}
	if o.FingerspellURLPrefix == "" {
		o.FingerspellURLPrefix = "/asl-fingerspelling"
	}
	return nil
}

type snapshot struct {
	entries map[string]Entry
	letters map[rune]string
	builtAt time.Time
}

// Index is a concurrency-safe token → clip lookup.
type Index struct {
	opts Options

	current   atomic.Pointer[snapshot]
	refreshMu sync.Mutex
	refreshes atomic.Uint64
}

// Open loads the index from its cache file, or rebuilds it when the cache is
// missing or unreadable.
func Open(ctx context.Context, opts Options) (*Index, error) {
	if err := opts.applyDefaults(); err != nil {
		return nil, err
	}
	for _, dir := range []string{opts.VideoDir, opts.FingerspellDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	ix := &Index{opts: opts}

	entries, err := loadCache(ctx, opts.IndexFile)
	switch {
	case err == nil:
		ix.publish(entries)
		slog.Info("Library index loaded from cache", "signs", len(entries), "letters", len(ix.current.Load().letters))
		return ix, nil
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("Library index cache not found, building", "path", opts.IndexFile)
	default:
		slog.Warn("Library index cache unreadable, rebuilding", "path", opts.IndexFile, "error", err)
	}

	if err := ix.Refresh(ctx); err != nil {
		return nil, err
	}
	return ix, nil
}

// Refresh rescans the library, rewrites the cache and swaps in the new index.
// Concurrent calls are serialized.
func (ix *Index) Refresh(ctx context.Context) error {
	ix.refreshMu.Lock()
	defer ix.refreshMu.Unlock()

	start := time.Now()
	scanned := scan(ix.opts.VideoDir, ix.opts.Extensions)
	probeAll(ctx, scanned, ix.opts.Prober, ix.opts.Workers)
	if err := ctx.Err(); err != nil {
		return err
	}

	entries := make(map[string]Entry, len(scanned))
	for tok, e := range scanned {
		entries[tok] = *e
	}

	if err := saveCache(ctx, ix.opts.IndexFile, entries); err != nil {
		// The in-memory index is still authoritative.
		slog.Warn("Could not save library index", "path", ix.opts.IndexFile, "error", err)
	}

	ix.publish(entries)
	ix.refreshes.Add(1)

	snap := ix.current.Load()
	slog.Info("Library index built", "signs", len(snap.entries), "letters", len(snap.letters), "duration", time.Since(start))
	return nil
}

func (ix *Index) publish(entries map[string]Entry) {
	ix.current.Store(&snapshot{
		entries: entries,
		letters: scanLetters(ix.opts.FingerspellDir, ix.opts.Extensions),
		builtAt: time.Now(),
	})
}

// RefreshCount returns how many rebuilds have completed.
func (ix *Index) RefreshCount() uint64 {
	return ix.refreshes.Load()
}

// Video returns the recorded clip for tok. An entry whose primary file has
// been deleted since indexing is reported as absent.
func (ix *Index) Video(tok string) (Video, bool) {
	tok = token.Canonical(tok)
	e, ok := ix.current.Load().entries[tok]
	if !ok || e.Primary == "" || !xfs.Exists(e.Primary) {
		return Video{}, false
	}

	return Video{
		Token:       tok,
		Path:        e.Primary,
		URL:         joinURL(ix.opts.VideoURLPrefix, filepath.Base(e.Primary)),
		Duration:    e.Duration,
		HasVariants: len(e.Variants) > 0,
	}, true
}

// HasVideo reports whether tok has a usable recorded clip.
func (ix *Index) HasVideo(tok string) bool {
	_, ok := ix.Video(tok)
	return ok
}

// Fingerspell returns one clip per alphabetic character of tok. It reports
// false when any letter has no clip.
func (ix *Index) Fingerspell(tok string) ([]Letter, bool) {
	letters := ix.current.Load().letters

	runes := token.Letters(tok)
	out := make([]Letter, 0, len(runes))
	for _, r := range runes {
		p, ok := letters[r]
		if !ok || !xfs.Exists(p) {
			return nil, false
		}
		out = append(out, Letter{
			Letter:   string(r),
			Path:     p,
			URL:      joinURL(ix.opts.FingerspellURLPrefix, filepath.Base(p)),
			Duration: LetterDuration,
		})
	}
	return out, true
}

// Lookup tries the recorded clip first, then fingerspelling.
func (ix *Index) Lookup(tok string) (Match, bool) {
	tok = token.Canonical(tok)

	if v, ok := ix.Video(tok); ok {
		return Match{Token: tok, Kind: MatchVideo, Video: &v, TotalDuration: v.Duration}, true
	}

	if letters, ok := ix.Fingerspell(tok); ok {
		slog.Debug("Fingerspelling fallback", "token", tok)
		return Match{
			Token:         tok,
			Kind:          MatchFingerspell,
			Letters:       letters,
			TotalDuration: float64(len(letters)) * LetterDuration,
		}, true
	}

	slog.Debug("No clip for token", "token", tok)
	return Match{}, false
}

// Entry returns the raw index entry for tok.
func (ix *Index) Entry(tok string) (Entry, bool) {
	e, ok := ix.current.Load().entries[token.Canonical(tok)]
	return e, ok
}

// Signs returns every indexed token in sorted order.
func (ix *Index) Signs() []string {
	return slices.Sorted(maps.Keys(ix.current.Load().entries))
}

// LetterCount returns how many fingerspelling letters are available.
func (ix *Index) LetterCount() int {
	return len(ix.current.Load().letters)
}

// CoverageStats summarizes the current snapshot.
func (ix *Index) CoverageStats() Coverage {
	snap := ix.current.Load()

	variants := 0
	for _, e := range snap.entries {
		if len(e.Variants) > 0 {
			variants++
		}
	}

	total := len(snap.entries)
	return Coverage{
		TotalSigns:         total,
		SignsWithVariants:  variants,
		FingerspellLetters: len(snap.letters),
		CanFingerspell:     len(snap.letters) == 26,
		CoveragePercent:    math.Round(float64(total)/CoverageTarget*1000) / 10,
	}
}

// Contains reports whether p lies inside the video or fingerspelling directory.
// The check is lexical; p need not exist.
func (ix *Index) Contains(p string) bool {
	abs, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	for _, root := range []string{ix.opts.VideoDir, ix.opts.FingerspellDir} {
		if root == "" {
			continue
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return true
	}
	return false
}

// IndexFile returns the path of the JSON cache.
func (ix *Index) IndexFile() string {
	return ix.opts.IndexFile
}

// BuiltAt returns when the current snapshot was published.
func (ix *Index) BuiltAt() time.Time {
	return ix.current.Load().builtAt
}

func joinURL(prefix, name string) string {
	return path.Join("/", prefix, name)
}

// Package composer stitches an ordered list of sign clips into one playable
// video.
//
// Inputs are first normalized to a common geometry, frame rate and codec, then
// joined either by stream-copy concatenation or by a crossfade filter graph.
// Outputs are cached under a key derived from the ordered input paths and are
// published with an atomic rename, so concurrent requests for the same
// sequence at worst build it twice and readers never see a partial file.
package composer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ekisa-team/signbridge/internal/toolchain"
	"github.com/ekisa-team/signbridge/internal/xfs"
)

// DefaultDuration is assumed for a normalized clip that cannot be probed.
const DefaultDuration = 3.0

const jobDirPrefix = ".compose-"

// Media is the subset of the media toolchain the composer drives.
type Media interface {
	Available() error
	Probe(ctx context.Context, path string) (float64, error)
	Normalize(ctx context.Context, src, dst string) error
	Concat(ctx context.Context, inputs []string, out string) error
	Crossfade(ctx context.Context, inputs []string, durations []float64, overlap float64, out string) error
}

// Config configures a Composer.
type Config struct {
	// CacheDir holds composed sequences. It is created if missing.
	CacheDir string

	// Overlap is the crossfade window in seconds.
	Overlap float64

	// Workers bounds concurrent normalizations per request.
	Workers int

	// MaxAge is the default eviction threshold.
	MaxAge time.Duration

	// URLPrefix is where CacheDir is served over HTTP.
	URLPrefix string
}

// Options control one composition.
type Options struct {
	Crossfade bool
	Force     bool
}

// Strategy records how a result was produced.
type Strategy string

const (
	StrategyPassthrough Strategy = "passthrough"
	StrategyCached      Strategy = "cached"
	StrategySimple      Strategy = "simple"
	StrategyCrossfade   Strategy = "crossfade"
)

// Result describes a composed clip.
type Result struct {
	JobID    string   `json:"job_id"`
	Key      string   `json:"key,omitempty"`
	Path     string   `json:"path"`
	URL      string   `json:"url,omitempty"`
	Strategy Strategy `json:"strategy"`
	Clips    int      `json:"clips"`

	// Dropped lists inputs that were missing or failed to normalize.
	Dropped []string `json:"dropped,omitempty"`
}

// Composer builds and caches stitched sequences.
type Composer struct {
	media Media
	cfg   Config
}

// New creates a composer and its cache directory.
func New(media Media, cfg Config) (*Composer, error) {
	if cfg.CacheDir == "" {
		return nil, errors.New("composer: cache dir is required")
	}
	dir, err := filepath.Abs(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("composer: resolve cache dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("composer: create cache dir: %w", err)
	}
	cfg.CacheDir = dir

	if cfg.Overlap <= 0 {
		cfg.Overlap = 0.25
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 7 * 24 * time.Hour
	}
	if cfg.URLPrefix == "" {
		cfg.URLPrefix = "/asl-sequences"
	}

	if err := media.Available(); err != nil {
		slog.Warn("Media toolchain not found, sequence composition will be unavailable", "error", err)
	}

	return &Composer{media: media, cfg: cfg}, nil
}

// CacheDir returns the absolute cache directory.
func (c *Composer) CacheDir() string {
	return c.cfg.CacheDir
}

// CacheKey derives the cache key of an ordered path list. Any change in order
// or membership yields a different key.
func CacheKey(paths []string) string {
	sum := sha256.Sum256([]byte(strings.Join(paths, "|")))
	return hex.EncodeToString(sum[:])[:12]
}

// Compose joins paths, in order, into one clip. Every failure that leaves no
// usable clip wraps ErrUnavailable.
func (c *Composer) Compose(ctx context.Context, paths []string, opts Options) (*Result, error) {
	res := &Result{JobID: uuid.NewString()}
	log := slog.With("job", res.JobID)

	if len(paths) == 0 {
		return nil, ErrNoValidInput
	}
	if err := c.media.Available(); err != nil {
		log.Error("Media toolchain required but not installed", "error", err)
		return nil, ErrToolUnavailable
	}

	valid := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil || !xfs.Exists(abs) {
			res.Dropped = append(res.Dropped, p)
			continue
		}
		valid = append(valid, abs)
	}
	if len(res.Dropped) > 0 {
		log.Warn("Dropping missing input clips", "dropped", res.Dropped)
	}

	switch len(valid) {
	case 0:
		return nil, ErrNoValidInput
	case 1:
		res.Path = valid[0]
		res.Strategy = StrategyPassthrough
		res.Clips = 1
		return res, nil
	}

	res.Key = CacheKey(valid)
	res.Path = filepath.Join(c.cfg.CacheDir, res.Key+".mp4")
	res.URL = path.Join("/", c.cfg.URLPrefix, res.Key+".mp4")

	if !opts.Force && xfs.Exists(res.Path) {
		log.Debug("Sequence cache hit", "key", res.Key)
		res.Strategy = StrategyCached
		res.Clips = len(valid)
		return res, nil
	}

	jobDir, err := os.MkdirTemp(c.cfg.CacheDir, jobDirPrefix+res.JobID+"-")
	if err != nil {
		return nil, fmt.Errorf("composer: create job dir: %w", err)
	}
	defer os.RemoveAll(jobDir)

	normalized, failed := c.normalize(ctx, jobDir, valid)
	res.Dropped = append(res.Dropped, failed...)
	if len(normalized) < 2 {
		log.Error("Too few clips normalized", "normalized", len(normalized), "inputs", len(valid))
		return nil, ErrTooFewClips
	}

	tmpOut := filepath.Join(jobDir, "sequence.mp4")
	strategy, err := c.join(ctx, normalized, tmpOut, opts.Crossfade, log)
	if err != nil {
		log.Error("Failed to create sequence", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrComposeFailed, err)
	}

	if err := os.Rename(tmpOut, res.Path); err != nil {
		return nil, fmt.Errorf("composer: publish %s: %w", res.Path, err)
	}

	res.Strategy = strategy
	res.Clips = len(normalized)
	log.Info("Sequence created", "key", res.Key, "clips", res.Clips, "strategy", strategy)
	return res, nil
}

// normalize re-encodes every input into jobDir in parallel. It returns the
// normalized paths in input order and the inputs that failed.
func (c *Composer) normalize(ctx context.Context, jobDir string, inputs []string) (normalized, failed []string) {
	outs := make([]string, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)
	for i, src := range inputs {
		dst := filepath.Join(jobDir, fmt.Sprintf("norm_%03d.mp4", i))
		g.Go(func() error {
			if err := c.media.Normalize(gctx, src, dst); err != nil {
				slog.Warn("Normalize failed", "clip", filepath.Base(src), "error", err)
				_ = os.Remove(dst)
				return nil
			}
			outs[i] = dst
			return nil
		})
	}
	_ = g.Wait()

	for i, out := range outs {
		if out == "" {
			failed = append(failed, inputs[i])
			continue
		}
		normalized = append(normalized, out)
	}
	return normalized, failed
}

// join runs the requested strategy. A failed crossfade downgrades to simple
// concatenation.
func (c *Composer) join(ctx context.Context, inputs []string, out string, crossfade bool, log *slog.Logger) (Strategy, error) {
	if crossfade {
		durations := c.probe(ctx, inputs)
		err := c.media.Crossfade(ctx, inputs, durations, c.cfg.Overlap, out)
		if err == nil {
			return StrategyCrossfade, nil
		}
		log.Warn("Crossfade failed, falling back to simple concat", "error", err)
		_ = os.Remove(out)
	}

	if err := c.media.Concat(ctx, inputs, out); err != nil {
		return "", err
	}
	return StrategySimple, nil
}

func (c *Composer) probe(ctx context.Context, inputs []string) []float64 {
	durations := make([]float64, len(inputs))
	for i, p := range inputs {
		d, err := c.media.Probe(ctx, p)
		if err != nil {
			slog.Debug("Probe failed, using default duration", "clip", filepath.Base(p), "error", err)
			d = DefaultDuration
		}
		durations[i] = d
	}
	return durations
}

// Evict deletes cached sequences, and abandoned job directories, last
// modified more than maxAge ago. A non-positive maxAge uses the configured
// default. It returns the number of sequences removed.
func (c *Composer) Evict(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = c.cfg.MaxAge
	}
	cutoff := time.Now().Add(-maxAge)

	entries, err := os.ReadDir(c.cfg.CacheDir)
	if err != nil {
		return 0, fmt.Errorf("composer: read cache dir: %w", err)
	}

	removed := 0
	var errs []error
	for _, e := range entries {
		name := e.Name()
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}

		full := filepath.Join(c.cfg.CacheDir, name)
		switch {
		case e.IsDir() && strings.HasPrefix(name, jobDirPrefix):
			if err := os.RemoveAll(full); err != nil {
				errs = append(errs, err)
			}
		case e.Type().IsRegular() && strings.EqualFold(filepath.Ext(name), ".mp4"):
			if err := os.Remove(full); err != nil {
				errs = append(errs, err)
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		slog.Info("Evicted cached sequences", "removed", removed, "max_age", maxAge)
	}
	return removed, errors.Join(errs...)
}

var _ Media = (*toolchain.Media)(nil)

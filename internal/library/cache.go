package library

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ekisa-team/signbridge/internal/xfs"
)

const lockTimeout = 10 * time.Second

// loadCache reads the persisted index and drops entries whose primary clip no
// longer exists.
func loadCache(ctx context.Context, path string) (map[string]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	unlock, err := xfs.RLock(ctx, path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	unlock()
	if err != nil {
		return nil, err
	}

	var raw map[string]Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCache, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty document", ErrCorruptCache)
	}

	valid := make(map[string]Entry, len(raw))
	for tok, e := range raw {
		if e.Primary == "" || !xfs.Exists(e.Primary) {
			slog.Debug("Dropping stale index entry", "token", tok, "path", e.Primary)
			continue
		}
		if e.Variants == nil {
			e.Variants = []string{}
		}
		valid[tok] = e
	}
	return valid, nil
}

// saveCache persists entries atomically.
func saveCache(ctx context.Context, path string, entries map[string]Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	unlock, err := xfs.Lock(ctx, path)
	if err != nil {
		return err
	}
	defer unlock()

	return xfs.WriteFileAtomic(path, data, 0o644)
}

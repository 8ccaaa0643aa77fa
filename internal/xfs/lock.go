package xfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 50 * time.Millisecond

// Lock takes an exclusive advisory lock on path+".lock", waiting until ctx is
// done. The returned func releases it.
func Lock(ctx context.Context, path string) (func(), error) {
	return acquire(ctx, path, false)
}

// RLock takes a shared advisory lock on path+".lock".
func RLock(ctx context.Context, path string) (func(), error) {
	return acquire(ctx, path, true)
}

func acquire(ctx context.Context, path string, shared bool) (func(), error) {
	lockPath := path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return func() {}, fmt.Errorf("xfs: create lock dir: %w", err)
	}

	l := flock.New(lockPath)

	var (
		locked bool
		err    error
	)
	if shared {
		locked, err = l.TryRLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = l.TryLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return func() {}, fmt.Errorf("xfs: cannot acquire lock %s: %w", lockPath, err)
	}
	if !locked {
		return func() {}, fmt.Errorf("xfs: lock %s is held elsewhere", lockPath)
	}

	return func() { _ = l.Unlock() }, nil
}

package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/jotter/pkg/core"
)

// LockSuffix is appended to the data file name to form the lock file name.
const LockSuffix = ".lock"

const lockPollInterval = 10 * time.Millisecond

// acquireLock creates path exclusively, polling until it succeeds, timeout
// elapses or ctx is done. The returned func removes the lock file.
func acquireLock(ctx context.Context, path string, timeout time.Duration) (func(), error) {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() {
				os.Remove(path)
			}, nil
		}

		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			return nil, fmt.Errorf("%w: %s", core.ErrLockTimeout, path)
		case <-time.After(lockPollInterval):
		}
	}
}

// lockKey names the in-process lock for a data file.
func lockKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "fs:" + filepath.Clean(path)
}

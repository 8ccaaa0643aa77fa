package toolchain

import (
	"fmt"
	"os/exec"
	"sync"
)

// Registry resolves tools to executable paths.
type Registry struct {
	binaries map[Tool]string
	lookPath func(string) (string, error)
	mu       sync.RWMutex
}

// NewRegistry creates a registry. binaries maps each tool to a name or path;
// tools that are not listed resolve by their own name on PATH.
func NewRegistry(binaries map[Tool]string) *Registry {
	r := &Registry{
		binaries: make(map[Tool]string, len(binaries)),
		lookPath: exec.LookPath,
	}
	for tool, bin := range binaries {
		r.binaries[tool] = bin
	}
	return r
}

// SetLookPath replaces exec.LookPath, mostly for tests.
func (r *Registry) SetLookPath(fn func(string) (string, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lookPath = fn
}

// Register sets the binary used for tool.
func (r *Registry) Register(tool Tool, bin string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.binaries[tool] = bin
}

// Path resolves tool to an executable. Resolution happens on every call so a
// binary that disappears is reported at call time.
func (r *Registry) Path(tool Tool) (string, error) {
	r.mu.RLock()
	bin, ok := r.binaries[tool]
	lookPath := r.lookPath
	r.mu.RUnlock()

	if !ok || bin == "" {
		bin = string(tool)
	}

	path, err := lookPath(bin)
	if err != nil {
		return "", fmt.Errorf("%w: %s (%s)", ErrToolUnavailable, tool, bin)
	}
	return path, nil
}

// Available reports whether tool resolves to an executable.
func (r *Registry) Available(tool Tool) bool {
	_, err := r.Path(tool)
	return err == nil
}

// Check returns the first resolution error among tools.
func (r *Registry) Check(tools ...Tool) error {
	for _, tool := range tools {
		if _, err := r.Path(tool); err != nil {
			return err
		}
	}
	return nil
}

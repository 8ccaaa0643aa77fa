package gesture

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/ekisa-team/signbridge/internal/token"
	"github.com/ekisa-team/signbridge/internal/xfs"
)

const lexiconVersion = 1

// lockTimeout bounds how long a store waits for another process holding the
// lexicon lock.
const lockTimeout = 10 * time.Second

type lexiconFile struct {
	Version int             `yaml:"version"`
	Signs   map[string]Sign `yaml:"signs"`
}

// Store persists the lexicon as a human-editable YAML file.
type Store struct {
	path string
}

// NewStore creates a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the lexicon file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the lexicon. A missing or unreadable file is replaced by the
// default lexicon, which is written back to disk. An unreadable file is first
// copied aside to <path>.bak.
func (s *Store) Load(ctx context.Context) (map[string]Sign, error) {
	signs, err := s.read(ctx)
	if err == nil {
		return signs, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("Lexicon not found, creating default", "path", s.path)
	} else {
		slog.Warn("Lexicon unreadable, rebuilding default", "path", s.path, "error", err)
		if err := s.backup(); err != nil {
			slog.Warn("Failed to back up unreadable lexicon", "path", s.path, "error", err)
		}
	}

	signs = DefaultLexicon()
	if err := s.Save(ctx, signs); err != nil {
		// The in-memory lexicon is still usable.
		slog.Warn("Failed to persist default lexicon", "path", s.path, "error", err)
	}
	return signs, nil
}

func (s *Store) read(ctx context.Context) (map[string]Sign, error) {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	unlock, err := xfs.RLock(ctx, s.path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	unlock()
	if err != nil {
		return nil, err
	}

	var file lexiconFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptLexicon, err)
	}
	// A hand-written file without a version key is taken as the current one.
	if file.Version != 0 && file.Version != lexiconVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptLexicon, file.Version)
	}
	if len(file.Signs) == 0 {
		return nil, fmt.Errorf("%w: no signs", ErrCorruptLexicon)
	}

	signs := make(map[string]Sign, len(file.Signs))
	for tok, sign := range file.Signs {
		if tok = token.Canonical(tok); tok != "" {
			signs[tok] = sign.normalized()
		}
	}
	return signs, nil
}

// backup copies the current file to <path>.bak.
func (s *Store) backup() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	return xfs.WriteFileAtomic(s.path+".bak", data, 0o644)
}

// Save writes the whole lexicon atomically.
func (s *Store) Save(ctx context.Context, signs map[string]Sign) error {
	data, err := yaml.Marshal(lexiconFile{Version: lexiconVersion, Signs: signs})
	if err != nil {
		return fmt.Errorf("encode lexicon: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	unlock, err := xfs.Lock(ctx, s.path)
	if err != nil {
		return err
	}
	defer unlock()

	if err := xfs.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write lexicon: %w", err)
	}
	return nil
}

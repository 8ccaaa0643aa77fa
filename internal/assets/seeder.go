package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ekisa-team/signbridge/internal/token"
	"github.com/ekisa-team/signbridge/internal/xfs"
)

const (
	defaultRetryDelay = 2 * time.Second
	defaultMaxRetries = 3
	defaultTimeout    = 30 * time.Second

	// existingMinSize is the size above which an existing clip is kept.
	existingMinSize = 5_000

	// downloadMinSize rejects error pages served with a 200 status.
	downloadMinSize = 1_000

	maxClipSize = 64 << 20

	placeholderSeconds       = 3.0
	letterPlaceholderSeconds = 0.8
)

var (
	errTooSmall = errors.New("downloaded clip is too small")
	errTooLarge = errors.New("downloaded clip is too large")
)

// Placeholder renders a labelled clip.
type Placeholder interface {
	Placeholder(ctx context.Context, label string, seconds float64, out string) error
}

// Plan describes one seeding run.
type Plan struct {
	Sources []Source

	// Placeholders renders a clip for every token in Tokens (or DefaultTokens)
	// and every letter that still has no clip after downloading.
	Placeholders bool
	Tokens       []string
}

// Report lists the files touched by a seeding run.
type Report struct {
	Downloaded []string `json:"downloaded"`
	Skipped    []string `json:"skipped"`
	Generated  []string `json:"generated"`
	Failed     []string `json:"failed"`
}

// Seeder downloads or generates clips into the library directories.
type Seeder struct {
	videoDir       string
	fingerspellDir string
	extensions     []string

	client      *http.Client
	placeholder Placeholder

	retryDelay time.Duration
	maxRetries int
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Seeder) { s.client = c }
}

// WithRetry sets the attempt count and the delay between attempts.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(s *Seeder) {
		s.maxRetries = max(1, attempts)
		s.retryDelay = delay
	}
}

// WithPlaceholder enables placeholder generation.
func WithPlaceholder(p Placeholder) Option {
	return func(s *Seeder) { s.placeholder = p }
}

// WithExtensions sets the extensions that count as an existing clip.
func WithExtensions(exts []string) Option {
	return func(s *Seeder) { s.extensions = exts }
}

// NewSeeder creates a seeder writing into videoDir and fingerspellDir.
func NewSeeder(videoDir, fingerspellDir string, opts ...Option) (*Seeder, error) {
	s := &Seeder{
		extensions: []string{".mp4", ".webm"},
		client: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		retryDelay: defaultRetryDelay,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	if s.videoDir, err = filepath.Abs(videoDir); err != nil {
		return nil, err
	}
	if s.fingerspellDir, err = filepath.Abs(fingerspellDir); err != nil {
		return nil, err
	}
	for _, dir := range []string{s.videoDir, s.fingerspellDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return s, nil
}

// Seed runs plan. Individual clip failures are collected in the report; only
// cancellation aborts the run.
func (s *Seeder) Seed(ctx context.Context, plan Plan) (*Report, error) {
	report := &Report{}

	for _, src := range plan.Sources {
		slog.Info("Seeding from source", "source", src.Name, "signs", len(src.Signs), "letters", len(src.Letters))

		for _, tok := range sortedKeys(src.Signs) {
			name := token.Canonical(tok)
			if name == "" {
				continue
			}
			rawURL := src.Signs[tok]
			dest := filepath.Join(s.videoDir, name+clipExt(rawURL))
			if err := s.fetch(ctx, rawURL, dest, report); err != nil {
				return report, err
			}
		}
		for _, l := range sortedKeys(src.Letters) {
			letters := token.Letters(l)
			if len(letters) != 1 {
				slog.Warn("Ignoring letter entry", "source", src.Name, "letter", l)
				continue
			}
			rawURL := src.Letters[l]
			dest := filepath.Join(s.fingerspellDir, string(letters[0])+clipExt(rawURL))
			if err := s.fetch(ctx, rawURL, dest, report); err != nil {
				return report, err
			}
		}
	}

	if plan.Placeholders {
		if err := s.generate(ctx, plan.Tokens, report); err != nil {
			return report, err
		}
	}

	slog.Info("Seeding finished",
		"downloaded", len(report.Downloaded),
		"skipped", len(report.Skipped),
		"generated", len(report.Generated),
		"failed", len(report.Failed))
	return report, nil
}

func (s *Seeder) fetch(ctx context.Context, rawURL, dest string, report *Report) error {
	if info, err := os.Stat(dest); err == nil && info.Size() > existingMinSize {
		slog.Debug("Clip already present, skipping", "path", dest)
		report.Skipped = append(report.Skipped, dest)
		return nil
	}

	var lastErr error
	for attempt := range s.maxRetries {
		if attempt > 0 {
			slog.Info("Retrying download", "url", rawURL, "attempt", attempt+1, "last_error", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.retryDelay):
			}
		}

		lastErr = s.download(ctx, rawURL, dest)
		if lastErr == nil {
			slog.Info("Clip downloaded", "path", dest, "attempt", attempt+1)
			report.Downloaded = append(report.Downloaded, dest)
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("download canceled: %w", ctx.Err())
		}
		if errors.Is(lastErr, errTooSmall) || errors.Is(lastErr, errTooLarge) {
			break
		}
	}

	slog.Error("Failed to download clip", "url", rawURL, "path", dest, "error", lastErr)
	report.Failed = append(report.Failed, dest)
	return nil
}

func (s *Seeder) download(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "signbridge-seeder/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxClipSize+1))
	if err != nil {
		return err
	}
	switch {
	case len(data) < downloadMinSize:
		return fmt.Errorf("%w: %d bytes", errTooSmall, len(data))
	case len(data) > maxClipSize:
		return errTooLarge
	}

	return xfs.WriteFileAtomic(dest, data, 0o644)
}

func (s *Seeder) generate(ctx context.Context, tokens []string, report *Report) error {
	if s.placeholder == nil {
		return errors.New("placeholder generation requested without a media toolchain")
	}
	if len(tokens) == 0 {
		tokens = DefaultTokens
	}

	for _, tok := range token.CanonicalAll(tokens) {
		if s.hasClip(s.videoDir, tok) {
			continue
		}
		if err := s.render(ctx, tok, placeholderSeconds, filepath.Join(s.videoDir, tok+".mp4"), report); err != nil {
			return err
		}
	}
	for r := 'A'; r <= 'Z'; r++ {
		l := string(r)
		if s.hasClip(s.fingerspellDir, l) {
			continue
		}
		if err := s.render(ctx, l, letterPlaceholderSeconds, filepath.Join(s.fingerspellDir, l+".mp4"), report); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) render(ctx context.Context, label string, seconds float64, dest string, report *Report) error {
	if err := s.placeholder.Placeholder(ctx, label, seconds, dest); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Warn("Placeholder generation failed", "label", label, "error", err)
		report.Failed = append(report.Failed, dest)
		return nil
	}
	report.Generated = append(report.Generated, dest)
	return nil
}

func (s *Seeder) hasClip(dir, name string) bool {
	for _, ext := range s.extensions {
		if xfs.Exists(filepath.Join(dir, name+ext)) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

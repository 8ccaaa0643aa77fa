package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ekisa-team/signbridge/internal/composer"
	"github.com/ekisa-team/signbridge/internal/gesture"
	"github.com/ekisa-team/signbridge/internal/library"
	"github.com/ekisa-team/signbridge/internal/observe"
	"github.com/ekisa-team/signbridge/internal/resolver"
	"github.com/ekisa-team/signbridge/internal/token"
)

// Signs is the service abstraction over resolution, markup and composition.
type Signs struct {
	library  *library.Index
	codec    *gesture.Codec
	resolver *resolver.Resolver
	composer *composer.Composer
	metrics  *observe.Metrics
}

// NewSigns creates a new Signs service. metrics may be nil.
func NewSigns(lib *library.Index, codec *gesture.Codec, comp *composer.Composer, metrics *observe.Metrics) *Signs {
	s := &Signs{
		library:  lib,
		codec:    codec,
		resolver: resolver.New(lib, codec),
		composer: comp,
		metrics:  metrics,
	}
	s.recordInventory(context.Background())
	return s
}

// Sequence is a resolved token sequence, optionally stitched into one clip.
type Sequence struct {
	Signs   []resolver.Descriptor `json:"signs"`
	Summary resolver.Summary      `json:"summary"`
	Total   int                   `json:"total"`

	// Composition is set when every sign resolved to a video and the clips
	// could be joined.
	Composition *composer.Result `json:"composition,omitempty"`

	// Unavailable explains why no composition was produced.
	Unavailable string `json:"unavailable,omitempty"`
}

// CoverageReport combines library coverage with resolver statistics.
type CoverageReport struct {
	Library    library.Coverage    `json:"library"`
	Statistics resolver.Statistics `json:"statistics"`
}

// LexiconEntry is one lexicon sign with its token.
type LexiconEntry struct {
	Token string       `json:"token"`
	Sign  gesture.Sign `json:"sign"`
}

// Resolve resolves tokens in order.
func (s *Signs) Resolve(ctx context.Context, tokens []string) []resolver.Descriptor {
	descs := s.resolver.ResolveSequence(tokens)
	if s.metrics != nil {
		for _, d := range descs {
			s.metrics.RecordResolve(ctx, string(d.Kind))
		}
	}
	return descs
}

// Sequence resolves tokens and, when compose is requested and every token has
// a recorded clip, joins the clips. An unavailable composition is reported in
// the result rather than as an error.
func (s *Signs) Sequence(ctx context.Context, tokens []string, compose bool, opts composer.Options) (*Sequence, error) {
	ctx, span := observe.StartSpan(ctx, "signs.sequence")
	defer span.End()

	descs := s.Resolve(ctx, tokens)
	seq := &Sequence{
		Signs:   descs,
		Summary: resolver.Summarize(descs),
		Total:   len(descs),
	}
	span.SetAttributes(attribute.Int("signs.total", seq.Total), attribute.Int("signs.video", seq.Summary.Video))

	if !compose {
		return seq, nil
	}
	if !resolver.AllVideo(descs) {
		seq.Unavailable = "not every sign has a recorded video"
		return seq, nil
	}

	res, err := s.Compose(ctx, resolver.VideoPaths(descs), opts)
	switch {
	case err == nil:
		if res.Strategy == composer.StrategyPassthrough {
			res.URL = passthroughURL(descs, res.Path)
		}
		seq.Composition = res
	case errors.Is(err, composer.ErrUnavailable):
		seq.Unavailable = err.Error()
	default:
		return nil, err
	}
	return seq, nil
}

// passthroughURL returns the public URL of the clip that survived composition.
func passthroughURL(descs []resolver.Descriptor, path string) string {
	for _, d := range descs {
		if d.Video != nil && d.Video.Path == path {
			return d.Video.URL
		}
	}
	return ""
}

// Markup renders tokens into one gesture-markup document.
func (s *Signs) Markup(tokens []string) string {
	return s.codec.Render(token.CanonicalAll(tokens))
}

// Compose joins clip paths into one sequence. Every path must lie inside the
// library directories; nothing is composed otherwise.
func (s *Signs) Compose(ctx context.Context, paths []string, opts composer.Options) (*composer.Result, error) {
	ctx, span := observe.StartSpan(ctx, "signs.compose")
	defer span.End()

	for _, p := range paths {
		if !s.library.Contains(p) {
			span.RecordError(ErrOutsideLibrary)
			return nil, fmt.Errorf("%w: %s", ErrOutsideLibrary, p)
		}
	}

	res, err := s.composer.Compose(ctx, paths, opts)
	if s.metrics != nil {
		strategy, status := "none", "ok"
		if err != nil {
			status = "unavailable"
			if !errors.Is(err, composer.ErrUnavailable) {
				status = "error"
			}
		} else {
			strategy = string(res.Strategy)
		}
		s.metrics.RecordCompose(ctx, strategy, status)
	}
	if err != nil {
		span.RecordError(err)
	}
	return res, err
}

// Evict removes composed sequences older than maxAge.
func (s *Signs) Evict(maxAge time.Duration) (int, error) {
	return s.composer.Evict(maxAge)
}

// Refresh rebuilds the library index.
func (s *Signs) Refresh(ctx context.Context) (library.Coverage, error) {
	if err := s.library.Refresh(ctx); err != nil {
		return library.Coverage{}, err
	}
	s.recordInventory(ctx)
	return s.library.CoverageStats(), nil
}

// Coverage reports library coverage and resolver statistics.
func (s *Signs) Coverage() CoverageReport {
	return CoverageReport{
		Library:    s.library.CoverageStats(),
		Statistics: s.resolver.Statistics(),
	}
}

// AddSign adds or replaces a lexicon sign.
func (s *Signs) AddSign(ctx context.Context, tok string, sign gesture.Sign) (LexiconEntry, error) {
	if err := s.codec.AddSign(ctx, tok, sign); err != nil {
		return LexiconEntry{}, err
	}
	s.recordInventory(ctx)

	tok = token.Canonical(tok)
	stored, _ := s.codec.Lookup(tok)
	return LexiconEntry{Token: tok, Sign: stored}, nil
}

// Lexicon lists every lexicon sign in token order.
func (s *Signs) Lexicon() []LexiconEntry {
	tokens := s.codec.Tokens()
	out := make([]LexiconEntry, 0, len(tokens))
	for _, tok := range tokens {
		if sign, ok := s.codec.Lookup(tok); ok {
			out = append(out, LexiconEntry{Token: tok, Sign: sign})
		}
	}
	return out
}

func (s *Signs) recordInventory(ctx context.Context) {
	if s.metrics != nil {
		s.metrics.RecordInventory(ctx, len(s.library.Signs()), s.codec.LexiconSize())
	}
}

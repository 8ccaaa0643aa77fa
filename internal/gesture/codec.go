// Package gesture renders sign tokens into SiGML gesture-markup documents for
// avatar playback.
//
// Tokens found in the lexicon render as a single manual sign built from their
// handshape, location and movement. Any other token degrades to letter-by-letter
// fingerspelling, so rendering never fails.
package gesture

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/ekisa-team/signbridge/internal/token"
)

// Codec converts tokens into gesture markup using a persisted lexicon.
type Codec struct {
	store *Store

	mu    sync.RWMutex
	signs map[string]Sign
}

// NewCodec loads the lexicon from store.
func NewCodec(ctx context.Context, store *Store) (*Codec, error) {
	signs, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Codec{store: store, signs: signs}, nil
}

// NewMemoryCodec creates a codec over signs that is never persisted.
func NewMemoryCodec(signs map[string]Sign) *Codec {
	c := &Codec{signs: make(map[string]Sign, len(signs))}
	for tok, sign := range signs {
		c.signs[token.Canonical(tok)] = sign.normalized()
	}
	return c
}

// Render builds one document holding a fragment per token, in order.
func (c *Codec) Render(tokens []string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	children := make([]signElement, 0, len(tokens))
	for _, t := range tokens {
		tok := token.Canonical(t)
		if sign, ok := c.signs[tok]; ok {
			children = append(children, sign.element(tok))
			continue
		}
		children = append(children, fingerspellElement(tok))
	}
	return marshalDocument(children)
}

// Fingerspell builds a document that spells tok letter by letter, whether or
// not it has a lexicon entry.
func (c *Codec) Fingerspell(tok string) string {
	return marshalDocument([]signElement{fingerspellElement(tok)})
}

// Fragment returns the bare sign fragment for tok, without the document wrapper.
func (c *Codec) Fragment(tok string) string {
	tok = token.Canonical(tok)

	c.mu.RLock()
	sign, ok := c.signs[tok]
	c.mu.RUnlock()

	if ok {
		return marshalFragment(sign.element(tok))
	}
	return marshalFragment(fingerspellElement(tok))
}

// HasSign reports whether tok has a direct lexicon entry.
func (c *Codec) HasSign(tok string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.signs[token.Canonical(tok)]
	return ok
}

// Lookup returns the lexicon entry for tok.
func (c *Codec) Lookup(tok string) (Sign, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sign, ok := c.signs[token.Canonical(tok)]
	return sign, ok
}

// LexiconSize returns the number of direct entries.
func (c *Codec) LexiconSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.signs)
}

// Tokens returns the lexicon tokens in sorted order.
func (c *Codec) Tokens() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Sorted(maps.Keys(c.signs))
}

// AddSign inserts or replaces the entry for tok and persists the lexicon. The
// in-memory lexicon only changes once the write succeeded.
func (c *Codec) AddSign(ctx context.Context, tok string, sign Sign) error {
	tok = token.Canonical(tok)
	if tok == "" {
		return ErrEmptyToken
	}
	sign = sign.normalized()

	c.mu.Lock()
	defer c.mu.Unlock()

	next := maps.Clone(c.signs)
	next[tok] = sign

	if c.store != nil {
		if err := c.store.Save(ctx, next); err != nil {
			return err
		}
	}
	c.signs = next
	return nil
}

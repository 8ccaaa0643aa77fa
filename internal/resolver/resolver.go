// Package resolver picks the best available representation for each sign
// token: a recorded video, then lexicon gesture markup, then fingerspelling.
// The order is fixed.
package resolver

import (
	"slices"

	"github.com/ekisa-team/signbridge/internal/library"
	"github.com/ekisa-team/signbridge/internal/token"
)

// Library is the recorded-clip lookup used by a Resolver.
type Library interface {
	Video(tok string) (library.Video, bool)
	Fingerspell(tok string) ([]library.Letter, bool)
	Signs() []string
	LetterCount() int
}

// Codec renders gesture markup.
type Codec interface {
	HasSign(tok string) bool
	Render(tokens []string) string
	Fingerspell(tok string) string
	Tokens() []string
}

// Resolver holds read-only references to a library and a codec.
type Resolver struct {
	library Library
	codec   Codec
}

// New creates a resolver.
func New(lib Library, codec Codec) *Resolver {
	return &Resolver{library: lib, codec: codec}
}

// Resolve returns the descriptor for one token.
func (r *Resolver) Resolve(raw string) Descriptor {
	tok := token.Canonical(raw)

	if v, ok := r.library.Video(tok); ok {
		return Descriptor{
			Token:  tok,
			Kind:   KindVideo,
			Status: StatusSuccess,
			Video:  &v,
		}
	}

	if r.codec.HasSign(tok) {
		return Descriptor{
			Token:  tok,
			Kind:   KindMarkup,
			Status: StatusSuccess,
			Markup: &Markup{Document: r.codec.Render([]string{tok})},
		}
	}

	fs := &Fingerspelling{
		Letters:     []library.Letter{},
		Document:    r.codec.Fingerspell(tok),
		Suggestions: Suggest(tok, r.known()),
	}
	if letters, ok := r.library.Fingerspell(tok); ok {
		fs.Letters = letters
		for _, l := range letters {
			fs.TotalDuration += l.Duration
		}
	}

	return Descriptor{
		Token:       tok,
		Kind:        KindFingerspell,
		Status:      StatusFallback,
		Fingerspell: fs,
	}
}

// known lists every token that resolves without fingerspelling.
func (r *Resolver) known() []string {
	videos := r.library.Signs()
	lexicon := r.codec.Tokens()
	all := make([]string, 0, len(videos)+len(lexicon))
	all = append(all, videos...)
	all = append(all, lexicon...)
	slices.Sort(all)
	return slices.Compact(all)
}

// ResolveSequence resolves every token independently, preserving order.
// Blank tokens are skipped.
func (r *Resolver) ResolveSequence(tokens []string) []Descriptor {
	canon := token.CanonicalAll(tokens)
	out := make([]Descriptor, 0, len(canon))
	for _, tok := range canon {
		out = append(out, r.Resolve(tok))
	}
	return out
}

// Statistics describes how tokens known to the library and lexicon resolve.
type Statistics struct {
	// VideoSigns resolve to recorded clips.
	VideoSigns int `json:"video_library_size"`

	// LexiconSigns is the lexicon size, including signs shadowed by a video.
	LexiconSigns int `json:"sigml_lexicon_size"`

	// MarkupSigns resolve to lexicon markup because no video exists.
	MarkupSigns int `json:"sigml_only_signs"`

	// TotalCoverage counts distinct tokens that resolve without fingerspelling.
	TotalCoverage int `json:"total_coverage"`

	FingerspellLetters int      `json:"fingerspelling_letters"`
	AvailableVideos    []string `json:"available_videos"`
}

// Statistics computes outcome counts across the library and lexicon.
func (r *Resolver) Statistics() Statistics {
	videos := r.library.Signs()
	lexicon := r.codec.Tokens()

	inLibrary := make(map[string]struct{}, len(videos))
	for _, v := range videos {
		inLibrary[v] = struct{}{}
	}

	markupOnly := 0
	for _, tok := range lexicon {
		if _, ok := inLibrary[tok]; !ok {
			markupOnly++
		}
	}

	return Statistics{
		VideoSigns:         len(videos),
		LexiconSigns:       len(lexicon),
		MarkupSigns:        markupOnly,
		TotalCoverage:      len(videos) + markupOnly,
		FingerspellLetters: r.library.LetterCount(),
		AvailableVideos:    videos,
	}
}

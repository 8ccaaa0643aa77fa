package resolver

import (
	"cmp"
	"slices"
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	phoneticThreshold = 0.70
	fuzzyThreshold    = 0.85
	maxSuggestions    = 3
)

type scored struct {
	token    string
	score    float64
	phonetic bool
}

// Suggest ranks known tokens that sound or look like tok. Candidates sharing a
// Double Metaphone code need a Jaro-Winkler score of 0.70; the rest need 0.85.
// Phonetic matches rank first.
func Suggest(tok string, known []string) []string {
	word := strings.ToLower(strings.TrimSpace(tok))
	if word == "" {
		return nil
	}
	words := splitWords(word)
	codes := metaphoneCodes(words)

	var hits []scored
	for _, k := range known {
		cand := strings.ToLower(k)
		if cand == "" || cand == word {
			continue
		}
		candWords := splitWords(cand)

		score := bestScore(word, cand, words, candWords)
		phonetic := overlaps(codes, metaphoneCodes(candWords))
		switch {
		case phonetic && score >= phoneticThreshold:
		case score >= fuzzyThreshold:
			phonetic = false
		default:
			continue
		}
		hits = append(hits, scored{token: k, score: score, phonetic: phonetic})
	}

	slices.SortFunc(hits, func(a, b scored) int {
		if a.phonetic != b.phonetic {
			if a.phonetic {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return strings.Compare(a.token, b.token)
	})

	out := make([]string, 0, min(len(hits), maxSuggestions))
	for _, h := range hits[:min(len(hits), maxSuggestions)] {
		out = append(out, h.token)
	}
	return out
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
}

func metaphoneCodes(words []string) map[string]struct{} {
	codes := make(map[string]struct{}, len(words)*2)
	for _, w := range words {
		p, s := matchr.DoubleMetaphone(w)
		if p != "" {
			codes[p] = struct{}{}
		}
		if s != "" {
			codes[s] = struct{}{}
		}
	}
	return codes
}

func overlaps(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for c := range a {
		if _, ok := b[c]; ok {
			return true
		}
	}
	return false
}

// bestScore compares the full strings, the joined words, and every word pair.
func bestScore(full, candFull string, words, candWords []string) float64 {
	score := matchr.JaroWinkler(full, candFull, false)
	if len(words) > 1 || len(candWords) > 1 {
		if s := matchr.JaroWinkler(strings.Join(words, ""), strings.Join(candWords, ""), false); s > score {
			score = s
		}
	}
	for _, w := range words {
		for _, c := range candWords {
			if s := matchr.JaroWinkler(w, c, false); s > score {
				score = s
			}
		}
	}
	return score
}

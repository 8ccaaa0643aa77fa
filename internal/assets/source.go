// Package assets seeds the video library and the fingerspelling alphabet,
// either by downloading clips from configured sources or by rendering
// labelled placeholder clips.
package assets

import (
	"path"
	"strings"
)

// Source maps sign tokens and letters to downloadable clip URLs.
type Source struct {
	Name    string
	Signs   map[string]string
	Letters map[string]string
}

// DefaultTokens are the signs given a placeholder clip when no token list is
// configured.
var DefaultTokens = []string{
	"HELLO", "GOODBYE", "PLEASE", "THANK-YOU", "SORRY", "HELP",
	"YES", "NO", "WANT", "NEED", "LOVE", "LIKE",
	"WHAT", "WHERE", "WHEN", "WHO", "WHY", "HOW",
	"GOOD", "BAD", "HAPPY", "SAD", "OK", "FINE",
	"I", "YOU", "WE", "THEY",
	"GO", "COME", "STOP", "CAN", "WILL",
	"HOME", "WORK", "SCHOOL", "FOOD", "WATER",
	"TODAY", "TOMORROW", "YESTERDAY", "NOW", "WAIT",
	"UNDERSTAND", "KNOW", "THINK", "SEE",
	"MORE", "MUCH", "MANY",
}

// clipExt picks the file extension for a downloaded clip from its URL.
func clipExt(rawURL string) string {
	p := rawURL
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	switch ext := strings.ToLower(path.Ext(p)); ext {
	case ".mp4", ".webm":
		return ext
	default:
		return ".mp4"
	}
}

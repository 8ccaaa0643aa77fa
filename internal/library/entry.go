package library

// DefaultDuration is used when a clip's duration cannot be probed.
const DefaultDuration = 3.0

// LetterDuration is the nominal length of one fingerspelled letter clip.
const LetterDuration = 0.8

// CoverageTarget is the vocabulary size that counts as 100% coverage. It is a
// rough goal, not a measured vocabulary.
const CoverageTarget = 3000

// Entry is one indexed sign. Primary is empty when only variants exist.
type Entry struct {
	Primary  string   `json:"primary"`
	Variants []string `json:"variants"`
	Duration float64  `json:"duration"`
}

// Video is a recorded clip for a token.
type Video struct {
	Token       string  `json:"token"`
	Path        string  `json:"video_path"`
	URL         string  `json:"video_url"`
	Duration    float64 `json:"duration"`
	HasVariants bool    `json:"has_variants"`
}

// Letter is one fingerspelling clip.
type Letter struct {
	Letter   string  `json:"letter"`
	Path     string  `json:"video_path"`
	URL      string  `json:"video_url"`
	Duration float64 `json:"duration"`
}

// MatchKind tells which representation a lookup found.
type MatchKind string

const (
	MatchVideo       MatchKind = "video"
	MatchFingerspell MatchKind = "fingerspelling"
)

// Match is the result of a successful Lookup. Video is set for MatchVideo and
// Letters for MatchFingerspell.
type Match struct {
	Token         string    `json:"token"`
	Kind          MatchKind `json:"type"`
	Video         *Video    `json:"video,omitempty"`
	Letters       []Letter  `json:"letters,omitempty"`
	TotalDuration float64   `json:"total_duration"`
}

// Coverage summarizes the library contents.
type Coverage struct {
	TotalSigns         int     `json:"total_signs"`
	SignsWithVariants  int     `json:"signs_with_variants"`
	FingerspellLetters int     `json:"fingerspelling_letters"`
	CanFingerspell     bool    `json:"can_fingerspell"`
	CoveragePercent    float64 `json:"coverage_percent"`
}

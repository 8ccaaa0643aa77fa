package resolver

import "github.com/ekisa-team/signbridge/internal/library"

// Kind tells which representation a descriptor carries.
type Kind string

const (
	KindVideo       Kind = "video"
	KindMarkup      Kind = "sigml"
	KindFingerspell Kind = "fingerspell"
)

// Status is success for a direct representation and fallback for spelling.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFallback Status = "fallback"
)

// Markup is a gesture-markup document for avatar rendering.
type Markup struct {
	Document string `json:"sigml"`
}

// Fingerspelling spells a token letter by letter. Letters holds the recorded
// letter clips and is empty when the alphabet is incomplete; Document always
// holds the equivalent avatar markup.
type Fingerspelling struct {
	Letters       []library.Letter `json:"letters"`
	Document      string           `json:"sigml"`
	TotalDuration float64          `json:"total_duration"`

	// Suggestions are known tokens close to the spelled one, best first.
	Suggestions []string `json:"suggestions,omitempty"`
}

// Descriptor is the resolved representation of one token. Exactly one of
// Video, Markup and Fingerspell is set, matching Kind.
type Descriptor struct {
	Token  string `json:"token"`
	Kind   Kind   `json:"method"`
	Status Status `json:"status"`

	Video       *library.Video  `json:"video,omitempty"`
	Markup      *Markup         `json:"markup,omitempty"`
	Fingerspell *Fingerspelling `json:"fingerspell,omitempty"`
}

// Summary counts descriptors by kind.
type Summary struct {
	Video       int `json:"video"`
	Markup      int `json:"sigml"`
	Fingerspell int `json:"fingerspell"`
}

// Summarize counts descriptors by kind.
func Summarize(descs []Descriptor) Summary {
	var s Summary
	for _, d := range descs {
		switch d.Kind {
		case KindVideo:
			s.Video++
		case KindMarkup:
			s.Markup++
		case KindFingerspell:
			s.Fingerspell++
		}
	}
	return s
}

// AllVideo reports whether every descriptor is a recorded clip, which makes
// the sequence eligible for composition.
func AllVideo(descs []Descriptor) bool {
	for _, d := range descs {
		if d.Kind != KindVideo {
			return false
		}
	}
	return len(descs) > 0
}

// VideoPaths returns the clip paths of video descriptors in order.
func VideoPaths(descs []Descriptor) []string {
	paths := make([]string, 0, len(descs))
	for _, d := range descs {
		if d.Video != nil {
			paths = append(paths, d.Video.Path)
		}
	}
	return paths
}

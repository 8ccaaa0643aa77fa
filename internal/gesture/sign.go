package gesture

import (
	"encoding/xml"
	"strings"

	"github.com/ekisa-team/signbridge/internal/token"
)

// Sign is one lexicon entry.
type Sign struct {
	Handshape   Handshape `json:"handshape" yaml:"handshape"`
	Location    Location  `json:"location" yaml:"location"`
	Movement    Movement  `json:"movement" yaml:"movement"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewSign builds a sign from free-form names. Unknown handshapes, locations
// and movements are replaced by their defaults.
func NewSign(handshape, location, movement, description string) Sign {
	hs, _ := ParseHandshape(strings.ToLower(strings.TrimSpace(handshape)))
	loc, _ := ParseLocation(strings.ToLower(strings.TrimSpace(location)))
	mov, _ := ParseMovement(strings.ToLower(strings.TrimSpace(movement)))

	return Sign{
		Handshape:   hs,
		Location:    loc,
		Movement:    mov,
		Description: strings.TrimSpace(description),
	}
}

// normalized returns s with every field mapped onto a known value.
func (s Sign) normalized() Sign {
	return NewSign(string(s.Handshape), string(s.Location), string(s.Movement), s.Description)
}

type signElement struct {
	XMLName xml.Name        `xml:"hamgestural_sign"`
	Gloss   string          `xml:"gloss,attr"`
	Manuals []manualElement `xml:"sign_manual,omitempty"`
	Signs   []signElement   `xml:"hamgestural_sign,omitempty"`
}

type manualElement struct {
	Handconfig handconfigElement `xml:"handconfig"`
	Location   locationElement   `xml:"location"`
	Motion     *motionElement    `xml:"rpt_motion,omitempty"`
}

type handconfigElement struct {
	Handshape string `xml:"handshape,attr"`
}

type locationElement struct {
	Location string `xml:"location,attr"`
}

type motionElement struct {
	Directed directedElement `xml:"directedmotion"`
}

type directedElement struct {
	Direction string `xml:"direction,attr"`
}

type document struct {
	XMLName xml.Name    `xml:"sigml"`
	Root    signElement `xml:"hamgestural_sign"`
}

func (s Sign) element(tok string) signElement {
	gloss := s.Description
	if gloss == "" {
		gloss = tok
	}

	return signElement{
		Gloss: gloss,
		Manuals: []manualElement{{
			Handconfig: handconfigElement{Handshape: s.Handshape.Code()},
			Location:   locationElement{Location: s.Location.Code()},
			Motion:     &motionElement{Directed: directedElement{Direction: s.Movement.Code()}},
		}},
	}
}

// fingerspellElement renders one manual per alphabetic character of tok.
func fingerspellElement(tok string) signElement {
	letters := token.Letters(tok)
	el := signElement{
		Gloss:   "FINGERSPELL-" + token.Canonical(tok),
		Manuals: make([]manualElement, 0, len(letters)),
	}
	for _, r := range letters {
		el.Manuals = append(el.Manuals, manualElement{
			Handconfig: handconfigElement{Handshape: letterCode(r)},
			Location:   locationElement{Location: DefaultLocation.Code()},
		})
	}
	return el
}

func marshalDocument(children []signElement) string {
	doc := document{
		Root: signElement{Gloss: "SEQUENCE", Signs: children},
	}

	// Every field is a plain string; marshalling cannot fail.
	out, _ := xml.MarshalIndent(doc, "", "  ")
	return xml.Header + string(out)
}

func marshalFragment(el signElement) string {
	out, _ := xml.MarshalIndent(el, "", "  ")
	return string(out)
}

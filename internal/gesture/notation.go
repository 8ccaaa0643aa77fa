package gesture

// Handshape is the hand configuration of a sign.
type Handshape string

const (
	HandshapeFlat   Handshape = "flat"
	HandshapeFist   Handshape = "fist"
	HandshapeIndex  Handshape = "1"
	HandshapeFive   Handshape = "5"
	HandshapeThree  Handshape = "3"
	HandshapeW      Handshape = "w"
	HandshapeY      Handshape = "y"
	HandshapeX      Handshape = "x"
	HandshapeA      Handshape = "a"
	HandshapeClaw   Handshape = "5-claw"
	HandshapeCurved Handshape = "curved"
	HandshapeFlatO  Handshape = "flat-o"

	DefaultHandshape = HandshapeFlat
)

var handshapeCodes = map[Handshape]string{
	HandshapeFlat:   "hamflathand",
	HandshapeFist:   "hamfist",
	HandshapeIndex:  "hamfinger2",
	HandshapeFive:   "hamfinger5",
	HandshapeThree:  "hamfinger23",
	HandshapeW:      "hamfinger23",
	HandshapeY:      "hampinky",
	HandshapeX:      "hamfinger2345",
	HandshapeA:      "hamfist",
	HandshapeClaw:   "hamfinger5spread",
	HandshapeCurved: "hamfingerbendmod",
	HandshapeFlatO:  "hamflathand",
}

// ParseHandshape maps s onto a known handshape. Unknown names yield
// DefaultHandshape and false.
func ParseHandshape(s string) (Handshape, bool) {
	h := Handshape(s)
	if _, ok := handshapeCodes[h]; ok {
		return h, true
	}
	return DefaultHandshape, false
}

// Code returns the HamNoSys notation code.
func (h Handshape) Code() string {
	if code, ok := handshapeCodes[h]; ok {
		return code
	}
	return handshapeCodes[DefaultHandshape]
}

// Location is where on or around the body a sign is made.
type Location string

const (
	LocationNeutral  Location = "neutral"
	LocationForehead Location = "forehead"
	LocationChin     Location = "chin"
	LocationChest    Location = "chest"
	LocationCheek    Location = "cheek"
	LocationFace     Location = "face"
	LocationMouth    Location = "mouth"

	DefaultLocation = LocationNeutral
)

var locationCodes = map[Location]string{
	LocationNeutral:  "hamloc_neutral",
	LocationForehead: "hamloc_forehead",
	LocationChin:     "hamloc_chin",
	LocationChest:    "hamloc_chest",
	LocationCheek:    "hamloc_cheek",
	LocationFace:     "hamloc_face",
	LocationMouth:    "hamloc_mouth",
}

// ParseLocation maps s onto a known location, defaulting to neutral space.
func ParseLocation(s string) (Location, bool) {
	l := Location(s)
	if _, ok := locationCodes[l]; ok {
		return l, true
	}
	return DefaultLocation, false
}

// Code returns the HamNoSys notation code.
func (l Location) Code() string {
	if code, ok := locationCodes[l]; ok {
		return code
	}
	return locationCodes[DefaultLocation]
}

// Movement is the motion of a sign.
type Movement string

const (
	MovementForward       Movement = "forward"
	MovementBackward      Movement = "backward"
	MovementUpward        Movement = "upward"
	MovementDownward      Movement = "downward"
	MovementDownwardQuick Movement = "downward-quick"
	MovementDownwardTwice Movement = "downward-twice"
	MovementForwardDown   Movement = "forward-down"
	MovementAwaySalute    Movement = "away-salute"
	MovementTowardBody    Movement = "toward-body"
	MovementPullToward    Movement = "pull-toward"
	MovementCircular      Movement = "circular"
	MovementCircularUp    Movement = "circular-up"
	MovementCircularSmall Movement = "circular-small"
	MovementCircularClock Movement = "circular-clock"
	MovementTap           Movement = "tap"
	MovementTapTwice      Movement = "tap-twice"
	MovementWave          Movement = "wave"
	MovementWiggle        Movement = "wiggle"
	MovementWiggleFingers Movement = "wiggle-fingers"
	MovementSideToSide    Movement = "side-to-side"
	MovementNod           Movement = "nod"
	MovementSnapClose     Movement = "snap-close"
	MovementTwistDown     Movement = "twist-down"
	MovementRotateOutward Movement = "rotate-outward"
	MovementFlickUp       Movement = "flick-up"

	DefaultMovement = MovementForward
)

var movementCodes = map[Movement]string{
	MovementForward:       "hammoveforward",
	MovementBackward:      "hammoveback",
	MovementUpward:        "hammoveup",
	MovementDownward:      "hammovedown",
	MovementDownwardQuick: "hammovedown",
	MovementDownwardTwice: "hammovedown",
	MovementForwardDown:   "hammoveDL",
	MovementAwaySalute:    "hammoveforward",
	MovementTowardBody:    "hammoveback",
	MovementPullToward:    "hammoveback",
	MovementCircular:      "hammovecircle",
	MovementCircularUp:    "hammovecircleup",
	MovementCircularSmall: "hammovecircle",
	MovementCircularClock: "hammovecircle",
	MovementTap:           "hammoveTap",
	MovementTapTwice:      "hammoveTap",
	MovementWave:          "hammovewave",
	MovementWiggle:        "hammovewiggle",
	MovementWiggleFingers: "hammovewiggle",
	MovementSideToSide:    "hammoveLR",
	MovementNod:           "hammovedown",
	MovementSnapClose:     "hammoveclose",
	MovementTwistDown:     "hammoverotate",
	MovementRotateOutward: "hammoverotate",
	MovementFlickUp:       "hammoveup",
}

// ParseMovement maps s onto a known movement, defaulting to forward.
func ParseMovement(s string) (Movement, bool) {
	m := Movement(s)
	if _, ok := movementCodes[m]; ok {
		return m, true
	}
	return DefaultMovement, false
}

// Code returns the HamNoSys notation code.
func (m Movement) Code() string {
	if code, ok := movementCodes[m]; ok {
		return code
	}
	return movementCodes[DefaultMovement]
}

// letterHandshapes is the manual alphabet used for fingerspelling.
var letterHandshapes = map[rune]string{
	'A': "hamfist",
	'B': "hamflathand",
	'C': "hamceeall",
	'D': "hamfinger2",
	'E': "hamfingerbendmod",
	'F': "hamfinger2345",
	'G': "hamfinger2",
	'H': "hamfinger23",
	'I': "hampinky",
	'J': "hampinky",
	'K': "hamfinger23",
	'L': "hamfinger2",
	'M': "hamflathand",
	'N': "hamflathand",
	'O': "hamflathand",
	'P': "hamfinger2",
	'Q': "hamfinger2",
	'R': "hamfinger23cross",
	'S': "hamfist",
	'T': "hamfist",
	'U': "hamfinger23",
	'V': "hamfinger23",
	'W': "hamfinger234",
	'X': "hamfinger2",
	'Y': "hampinkymod",
	'Z': "hamfinger2",
}

func letterCode(r rune) string {
	if code, ok := letterHandshapes[r]; ok {
		return code
	}
	return handshapeCodes[DefaultHandshape]
}

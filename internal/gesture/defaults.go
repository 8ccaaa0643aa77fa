package gesture

// DefaultLexicon returns the built-in lexicon used when no lexicon file exists
// or the existing one cannot be read.
func DefaultLexicon() map[string]Sign {
	return map[string]Sign{
		// Greetings and politeness
		"HELLO":   {HandshapeFlat, LocationForehead, MovementAwaySalute, "Hello greeting sign"},
		"GOODBYE": {HandshapeFlat, LocationChest, MovementWave, "Goodbye wave"},
		"PLEASE":  {HandshapeFlat, LocationChest, MovementCircular, "Please - circular motion on chest"},
		"THANK":   {HandshapeFlat, LocationChin, MovementForwardDown, "Thank you - hand from chin outward"},
		"SORRY":   {HandshapeFist, LocationChest, MovementCircular, "Sorry - circular motion on chest"},

		// Questions
		"WHAT":  {HandshapeFive, LocationNeutral, MovementWiggleFingers, "What - wiggle fingers"},
		"WHERE": {HandshapeIndex, LocationNeutral, MovementSideToSide, "Where - point finger side to side"},
		"WHEN":  {HandshapeIndex, LocationNeutral, MovementCircularClock, "When - circular motion like clock"},
		"WHO":   {HandshapeIndex, LocationChin, MovementCircularSmall, "Who - circular motion near chin"},
		"WHY":   {HandshapeY, LocationForehead, MovementWiggle, "Why - Y handshape at forehead"},
		"HOW":   {HandshapeCurved, LocationNeutral, MovementRotateOutward, "How - curved hands rotate"},

		// Verbs
		"GO":         {HandshapeIndex, LocationNeutral, MovementForward, "Go - point forward"},
		"COME":       {HandshapeIndex, LocationNeutral, MovementTowardBody, "Come - point toward body"},
		"HELP":       {HandshapeFlat, LocationChest, MovementUpward, "Help - one hand lifts other"},
		"WANT":       {HandshapeClaw, LocationNeutral, MovementPullToward, "Want - claw hands pull toward body"},
		"NEED":       {HandshapeX, LocationNeutral, MovementDownward, "Need - X handshape moves down"},
		"KNOW":       {HandshapeFlat, LocationForehead, MovementTap, "Know - tap forehead"},
		"UNDERSTAND": {HandshapeIndex, LocationForehead, MovementFlickUp, "Understand - finger flicks up from forehead"},

		// Responses
		"YES": {HandshapeFist, LocationNeutral, MovementNod, "Yes - fist nods like head"},
		"NO":  {HandshapeThree, LocationNeutral, MovementSnapClose, "No - fingers snap together"},

		// Adjectives
		"GOOD":  {HandshapeFlat, LocationChin, MovementForwardDown, "Good - hand from mouth outward"},
		"BAD":   {HandshapeFlat, LocationChin, MovementTwistDown, "Bad - hand from mouth twists down"},
		"HAPPY": {HandshapeFlat, LocationChest, MovementCircularUp, "Happy - hand circles upward on chest"},
		"SAD":   {HandshapeFive, LocationFace, MovementDownward, "Sad - hands move down face"},

		// Time
		"NOW":       {HandshapeY, LocationNeutral, MovementDownwardQuick, "Now - Y hands drop quickly"},
		"TODAY":     {HandshapeY, LocationNeutral, MovementDownwardTwice, "Today - Y hands drop twice"},
		"TOMORROW":  {HandshapeA, LocationCheek, MovementForward, "Tomorrow - A handshape from cheek forward"},
		"YESTERDAY": {HandshapeA, LocationCheek, MovementBackward, "Yesterday - A handshape from cheek backward"},

		// Nouns
		"WATER": {HandshapeW, LocationChin, MovementTap, "Water - W handshape taps chin"},
		"FOOD":  {HandshapeFlatO, LocationMouth, MovementTap, "Food - fingers to mouth"},
		"HOME":  {HandshapeFlatO, LocationCheek, MovementTapTwice, "Home - fingers tap cheek area"},
	}
}

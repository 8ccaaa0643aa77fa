package gesture

import "errors"

// Error definitions for the gesture package.
var (
	ErrCorruptLexicon = errors.New("lexicon file is corrupt")
	ErrEmptyToken     = errors.New("sign token is empty")
)

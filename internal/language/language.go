// Package language tags post bodies with a two-letter language code.
package language

import (
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
)

// MinLength is the shortest text, in characters, worth detecting.
const MinLength = 8

// Detector guesses the language of short texts.
type Detector struct {
	minLength int
}

// NewDetector returns a Detector that gives up on texts shorter than MinLength.
func NewDetector() *Detector {
	return &Detector{minLength: MinLength}
}

// Detect returns an ISO 639-1 code, or "" when the text is too short or
// the language cannot be told.
func (d *Detector) Detect(text string) string {
	if utf8.RuneCountInString(text) < d.minLength {
		return ""
	}
	info := whatlanggo.Detect(text)
	if info.Lang == -1 {
		return ""
	}
	code := info.Lang.Iso6391()
	if len(code) > 2 {
		code = code[:2]
	}
	return code
}

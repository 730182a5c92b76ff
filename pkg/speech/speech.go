package speech

import (
	"regexp"
	"strings"
)

// Artifacts that generative models emit but a talking avatar should not read
// aloud: markdown emphasis, *stage directions*, bracketed or parenthesized
// asides, and block quotes.
var artifactPatterns = []string{
	`\*[^*\n]*\*`,   // *leans forward*, *emphasis*
	`_[^_\n]+_`,     // _emphasis_
	`\[[^\]\n]*\]`,  // [aside]
	`\([^)\n]*\)`,   // (beat)
	"`[^`\n]*`",     // inline code
	`(?m)^>\s?.*$`,  // block quotes
	`(?m)^#+\s?.*$`, // headings
}

// Sanitizer strips non-speakable artifacts from generated replies before
// they are handed to the avatar.
type Sanitizer struct {
	regexes []*regexp.Regexp
	spaces  *regexp.Regexp
}

// NewSanitizer creates a sanitizer with all patterns pre-compiled.
func NewSanitizer() *Sanitizer {
	s := &Sanitizer{
		spaces: regexp.MustCompile(`\s+`),
	}
	for _, pattern := range artifactPatterns {
		s.regexes = append(s.regexes, regexp.MustCompile(pattern))
	}
	return s
}

// Sanitize returns text with artifacts removed and whitespace collapsed.
func (s *Sanitizer) Sanitize(text string) string {
	result := text
	for _, regex := range s.regexes {
		result = regex.ReplaceAllString(result, " ")
	}
	return strings.TrimSpace(s.spaces.ReplaceAllString(result, " "))
}

// Speakable reports whether anything is left to say after sanitizing.
func (s *Sanitizer) Speakable(text string) bool {
	return s.Sanitize(text) != ""
}

// Package moderation masks censored words in chat messages.
// Matching runs on a normalized view of the text (lowercased, leet
// characters mapped back, punctuation and spacing ignored) so padded or
// disguised words are still caught, while the replacement happens on
// the original runes to preserve spacing.
package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"

	"story-chat/errors"
)

type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
	log         *slog.Logger
}

// NewModerator builds the Aho-Corasick automaton from the dictionary.
// An empty dictionary is an error; callers wanting a passthrough should
// keep the *Moderator nil instead.
func NewModerator(censoredWords []string, replacement rune, log *slog.Logger) (*Moderator, error) {
	if len(censoredWords) == 0 {
		return nil, errors.ErrEmptyDictionary
	}

	patterns := make([][]rune, len(censoredWords))
	for i, word := range censoredWords {
		patterns[i], _ = normalize([]rune(word))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, replacement: replacement, log: log}, nil
}

// Censor replaces every censored span with the replacement rune and
// returns the masked text plus the matched (normalized) words.
// A nil Moderator passes the text through untouched.
func (m *Moderator) Censor(original string) (string, []string) {
	if m == nil {
		return original, nil
	}

	origRunes := []rune(original)
	normalized, origIdx := normalize(origRunes)
	if len(normalized) == 0 {
		return original, nil
	}

	spans := m.matcher.MultiPatternSearch(normalized, false)
	if len(spans) == 0 {
		return original, nil
	}

	var found []string
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		found = append(found, string(span.Word))

		// Mask everything between the first and last matched original
		// rune, noise characters included.
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			origRunes[i] = m.replacement
		}
	}

	m.log.Debug("censored message", "words", len(found))
	return string(origRunes), found
}

// normalize lowercases, maps leet characters back to letters, and drops
// noise runes. The returned index slice maps each normalized rune back
// to its position in the input.
func normalize(input []rune) ([]rune, []int) {
	norm := make([]rune, 0, len(input))
	origIdx := make([]int, 0, len(input))

	for i, r := range input {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		norm = append(norm, unicode.ToLower(clean))
		origIdx = append(origIdx, i)
	}
	return norm, origIdx
}

// simplifyRune maps common leet speak characters back to their standard
// alphabet counterparts.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}

package moderation

import (
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"story-chat/errors"
)

const replacementChar = '*'

// The dictionary uses specific words to avoid partial collisions
// (e.g. "he" inside "The").
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	dictionary := []string{"badger", "snake"}
	mod, err := NewModerator(dictionary, replacementChar, log)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    int
	}{
		{
			name:     "simple word and space preservation",
			input:    "The badger is here",
			expected: "The ****** is here",
			words:    1,
		},
		{
			name:     "multiple occurrences",
			input:    "badger badger",
			expected: "****** ******",
			words:    2,
		},
		{
			name:     "leet speak and internal punctuation",
			input:    "Look at B.4.d.g.3r !",
			expected: "Look at ********** !",
			words:    1,
		},
		{
			name:     "uppercase and noise",
			input:    "S-N-A-K-E is here",
			expected: "********* is here",
			words:    1,
		},
		{
			name:     "nothing to censor",
			input:    "story-chat is fine",
			expected: "story-chat is fine",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			got, found := mod.Censor(tt.input)
			req.Equal(tt.expected, got)
			req.Len(found, tt.words)
		})
	}
}

func TestModerator_NilIsPassthrough(t *testing.T) {
	req := require.New(t)
	var mod *Moderator

	got, found := mod.Censor("anything goes 4 badger")
	req.Equal("anything goes 4 badger", got)
	req.Empty(found)
}

func TestNewModerator_EmptyDictionary(t *testing.T) {
	req := require.New(t)
	_, err := NewModerator(nil, replacementChar, logs.GetLoggerFromLevel(slog.LevelDebug))
	req.ErrorIs(err, errors.ErrEmptyDictionary)
}

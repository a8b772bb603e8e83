package internal

import (
	"fmt"
	"time"
)

// Config holds the server settings, unmarshalled from the environment.
type Config struct {
	Host string `env:"HOST,default=0.0.0.0"`
	Port int    `env:"PORT,default=10000"`

	BadgerFilepath string `env:"BADGER_FILEPATH,default=./data/badger"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,default=./data/bluge"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`

	// SessionSecret signs session tokens; every process sharing the
	// store must share it.
	SessionSecret string        `env:"SESSION_SECRET,default=secret_123"`
	SessionTTL    time.Duration `env:"SESSION_TTL,default=24h"`

	BufferSize           int           `env:"BUFFER_SIZE,default=256"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=5s"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`

	// CensoredWordsPath points at a newline-separated dictionary.
	// When empty, moderation is disabled.
	CensoredWordsPath string `env:"CENSORED_WORDS_PATH"`
	CensoredChar      string `env:"CENSORED_CHARACTER,default=*"`

	// DebugPort exposes the store inspect page when non-zero.
	DebugPort int `env:"DEBUG_PORT"`
}

// CharacterRune validates that a replacement setting holds exactly one
// character and returns it.
func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf("CENSORED_CHARACTER must be a single character, got %q", str)
	}
	return r[0], nil
}

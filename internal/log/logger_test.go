package log

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, levelFor("production", "WARN"))
	assert.Equal(t, zerolog.TraceLevel, levelFor("development", "trace"))
	assert.Equal(t, zerolog.ErrorLevel, levelFor("development", "error"))

	assert.Equal(t, zerolog.DebugLevel, levelFor("development", ""))
	assert.Equal(t, zerolog.InfoLevel, levelFor("production", ""))
	assert.Equal(t, zerolog.InfoLevel, levelFor("production", "loud"))
	assert.Equal(t, zerolog.DebugLevel, levelFor("staging", "loud"))
}

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesRunIDToFile(t *testing.T) {
	defer func() { log.Logger = zerolog.Nop() }()

	logFile := filepath.Join(t.TempDir(), "state", "hatch.log")
	var console bytes.Buffer

	runID := Setup(Options{Verbose: true, LogFile: logFile, Console: &console})
	require.NotEmpty(t, runID)

	l := Get("test")
	l.Info().Msg("hello")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), runID)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Contains(t, console.String(), "hello")
}

func TestSetup_LevelFollowsVerbose(t *testing.T) {
	defer func() { log.Logger = zerolog.Nop() }()

	Setup(Options{LogFile: "-", Console: &bytes.Buffer{}})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	Setup(Options{Verbose: true, LogFile: "-", Console: &bytes.Buffer{}})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestSetup_DisabledFileLogging(t *testing.T) {
	defer func() { log.Logger = zerolog.Nop() }()

	var console bytes.Buffer
	Setup(Options{LogFile: "-", Console: &console})
	l := Get("test")
	l.Warn().Msg("console only")

	assert.Contains(t, console.String(), "console only")
}

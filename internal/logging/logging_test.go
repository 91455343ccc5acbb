package logging_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reoring/confskema/internal/logging"
)

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, "warn", "json")

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Str("file", "a.yaml").Msg("shown")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"file":"a.yaml"`)
}

func TestNew_ConsoleAndFallbackLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, "loud", "console")

	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Info().Msg("checked")
	assert.Contains(t, buf.String(), "checked")
	assert.NotContains(t, buf.String(), "{")
}

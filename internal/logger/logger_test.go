package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, New(false).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, New(true).GetLevel())
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf, false)

	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Str("file", "a.xlsx").Msg("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), `"file":"a.xlsx"`)
}

func TestContextRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf, true)

	ctx := WithContext(context.Background(), log)
	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("from context")

	assert.Contains(t, buf.String(), "from context")
}

func TestFromContextDefault(t *testing.T) {
	log := FromContext(context.Background())
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}

func TestSetVerbose(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	buf := &bytes.Buffer{}
	log := NewWithWriter(buf, true)

	SetVerbose(false)
	log.Debug().Msg("quiet")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	log.Debug().Msg("loud")
	assert.Contains(t, buf.String(), "loud")
}

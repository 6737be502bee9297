package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	Init()
	assert.NotEqual(t, zerolog.Disabled, log.GetLevel())
}

func TestInfo(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.InfoLevel)

	Info("booking created", "booking_id", 7, "court_id", 3)

	output := buf.String()
	assert.Contains(t, output, "booking created")
	assert.Contains(t, output, `"booking_id":7`)
	assert.Contains(t, output, `"court_id":3`)
	assert.Contains(t, output, `"level":"info"`)
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.InfoLevel)

	Error("test error")

	assert.Contains(t, buf.String(), "test error")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestWarn(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.InfoLevel)

	Warn("court access denied", "court_id", 4)

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"court_id":4`)
}

func TestDebugFilteredByLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.InfoLevel)

	Debug("hidden")
	assert.Empty(t, buf.String())

	SetOutput(&buf, zerolog.DebugLevel)
	Debugf("test %s", "debug")
	assert.Contains(t, buf.String(), "test debug")
}

func TestInfofErrorf(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.InfoLevel)

	Infof("test %s", "message")
	Errorf("failed %d times", 3)

	output := buf.String()
	assert.Contains(t, output, "test message")
	assert.Contains(t, output, "failed 3 times")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.InfoLevel)

	l := WithError(assert.AnError)
	l.Info().Msg("test with error")

	output := buf.String()
	assert.Contains(t, output, "test with error")
	assert.Contains(t, output, `"error"`)
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.InfoLevel)

	l := WithFields(map[string]interface{}{
		"key1": "value1",
		"key2": 123,
	})
	l.Info().Msg("test with fields")

	output := buf.String()
	assert.Contains(t, output, "test with fields")
	assert.Contains(t, output, "key1")
	assert.Contains(t, output, "value1")
}

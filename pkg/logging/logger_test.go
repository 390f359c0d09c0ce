package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel(" INFO "))
	assert.Equal(t, logrus.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel(""))
}

func TestNewLoggerVerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "error", true)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithFields(Fields{"case_id": 42}).Debug("fetching case")
	assert.Contains(t, buf.String(), "fetching case")
	assert.Contains(t, buf.String(), "case_id=42")
}

func TestNewLoggerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "error", false)
	logger.Info("hidden")
	assert.Empty(t, buf.String())
}

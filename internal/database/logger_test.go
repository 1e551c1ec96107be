package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, ParseLogLevel("silent"))
	assert.Equal(t, logger.Info, ParseLogLevel("INFO"))
	assert.Equal(t, logger.Warn, ParseLogLevel(""))
	assert.Equal(t, logger.Warn, ParseLogLevel("verbose"))
}

func TestLoggerTrace(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	l := NewLogger(log).LogMode(logger.Warn)
	query := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(context.Background(), time.Now(), query, errors.New("boom"))
	if assert.Len(t, hook.Entries, 1) {
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	}

	hook.Reset()
	l.Trace(context.Background(), time.Now(), query, gorm.ErrRecordNotFound)
	assert.Empty(t, hook.Entries)

	hook.Reset()
	l.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)
	if assert.Len(t, hook.Entries, 1) {
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	}

	hook.Reset()
	NewLogger(log).LogMode(logger.Silent).Trace(context.Background(), time.Now(), query, errors.New("boom"))
	assert.Empty(t, hook.Entries)
}

package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// Logger forwards gorm logs to logrus.
type Logger struct {
	log           *logrus.Entry
	level         logger.LogLevel
	slowThreshold time.Duration
}

var _ logger.Interface = (*Logger)(nil)

func NewLogger(log *logrus.Logger) *Logger {
	return &Logger{
		log:           log.WithField("component", "gorm"),
		level:         logger.Warn,
		slowThreshold: 200 * time.Millisecond,
	}
}

// ParseLogLevel maps DB_LOG_LEVEL values onto gorm levels, defaulting to warn.
func ParseLogLevel(s string) logger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func (l Logger) LogMode(level logger.LogLevel) logger.Interface {
	l.level = level
	return &l
}

func (l *Logger) Info(_ context.Context, s string, i ...interface{}) {
	if l.level >= logger.Info {
		l.log.Info(fmt.Sprintf(s, i...))
	}
}

func (l *Logger) Warn(_ context.Context, s string, i ...interface{}) {
	if l.level >= logger.Warn {
		l.log.Warn(fmt.Sprintf(s, i...))
	}
}

func (l *Logger) Error(_ context.Context, s string, i ...interface{}) {
	if l.level >= logger.Error {
		l.log.Error(fmt.Sprintf(s, i...))
	}
}

func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	entry := l.log.WithFields(logrus.Fields{
		"file":       utils.FileWithLineNum(),
		"latency_ms": float64(elapsed.Nanoseconds()) / 1e6,
		"rows":       rows,
	})

	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		entry.WithError(err).Error(sql)
	case elapsed > l.slowThreshold && l.level >= logger.Warn:
		entry.Warn("slow query: " + sql)
	case l.level >= logger.Info:
		entry.Debug(sql)
	}
}

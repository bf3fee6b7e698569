package common

import (
	"fmt"
	"io"
	"regexp"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is a category aware logger. Categories name the component that logs
// ("Keyword:click", "Remote:run_keyword") and can be filtered with a regular
// expression.
type Logger struct {
	*logrus.Logger

	mu             sync.RWMutex
	categoryFilter *regexp.Regexp
}

// NullLogger returns a logger that discards everything.
func NullLogger() *Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewLogger(log, nil)
}

// NewLogger wraps logger. A nil categoryFilter logs all categories.
func NewLogger(logger *logrus.Logger, categoryFilter *regexp.Regexp) *Logger {
	return &Logger{
		Logger:         logger,
		categoryFilter: categoryFilter,
	}
}

// Tracef logs a trace message.
func (l *Logger) Tracef(category string, msg string, args ...any) {
	l.Logf(logrus.TraceLevel, category, msg, args...)
}

// Debugf logs a debug message.
func (l *Logger) Debugf(category string, msg string, args ...any) {
	l.Logf(logrus.DebugLevel, category, msg, args...)
}

// Errorf logs an error message.
func (l *Logger) Errorf(category string, msg string, args ...any) {
	l.Logf(logrus.ErrorLevel, category, msg, args...)
}

// Infof logs an info message.
func (l *Logger) Infof(category string, msg string, args ...any) {
	l.Logf(logrus.InfoLevel, category, msg, args...)
}

// Warnf logs a warning message.
func (l *Logger) Warnf(category string, msg string, args ...any) {
	l.Logf(logrus.WarnLevel, category, msg, args...)
}

// Logf logs a message at level if the level is enabled and the category
// passes the filter.
func (l *Logger) Logf(level logrus.Level, category string, msg string, args ...any) {
	if l == nil || l.Logger == nil {
		return
	}
	// don't log if the current log level isn't in the required level.
	if l.GetLevel() < level {
		return
	}
	l.mu.RLock()
	filter := l.categoryFilter
	l.mu.RUnlock()
	if filter != nil && !filter.MatchString(category) {
		return
	}
	l.WithField("category", category).Logf(level, msg, args...)
}

// SetLevel sets the logger level from a level string.
// Accepted values are the logrus level names: panic, fatal, error, warn,
// info, debug and trace.
func (l *Logger) SetLevel(level string) error {
	pl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parsing log level %q: %w", level, err)
	}
	l.Logger.SetLevel(pl)
	return nil
}

// SetCategoryFilter compiles and sets the category filter. An empty pattern
// removes the filter.
func (l *Logger) SetCategoryFilter(pattern string) (err error) {
	var re *regexp.Regexp
	if pattern != "" {
		if re, err = regexp.Compile(pattern); err != nil {
			return fmt.Errorf("compiling category filter %q: %w", pattern, err)
		}
	}
	l.mu.Lock()
	l.categoryFilter = re
	l.mu.Unlock()
	return nil
}

// DebugMode returns true if the logger level is set to Debug or higher.
func (l *Logger) DebugMode() bool {
	return l.GetLevel() >= logrus.DebugLevel
}

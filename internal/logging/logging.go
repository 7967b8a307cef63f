// Package logging is a small leveled logger shared by the commands and the
// diagram renderer.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Level is a log severity.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "INFO"
}

var (
	currentLevel = int32(LevelInfo)
	mu           sync.Mutex
	baseLogger   = log.New(os.Stderr, "", log.Ldate|log.Ltime)
)

// ParseLevel maps a level name to a Level.
func ParseLevel(s string) (Level, error) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// SetLevel parses and sets the global level. Unknown names are an error
// and leave the level unchanged.
func SetLevel(s string) error {
	l, err := ParseLevel(s)
	if err != nil {
		return err
	}
	atomic.StoreInt32(&currentLevel, int32(l))
	return nil
}

// GetLevel returns the current level.
func GetLevel() Level { return Level(atomic.LoadInt32(&currentLevel)) }

// SetOutput redirects log output. The terminal viewer sends it to a file
// while it owns the screen.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	baseLogger.SetOutput(w)
}

func logf(l Level, format string, args ...interface{}) {
	if GetLevel() > l {
		return
	}
	// no args: print verbatim so stray % in preformatted text survives
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	mu.Lock()
	defer mu.Unlock()
	baseLogger.Printf("[%s] %s", l, msg)
}

func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

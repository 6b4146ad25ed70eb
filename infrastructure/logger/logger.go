package logger

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type logEntry struct {
	level Level
	log   []byte
}

// Logger writes tagged, leveled log lines for one subsystem to a shared
// Backend.
type Logger struct {
	level     Level
	tag       string
	backend   *Backend
	writeChan chan logEntry
}

// SetLevel sets the minimum level this logger will emit.
func (l *Logger) SetLevel(level Level) {
	atomic.StoreUint32((*uint32)(&l.level), uint32(level))
}

// Level returns the logger's current minimum level.
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32((*uint32)(&l.level)))
}

// Backend returns the backend this logger writes to.
func (l *Logger) Backend() *Backend {
	return l.backend
}

func (l *Logger) write(level Level, s string) {
	if level < l.Level() {
		return
	}
	line := fmt.Sprintf("%s [%s] %s: %s\n", time.Now().Format("2006-01-02 15:04:05.000"), level, l.tag, s)
	select {
	case l.writeChan <- logEntry{level: level, log: []byte(line)}:
	default:
		// No receiver is ready on the unbuffered channel (the backend isn't
		// running, or is still writing a previous entry); fall back to
		// stderr so log lines are never silently dropped.
		fmt.Fprint(os.Stderr, line)
	}
}

// Tracef formats and logs a message at LevelTrace.
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.write(LevelTrace, fmt.Sprintf(format, args...))
}

// Debugf formats and logs a message at LevelDebug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.write(LevelDebug, fmt.Sprintf(format, args...))
}

// Infof formats and logs a message at LevelInfo.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.write(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf formats and logs a message at LevelWarn.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.write(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf formats and logs a message at LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.write(LevelError, fmt.Sprintf(format, args...))
}

// Criticalf formats and logs a message at LevelCritical.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.write(LevelCritical, fmt.Sprintf(format, args...))
}

var (
	registryMu sync.Mutex
	backend    = NewBackend()
	registry   = map[string]*Logger{}
)

func init() {
	// Default to stderr so a binary that never adds its own writers still
	// sees its own log output, matching kaspad's zero-config behavior.
	_ = backend.AddLogWriter(nopCloser{os.Stderr}, LevelInfo)
	_ = backend.Run()
}

type nopCloser struct{ *os.File }

func (nopCloser) Close() error { return nil }

// RegisterSubSystem returns the Logger for the given subsystem tag,
// creating it against the package-wide backend on first use. Every package
// that logs declares its own `var log = logger.RegisterSubSystem("TAG")` in
// a log.go file, matching the one-logger-per-package convention.
func RegisterSubSystem(tag string) *Logger {
	registryMu.Lock()
	defer registryMu.Unlock()
	if l, ok := registry[tag]; ok {
		return l
	}
	l := backend.Logger(tag)
	registry[tag] = l
	return l
}

// SetLogLevels sets the level of every registered subsystem logger.
func SetLogLevels(level Level) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, l := range registry {
		l.SetLevel(level)
	}
}

// DefaultBackend returns the package-wide backend, so a process entry point can add
// file writers before any subsystem starts logging heavily.
func DefaultBackend() *Backend {
	return backend
}

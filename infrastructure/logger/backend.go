package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

// defaultFlags specifies changes to the default logger behavior. It is set
// during package init and configured using the LOGFLAGS environment
// variable. New backends can override these defaults with WithFlags.
var defaultFlags = getDefaultFlags()

// Flags recorded on a Backend. The Backend stores them but its write path
// does not read them, so log lines carry no callsite information whichever
// flags are set.
const (
	// LogFlagLongFile names the full-path callsite form, e.g.
	// /a/b/c/main.go:123.
	LogFlagLongFile uint32 = 1 << iota

	// LogFlagShortFile names the filename-only callsite form, e.g.
	// main.go:123.
	LogFlagShortFile
)

func getDefaultFlags() (flags uint32) {
	for _, f := range strings.Split(os.Getenv("LOGFLAGS"), ",") {
		switch f {
		case "longfile":
			flags |= LogFlagLongFile
		case "shortfile":
			flags |= LogFlagShortFile
		}
	}
	return
}

const logsBuffer = 0

// Backend is a logging backend. Subsystems created from a Backend all write
// to the Backend's writers; Backend serializes those writes across
// subsystems.
type Backend struct {
	flag      uint32
	isRunning uint32
	writers   []logWriter
	writeChan chan logEntry
	syncClose sync.Mutex
}

// NewBackendWithFlags configures a Backend to use the given flags instead of
// the LOGFLAGS-derived defaults.
func NewBackendWithFlags(flags uint32) *Backend {
	return &Backend{flag: flags, writeChan: make(chan logEntry, logsBuffer)}
}

// NewBackend creates a new logger backend using the LOGFLAGS-derived
// defaults.
func NewBackend() *Backend {
	return NewBackendWithFlags(defaultFlags)
}

const (
	defaultThresholdKB = 100 * 1000 // 100 MB logs by default.
	defaultMaxRolls    = 8
)

type logWriter interface {
	io.WriteCloser
	LogLevel() Level
}

type logWriterWrap struct {
	io.WriteCloser
	logLevel Level
}

func (lw logWriterWrap) LogLevel() Level {
	return lw.logLevel
}

// AddLogFile adds a file the backend writes to at the given level, using the
// default rotation settings. The file is created if it doesn't exist.
func (b *Backend) AddLogFile(logFile string, logLevel Level) error {
	return b.AddLogFileWithCustomRotator(logFile, logLevel, defaultThresholdKB, defaultMaxRolls)
}

// AddLogWriter adds an arbitrary io.WriteCloser the backend writes to at the
// given level.
func (b *Backend) AddLogWriter(w io.WriteCloser, logLevel Level) error {
	if b.IsRunning() {
		return errors.New("the logger backend is already running")
	}
	b.writers = append(b.writers, logWriterWrap{WriteCloser: w, logLevel: logLevel})
	return nil
}

// AddLogFileWithCustomRotator adds a file the backend writes to at the given
// level, with custom log rotation settings.
func (b *Backend) AddLogFileWithCustomRotator(logFile string, logLevel Level, thresholdKB int64, maxRolls int) error {
	if b.IsRunning() {
		return errors.New("the logger backend is already running")
	}
	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0700); err != nil {
			return errors.Errorf("failed to create log directory: %+v", err)
		}
	}
	r, err := rotator.New(logFile, thresholdKB, false, maxRolls)
	if err != nil {
		return errors.Errorf("failed to create file rotator: %s", err)
	}
	b.writers = append(b.writers, logWriterWrap{WriteCloser: r, logLevel: logLevel})
	return nil
}

// Run launches the backend's write loop in its own goroutine. Call once.
func (b *Backend) Run() error {
	if !atomic.CompareAndSwapUint32(&b.isRunning, 0, 1) {
		return errors.New("the logger backend is already running")
	}
	go func() {
		defer func() {
			if err := recover(); err != nil {
				fmt.Fprintf(os.Stderr, "fatal error in logger backend: %+v\n", err)
				fmt.Fprintf(os.Stderr, "stack trace: %s\n", debug.Stack())
			}
		}()
		b.runBlocking()
	}()
	return nil
}

func (b *Backend) runBlocking() {
	defer atomic.StoreUint32(&b.isRunning, 0)
	b.syncClose.Lock()
	defer b.syncClose.Unlock()

	for entry := range b.writeChan {
		for _, w := range b.writers {
			if entry.level >= w.LogLevel() {
				_, _ = w.Write(entry.log)
			}
		}
	}
}

// IsRunning reports whether Run has been called and the backend is still
// draining writes.
func (b *Backend) IsRunning() bool {
	return atomic.LoadUint32(&b.isRunning) != 0
}

// Close drains pending writes and closes every writer.
func (b *Backend) Close() {
	close(b.writeChan)
	b.syncClose.Lock()
	defer b.syncClose.Unlock()
	for _, w := range b.writers {
		_ = w.Close()
	}
}

// Logger returns a new per-subsystem logger that writes to this backend. The
// logger defaults to LevelInfo.
func (b *Backend) Logger(subsystemTag string) *Logger {
	return &Logger{level: LevelInfo, tag: subsystemTag, backend: b, writeChan: b.writeChan}
}

package panics

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/UserR256/PRCYCoin/infrastructure/logger"
)

const exitHandlerTimeout = 5 * time.Second

// HandlePanic recovers a panic and initiates a clean shutdown if one
// occurred. It is meant to be deferred at the top of a goroutine.
func HandlePanic(log *logger.Logger, goroutineStackTrace []byte) {
	err := recover()
	if err == nil {
		return
	}
	exit(log, fmt.Sprintf("fatal error: %+v", err), debug.Stack(), goroutineStackTrace)
}

// GoroutineWrapperFunc returns a wrapper that spawns f in a new goroutine
// with panic recovery wired to log. Every miner worker goroutine is started
// through this, so a panic in one worker is logged and the process exits
// cleanly instead of crashing the whole program silently.
func GoroutineWrapperFunc(log *logger.Logger) func(f func()) {
	return func(f func()) {
		stackTrace := debug.Stack()
		go func() {
			defer HandlePanic(log, stackTrace)
			f()
		}()
	}
}

// Exit prints reason to log and initiates a clean shutdown.
func Exit(log *logger.Logger, reason string) {
	exit(log, reason, nil, nil)
}

func exit(log *logger.Logger, reason string, currentStack, goroutineStack []byte) {
	done := make(chan struct{})
	go func() {
		log.Criticalf("exiting: %s", reason)
		if goroutineStack != nil {
			log.Criticalf("goroutine stack trace: %s", goroutineStack)
		}
		if currentStack != nil {
			log.Criticalf("stack trace: %s", currentStack)
		}
		log.Backend().Close()
		close(done)
	}()

	select {
	case <-time.After(exitHandlerTimeout):
		fmt.Fprintln(os.Stderr, "couldn't exit gracefully")
	case <-done:
	}
	os.Exit(1)
}

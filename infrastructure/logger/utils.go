package logger

import (
	"time"
)

// LogAndMeasureExecutionTime logs that functionName started, and returns a
// func that logs how long it took once called. Typical use:
//
//	onEnd := logger.LogAndMeasureExecutionTime(log, "BuildBlock")
//	defer onEnd()
func LogAndMeasureExecutionTime(log *Logger, functionName string) (onEnd func()) {
	start := time.Now()
	log.Debugf("%s start", functionName)
	return func() {
		log.Debugf("%s end. Took: %s", functionName, time.Since(start))
	}
}

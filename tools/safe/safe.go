package safe

import (
	"AMProject/logger"
)

// SafeGo starts a new goroutine that recovers from panic,
// so that panics don't crash the entire program.
func SafeGo(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("[SafeGo] panic recovered: %v", r)
			}
		}()
		f()
	}()
}

// Recover is the deferred form for goroutines that manage their own loop.
func Recover(where string) {
	if r := recover(); r != nil {
		logger.Errorf("[%s] panic recovered: %v", where, r)
	}
}

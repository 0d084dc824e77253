//go:build !windows

package core

import (
	"os"
	"syscall"
)

// SIGUSR1 sends the modules to the background, SIGUSR2 brings them back.
var watchedSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2}

// handleSignal reports whether Run should keep waiting.
func (a *AppContext) handleSignal(sig os.Signal) bool {
	switch sig {
	case syscall.SIGUSR1:
		a.EnterBackground()
		return true
	case syscall.SIGUSR2:
		a.EnterForeground()
		a.BecomeActive()
		return true
	default:
		a.Logger.Info("received signal", "signal", sig.String())
		return false
	}
}

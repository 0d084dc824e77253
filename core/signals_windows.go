//go:build windows

package core

import (
	"os"
	"syscall"
)

var watchedSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

func (a *AppContext) handleSignal(sig os.Signal) bool {
	a.Logger.Info("received signal", "signal", sig.String())
	return false
}

//go:build linux

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// notifyInfo wires SIGUSR1 as the status-dump signal: Linux has no
// SIGINFO, and SIGUSR1 is the conventional stand-in.
func notifyInfo(ch chan os.Signal) {
	signal.Notify(ch, syscall.SIGUSR1)
}

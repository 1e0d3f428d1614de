//go:build !windows

package system

import (
	"os"
	"syscall"
)

// SIGCONT is delivered when a stopped process is resumed, e.g. after fg.
func foregroundSignals() []os.Signal {
	return []os.Signal{syscall.SIGCONT}
}

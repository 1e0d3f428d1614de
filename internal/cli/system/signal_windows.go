//go:build windows

package system

import "os"

func foregroundSignals() []os.Signal {
	return nil
}

//go:build !windows

package launcher

import (
	"os"
	"syscall"
)

// interrupt asks the server to shut down; the Minecraft server saves worlds on SIGTERM.
func interrupt(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}

//go:build windows

package launcher

import "os"

// interrupt stops the server. Windows cannot deliver a console interrupt to a single
// child process, so it is terminated.
func interrupt(p *os.Process) error {
	return p.Kill()
}

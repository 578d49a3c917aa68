//go:build unix

package host

import (
	"os"

	"golang.org/x/sys/unix"
)

// pollStdin reports whether stdin has at least one byte ready, without
// blocking (zero-timeout poll).
func pollStdin() bool {
	fds := []unix.PollFd{{Fd: int32(os.Stdin.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	return err == nil && n > 0 && fds[0].Revents&unix.POLLIN != 0
}

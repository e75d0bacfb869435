//go:build linux

package device

import "golang.org/x/sys/unix"

// availableViaIoctl asks the kernel how many bytes are queued in the tty's
// input buffer via TIOCINQ — the same style of direct kernel query the
// teacher used golang.org/x/sys/unix for against an AF_CAN raw socket, here
// pointed at a serial line discipline instead.
func availableViaIoctl(fd int) (int, bool) {
	n, err := unix.IoctlGetInt(fd, unix.TIOCINQ)
	if err != nil {
		return 0, false
	}
	return n, true
}

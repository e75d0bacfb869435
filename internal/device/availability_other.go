//go:build !linux

package device

// availableViaIoctl has no portable equivalent of TIOCINQ outside Linux;
// SerialDevice falls back to its probe-read synthesis unconditionally.
func availableViaIoctl(fd int) (int, bool) { return 0, false }

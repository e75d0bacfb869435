package device

import (
	"os"
	"sync"

	"github.com/tarm/serial"
)

// SerialDevice adapts github.com/tarm/serial to the Device interface.
//
// tarm/serial's *serial.Port exposes no file descriptor and no OS-level
// "bytes waiting" call, so Available first tries a TIOCINQ ioctl (see
// availability_linux.go) against a second, read-only file handle opened on
// the same path purely for that query. Where TIOCINQ isn't available (a
// non-Linux build, or the second open failing), Available falls back to a
// non-blocking probe read: the port's own ReadTimeout is forced to zero and
// a small internal read-ahead buffer absorbs whatever the probe pulls off
// the wire, handing it back out on the next real Read.
type SerialDevice struct {
	mu      sync.Mutex
	port    *serial.Port
	probe   *os.File
	ahead   []byte
	scratch []byte
}

// OpenSerial opens name at baud with a zero internal read timeout (the
// transport's resumable parser owns all inter-byte timing). It opens,
// closes, and re-opens the port once to defeat stale OS-level locks left
// behind by a crashed previous process, matching common serial-port
// opening folklore in this domain. It also opens a second, read-only
// handle on the same path to back the TIOCINQ probe in Available; a
// failure there is not fatal, it just disables the ioctl fast path.
func OpenSerial(name string, baud int) (*SerialDevice, error) {
	cfg := &serial.Config{Name: name, Baud: baud, ReadTimeout: 0}
	p, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, err
	}
	_ = p.Close()
	p, err = serial.OpenPort(cfg)
	if err != nil {
		return nil, err
	}
	probe, _ := os.OpenFile(name, os.O_RDONLY, 0)
	return &SerialDevice{port: p, probe: probe, scratch: make([]byte, 4096)}, nil
}

func (d *SerialDevice) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.ahead) > 0 {
		n := copy(p, d.ahead)
		d.ahead = d.ahead[n:]
		return n, nil
	}
	return d.port.Read(p)
}

func (d *SerialDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.port.Write(p)
}

// Available prefers a TIOCINQ ioctl against the probe handle; if that's
// unavailable it falls back to a non-blocking probe read, stashing
// whatever it gets into the read-ahead buffer so a subsequent Read sees it.
func (d *SerialDevice) Available() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.ahead) > 0 {
		return len(d.ahead), nil
	}
	if d.probe != nil {
		if n, ok := availableViaIoctl(int(d.probe.Fd())); ok {
			return n, nil
		}
	}
	n, err := d.port.Read(d.scratch)
	if n > 0 {
		d.ahead = append(d.ahead[:0], d.scratch[:n]...)
	}
	if err != nil {
		return len(d.ahead), nil // transient timeouts are not errors here
	}
	return len(d.ahead), nil
}

func (d *SerialDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.probe != nil {
		_ = d.probe.Close()
	}
	return d.port.Close()
}

package device

import (
	"errors"
	"sync"
)

// ErrClosed is returned by a Mock's Read/Write after Close.
var ErrClosed = errors.New("device: mock closed")

// Mock is an in-memory Device used for deterministic tests and fuzzing.
// Feed simulates bytes arriving from the wire; Written captures everything
// sent via Write. Safe for concurrent use.
type Mock struct {
	mu       sync.Mutex
	inbox    []byte
	written  []byte
	closed   bool
	readCaps []int // queued per-call Read size limits, simulating short OS reads
	loopback bool
}

// NewMock returns an empty Mock device.
func NewMock() *Mock { return &Mock{} }

// EnableLoopback makes every Write also appear in the read-side inbox,
// turning the Mock into a self-contained two-party wire for tests that want
// an independent sender and receiver Transport talking to each other
// without manually bridging Written() into Feed().
func (m *Mock) EnableLoopback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loopback = true
}

// Feed appends bytes as if they had already arrived on the wire and were
// sitting in the OS-level serial buffer, visible to Available immediately.
func (m *Mock) Feed(p []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inbox = append(m.inbox, p...)
}

// SetReadChunks queues per-call byte limits for successive Read calls, so a
// test can reproduce a real serial port returning fewer bytes than requested
// even though the full packet already sits in the OS buffer. Once the queue
// is drained, Read reverts to returning everything available.
func (m *Mock) SetReadChunks(sizes []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readCaps = append([]int(nil), sizes...)
}

// Written returns a copy of everything written to the device so far.
func (m *Mock) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.written...)
}

// ResetWritten clears the write-capture buffer.
func (m *Mock) ResetWritten() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written = m.written[:0]
}

func (m *Mock) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}
	if len(m.inbox) == 0 {
		return 0, nil
	}
	limit := len(p)
	if len(m.readCaps) > 0 {
		if m.readCaps[0] < limit {
			limit = m.readCaps[0]
		}
		m.readCaps = m.readCaps[1:]
	}
	n := copy(p[:limit], m.inbox)
	m.inbox = m.inbox[n:]
	return n, nil
}

func (m *Mock) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}
	m.written = append(m.written, p...)
	if m.loopback {
		m.inbox = append(m.inbox, p...)
	}
	return len(p), nil
}

func (m *Mock) Available() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}
	return len(m.inbox), nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

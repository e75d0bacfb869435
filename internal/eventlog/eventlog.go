// Package eventlog appends a CBOR-encoded record of every decoded packet to
// disk, standing in for the "on-disk logging queue" collaborator spec.md §1
// excludes from the core transport. Records are length-prefixed so Replay
// can stream them back without buffering the whole file.
package eventlog

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Record is one logged packet.
type Record struct {
	UnixNanoTime int64  `cbor:"t"`
	Payload      []byte `cbor:"p"`
}

// Log appends records to a file, rotating it once it exceeds MaxBytes.
type Log struct {
	mu       sync.Mutex
	path     string
	f        *os.File
	size     int64
	MaxBytes int64
}

// Open opens (creating if necessary) the log file at path for appending.
func Open(path string, maxBytes int64) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("eventlog: open: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("eventlog: stat: %w", err)
	}
	return &Log{path: path, f: f, size: info.Size(), MaxBytes: maxBytes}, nil
}

// Append writes rec to the log, rotating first if this write would exceed
// MaxBytes (MaxBytes <= 0 disables rotation).
func (l *Log) Append(rec Record) error {
	encoded, err := cbor.Marshal(rec)
	if err != nil {
		return fmt.Errorf("eventlog: marshal: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.MaxBytes > 0 && l.size+int64(len(encoded))+4 > l.MaxBytes {
		if err := l.rotateLocked(); err != nil {
			return err
		}
	}

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(encoded)))
	if _, err := l.f.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("eventlog: write length: %w", err)
	}
	if _, err := l.f.Write(encoded); err != nil {
		return fmt.Errorf("eventlog: write record: %w", err)
	}
	l.size += int64(len(lenBuf)) + int64(len(encoded))
	return nil
}

func (l *Log) rotateLocked() error {
	if err := l.f.Close(); err != nil {
		return fmt.Errorf("eventlog: close for rotation: %w", err)
	}
	if err := os.Rename(l.path, l.path+".1"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("eventlog: rotate: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("eventlog: reopen after rotation: %w", err)
	}
	l.f = f
	l.size = 0
	return nil
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// Replay reads every record from path in order, calling fn for each. It
// does not require the Log to be open and may run concurrently with an
// open Log on a different (rotated) file.
func Replay(path string, fn func(Record) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("eventlog: open for replay: %w", err)
	}
	defer f.Close()

	var lenBuf [4]byte
	for {
		if _, err := io.ReadFull(f, lenBuf[:]); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("eventlog: read length: %w", err)
		}
		n := binary.BigEndian.Uint32(lenBuf[:])
		buf := make([]byte, n)
		if _, err := io.ReadFull(f, buf); err != nil {
			return fmt.Errorf("eventlog: read record: %w", err)
		}
		var rec Record
		if err := cbor.Unmarshal(buf, &rec); err != nil {
			return fmt.Errorf("eventlog: unmarshal: %w", err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

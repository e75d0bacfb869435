package transport

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/cobs"
)

// stage is the resumable parser's finite-state-machine position.
type stage int

const (
	stageAwaitStart stage = iota
	stageAwaitSize
	stageAwaitBody
	stageAwaitCRC
	stageDone
)

// parseState is the iteration carry-state threaded through repeated
// parseStep calls within a single ReceiveData invocation. It never
// survives across ReceiveData calls: on success or terminal error the FSM
// returns to stageAwaitStart with no residual state.
type parseState struct {
	stage       stage
	declaredLen int // L: the unencoded payload length declared by SIZE
	encodedLen  int // L+2: length of the COBS-encoded region (excludes CRC)
	bodyWritten int
	crcWritten  int
}

// parseOutcome classifies what a parseStep call accomplished.
type parseOutcome int

const (
	outcomeNeedMore parseOutcome = iota
	outcomeDone
	outcomeNoPacket
	outcomeError
)

// parseStep advances st as far as possible through data, writing the
// encoded-payload-and-CRC region directly into rxBuf (sized by the
// caller to at least cfg.MaxTxPayload+2+crc width). It returns how many
// bytes of data it consumed, the resulting outcome, and an error when
// outcome is outcomeError.
//
// packet_size (the cutover between body and CRC accumulation) is always
// the length of the encoded-payload region excluding the CRC postamble:
// declaredLen+2. rxBuf must have room for encodedLen+crcWidth bytes.
func parseStep(data []byte, st *parseState, cfg Config, rxBuf []byte) (consumed int, outcome parseOutcome, err error) {
	pos := 0
	for {
		switch st.stage {
		case stageAwaitStart:
			idx := bytes.IndexByte(data[pos:], cfg.Start)
			if idx < 0 {
				pos = len(data)
				if cfg.AllowStartByteErrors {
					return pos, outcomeError, ErrStartMissingError
				}
				return pos, outcomeNoPacket, nil
			}
			pos += idx + 1 // consume scanned noise plus the start byte itself
			st.stage = stageAwaitSize

		case stageAwaitSize:
			if pos >= len(data) {
				return pos, outcomeNeedMore, nil
			}
			l := int(data[pos])
			pos++
			if l < cfg.MinRxPayload || l > cfg.MaxTxPayload {
				return pos, outcomeError, fmt.Errorf("%w: %d", ErrBadSize, l)
			}
			st.declaredLen = l
			st.encodedLen = l + 2
			st.bodyWritten = 0
			st.crcWritten = 0
			st.stage = stageAwaitBody

		case stageAwaitBody:
			for pos < len(data) && st.bodyWritten < st.encodedLen {
				b := data[pos]
				pos++
				rxBuf[st.bodyWritten] = b
				st.bodyWritten++
				if st.bodyWritten == st.encodedLen {
					if b != cfg.Delimiter {
						return pos, outcomeError, ErrDelimiterMissing(st.bodyWritten)
					}
				} else if b == cfg.Delimiter {
					return pos, outcomeError, ErrDelimiterEarly(st.bodyWritten - 1)
				}
			}
			if st.bodyWritten < st.encodedLen {
				return pos, outcomeNeedMore, nil
			}
			st.stage = stageAwaitCRC

		case stageAwaitCRC:
			crcLen := cfg.CRCByteLen()
			for pos < len(data) && st.crcWritten < crcLen {
				rxBuf[st.encodedLen+st.crcWritten] = data[pos]
				pos++
				st.crcWritten++
			}
			if st.crcWritten < crcLen {
				return pos, outcomeNeedMore, nil
			}
			st.stage = stageDone
			return pos, outcomeDone, nil
		}
	}
}

// ErrDelimiterEarly and ErrDelimiterMissing are constructors, not plain
// sentinels, because the parser's errors.Is-compatible wrapping needs the
// wire position for diagnostics while still unwrapping to cobs' sentinels.
func ErrDelimiterEarly(pos int) error {
	return fmt.Errorf("transport: %w at body offset %d", cobs.ErrDelimiterEarly, pos)
}

func ErrDelimiterMissing(pos int) error {
	return fmt.Errorf("transport: %w at body offset %d", cobs.ErrDelimiterMissing, pos)
}

// stageTimeoutError maps the stage a needMore outcome stalled in to the
// spec's stage-specific timeout error.
func stageTimeoutError(s stage) error {
	switch s {
	case stageAwaitSize:
		return ErrSizeTimeout
	case stageAwaitBody:
		return ErrBodyTimeout
	case stageAwaitCRC:
		return ErrCrcTimeout
	default:
		return ErrBodyTimeout
	}
}

// stageLabel maps a stage to a stable, low-cardinality Prometheus label.
func stageLabel(s stage) string {
	switch s {
	case stageAwaitStart:
		return "await_start"
	case stageAwaitSize:
		return "await_size"
	case stageAwaitBody:
		return "await_body"
	case stageAwaitCRC:
		return "await_crc"
	default:
		return "unknown"
	}
}

const pollInterval = 50 * time.Microsecond

// waitForMoreBytes blocks cooperatively until the device reports more
// available bytes than lastAvail (progressed=true), or until
// InterByteTimeout elapses without progress (progressed=false). Each call
// starts a fresh deadline; ReceiveData passes 0, so any byte still pending
// in the device counts as progress.
func (t *Transport) waitForMoreBytes(lastAvail int) (progressed bool, err error) {
	deadline := time.Now().Add(t.cfg.InterByteTimeout)
	for {
		avail, aerr := t.dev.Available()
		if aerr != nil {
			return false, aerr
		}
		if avail > lastAvail {
			return true, nil
		}
		if time.Now().After(deadline) {
			return false, nil
		}
		time.Sleep(pollInterval)
	}
}

package transport

import (
	"errors"
	"fmt"

	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/cobs"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/logging"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/metrics"
)

// ReceiveResult is the non-error outcome of ReceiveData.
type ReceiveResult struct {
	// Received is true iff a full, validated packet was decoded into the
	// reception buffer. PayloadLen equals rx_used in that case.
	Received   bool
	PayloadLen int
}

// ReceiveData pulls bytes from the device, locates a packet, validates
// its CRC, decodes it, and lands the payload in the reception buffer.
// It returns a zero-value, non-error ReceiveResult (Received == false)
// for "no packet available" conditions (NoPacket, silently-ignored
// missing start byte); genuine protocol errors are returned as err.
func (t *Transport) ReceiveData() (ReceiveResult, error) {
	avail, aerr := t.dev.Available()
	if aerr != nil {
		metrics.IncDeviceError("read")
		return ReceiveResult{}, fmt.Errorf("%w: %v", ErrDeviceRead, aerr)
	}
	if len(t.leftover)+avail < t.cfg.MinPacketSize() {
		return ReceiveResult{}, nil
	}

	buf := append([]byte(nil), t.leftover...)
	t.leftover = t.leftover[:0]
	st := &parseState{stage: stageAwaitStart}

	for {
		n, rerr := t.dev.Read(t.scratch)
		if n > 0 {
			buf = append(buf, t.scratch[:n]...)
		}
		if rerr != nil {
			metrics.IncDeviceError("read")
			t.clearOnError()
			return ReceiveResult{}, fmt.Errorf("%w: %v", ErrDeviceRead, rerr)
		}

		consumed, outcome, perr := parseStep(buf, st, t.cfg, t.rxBuf)
		buf = buf[consumed:]

		switch outcome {
		case outcomeError:
			metrics.ClassifyError(metrics.ErrWhereParse, perr)
			t.clearOnError()
			return ReceiveResult{}, perr

		case outcomeNoPacket:
			metrics.AddNoiseBytes(consumed)
			t.clearOnError()
			return ReceiveResult{}, nil

		case outcomeDone:
			t.leftover = append(t.leftover[:0], buf...)
			metrics.SetLeftoverBytes(len(t.leftover))
			return t.finishReceive(st)

		case outcomeNeedMore:
			// Bytes already pending count as progress: a device may return
			// fewer bytes per Read than it has buffered.
			progressed, werr := t.waitForMoreBytes(0)
			if werr != nil {
				metrics.IncDeviceError("read")
				t.clearOnError()
				return ReceiveResult{}, fmt.Errorf("%w: %v", ErrDeviceRead, werr)
			}
			if !progressed {
				metrics.IncParserTimeout(stageLabel(st.stage))
				logging.Component("transport").Warn("inter_byte_timeout", "stage", stageLabel(st.stage))
				t.clearOnError()
				return ReceiveResult{}, stageTimeoutError(st.stage)
			}
		}
	}
}

// finishReceive performs the post-parse validation step: verify the CRC
// over the encoded-payload-plus-postamble region, then COBS-decode the
// payload back into the reception buffer at offset 0.
func (t *Transport) finishReceive(st *parseState) (ReceiveResult, error) {
	total := st.encodedLen + t.cfg.CRCByteLen()
	region := t.rxBuf[:total]

	if t.crcEngine.Checksum(region) != 0 {
		encoded := region[:st.encodedLen]
		received, _ := t.crcEngine.Uint(region[st.encodedLen:])
		expected := t.crcEngine.Checksum(encoded)
		metrics.IncCRCMismatch()
		logging.Component("transport").Warn("crc_mismatch", "received", received, "expected", expected)
		t.ResetReceptionBuffer()
		return ReceiveResult{}, &CrcMismatchError{Received: received, Expected: expected}
	}

	decoded, err := cobs.Decode(region[:st.encodedLen], t.cfg.Delimiter)
	if err != nil {
		if errors.Is(err, cobs.ErrDelimiterEarly) {
			metrics.IncDelimiterError("early")
		} else if errors.Is(err, cobs.ErrDelimiterMissing) {
			metrics.IncDelimiterError("missing")
		}
		t.ResetReceptionBuffer()
		return ReceiveResult{}, fmt.Errorf("transport: %w", err)
	}
	copy(t.rxBuf, decoded)
	t.rxUsed = len(decoded)
	metrics.IncPacketsReceived()
	return ReceiveResult{Received: true, PayloadLen: t.rxUsed}, nil
}

// clearOnError resets rx_used and discards the leftover buffer, per the
// spec's "leftover buffer is zeroed on timing and integrity errors" rule.
func (t *Transport) clearOnError() {
	t.rxUsed = 0
	t.leftover = t.leftover[:0]
}

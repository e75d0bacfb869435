package transport

import (
	"fmt"

	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/cobs"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/metrics"
)

// SendData assembles [START][SIZE][COBS(payload)][CRC] from the staged
// payload and writes it to the device in a single call, then resets
// tx_used. It traverses the payload a constant number of times and builds
// the frame in the Transport's own reusable scratch buffer; cobs.Encode
// still allocates the encoded body on every call.
func (t *Transport) SendData() (bool, error) {
	payload := t.txBuf[:t.txUsed]

	encoded, err := cobs.Encode(payload, t.cfg.Delimiter)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrFramingFailed, err)
	}

	need := 2 + len(encoded) + t.cfg.CRCByteLen()
	if cap(t.frame) < need {
		t.frame = make([]byte, need)
	}
	frame := t.frame[:need]
	frame[0] = t.cfg.Start
	frame[1] = byte(t.txUsed)
	copy(frame[2:2+len(encoded)], encoded)
	crcBuf := frame[2+len(encoded):]
	if err := t.crcEngine.PutUint(crcBuf, t.crcEngine.Checksum(encoded)); err != nil {
		return false, fmt.Errorf("%w: %v", ErrFramingFailed, err)
	}

	n, err := t.dev.Write(frame)
	if err != nil {
		metrics.IncDeviceError("write")
		return false, fmt.Errorf("%w: %v", ErrDeviceWrite, err)
	}
	if n != len(frame) {
		metrics.IncDeviceError("write")
		return false, fmt.Errorf("%w: short write %d/%d", ErrDeviceWrite, n, len(frame))
	}

	metrics.IncPacketsSent()
	t.ResetTransmissionBuffer()
	return true, nil
}

package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/crc"
)

const sampleYAML = `
interfaces:
  - name: bench-board
    device_path: /dev/ttyUSB0
    baud_rate: 115200
    protocol:
      start: 129
      delimiter: 0
      crc_width_bytes: 2
      polynomial: 4129
      initial_value: 65535
      final_xor: 0
      max_tx_payload: 254
      min_rx_payload: 1
      inter_byte_timeout_us: 20000
      allow_start_byte_errors: false
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_ParsesEntries(t *testing.T) {
	r, err := Load(writeSample(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e, ok := r.Get("bench-board")
	if !ok {
		t.Fatal("expected bench-board entry")
	}
	if e.DevicePath != "/dev/ttyUSB0" || e.BaudRate != 115200 {
		t.Fatalf("got %+v", e)
	}

	cfg, err := e.Protocol.Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if cfg.CRCWidth != crc.Width16 || cfg.Start != 129 || cfg.MaxTxPayload != 254 {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoad_UnknownNameNotFound(t *testing.T) {
	r, err := Load(writeSample(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := r.Get("nonexistent"); ok {
		t.Fatal("expected nonexistent entry to be absent")
	}
}

func TestProtocolYAML_RejectsBadCRCWidth(t *testing.T) {
	p := ProtocolYAML{CRCWidthBytes: 3}
	if _, err := p.Config(); err == nil {
		t.Fatal("expected error for unsupported crc width")
	}
}

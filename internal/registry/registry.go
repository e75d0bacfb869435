// Package registry holds named microcontroller-interface configurations,
// the "microcontroller-interface registries" collaborator spec.md §1
// excludes from the core and specifies only at interface level: a table
// mapping a human-readable name to the device path, baud rate, and
// transport.Config needed to open a link to one board.
package registry

import (
	"fmt"
	"os"

	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/crc"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/transport"
	"gopkg.in/yaml.v3"
)

// Entry names one configured microcontroller interface.
type Entry struct {
	Name       string       `yaml:"name"`
	DevicePath string       `yaml:"device_path"`
	BaudRate   int          `yaml:"baud_rate"`
	Protocol   ProtocolYAML `yaml:"protocol"`
}

// ProtocolYAML mirrors transport.Config's fields in a form that round-trips
// through YAML (time.Duration and crc.Width need explicit conversion).
type ProtocolYAML struct {
	Start                byte   `yaml:"start"`
	Delimiter            byte   `yaml:"delimiter"`
	CRCWidthBytes        int    `yaml:"crc_width_bytes"`
	Polynomial           uint64 `yaml:"polynomial"`
	InitialValue         uint64 `yaml:"initial_value"`
	FinalXor             uint64 `yaml:"final_xor"`
	MaxTxPayload         int    `yaml:"max_tx_payload"`
	MinRxPayload         int    `yaml:"min_rx_payload"`
	InterByteTimeoutUs   int    `yaml:"inter_byte_timeout_us"`
	AllowStartByteErrors bool   `yaml:"allow_start_byte_errors"`
}

// Config converts the YAML-shaped protocol settings into a transport.Config.
func (p ProtocolYAML) Config() (transport.Config, error) {
	var width crc.Width
	switch p.CRCWidthBytes {
	case 1:
		width = crc.Width8
	case 2:
		width = crc.Width16
	case 4:
		width = crc.Width32
	default:
		return transport.Config{}, fmt.Errorf("registry: unsupported crc_width_bytes %d", p.CRCWidthBytes)
	}
	return transport.Config{
		Start:                p.Start,
		Delimiter:            p.Delimiter,
		CRCWidth:             width,
		Polynomial:           p.Polynomial,
		InitialValue:         p.InitialValue,
		FinalXor:             p.FinalXor,
		MaxTxPayload:         p.MaxTxPayload,
		MinRxPayload:         p.MinRxPayload,
		InterByteTimeout:     microsecondsToDuration(p.InterByteTimeoutUs),
		AllowStartByteErrors: p.AllowStartByteErrors,
	}, nil
}

// Registry is a loaded, name-indexed table of Entry values.
type Registry struct {
	entries map[string]Entry
}

// Load reads a YAML file containing a top-level `interfaces:` list of
// Entry values.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}
	var doc struct {
		Interfaces []Entry `yaml:"interfaces"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("registry: parse %s: %w", path, err)
	}
	r := &Registry{entries: make(map[string]Entry, len(doc.Interfaces))}
	for _, e := range doc.Interfaces {
		if e.Name == "" {
			return nil, fmt.Errorf("registry: entry with empty name in %s", path)
		}
		r.entries[e.Name] = e
	}
	return r, nil
}

// Get returns the named entry.
func (r *Registry) Get(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns all registered entry names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	return names
}

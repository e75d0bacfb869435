package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/crc"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/transport"
	"gopkg.in/yaml.v3"
)

// linkConfig is the YAML-backed description of one serial link, kept as a
// config file rather than flags since a transport link carries more
// protocol parameters than are comfortable to type out on a command line.
type linkConfig struct {
	DevicePath string `yaml:"device_path"`
	BaudRate   int    `yaml:"baud_rate"`

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

func defaultLinkConfig() linkConfig {
	return linkConfig{
		DevicePath:         "/dev/ttyUSB0",
		BaudRate:           115200,
		Start:              0x81,
		Delimiter:          0x00,
		CRCWidthBytes:      2,
		Polynomial:         0x1021,
		InitialValue:       0xFFFF,
		FinalXor:           0x0000,
		MaxTxPayload:       254,
		MinRxPayload:       1,
		InterByteTimeoutUs: 20000,
	}
}

func loadLinkConfig(path string) (linkConfig, error) {
	cfg := defaultLinkConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c linkConfig) transportConfig() (transport.Config, error) {
	var width crc.Width
	switch c.CRCWidthBytes {
	case 1:
		width = crc.Width8
	case 2:
		width = crc.Width16
	case 4:
		width = crc.Width32
	default:
		return transport.Config{}, fmt.Errorf("unsupported crc_width_bytes %d", c.CRCWidthBytes)
	}
	return transport.Config{
		Start:                c.Start,
		Delimiter:            c.Delimiter,
		CRCWidth:             width,
		Polynomial:           c.Polynomial,
		InitialValue:         c.InitialValue,
		FinalXor:             c.FinalXor,
		MaxTxPayload:         c.MaxTxPayload,
		MinRxPayload:         c.MinRxPayload,
		InterByteTimeout:     time.Duration(c.InterByteTimeoutUs) * time.Microsecond,
		AllowStartByteErrors: c.AllowStartByteErrors,
	}, nil
}

package main

import (
	"fmt"

	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/device"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/logging"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/serialize"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/transport"
	"github.com/spf13/cobra"
)

var echoConfigPath string

func init() {
	echoCmd.Flags().StringVar(&echoConfigPath, "config", "", "path to a link config YAML file (defaults built in)")
	rootCmd.AddCommand(echoCmd)
}

// echoCmd stages a single byte, sends it, and reads back whatever the board
// echoes, as a smoke test that the link's framing parameters are correct.
var echoCmd = &cobra.Command{
	Use:   "echo [device-path]",
	Short: "Send a single byte and print what comes back",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadLinkConfig(echoConfigPath)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			cfg.DevicePath = args[0]
		}

		tcfg, err := cfg.transportConfig()
		if err != nil {
			return err
		}

		dev, err := device.OpenSerial(cfg.DevicePath, cfg.BaudRate)
		if err != nil {
			return fmt.Errorf("open %s: %w", cfg.DevicePath, err)
		}
		defer dev.Close()

		tr, err := transport.New(tcfg, dev)
		if err != nil {
			return fmt.Errorf("configure transport: %w", err)
		}

		if _, err := tr.WriteData(&serialize.U8{V: 0x2A}, -1); err != nil {
			return fmt.Errorf("stage payload: %w", err)
		}
		ok, err := tr.SendData()
		if err != nil {
			return fmt.Errorf("send: %w", err)
		}
		if !ok {
			return fmt.Errorf("send: transport reported failure with no error")
		}
		logging.Component("cli").Info("echo_sent", "device", cfg.DevicePath)

		res, err := tr.ReceiveData()
		if err != nil {
			return fmt.Errorf("receive: %w", err)
		}
		if !res.Received {
			fmt.Println("no reply")
			return nil
		}
		fmt.Printf("received %d bytes: %x\n", res.PayloadLen, tr.ReceptionBufferCopy())
		return nil
	},
}

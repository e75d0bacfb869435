package main

import (
	"fmt"

	"github.com/spf13/cobra"
	goserial "go.bug.st/serial"
)

func init() {
	rootCmd.AddCommand(portsCmd)
}

// portsCmd uses go.bug.st/serial purely for its port-enumeration API;
// internal/device's actual I/O path is built on github.com/tarm/serial,
// which has no equivalent port-listing call.
var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available serial ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := goserial.GetPortsList()
		if err != nil {
			return fmt.Errorf("list ports: %w", err)
		}
		if len(names) == 0 {
			fmt.Println("no serial ports found")
			return nil
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

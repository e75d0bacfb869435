// Command transport-cli is an example/diagnostic front end for the
// internal/transport package: the CLI surface spec.md §6 calls out-of-scope
// for the core, reached only through the excluded collaborators listed
// there (it calls into transport.New/WriteData/SendData/ReceiveData/
// ReceptionBufferCopy and nothing else).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/logging"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	logFormat   string
	logLevel    string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "transport-cli",
	Short: "Diagnostic CLI for the COBS/CRC serial transport",
	Long:  "transport-cli drives internal/transport against a real or mock serial device for discovery, smoke-testing, and scripted demos.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Set(logging.New(logFormat, parseLevel(logLevel), nil))
		metrics.InitBuildInfo(version, commit, date)
		if metricsAddr != "" {
			metrics.StartHTTP(metricsAddr)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text|json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Metrics HTTP listen address (e.g. :9100); empty disables")
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

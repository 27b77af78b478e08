package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &fallback
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  JSON Mode:       %v\n", cfg.JSONMode)
	fmt.Fprintf(out, "  Data File:       %s\n", cfg.DataFilePath())
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Report Path:     %s\n", cfg.ReportFilePath())
	fmt.Fprintf(out, "  Top Keys:        %d\n", cfg.TopKeysLimit())
	fmt.Fprintf(out, "  Audit Tolerance: %.4f\n", cfg.Tolerance())
	if cfg.DefaultRun != "" {
		fmt.Fprintf(out, "  Default Run:     %s\n", cfg.DefaultRun)
	}
}

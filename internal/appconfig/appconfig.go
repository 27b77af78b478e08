// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"strings"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultDataFile is where the matching pipeline publishes its dashboard data.
	defaultDataFile = "dashboard/management_dashboard_data.js"
	// defaultReportPath is the destination of the HTML report.
	defaultReportPath = "reports/match-report.html"
	// defaultTopKeys is the length of merged match-key lists.
	defaultTopKeys = 10
	// defaultAuditTolerance is the accepted audit difference in percentage points.
	defaultAuditTolerance = 0.01
)

// Config represents the top-level application configuration.
type Config struct {
	DataFile       string  `json:"dataFile,omitempty" mapstructure:"dataFile"`
	LogFile        string  `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug          bool    `json:"debug" mapstructure:"debug"`
	JSONMode       bool    `json:"jsonMode" mapstructure:"jsonMode"`
	TopKeys        int     `json:"topKeys,omitempty" mapstructure:"topKeys"`
	AuditTolerance float64 `json:"auditTolerance,omitempty" mapstructure:"auditTolerance"`
	ReportPath     string  `json:"reportPath,omitempty" mapstructure:"reportPath"`
	DefaultRun     string  `json:"defaultRun,omitempty" mapstructure:"defaultRun"`
	ConfigPath     string  `json:"-" mapstructure:"-"`
}

// DataFilePath returns the dataset path, applying a default if not set.
func (c Config) DataFilePath() string {
	if path := strings.TrimSpace(c.DataFile); path != "" {
		return path
	}
	return defaultDataFile
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := strings.TrimSpace(c.LogFile); path != "" {
		return path
	}
	return "matchboard.log"
}

// ReportFilePath returns the HTML report destination, applying a default if not set.
func (c Config) ReportFilePath() string {
	if path := strings.TrimSpace(c.ReportPath); path != "" {
		return path
	}
	return defaultReportPath
}

// TopKeysLimit returns the merged match-key list length.
func (c Config) TopKeysLimit() int {
	if c.TopKeys <= 0 {
		return defaultTopKeys
	}
	return c.TopKeys
}

// Tolerance returns the audit tolerance in percentage points.
func (c Config) Tolerance() float64 {
	if c.AuditTolerance <= 0 {
		return defaultAuditTolerance
	}
	return c.AuditTolerance
}

// Validate rejects negative limits. Zero means "use the default".
func (c Config) Validate() error {
	if c.TopKeys < 0 {
		return errors.New("topKeys must not be negative")
	}
	if c.AuditTolerance < 0 {
		return errors.New("auditTolerance must not be negative")
	}
	return nil
}

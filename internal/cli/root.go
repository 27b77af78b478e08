// internal/cli/root.go
package matchboard

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/mwiater/matchboard/internal/appconfig"
	"github.com/mwiater/matchboard/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// flagKeys maps persistent flag names to their viper/config keys.
var flagKeys = map[string]string{
	"debug":          "debug",
	"json":           "jsonMode",
	"dataFile":       "dataFile",
	"logFile":        "logFile",
	"topKeys":        "topKeys",
	"auditTolerance": "auditTolerance",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "matchboard",
	Short:        "matchboard — reporting companion for batch entity-resolution runs",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := ensureConfigLoaded()
		if err != nil {
			return err
		}

		for _, name := range []string{"debug", "json"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, strconv.FormatBool(viper.GetBool(flagKeys[name])))
			}
		}
		for _, name := range []string{"dataFile", "logFile"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, viper.GetString(flagKeys[name]))
			}
		}
		if !cmd.Flags().Changed("topKeys") {
			_ = cmd.Flags().Set("topKeys", strconv.Itoa(viper.GetInt("topKeys")))
		}
		if !cmd.Flags().Changed("auditTolerance") {
			_ = cmd.Flags().Set("auditTolerance", strconv.FormatFloat(viper.GetFloat64("auditTolerance"), 'f', -1, 64))
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = configPath
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		currentConfig = &cfg

		initLog := logging.InitQuiet
		if cfg.Debug {
			initLog = logging.Init
		}
		if err := initLog(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		_ = logging.Close()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging to stdout")
	rootCmd.PersistentFlags().Bool("json", false, "print machine-readable JSON")
	rootCmd.PersistentFlags().String("dataFile", "", "dataset file (JSON or dashboard data script)")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().Int("topKeys", 0, "length of ranked match-key lists (0 = default)")
	rootCmd.PersistentFlags().Float64("auditTolerance", 0, "audit tolerance in percentage points (0 = default)")

	for name, key := range flagKeys {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config and returns the file used. A missing
// file is not an error; defaults and flags apply.
func ensureConfigLoaded() (string, error) {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return viper.ConfigFileUsed(), nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// config returns the loaded configuration, or the zero value before PersistentPreRunE.
func config() appconfig.Config {
	if currentConfig == nil {
		return appconfig.Config{}
	}
	return *currentConfig
}

// JSONModeEnabled returns true if JSON output is enabled.
func JSONModeEnabled() bool { return viper.GetBool("jsonMode") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

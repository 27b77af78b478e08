// internal/cli/show.go
package matchboard

import (
	"github.com/mwiater/matchboard/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showCmd represents the 'show' command group for displaying resources.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying resources",
	Long:  `The 'show' command groups subcommands that display resources or information related to matchboard.`,
}

// showConfigCmd prints the effective configuration after flags override the config file.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags accordingly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		file := ""
		if cfg != nil {
			file = cfg.ConfigPath
		}
		if JSONModeEnabled() {
			return writeJSON(cmd.OutOrStdout(), cfg)
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), file, cfg, appconfig.Config{
			Debug:    viper.GetBool("debug"),
			JSONMode: viper.GetBool("jsonMode"),
			DataFile: viper.GetString("dataFile"),
			LogFile:  viper.GetString("logFile"),
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.AddCommand(showConfigCmd)
}

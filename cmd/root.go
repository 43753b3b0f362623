package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"classmin/internal/config"
	"classmin/internal/ui"
)

// Version is set by ldflags during build
var Version = "dev"

var (
	configPath string
	debugFlag  bool
	quietFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "classmin",
	Short: "CSS class name minifier",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Long = ui.Divider() + "\n" + ui.Banner() + "\n" + ui.VersionLine(Version) + "\n\n" + ui.Divider() + "\n\n  Shortens CSS class names in HTML documents and drops unused rules"
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to classmin.yaml (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log debug details to the console")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Only print errors")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(minifyCmd)
	registerCompletions()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("classmin %s\n", Version)
	},
}

// loadConfig loads classmin.yaml from --config or the current directory.
// When the file is optional and missing, defaults rooted at the current
// directory are returned.
func loadConfig(required bool) (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	if !config.Exists(dir) {
		if required {
			return nil, fmt.Errorf("no %s found in current directory", config.FileName)
		}
		cfg := config.Default()
		cfg.Dir = dir
		return cfg, nil
	}
	return config.Load(dir)
}

// newLogger builds the logger from the configuration and the console flags
func newLogger(cfg *config.Config) *zap.Logger {
	logging := cfg.Logging
	if debugFlag {
		logging.Console.Level = "debug"
	}
	if quietFlag {
		logging.Console.Level = "none"
	}
	log, err := logging.Prepare()
	if err != nil {
		ui.PrintWarning("Logging disabled: %v", err)
		return zap.NewNop()
	}
	return log
}

// mustLoad loads the configuration and a logger or exits
func mustLoad(required bool) (*config.Config, *zap.Logger) {
	cfg, err := loadConfig(required)
	if err != nil {
		ui.PrintError("Failed to load configuration: %v", err)
		if required {
			ui.PrintInfo("Run 'classmin init' to create one")
		}
		os.Exit(1)
	}
	return cfg, newLogger(cfg)
}

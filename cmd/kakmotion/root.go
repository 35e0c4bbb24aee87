package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/kakmotion/internal/app"
	"github.com/dshills/kakmotion/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	cfgFile string
	opts    = app.DefaultOptions()
)

var rootCmd = &cobra.Command{
	Use:   "kakmotion",
	Short: "Kakoune-style selection editing for text files",
	Long: `kakmotion applies Kakoune-style multi-selection commands to text files.

Selections move by configurable regex units (words, numbers, paragraphs,
sections), split and filter by pattern, and are saved to and restored from
named registers. Units come from built-in defaults, an editor settings.json,
the user units file and a workspace units file, in that order.`,
	Version:       version + " (" + commit + ", " + date + ")",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "",
		"CLI config file (default: .kakmotion.yaml, then the user config directory)")
	flags.String("settings", "", "editor settings.json holding unit lists")
	flags.String("user", "", "user units file, TOML or YAML (default: "+config.DefaultUserFile()+")")
	flags.String("workspace", "", "workspace units file, TOML or YAML")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("settings", flags.Lookup("settings"))
	_ = viper.BindPFlag("user", flags.Lookup("user"))
	_ = viper.BindPFlag("workspace", flags.Lookup("workspace"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
}

func initConfig() {
	defaults := app.DefaultOptions()
	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("user", config.DefaultUserFile())
	viper.SetDefault("dispatcher.recover", defaults.Dispatcher.RecoverFromPanic)
	viper.SetDefault("dispatcher.maxCount", defaults.Dispatcher.MaxRepeatCount)
	viper.SetDefault("dispatcher.reveal", defaults.Dispatcher.Reveal)

	viper.SetEnvPrefix("kakmotion")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if _, err := os.Stat(".kakmotion.yaml"); err == nil {
		viper.SetConfigFile(".kakmotion.yaml")
	} else {
		viper.AddConfigPath(config.DefaultUserConfigDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			rootCmd.PrintErrf("Error: reading %s: %v\n", cfgFile, err)
			os.Exit(1)
		}
	}

	if err := viper.Unmarshal(&opts); err != nil {
		rootCmd.PrintErrf("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}
	opts.SettingsFile = expandHome(opts.SettingsFile)
	opts.UserFile = expandHome(opts.UserFile)
	opts.WorkspaceFile = expandHome(opts.WorkspaceFile)
}

// expandHome replaces a leading "~/" with the home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

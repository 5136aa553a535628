package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davisday9394/Paiste/internal/logging"
)

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and PAISTE_* env var prefix.
//
// Precedence (lowest → highest): defaults → config file → PAISTE_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("paiste")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/paiste/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(fmt.Sprintf("%s/.config/paiste", home))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("PAISTE")
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
	cmd.Flags().String("log-level", "info", "log level: debug|info|warn|error")
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// setupLogging reads logging flags from viper and configures slog,
// returning the root logger handed to every component.
func setupLogging(v *viper.Viper) *slog.Logger {
	return logging.Setup(v.GetString("log-format"), v.GetString("log-level"))
}

// Package cmd wires the pem-ranker binary's command-line surface.
package cmd

import (
	"context"

	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/ira-labs/pem-ranker/library/config"
	"github.com/ira-labs/pem-ranker/library/log"
)

var rootCmd = &cobra.Command{
	Use:   "pem-ranker",
	Short: "pem-ranker",
	Long:  `stateless ranking service for Python error message recommendations`,
	Args:  gcmd.NoExtraArgs,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return gconfig.Shared.BindPFlags(cmd.Flags())
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "run in debug mode")
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().String("log-level", "info", "`debug/info/error`")
}

// setupSettings loads the optional config file and applies debug-mode
// overrides. An empty --config is a no-op: every tunable the ranker needs
// either has a built-in default or arrives per-request.
func setupSettings(_ context.Context) {
	if gconfig.Shared.GetBool("debug") {
		gconfig.Shared.Set("log-level", "debug")
	}
	config.LoadFromFile(gconfig.Shared.GetString("config"))
}

func setupLogger(_ context.Context) {
	lvl := gconfig.Shared.GetString("log-level")
	if err := log.Logger.ChangeLevel(lvl); err != nil {
		log.Logger.Panic("change log level", zap.Error(err), zap.String("level", lvl))
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

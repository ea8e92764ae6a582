package cmd

import (
	"context"

	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/ira-labs/pem-ranker/internal/ranker"
	"github.com/ira-labs/pem-ranker/internal/web"
	"github.com/ira-labs/pem-ranker/library/log"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve",
	Long:  `run the POST /rank and GET /health HTTP endpoints`,
	Args:  gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		setupSettings(ctx)
		setupLogger(ctx)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := runServe(); err != nil {
			log.Logger.Panic("run serve", zap.Error(err))
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", "localhost:8080", "listen address, like `localhost:8080`")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	defer func() { _ = log.Logger.Sync() }()

	params := ranker.LoadDefaultRankParamsFromConfig()
	log.Logger.Info("starting pem-ranker",
		zap.Int("default_k", params.K),
		zap.Float64("default_confidence_floor", params.ConfidenceFloor))

	addr := gconfig.Shared.GetString("addr")
	if addr == "" {
		addr = "localhost:8080"
	}

	web.RunServer(addr)
	return nil
}

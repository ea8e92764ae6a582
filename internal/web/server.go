// Package web exposes the Ranker's HTTP surface: GET /health and POST /rank.
package web

import (
	"net/http"

	gmw "github.com/Laisky/gin-middlewares/v7"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/ira-labs/pem-ranker/library/log"
)

// RunServer starts the gin HTTP server on addr and blocks until it exits.
func RunServer(addr string) {
	server := gin.New()
	server.Use(
		gin.Recovery(),
		requestIDMiddleware,
		gmw.NewLoggerMiddleware(
			gmw.WithLoggerMwColored(),
			gmw.WithLevel(log.Logger.Level().String()),
			gmw.WithLogger(log.Logger.Named("gin")),
		),
	)

	if !gconfig.Shared.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := gmw.EnableMetric(server); err != nil {
		log.Logger.Panic("enable metric server", zap.Error(err))
	}

	server.GET("/health", healthHandler)
	server.POST("/rank", rankHandler)

	log.Logger.Info("listening on http", zap.String("addr", addr))
	log.Logger.Panic("httpServer exit", zap.Error(server.Run(addr)))
}

func healthHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

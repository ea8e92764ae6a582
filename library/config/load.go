// Package config contains all the configuration used in the application.
package config

import (
	"path/filepath"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"

	"github.com/ira-labs/pem-ranker/library/log"
)

// LoadFromFile loads configuration from cfgPath and stores the base directory for later lookups.
// An empty cfgPath is a no-op: the ranker server runs fine on its built-in
// defaults plus command-line flags, since every tunable parameter can also
// arrive per-request in RankParams.
func LoadFromFile(cfgPath string) {
	if cfgPath == "" {
		log.Logger.Debug("no config file configured, using defaults")
		return
	}

	gconfig.Shared.Set("cfg_dir", filepath.Dir(cfgPath))
	if err := gconfig.Shared.LoadFromFile(cfgPath); err != nil {
		log.Logger.Panic("load configuration",
			zap.Error(err),
			zap.String("config", cfgPath))
	}

	log.Logger.Info("load configuration",
		zap.String("config", cfgPath))
}

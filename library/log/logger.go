// Package log is a logging package that provides functions to log messages.
package log

import (
	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
)

// Logger is the package-level structured logger shared by the whole service.
var Logger glog.Logger

func init() {
	var err error
	if Logger, err = glog.NewConsoleWithName("pem-ranker", glog.LevelInfo); err != nil {
		glog.Shared.Panic("new logger", zap.Error(err))
	}
}

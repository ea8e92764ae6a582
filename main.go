// Command pem-ranker runs the stateless PEM ranking service.
package main

import (
	"os"

	"github.com/Laisky/zap"

	"github.com/ira-labs/pem-ranker/cmd"
	"github.com/ira-labs/pem-ranker/library/log"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Logger.Error("exit", zap.Error(err))
		os.Exit(1)
	}
}

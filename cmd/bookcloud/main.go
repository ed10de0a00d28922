package main

import (
	stdLog "log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/remerata/bookcloud/app"
	"github.com/remerata/bookcloud/config"
)

// @title        BookCloud API
// @version      1.0
// @description  Book catalog and lending lifecycle service.
// @BasePath     /api/v1

// @securityDefinitions.apikey Bearer
// @in   header
// @name Authorization

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Fatal("load envs from .env ", zap.Error(err))
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
	)

	app.Run(cfg)
}

package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/kelseyhightower/envconfig"

	"github.com/remerata/bookcloud/internal/handler"
	"github.com/remerata/bookcloud/internal/server"
	"github.com/remerata/bookcloud/pkg/blob"
	"github.com/remerata/bookcloud/pkg/kafka"
	"github.com/remerata/bookcloud/pkg/logger"
	"github.com/remerata/bookcloud/pkg/postgres"
)

type Config struct {
	Server   server.Config  `yaml:"server"`
	Database postgres.DB    `yaml:"db"`
	Kafka    kafka.Config   `yaml:"kafka"`
	Blob     blob.Config    `yaml:"blob"`
	Handler  handler.Config `yaml:"handler"`
	Log      logger.Log     `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}

package config

import (
	"log"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port        string `env:"PORT" env-default:"3000"`
	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`
	GinMode     string `env:"GIN_MODE" env-default:"debug"`
}

func MustLoad() Config {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %v", err)
	}

	return cfg
}

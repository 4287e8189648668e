package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env                string        `yaml:"env" env:"ENV" env-default:"local"`
	PhotosPath         string        `yaml:"photos_path" env:"PHOTOS_PATH" env-default:"./photos"`
	TwitchClientId     string        `yaml:"twitch_client_id" env:"TWITCH_CLIENT_ID" env-required:"true"`
	TwitchClientSecret string        `yaml:"twitch_client_secret" env:"TWITCH_CLIENT_SECRET" env-required:"true"`
	CatalogTimeout     time.Duration `yaml:"catalog_timeout" env:"CATALOG_TIMEOUT" env-default:"30s"`
	Database           `yaml:"database"`
	HTTPServer         `yaml:"http_server"`
}

type Database struct {
	Path string `yaml:"path" env:"DB_PATH" env-default:"./gamelogger.db"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	Cors        []string      `yaml:"cors" env-default:"http://localhost:3000"`
}

func MustLoad() *Config {
	configPath := flag.String("config", "", "path to config yaml file")
	flag.Parse()
	if *configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", *configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(*configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s - %s", *configPath, err)
	}

	return &cfg
}

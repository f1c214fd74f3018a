package cmd

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the optional kakeibo.yaml file. Every value can also come from
// a flag or an environment variable; precedence is flag, then environment,
// then file, then default.
type Config struct {
	Ledger   string `yaml:"ledger"`
	Database string `yaml:"database"`
	Currency string `yaml:"currency"`
}

var loadConfig = sync.OnceValue(func() Config {
	// A .env next to the ledger keeps API keys out of the shell profile.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, cannot load .env:", err)
	}

	path := os.Getenv("KAKEIBO_CONFIG")
	if path == "" {
		path = "kakeibo.yaml"
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}
	}
	if err != nil {
		log.Println("warning, cannot read config:", err)
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Println("warning, cannot parse config:", err)
		return Config{}
	}
	return cfg
})

// flagOr declares a string flag and returns its resolver. An empty flag
// falls through to the environment variable, then the config file, then the
// default.
func flagOr(name, envKey, def string) func() string {
	value := flag.String(name, "", "overrides "+envKey+" and the config file (default "+def+")")
	return func() string {
		if *value != "" {
			return *value
		}
		if v := os.Getenv(envKey); v != "" {
			return v
		}
		cfg := loadConfig()
		var fromFile string
		switch envKey {
		case "KAKEIBO_LEDGER":
			fromFile = cfg.Ledger
		case "KAKEIBO_DB":
			fromFile = cfg.Database
		case "KAKEIBO_CURRENCY":
			fromFile = cfg.Currency
		}
		if fromFile != "" {
			return fromFile
		}
		return def
	}
}

var (
	dbFile   = flagOr("db-file", "KAKEIBO_DB", "kakeibo.db")
	currency = flagOr("currency", "KAKEIBO_CURRENCY", "JPY")
)

package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type API struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:8000"`
	Timeout time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"30s"`
}

type Catalog struct {
	// PageSize must match the server's page_size; the legacy UI used both
	// 9 and 10 in different flows, unified here to the server value.
	PageSize       int           `yaml:"page_size" env:"CATALOG_PAGE_SIZE" env-default:"10"`
	SearchDebounce time.Duration `yaml:"search_debounce" env:"SEARCH_DEBOUNCE" env-default:"300ms"`
}

type Session struct {
	// Dir holds the persisted session state (user record + auth token).
	// Empty means the per-user config directory is used.
	Dir string `yaml:"dir" env:"SESSION_DIR"`
}

type Notify struct {
	SuccessTTL time.Duration `yaml:"success_ttl" env:"NOTIFY_SUCCESS_TTL" env-default:"3s"`
	FailureTTL time.Duration `yaml:"failure_ttl" env:"NOTIFY_FAILURE_TTL" env-default:"5s"`
}

type Ops struct {
	// Addr, when set, serves /metrics and /health for operators.
	Addr string `yaml:"address" env:"OPS_ADDR"`
	// OTLPEndpoint, when set, enables trace export for API calls.
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
}

type Config struct {
	Env     string  `yaml:"env" env:"ENV" env-default:"local"`
	API     API     `yaml:"api"`
	Catalog Catalog `yaml:"catalog"`
	Session Session `yaml:"session"`
	Notify  Notify  `yaml:"notify"`
	Ops     Ops     `yaml:"ops"`
}

func MustLoad() *Config {

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags
	}

	var cfg Config

	if configPath == "" {
		// No config file: environment variables and defaults only.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("can not read config from environment: %s", err.Error())
		}

		return &cfg
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can not read config file: %s", err.Error())
	}

	return &cfg
}

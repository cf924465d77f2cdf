package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	Storage    Storage `yaml:"storage"`
	MySQL      MySQL   `yaml:"mysql"`
	Redis      Redis   `yaml:"redis"`
	Logbook    Logbook `yaml:"logbook"`
	CORS       CORS    `yaml:"cors"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout"  env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout"  env-default:"60s"`
}

// Storage selects the persistence medium behind the logbook document.
type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"` // memory | mysql | redis
	Key    string `yaml:"key" env:"STORAGE_KEY" env-default:"plant-logbook"`
}

type MySQL struct {
	User      string `yaml:"user" env:"DB_USER"`
	Password  string `yaml:"password" env:"DB_PASSWORD"`
	Host      string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port      int    `yaml:"port" env:"DB_PORT" env-default:"3306"`
	Name      string `yaml:"name" env:"DB_NAME" env-default:"logbook"`
	Table     string `yaml:"table" env-default:"logbook_kv"`
	ParseTime bool   `yaml:"parse_time" env-default:"true"`
}

type Redis struct {
	Address  string        `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env-default:"0"`
	LockTTL  time.Duration `yaml:"lock_ttl" env-default:"5s"`
}

type Logbook struct {
	Plants        []string `yaml:"plants" env-default:"AA,BB,CC"`
	DemoFixtures  bool     `yaml:"demo_fixtures" env:"DEMO_FIXTURES" env-default:"false"`
	ReferenceData string   `yaml:"reference_data" env:"REFERENCE_DATA"`
	PendingWarn   int      `yaml:"pending_warn" env-default:"50"`
	PendingBlock  int      `yaml:"pending_block" env-default:"150"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env-default:"http://localhost:5173"`
}

// DSN собирает строку подключения для go-sql-driver/mysql.
func (m MySQL) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=%v",
		m.User,
		m.Password,
		m.Host,
		m.Port,
		m.Name,
		m.ParseTime,
	)
}

// Load reads the yaml file at path and overlays environment variables.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func MustConfig() *Config {
	// .env is optional, it only feeds the env overrides below
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

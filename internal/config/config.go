package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App      *Appconfig      `yaml:"app"`
	DB       *DBconfig       `yaml:"db"`
	RabbitMq *RabbitMqconfig `yaml:"rabbitmq"`
	Srv      *Serviceconfig  `yaml:"services"`
	Log      *Loggerconfig   `yaml:"log"`
}

type Appconfig struct {
	JwtSecret        string        `yaml:"jwt_secret"`
	TokenTTL         time.Duration `yaml:"token_ttl"`
	NotifyCooldown   time.Duration `yaml:"notify_cooldown"`
	WsAuthTimeout    time.Duration `yaml:"ws_auth_timeout"`
	WsWriteBufferLen int           `yaml:"ws_write_buffer_len"`
}

type DBconfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Database   string `yaml:"database"`
	MaxRetries int    `yaml:"max_retries"`
}

type RabbitMqconfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
}

type Serviceconfig struct {
	AuthServicePort     string `yaml:"auth_service"`
	AdminServicePort    string `yaml:"admin_service"`
	TrackingServicePort string `yaml:"tracking_service"`
}

type Loggerconfig struct {
	Level string `yaml:"level"`
}

// New builds the config from environment variables. When CONFIG_FILE points at a
// YAML file its values take the place of the defaults before env overrides apply.
func New() (*Config, error) {
	cnf := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadYAML(path, cnf); err != nil {
			return nil, err
		}
	}

	cnf.App.JwtSecret = getEnv("JWT_SECRET", cnf.App.JwtSecret)
	cnf.DB.Host = getEnv("DB_HOST", cnf.DB.Host)
	cnf.DB.Port = getEnvInt("DB_PORT", cnf.DB.Port)
	cnf.DB.User = getEnv("DB_USER", cnf.DB.User)
	cnf.DB.Password = getEnv("DB_PASSWORD", cnf.DB.Password)
	cnf.DB.Database = getEnv("DB_NAME", cnf.DB.Database)
	cnf.RabbitMq.Host = getEnv("RABBITMQ_HOST", cnf.RabbitMq.Host)
	cnf.RabbitMq.Port = getEnvInt("RABBITMQ_PORT", cnf.RabbitMq.Port)
	cnf.RabbitMq.User = getEnv("RABBITMQ_USER", cnf.RabbitMq.User)
	cnf.RabbitMq.Password = getEnv("RABBITMQ_PASSWORD", cnf.RabbitMq.Password)
	cnf.RabbitMq.VHost = getEnv("RABBITMQ_VHOST", cnf.RabbitMq.VHost)
	cnf.Srv.AuthServicePort = getEnv("AUTH_SERVICE_PORT", cnf.Srv.AuthServicePort)
	cnf.Srv.AdminServicePort = getEnv("ADMIN_SERVICE_PORT", cnf.Srv.AdminServicePort)
	cnf.Srv.TrackingServicePort = getEnv("TRACKING_SERVICE_PORT", cnf.Srv.TrackingServicePort)
	cnf.Log.Level = getEnv("LOG_LEVEL", cnf.Log.Level)

	if cnf.App.JwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	return cnf, nil
}

func defaults() *Config {
	return &Config{
		App: &Appconfig{
			TokenTTL:         7 * 24 * time.Hour,
			NotifyCooldown:   5 * time.Minute,
			WsAuthTimeout:    5 * time.Second,
			WsWriteBufferLen: 16,
		},
		DB: &DBconfig{
			Host:       "localhost",
			Port:       5432,
			User:       "bustrack_user",
			Password:   "bustrack_pass",
			Database:   "bustrack_db",
			MaxRetries: 5,
		},
		RabbitMq: &RabbitMqconfig{
			Host:     "localhost",
			Port:     5672,
			User:     "guest",
			Password: "guest",
			VHost:    "",
		},
		Srv: &Serviceconfig{
			AuthServicePort:     "3000",
			AdminServicePort:    "3001",
			TrackingServicePort: "3002",
		},
		Log: &Loggerconfig{
			Level: "INFO",
		},
	}
}

func loadYAML(path string, cnf *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cnf); err != nil {
		return fmt.Errorf("cannot parse config file: %w", err)
	}
	return nil
}

func getEnv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func getEnvInt(key string, def int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return def
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return def
	}
	return val
}

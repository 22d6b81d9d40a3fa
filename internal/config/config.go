package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env            string         `yaml:"env"`        // Env is the current environment: local, development, production.
	HTTP           HTTPConfig     `yaml:"http"`       // HTTP holds the API server configuration.
	MonitoringPort int            `yaml:"monitoring"` // MonitoringPort serves /metrics and /healthz.
	Postgres       PostgresConfig `yaml:"postgres"`   // Postgres holds the database configuration.
}

// HTTPConfig struct holds the listen port and timeouts of the API server.
type HTTPConfig struct {
	Port         int           `yaml:"port"`          // Port is the API listen port.
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // ReadTimeout bounds reading a whole request.
	WriteTimeout time.Duration `yaml:"write_timeout"` // WriteTimeout bounds writing a response.
	IdleTimeout  time.Duration `yaml:"idle_timeout"`  // IdleTimeout bounds keep-alive connections.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Dbname   string `yaml:"db_name"`  // Dbname is the name of the database.
	SSLMode  string `yaml:"sslmode"`  // SSLMode is passed to the connection string as is.
}

var envBindings = map[string]string{
	"env":                "EMPLOYEES_ENV",
	"http.port":          "HTTP_PORT",
	"http.read_timeout":  "HTTP_READ_TIMEOUT",
	"http.write_timeout": "HTTP_WRITE_TIMEOUT",
	"http.idle_timeout":  "HTTP_IDLE_TIMEOUT",
	"monitoring.port":    "MONITORING_PORT",
	"postgres.host":      "DB_HOST",
	"postgres.port":      "DB_PORT",
	"postgres.user":      "DB_USERNAME",
	"postgres.password":  "DB_PASSWORD",
	"postgres.db_name":   "DB_NAME",
	"postgres.sslmode":   "DB_SSLMODE",
}

// MustLoad reads the configuration from an optional YAML file at CONFIG_PATH and the environment.
// Environment variables win over the file. A .env file in the working directory is loaded first.
// It panics when the configuration cannot be read or holds invalid values.
func MustLoad() *Config {
	// .env is optional
	_ = godotenv.Load()

	vpr := viper.New()

	vpr.SetDefault("env", "local")
	vpr.SetDefault("http.port", "8000")
	vpr.SetDefault("http.read_timeout", "10s")
	vpr.SetDefault("http.write_timeout", "10s")
	vpr.SetDefault("http.idle_timeout", "60s")
	vpr.SetDefault("monitoring.port", "8080")
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("postgres.sslmode", "disable")

	for key, env := range envBindings {
		if err := vpr.BindEnv(key, env); err != nil {
			panic("config error: " + err.Error())
		}
	}

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			panic("config file does not exist: " + configPath)
		}

		vpr.SetConfigFile(configPath)
		if err := vpr.ReadInConfig(); err != nil {
			panic("config error: " + err.Error())
		}
	}

	return &Config{
		Env: vpr.GetString("env"),
		HTTP: HTTPConfig{
			Port:         mustPort(vpr, "http.port"),
			ReadTimeout:  mustDuration(vpr, "http.read_timeout"),
			WriteTimeout: mustDuration(vpr, "http.write_timeout"),
			IdleTimeout:  mustDuration(vpr, "http.idle_timeout"),
		},
		MonitoringPort: mustPort(vpr, "monitoring.port"),
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
			SSLMode:  vpr.GetString("postgres.sslmode"),
		},
	}
}

func mustDuration(vpr *viper.Viper, key string) time.Duration {
	value, err := time.ParseDuration(vpr.GetString(key))
	if err != nil || value <= 0 {
		panic("failed to parse " + key + " from configuration")
	}

	return value
}

func mustPort(vpr *viper.Viper, key string) int {
	maxPort := 65535

	port := vpr.GetInt(key)
	if port <= 0 || port > maxPort {
		panic("failed to parse " + key + " from configuration")
	}

	return port
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Host            string
	Port            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type MonitorConfig struct {
	DiskPath        string
	CollectInterval time.Duration
}

// ThresholdConfig holds the trigger points for the built-in alert rules.
// Failure rates are fractions in [0,1]; minimum volumes keep low-traffic
// windows from flapping.
type ThresholdConfig struct {
	CPUPercent           float64
	MemoryPercent        float64
	DiskPercent          float64
	CallFailureRate      float64
	APIFailureRate       float64
	InferenceFailureRate float64
	MinCallVolume        int64
	MinRequestVolume     int64
	ErrorBurstCount      int
	ErrorBurstWindow     time.Duration
}

// ProbeConfig wires optional dependency health probes. Empty addresses
// disable the corresponding probe.
type ProbeConfig struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	PostgresDSN     string
	QueueMaxPending int
}

type Config struct {
	Server     ServerConfig
	Monitor    MonitorConfig
	Thresholds ThresholdConfig
	Probes     ProbeConfig
	LogLevel   string
}

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "8080"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Monitor: MonitorConfig{
			DiskPath:        getEnv("MONITOR_DISK_PATH", "/"),
			CollectInterval: getDurationEnv("MONITOR_COLLECT_INTERVAL", 60*time.Second),
		},
		Thresholds: ThresholdConfig{
			CPUPercent:           getFloatEnv("ALERT_CPU_PERCENT", 90),
			MemoryPercent:        getFloatEnv("ALERT_MEMORY_PERCENT", 90),
			DiskPercent:          getFloatEnv("ALERT_DISK_PERCENT", 85),
			CallFailureRate:      getFloatEnv("ALERT_CALL_FAILURE_RATE", 0.2),
			APIFailureRate:       getFloatEnv("ALERT_API_FAILURE_RATE", 0.2),
			InferenceFailureRate: getFloatEnv("ALERT_INFERENCE_FAILURE_RATE", 0.2),
			MinCallVolume:        getInt64Env("ALERT_MIN_CALL_VOLUME", 10),
			MinRequestVolume:     getInt64Env("ALERT_MIN_REQUEST_VOLUME", 20),
			ErrorBurstCount:      getIntEnv("ALERT_ERROR_BURST_COUNT", 10),
			ErrorBurstWindow:     getDurationEnv("ALERT_ERROR_BURST_WINDOW", 5*time.Minute),
		},
		Probes: ProbeConfig{
			RedisAddr:       getEnv("PROBE_REDIS_ADDR", ""),
			RedisPassword:   getEnv("PROBE_REDIS_PASSWORD", ""),
			RedisDB:         getIntEnv("PROBE_REDIS_DB", 0),
			PostgresDSN:     getEnv("PROBE_POSTGRES_DSN", ""),
			QueueMaxPending: getIntEnv("PROBE_QUEUE_MAX_PENDING", 1000),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Monitor.DiskPath == "" {
		return fmt.Errorf("disk path is required")
	}
	if c.Monitor.CollectInterval <= 0 {
		return fmt.Errorf("collect interval must be positive")
	}
	if c.Thresholds.CPUPercent <= 0 || c.Thresholds.CPUPercent > 100 {
		return fmt.Errorf("cpu threshold must be in (0,100]")
	}
	if c.Thresholds.MemoryPercent <= 0 || c.Thresholds.MemoryPercent > 100 {
		return fmt.Errorf("memory threshold must be in (0,100]")
	}
	if c.Thresholds.DiskPercent <= 0 || c.Thresholds.DiskPercent > 100 {
		return fmt.Errorf("disk threshold must be in (0,100]")
	}
	if r := c.Thresholds.CallFailureRate; r <= 0 || r > 1 {
		return fmt.Errorf("call failure rate must be in (0,1]")
	}
	if r := c.Thresholds.APIFailureRate; r <= 0 || r > 1 {
		return fmt.Errorf("api failure rate must be in (0,1]")
	}
	if r := c.Thresholds.InferenceFailureRate; r <= 0 || r > 1 {
		return fmt.Errorf("inference failure rate must be in (0,1]")
	}
	return nil
}

func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

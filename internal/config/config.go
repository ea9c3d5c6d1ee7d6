package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string      `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	SocketPort        string      `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	AdminKey          string      `yaml:"admin-key" env:"ADMIN_KEY"`
	Rooms             Rooms       `yaml:"rooms"`
	RateLimit         RateLimit   `yaml:"rate-limit"`
	AI                AI          `yaml:"ai"`
	Persistence       Persistence `yaml:"persistence"`
	Redis             Redis       `yaml:"redis"`
	Telemetry         Telemetry   `yaml:"telemetry"`
	SQLiteStoragePath string      `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH" env-default:"./tictactoe.db"`
}

type Rooms struct {
	RoomTTL          time.Duration `yaml:"room-ttl" env:"ROOM_TTL" env-default:"10m"`
	GCInterval       time.Duration `yaml:"gc-interval" env:"GC_INTERVAL" env-default:"1m"`
	SessionIdleTTL   time.Duration `yaml:"session-idle-ttl" env:"SESSION_IDLE_TTL" env-default:"0s"`
	MaxNonces        int           `yaml:"max-nonces" env:"MAX_NONCES" env-default:"0"`
	AutoCreateOnJoin bool          `yaml:"auto-create-on-join" env:"AUTO_CREATE_ON_JOIN" env-default:"false"`
}

type RateLimit struct {
	Limit  int           `yaml:"limit" env:"RATE_LIMIT" env-default:"5"`
	Window time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW" env-default:"1s"`
}

type AI struct {
	DecisionTimeout time.Duration `yaml:"decision-timeout" env:"AI_DECISION_TIMEOUT" env-default:"2s"`
	DefaultStrategy string        `yaml:"default-strategy" env:"AI_DEFAULT_STRATEGY" env-default:"random"`
}

// Persistence - driver is one of none, redis or sqlite.
type Persistence struct {
	Driver        string        `yaml:"driver" env:"PERSISTENCE_DRIVER" env-default:"none"`
	RecordTimeout time.Duration `yaml:"record-timeout" env:"PERSISTENCE_RECORD_TIMEOUT" env-default:"1s"`
	Expire        time.Duration `yaml:"expire" env:"PERSISTENCE_EXPIRE" env-default:"24h"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Telemetry - tracing is off while endpoint is empty.
type Telemetry struct {
	Endpoint    string `yaml:"otel-endpoint" env:"OTEL_ENDPOINT"`
	ServiceName string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"tictactoe-coordinator"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

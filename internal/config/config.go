package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Alturino/storefront/internal/constants"
)

type Application struct {
	Env       string `mapstructure:"env"        json:"env"`
	Host      string `mapstructure:"host"       json:"host"`
	SecretKey string `mapstructure:"secret_key" json:"-"`
	Port      int    `mapstructure:"port"       json:"port"`
}

type Database struct {
	Name           string `mapstructure:"name"            json:"name"`
	Host           string `mapstructure:"host"            json:"host"`
	MigrationPath  string `mapstructure:"migration_path"  json:"migration_path"`
	Password       string `mapstructure:"password"        json:"-"`
	TimeZone       string `mapstructure:"timezone"        json:"timezone"`
	Username       string `mapstructure:"username"        json:"username"`
	MaxConnections int32  `mapstructure:"max_connections" json:"max_connections"`
	MinConnections int32  `mapstructure:"min_connections" json:"min_connections"`
	Port           uint16 `mapstructure:"port"            json:"port"`
}

func (d Database) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable&timezone=%s",
		d.Username,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
		d.TimeZone,
	)
}

type Cache struct {
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"-"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type Broker struct {
	URL         string `mapstructure:"url"          json:"-"`
	Queue       string `mapstructure:"queue"        json:"queue"`
	PoolSize    int    `mapstructure:"pool_size"    json:"pool_size"`
	WorkerCount int    `mapstructure:"worker_count" json:"worker_count"`
}

type Otel struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

func (o Otel) Endpoint() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

type Notification struct {
	WebhookURL string `mapstructure:"webhook_url" json:"webhook_url"`
}

type Config struct {
	Database     `mapstructure:"db"           json:"db"`
	Cache        `mapstructure:"cache"        json:"cache"`
	Application  `mapstructure:"application"  json:"application"`
	Broker       `mapstructure:"broker"       json:"broker"`
	Otel         `mapstructure:"otel"         json:"otel"`
	Notification `mapstructure:"notification" json:"notification"`
}

// Get reads ./env/<filename>.yaml. Every key can be overridden from the
// environment, e.g. DB_HOST overrides db.host. A ./.env file, when present,
// is loaded into the environment first without replacing variables already set.
func Get(c context.Context, filename string) (Config, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "config Get").
		Str("filename", filename).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "loading dotenv").Logger()
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		err = fmt.Errorf("failed loading .env with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigName(filename)
	v.AddConfigPath("./env")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	logger = logger.With().Str(constants.KEY_PROCESS, "reading config").Logger()
	logger.Info().Msg("reading config")
	if err := v.ReadInConfig(); err != nil {
		err = fmt.Errorf("failed reading config with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return Config{}, err
	}
	logger.Info().Msg("read config")

	logger = logger.With().Str(constants.KEY_PROCESS, "unmarshaling config").Logger()
	logger.Info().Msg("unmarshaling config")
	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		err = fmt.Errorf("failed unmarshaling config with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return Config{}, err
	}
	logger.Info().Any(constants.KEY_CONFIG, cfg).Msg("unmarshaled config")

	return cfg, nil
}

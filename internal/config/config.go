package config

import (
	"errors"
	"io/fs"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendMemory = "memory"
	BackendMySQL  = "mysql"
)

// Config holds application configuration loaded from the environment and an optional .env file.
type Config struct {
	AppEnv          string `mapstructure:"APP_ENV" validate:"oneof=dev qa prod"`
	StorageBackend  string `mapstructure:"STORAGE_BACKEND" validate:"oneof=memory mysql"`
	DatabaseDSN     string `mapstructure:"DATABASE_DSN" validate:"required_if=StorageBackend mysql"`
	TransactionsCSV string `mapstructure:"TRANSACTIONS_CSV"`

	// binlog consumer
	MySQLHost          string `mapstructure:"MYSQL_HOST"`
	MySQLPort          uint16 `mapstructure:"MYSQL_PORT"`
	ReplicatorUser     string `mapstructure:"MYSQL_REPLICATOR_USER"`
	ReplicatorPassword string `mapstructure:"MYSQL_REPLICATOR_PASSWORD"`
	BinlogServerID     uint32 `mapstructure:"BINLOG_SERVER_ID" validate:"min=1"`
	AccountsSchema     string `mapstructure:"ACCOUNTS_SCHEMA"`
}

// Load reads .env (if present) and the process environment, then validates the result.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("STORAGE_BACKEND", BackendMemory)
	v.SetDefault("MYSQL_HOST", "127.0.0.1")
	v.SetDefault("MYSQL_PORT", 3306)
	v.SetDefault("MYSQL_REPLICATOR_USER", "replicator")
	v.SetDefault("BINLOG_SERVER_ID", 101)

	var cfg Config
	if err := parseStructEnv(v, &cfg); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// parseStructEnv binds env vars to struct fields using a mapstructure tag
func parseStructEnv(v *viper.Viper, cfg interface{}) error {
	t := reflect.TypeOf(cfg).Elem()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("mapstructure")
		if err := v.BindEnv(tag); err != nil {
			return err
		}
	}
	return v.Unmarshal(cfg)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Telegram struct {
		Token      string
		TimeoutSec int `mapstructure:"timeout_sec"`
	} `mapstructure:"telegram"`

	Nutrition struct {
		Source string // csv | xlsx | postgres
		Path   string
	} `mapstructure:"nutrition"`

	Calculator struct {
		Strategy string // rule | model
	} `mapstructure:"calculator"`
}

func Load(path string) (Config, error) {
	// .env необязателен
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	// APP_HTTP_ADDR, APP_POSTGRES_DSN, ...
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "prod")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("telegram.timeout_sec", 30)
	v.SetDefault("nutrition.source", "csv")
	v.SetDefault("nutrition.path", "data/mess_food_database.csv")
	v.SetDefault("calculator.strategy", "rule")

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch c.Nutrition.Source {
	case "csv", "xlsx":
		if c.Nutrition.Path == "" {
			return fmt.Errorf("config: nutrition.path is required for source %q", c.Nutrition.Source)
		}
	case "postgres":
		if c.Postgres.DSN == "" {
			return errors.New("config: postgres.dsn is required for source \"postgres\"")
		}
	default:
		return fmt.Errorf("config: unknown nutrition.source %q", c.Nutrition.Source)
	}
	switch c.Calculator.Strategy {
	case "rule", "model":
	default:
		return fmt.Errorf("config: unknown calculator.strategy %q", c.Calculator.Strategy)
	}
	return nil
}

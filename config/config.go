package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config представляет конфигурацию приложения
type Config struct {
	Database struct {
		Path string `mapstructure:"path" validate:"required"`
	} `mapstructure:"database"`
	Log struct {
		Level string `mapstructure:"level" validate:"omitempty,oneof=error warn info debug"`
		Dir   string `mapstructure:"dir"`
	} `mapstructure:"log"`
	Security struct {
		BcryptCost       int           `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
		MaxLoginAttempts int           `mapstructure:"max_login_attempts" validate:"gte=1"`
		LoginWindow      time.Duration `mapstructure:"login_window" validate:"gt=0"`
	} `mapstructure:"security"`
	Bootstrap struct {
		Username string `mapstructure:"username" validate:"required"`
		Password string `mapstructure:"password" validate:"required,min=8"`
		Name     string `mapstructure:"name" validate:"required"`
	} `mapstructure:"bootstrap"`
	SMTP struct {
		Enabled  bool   `mapstructure:"enabled"`
		Host     string `mapstructure:"host" validate:"required_if=Enabled true"`
		Port     int    `mapstructure:"port" validate:"gte=0,lte=65535"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		From     string `mapstructure:"from" validate:"required_if=Enabled true,omitempty,email"`
	} `mapstructure:"smtp"`
	Statement struct {
		BankName string `mapstructure:"bank_name" validate:"required"`
	} `mapstructure:"statement"`
}

// EnvPrefix - префикс переменных окружения
const EnvPrefix = "ARLET"

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "arletbank.json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "")
	v.SetDefault("security.bcrypt_cost", 10)
	v.SetDefault("security.max_login_attempts", 3)
	v.SetDefault("security.login_window", 15*time.Minute)
	v.SetDefault("bootstrap.username", "admin")
	v.SetDefault("bootstrap.password", "admin1234")
	v.SetDefault("bootstrap.name", "Administrator")
	v.SetDefault("smtp.enabled", false)
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("statement.bank_name", "Arlet Bank")
}

// NewConfig создает новый экземпляр конфигурации: значения по умолчанию,
// необязательный файл arlet.yaml (или ARLET_CONFIG) и переменные окружения ARLET_*.
func NewConfig() (*Config, error) {
	return Load(os.Getenv(EnvPrefix + "_CONFIG"))
}

// Load читает конфигурацию. Пустой file означает поиск arlet.* в рабочем каталоге.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("arlet")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет загруженные значения
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	var errorMessages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required", "required_if":
			errorMessages = append(errorMessages, "параметр "+e.Namespace()+" обязателен")
		case "min":
			errorMessages = append(errorMessages, "параметр "+e.Namespace()+" должен содержать минимум "+e.Param()+" символов")
		case "gte", "gt", "lte":
			errorMessages = append(errorMessages, "параметр "+e.Namespace()+" вне допустимого диапазона")
		default:
			errorMessages = append(errorMessages, "параметр "+e.Namespace()+" имеет неверное значение")
		}
	}
	return fmt.Errorf("неверная конфигурация: %s", strings.Join(errorMessages, "; "))
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Configはアプリ全体の設定
type Config struct {
	Port     string `mapstructure:"PORT"`      // サーバーポート（8080）
	GoEnv    string `mapstructure:"GO_ENV"`    // dev/prod
	AppDebug bool   `mapstructure:"APP_DEBUG"` // 500のときにエラー内容を返す
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL      string `mapstructure:"DATABASE_URL"` // あればPOSTGRES_*より優先
	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     int    `mapstructure:"POSTGRES_PORT"`
	PostgresUser     string `mapstructure:"POSTGRES_USER"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB       string `mapstructure:"POSTGRES_DB"`
	PostgresSSLMode  string `mapstructure:"POSTGRES_SSLMODE"`

	JWTSecret       string        `mapstructure:"JWT_SECRET"` // JWT署名シークレット
	AccessTokenTTL  time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`

	// 空ならメモリ上のカウンタで代用
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// 空ならイベントは捨てる
	KafkaBrokers    string `mapstructure:"KAFKA_BROKERS"`
	KafkaOrderTopic string `mapstructure:"KAFKA_ORDER_TOPIC"`

	ServiceFee       string `mapstructure:"SERVICE_FEE"`
	VoucherValidDays int    `mapstructure:"VOUCHER_VALID_DAYS"`
}

var defaults = map[string]interface{}{
	"PORT":               "8080",
	"GO_ENV":             "dev",
	"APP_DEBUG":          false,
	"LOG_LEVEL":          "info",
	"DATABASE_URL":       "",
	"POSTGRES_HOST":      "localhost",
	"POSTGRES_PORT":      5432,
	"POSTGRES_USER":      "postgres",
	"POSTGRES_PASSWORD":  "postgres",
	"POSTGRES_DB":        "foodcourt",
	"POSTGRES_SSLMODE":   "disable",
	"JWT_SECRET":         "",
	"ACCESS_TOKEN_TTL":   "15m",
	"REFRESH_TOKEN_TTL":  "336h",
	"REDIS_ADDR":         "",
	"REDIS_PASSWORD":     "",
	"REDIS_DB":           0,
	"KAFKA_BROKERS":      "",
	"KAFKA_ORDER_TOPIC":  "order-events",
	"SERVICE_FEE":        "2.00",
	"VOUCHER_VALID_DAYS": 30,
}

// devで JWT_SECRET が無いときだけ使う
const devJWTSecret = "dev_secret_change_me"

// Loadは環境変数から設定を読む（.envはmainでgodotenvが読み込み済み）
func Load() (Config, error) {
	v := viper.New()
	for k, def := range defaults {
		v.SetDefault(k, def)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	//必須チェック
	if c.JWTSecret == "" {
		if !c.IsDev() {
			return fmt.Errorf("JWT_SECRET is required")
		}
		c.JWTSecret = devJWTSecret
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("REFRESH_TOKEN_TTL must be positive")
	}
	if c.VoucherValidDays <= 0 {
		return fmt.Errorf("VOUCHER_VALID_DAYS must be positive")
	}
	fee, err := decimal.NewFromString(c.ServiceFee)
	if err != nil || fee.IsNegative() {
		return fmt.Errorf("SERVICE_FEE must be a non-negative number")
	}
	return nil
}

func (c Config) IsDev() bool {
	return c.GoEnv == "" || c.GoEnv == "dev"
}

// ":8080" 形式
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) ServiceFeeAmount() decimal.Decimal {
	return decimal.RequireFromString(c.ServiceFee)
}

func (c Config) VoucherValidity() time.Duration {
	return time.Duration(c.VoucherValidDays) * 24 * time.Hour
}

func (c Config) KafkaBrokerList() []string {
	if strings.TrimSpace(c.KafkaBrokers) == "" {
		return nil
	}
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

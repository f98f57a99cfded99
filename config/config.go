package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type JWTConfig struct {
	SecretKey string        `mapstructure:"secretKey"`
	Issuer    string        `mapstructure:"issuer"`
	Audience  string        `mapstructure:"audience"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type CookieConfig struct {
	Name   string `mapstructure:"name"`
	Secure bool   `mapstructure:"secure"`
	Domain string `mapstructure:"domain"`
}

type GoogleOAuthConfig struct {
	ClientID     string `mapstructure:"clientID"`
	ClientSecret string `mapstructure:"clientSecret"`
	CallbackURL  string `mapstructure:"callbackURL"`
}

type S3Config struct {
	Bucket          string        `mapstructure:"bucket"`
	Region          string        `mapstructure:"region"`
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"accessKeyID"`
	SecretAccessKey string        `mapstructure:"secretAccessKey"`
	PublicBaseURL   string        `mapstructure:"publicBaseURL"`
	UsePathStyle    bool          `mapstructure:"usePathStyle"`
	PresignTTL      time.Duration `mapstructure:"presignTTL"`
}

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	Cookie CookieConfig `mapstructure:"cookie"`
	Auth   struct {
		Federated struct {
			RequireVerification bool `mapstructure:"requireVerification"`
		} `mapstructure:"federated"`
		RateLimit struct {
			Requests int           `mapstructure:"requests"`
			Window   time.Duration `mapstructure:"window"`
		} `mapstructure:"rateLimit"`
	} `mapstructure:"auth"`
	OAuth struct {
		Google GoogleOAuthConfig `mapstructure:"google"`
	} `mapstructure:"oauth"`
	Storage struct {
		S3 S3Config `mapstructure:"s3"`
	} `mapstructure:"storage"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"cors"`
	Client struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"client"`
	Listings struct {
		DefaultLimit int `mapstructure:"defaultLimit"`
		MaxLimit     int `mapstructure:"maxLimit"`
	} `mapstructure:"listings"`
	Observability struct {
		MetricsPort string `mapstructure:"metricsPort"`
		ServiceName string `mapstructure:"serviceName"`
	} `mapstructure:"observability"`
}

// IsDevelopment reports whether the service runs in local development mode.
func (c *Config) IsDevelopment() bool {
	return c.Mode == "" || c.Mode == "development" || c.Mode == "dev"
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func InitConfig() (Config, error) {
	v := newViper()

	// Embedded defaults first, then merge a file on disk if there is one.
	if err := v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
		return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
	}
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to merge config file: %w", err)
		}
	}

	return load(v)
}

func load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate fills zero values with safe defaults and rejects configs that cannot run.
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return errors.New("jwt.secretKey must be set (APP_JWT_SECRETKEY)")
	}
	if c.JWT.TTL <= 0 {
		c.JWT.TTL = 7 * 24 * time.Hour
	}
	if c.Cookie.Name == "" {
		c.Cookie.Name = "access_token"
	}
	if c.Listings.DefaultLimit <= 0 {
		c.Listings.DefaultLimit = 10
	}
	if c.Listings.MaxLimit < c.Listings.DefaultLimit {
		c.Listings.MaxLimit = c.Listings.DefaultLimit
	}
	if c.Storage.S3.PresignTTL <= 0 {
		c.Storage.S3.PresignTTL = 15 * time.Minute
	}
	if c.Server.Timeout <= 0 {
		c.Server.Timeout = 30 * time.Second
	}
	return nil
}

// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port           string        `mapstructure:"port"`
		RequestTimeout time.Duration `mapstructure:"request_timeout"`
		MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	} `mapstructure:"server"`
	Storage struct {
		Root        string `mapstructure:"root"`
		DataFile    string `mapstructure:"data_file"`
		ImagesDir   string `mapstructure:"images_dir"`
		ImagePrefix string `mapstructure:"image_prefix"`
		Retention   string `mapstructure:"retention"`
	} `mapstructure:"storage"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
		AllowedMethods []string `mapstructure:"allowed_methods"`
		AllowedHeaders []string `mapstructure:"allowed_headers"`
		MaxAge         int      `mapstructure:"max_age"`
	} `mapstructure:"cors"`
	App struct {
		MinWords    int  `mapstructure:"min_words"`
		AutoReading bool `mapstructure:"auto_reading"`
	} `mapstructure:"app"`
}

var Cfg Config

// LoadConfig は path と カレントディレクトリから config.yaml を読み込み、Cfg に格納します。
func LoadConfig(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	Cfg = *cfg

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Storage Root: %s", Cfg.Storage.Root)
	log.Printf("Image Retention: %s", Cfg.Storage.Retention)
	return nil
}

// Load はグローバル状態に触れずに設定を組み立てます (テスト用にも使う)。
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	// APP_SERVER_PORT, APP_STORAGE_ROOT などで上書きできる
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			return nil, fmt.Errorf("config.Load: read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.request_timeout", DefaultRequestTimeout)
	v.SetDefault("server.max_body_bytes", DefaultMaxBodyBytes)

	v.SetDefault("storage.root", DefaultStorageRoot)
	v.SetDefault("storage.data_file", DefaultDataFile)
	v.SetDefault("storage.images_dir", DefaultImagesDir)
	v.SetDefault("storage.image_prefix", DefaultImagePrefix)
	v.SetDefault("storage.retention", RetentionReplace)

	v.SetDefault("log.level", DefaultLogLevel)

	// 単一ユーザーのローカルツールなので CORS は全許可
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"*"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("app.min_words", DefaultMinWords)
	v.SetDefault("app.auto_reading", false)
}

func (c *Config) validate() error {
	switch c.Storage.Retention {
	case RetentionReplace, RetentionPreserve:
	default:
		return fmt.Errorf("config: unknown storage.retention %q (want %q or %q)",
			c.Storage.Retention, RetentionReplace, RetentionPreserve)
	}
	if !strings.HasPrefix(c.Storage.ImagePrefix, "/") {
		c.Storage.ImagePrefix = "/" + c.Storage.ImagePrefix
	}
	c.Storage.ImagePrefix = strings.TrimRight(c.Storage.ImagePrefix, "/")
	if c.Storage.ImagePrefix == "" {
		return fmt.Errorf("config: storage.image_prefix must not be the root path")
	}
	if c.App.MinWords < 0 {
		log.Println("App min_words is negative, using default")
		c.App.MinWords = DefaultMinWords
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return nil
}

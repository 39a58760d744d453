package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type APIConfig struct {
	BaseURL string
	// Timeout of 0 leaves the transport default in place; the backend
	// streams large uploads, so a global deadline is opt-in.
	Timeout time.Duration
}

type UploadConfig struct {
	MaxVideoBytes     int64
	MaxThumbnailBytes int64
	VideoTypes        []string
	ThumbnailTypes    []string
}

type AppConfig struct {
	Environment string
	StateDir    string
	PageSize    int
	API         APIConfig
	Upload      UploadConfig
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("CONSOLE")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("statedir", "")
	v.SetDefault("pagesize", 10)

	v.SetDefault("api.baseurl", "http://localhost:5000")
	v.SetDefault("api.timeout", "0s")

	v.SetDefault("upload.maxvideobytes", int64(2)<<30)
	v.SetDefault("upload.maxthumbnailbytes", int64(10)<<20)
	v.SetDefault("upload.videotypes", "video/mp4,video/webm,video/ogg")
	v.SetDefault("upload.thumbnailtypes", "image/jpeg,image/png,image/webp,image/gif")
}

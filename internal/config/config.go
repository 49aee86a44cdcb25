package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/RashadAnsari/qrstudio"
)

const envPrefix = "QRSTUDIO"

type Config struct {
	Log      Log      `mapstructure:"log"`
	Generate Generate `mapstructure:"generate"`
	Scan     Scan     `mapstructure:"scan"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Generate struct {
	OutputDir string `mapstructure:"output_dir"`
	Format    string `mapstructure:"format"`
	Size      int    `mapstructure:"size"`
	Level     string `mapstructure:"level"`
}

type Scan struct {
	FPS             int     `mapstructure:"fps"`
	BoxWidth        int     `mapstructure:"box_width"`
	BoxHeight       int     `mapstructure:"box_height"`
	ViewfinderWidth int     `mapstructure:"viewfinder_width"`
	AspectRatio     float64 `mapstructure:"aspect_ratio"`
	ShowTorch       bool    `mapstructure:"show_torch"`
	ShowZoom        bool    `mapstructure:"show_zoom"`
	DefaultZoom     float64 `mapstructure:"default_zoom"`
}

// ScanConfig converts the scan section for the scanner view.
func (s Scan) ScanConfig() qrstudio.ScanConfig {
	return qrstudio.ScanConfig{
		FPS:             s.FPS,
		BoxWidth:        s.BoxWidth,
		BoxHeight:       s.BoxHeight,
		ViewfinderWidth: s.ViewfinderWidth,
		AspectRatio:     s.AspectRatio,

		ShowTorchButtonIfSupported:  s.ShowTorch,
		ShowZoomSliderIfSupported:   s.ShowZoom,
		DefaultZoomValueIfSupported: s.DefaultZoom,
	}
}

// RecoveryLevel maps the level name to a recovery level.
func (g Generate) RecoveryLevel() (qrstudio.RecoveryLevel, error) {
	switch strings.ToLower(g.Level) {
	case "low", "l":
		return qrstudio.Low, nil
	case "", "medium", "m":
		return qrstudio.Medium, nil
	case "high", "q":
		return qrstudio.High, nil
	case "highest", "h":
		return qrstudio.Highest, nil
	default:
		return 0, fmt.Errorf("unknown recovery level %q", g.Level)
	}
}

func SetDefaults(v *viper.Viper) {
	scan := qrstudio.DefaultScanConfig()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("generate.output_dir", ".")
	v.SetDefault("generate.format", string(qrstudio.FormatPNG))
	v.SetDefault("generate.size", 512)
	v.SetDefault("generate.level", "medium")

	v.SetDefault("scan.fps", scan.FPS)
	v.SetDefault("scan.box_width", scan.BoxWidth)
	v.SetDefault("scan.box_height", scan.BoxHeight)
	v.SetDefault("scan.viewfinder_width", scan.ViewfinderWidth)
	v.SetDefault("scan.aspect_ratio", scan.AspectRatio)
	v.SetDefault("scan.show_torch", scan.ShowTorchButtonIfSupported)
	v.SetDefault("scan.show_zoom", scan.ShowZoomSliderIfSupported)
	v.SetDefault("scan.default_zoom", scan.DefaultZoomValueIfSupported)
}

// New returns a viper instance with defaults and QRSTUDIO_* env binding.
// Variables from a .env file in the working directory are loaded first.
func New() (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// Load reads the optional config file at path (or qrstudio.yaml from the
// working directory when path is empty) into a Config.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("qrstudio")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

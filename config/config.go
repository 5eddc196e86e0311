// config loads the app configuration from an optional yaml file, an optional .env file
// and MICROMOUSE_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"micromouse/geometry"
	"micromouse/playback"
	"micromouse/simulator"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "MICROMOUSE"

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns the listen address.
func (sc ServerConfig) Addr() string {
	return net.JoinHostPort(sc.Host, strconv.Itoa(sc.Port))
}

type SimulatorConfig struct {
	BaseURL    string        `mapstructure:"baseURL"`
	SearchPath string        `mapstructure:"searchPath"`
	Timeout    time.Duration `mapstructure:"timeout"`
	// PadTo pads mazes to PadTo x PadTo cells before posting them. Zero disables padding.
	PadTo int `mapstructure:"padTo"`
}

// maxTickPeriod is the slowest accepted playback clock.
const maxTickPeriod = time.Second

// PlaybackConfig sets the playback clock. Playback pace does not depend on TickPeriod,
// only how often the view refreshes while playing.
type PlaybackConfig struct {
	TickPeriod        time.Duration `mapstructure:"tickPeriod"`
	DefaultSpeedIndex int           `mapstructure:"defaultSpeedIndex"`
}

type InputConfig struct {
	// Path of the simulator input document. Empty means the built-in defaults.
	Path string `mapstructure:"path"`
}

// Config is the full app configuration.
type Config struct {
	Debug     bool             `mapstructure:"debug"`
	Server    ServerConfig     `mapstructure:"server"`
	Simulator SimulatorConfig  `mapstructure:"simulator"`
	Geometry  geometry.Options `mapstructure:"geometry"`
	Playback  PlaybackConfig   `mapstructure:"playback"`
	Input     InputConfig      `mapstructure:"input"`
}

func setDefaults(vp *viper.Viper) {
	geo := geometry.DefaultOptions()

	vp.SetDefault("debug", false)
	vp.SetDefault("server.host", "localhost")
	vp.SetDefault("server.port", 8080)
	vp.SetDefault("simulator.baseURL", simulator.DefaultBaseURL)
	vp.SetDefault("simulator.searchPath", simulator.DefaultSearchPath)
	vp.SetDefault("simulator.timeout", simulator.DefaultTimeout)
	vp.SetDefault("simulator.padTo", 0)
	vp.SetDefault("geometry.marginX", geo.MarginX)
	vp.SetDefault("geometry.marginY", geo.MarginY)
	vp.SetDefault("geometry.squareWidthPixels", geo.SquareWidthPixels)
	vp.SetDefault("geometry.squareWidthMeters", geo.SquareWidthMeters)
	vp.SetDefault("playback.tickPeriod", playback.DefaultPeriod)
	vp.SetDefault("playback.defaultSpeedIndex", playback.DefaultSpeedIndex)
	vp.SetDefault("input.path", "")
}

// ErrInvalidConfig is returned for values no component can work with.
var ErrInvalidConfig = errors.New("invalid config")

// Load reads the configuration. A missing config file or .env file is not an error;
// defaults apply. An empty path skips the config file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	vp := viper.New()
	setDefaults(vp)
	vp.SetEnvPrefix(EnvPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	if path != "" {
		vp.SetConfigFile(path)
		vp.SetConfigType("yaml")
		if err := vp.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := vp.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d", ErrInvalidConfig, cfg.Server.Port)
	}
	if cfg.Geometry.SquareWidthPixels <= 0 || cfg.Geometry.SquareWidthMeters <= 0 {
		return fmt.Errorf("%w: geometry square widths must be positive", ErrInvalidConfig)
	}
	if cfg.Playback.DefaultSpeedIndex < 0 || cfg.Playback.DefaultSpeedIndex >= len(playback.Speeds) {
		return fmt.Errorf("%w: playback.defaultSpeedIndex %d", ErrInvalidConfig, cfg.Playback.DefaultSpeedIndex)
	}
	if cfg.Playback.TickPeriod <= 0 || cfg.Playback.TickPeriod > maxTickPeriod {
		return fmt.Errorf("%w: playback.tickPeriod %s", ErrInvalidConfig, cfg.Playback.TickPeriod)
	}
	if cfg.Simulator.PadTo < 0 {
		return fmt.Errorf("%w: simulator.padTo %d", ErrInvalidConfig, cfg.Simulator.PadTo)
	}
	return nil
}

// Package config loads the runner configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/arkanoid/internal/core/observability/log"
	"github.com/zeusync/arkanoid/internal/core/physics"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Physics physics.Settings `yaml:"physics"`
	Arena   ArenaConfig      `yaml:"arena"`
	Paddle  PaddleConfig     `yaml:"paddle"`
	Server  ServerConfig     `yaml:"server"`
	Log     LogConfig        `yaml:"log"`

	// Levels are played in order.
	Levels []string `yaml:"levels"`
}

// ArenaConfig describes the playfield. The origin is the bottom-left corner.
type ArenaConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	WallThickness float64 `yaml:"wall_thickness"`
}

type PaddleConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Y      float64 `yaml:"y"`
	Speed  float64 `yaml:"speed"`
}

// ServerConfig configures the spectator stream.
type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`

	// Token, when set, must be passed as ?token= by every spectator.
	Token      string `yaml:"token"`
	MaxClients int    `yaml:"max_clients"`

	// SendBuffer is the number of snapshots queued per spectator before
	// new ones are dropped.
	SendBuffer int `yaml:"send_buffer"`
}

func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		Physics: physics.DefaultSettings(),
		Arena: ArenaConfig{
			Width:         16,
			Height:        20,
			WallThickness: 0.5,
		},
		Paddle: PaddleConfig{
			Width:  2.5,
			Height: 0.4,
			Y:      1,
			Speed:  12,
		},
		Server: ServerConfig{
			Host:       "127.0.0.1",
			Port:       8080,
			MaxClients: 64,
			SendBuffer: 16,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path on top of Default.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML on top of Default. Unknown keys are an error.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	err := c.Physics.Validate()
	add := func(format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf(format, args...))
	}

	if !(c.Arena.Width > 0) || !(c.Arena.Height > 0) {
		add("arena size must be positive, got %vx%v", c.Arena.Width, c.Arena.Height)
	}
	if !(c.Arena.WallThickness > 0) {
		add("arena.wall_thickness must be positive, got %v", c.Arena.WallThickness)
	}
	if !(c.Paddle.Width > 0) || !(c.Paddle.Height > 0) {
		add("paddle size must be positive, got %vx%v", c.Paddle.Width, c.Paddle.Height)
	}
	if c.Paddle.Width >= c.Arena.Width {
		add("paddle.width (%v) must be narrower than the arena (%v)", c.Paddle.Width, c.Arena.Width)
	}
	if c.Paddle.Y <= 0 || c.Paddle.Y >= c.Arena.Height {
		add("paddle.y (%v) must lie inside the arena", c.Paddle.Y)
	}
	if c.Paddle.Speed < 0 {
		add("paddle.speed must not be negative, got %v", c.Paddle.Speed)
	}
	if c.Server.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		add("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.MaxClients < 1 {
		add("server.max_clients must be at least 1, got %d", c.Server.MaxClients)
	}
	if c.Server.SendBuffer < 1 {
		add("server.send_buffer must be at least 1, got %d", c.Server.SendBuffer)
	}
	if _, perr := log.ParseLevel(c.Log.Level); perr != nil {
		add("log.level: %v", perr)
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LogLevel returns the parsed log level. Validate has already vetted it.
func (c Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.LevelInfo
	}
	return level
}

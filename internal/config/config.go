package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string   `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis    Redis    `yaml:"redis"`
	Bot      Bot      `yaml:"bot"`
	Players  Players  `yaml:"players"`
	Sessions Sessions `yaml:"sessions"`
}

// Redis - the event feed is disabled when Host is empty.
type Redis struct {
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Channel string `yaml:"channel" env:"REDIS_CHANNEL" env-default:"tictactoe:session"`
}

type Bot struct {
	ArmDelay        time.Duration `yaml:"arm-delay" env:"BOT_ARM_DELAY" env-default:"1s"`
	RestartArmDelay time.Duration `yaml:"restart-arm-delay" env:"BOT_RESTART_ARM_DELAY" env-default:"900ms"`
	ToggleArmDelay  time.Duration `yaml:"toggle-arm-delay" env:"BOT_TOGGLE_ARM_DELAY" env-default:"1200ms"`
	MoveDelay       time.Duration `yaml:"move-delay" env:"BOT_MOVE_DELAY" env-default:"320ms"`
	Seed            int64         `yaml:"seed" env:"BOT_SEED" env-default:"0"`
}

// Players - defaults for new sessions.
type Players struct {
	SinglePlayer bool   `yaml:"single-player" env:"SINGLE_PLAYER" env-default:"false"`
	HumanMark    string `yaml:"human-mark" env:"HUMAN_MARK" env-default:"X"`
	NameX        string `yaml:"name-x" env:"NAME_X" env-default:"Player X"`
	NameO        string `yaml:"name-o" env:"NAME_O" env-default:"Player O"`
}

// Sessions - a session untouched for TTL is closed; idle sessions are looked for every SweepInterval.
type Sessions struct {
	TTL           time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"24h"`
	SweepInterval time.Duration `yaml:"sweep-interval" env:"SESSION_SWEEP_INTERVAL" env-default:"1m"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) Enabled() bool {
	return that.Host != ""
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

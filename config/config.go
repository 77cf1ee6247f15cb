package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lazharichir/blackjack/domain"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BLACKJACK_SERVER_ADDR
const EnvPrefix = "BLACKJACK"

type Config struct {
	Server ServerConfig
	Table  TableConfig
	Log    LogConfig
	Redis  RedisConfig
}

type ServerConfig struct {
	Addr         string
	HistoryLimit int `mapstructure:"history_limit"`
}

type TableConfig struct {
	Name          string
	MaxPlayers    int  `mapstructure:"max_players"`
	NumDecks      int  `mapstructure:"num_decks"`
	StartingCoins int  `mapstructure:"starting_coins"`
	StrictTurns   bool `mapstructure:"strict_turns"`
}

type LogConfig struct {
	Level  string
	Format string
}

// RedisConfig configures the event relay. An empty Addr disables it.
type RedisConfig struct {
	Addr    string
	Channel string
}

// New returns a viper instance with defaults and environment overrides set up
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func SetDefaults(v *viper.Viper) {
	rules := domain.DefaultTableRules()

	v.SetDefault("server.addr", ":7777")
	v.SetDefault("server.history_limit", 1000)
	v.SetDefault("table.name", "Main")
	v.SetDefault("table.max_players", rules.MaxPlayers)
	v.SetDefault("table.num_decks", rules.NumDecks)
	v.SetDefault("table.starting_coins", rules.StartingCoins)
	v.SetDefault("table.strict_turns", rules.StrictTurns)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.channel", "blackjack:events")
}

// Load reads the optional config file into v and decodes the result. A missing file
// at an explicit path is an error.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Rules converts the table section into the rules of the default table
func (c Config) Rules() domain.TableRules {
	return domain.TableRules{
		MaxPlayers:    c.Table.MaxPlayers,
		NumDecks:      c.Table.NumDecks,
		StartingCoins: c.Table.StartingCoins,
		StrictTurns:   c.Table.StrictTurns,
	}
}

func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if err := c.Rules().Validate(); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	return nil
}

// NewLogger builds the process logger from the log section
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

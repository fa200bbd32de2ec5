package bootstrap

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"weiqi_client/internal/domain/game"
	"weiqi_client/internal/errors"
)

type Config struct {
	EngineUrl        string `mapstructure:"ENGINE_URL"`
	GameKey          string `mapstructure:"GAME_KEY"`
	PlayerColor      string `mapstructure:"PLAYER_COLOR"`
	BoardSize        int    `mapstructure:"BOARD_SIZE"`
	BoardWidth       int    `mapstructure:"BOARD_WIDTH"`
	SectionTop       int    `mapstructure:"SECTION_TOP"`
	SectionLeft      int    `mapstructure:"SECTION_LEFT"`
	SectionRight     int    `mapstructure:"SECTION_RIGHT"`
	SectionBottom    int    `mapstructure:"SECTION_BOTTOM"`
	ConfirmDelayMs   int    `mapstructure:"CONFIRM_DELAY_MS"`
	MessageTimeoutMs int    `mapstructure:"MESSAGE_TIMEOUT_MS"`
	ExportDir        string `mapstructure:"EXPORT_DIR"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
	LogFile          string `mapstructure:"LOG_FILE"`
	ServerPort       string `mapstructure:"SERVER_PORT"`
	RedisUrl         string `mapstructure:"REDIS_URL"`
}

var defaults = map[string]any{
	"ENGINE_URL":         "http://localhost:8080",
	"GAME_KEY":           "",
	"PLAYER_COLOR":       "B",
	"BOARD_SIZE":         19,
	"BOARD_WIDTH":        500,
	"SECTION_TOP":        game.AutoMargin,
	"SECTION_LEFT":       game.AutoMargin,
	"SECTION_RIGHT":      game.AutoMargin,
	"SECTION_BOTTOM":     game.AutoMargin,
	"CONFIRM_DELAY_MS":   500,
	"MESSAGE_TIMEOUT_MS": 3000,
	"EXPORT_DIR":         ".",
	"LOG_LEVEL":          "info",
	"LOG_FILE":           "",
	"SERVER_PORT":        ":8080",
	"REDIS_URL":          "",
}

// Setup reads the .env file at cfgPath; environment variables override it. A missing
// file leaves the defaults in place.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	v.SetConfigFile(cfgPath)

	err := v.ReadInConfig()
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var cfg Config

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c Config) Validate() error {
	if c.BoardSize < 2 || c.BoardSize > 25 {
		return fmt.Errorf("%w: BOARD_SIZE %d not in 2..25", errors.ErrInvalidConfig, c.BoardSize)
	}
	if _, err := c.Color(); err != nil {
		return fmt.Errorf("%w: PLAYER_COLOR: %v", errors.ErrInvalidConfig, err)
	}
	if c.ConfirmDelayMs < 0 || c.MessageTimeoutMs < 0 {
		return fmt.Errorf("%w: negative delay", errors.ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.EngineUrl, "http://") && !strings.HasPrefix(c.EngineUrl, "https://") {
		return fmt.Errorf("%w: ENGINE_URL %q must be an http(s) url", errors.ErrInvalidConfig, c.EngineUrl)
	}
	return c.BoardConfig().Validate()
}

func (c Config) Color() (game.Color, error) {
	return game.ParseColor(c.PlayerColor)
}

func (c Config) BoardConfig() game.BoardConfig {
	return game.BoardConfig{
		SizeInPixels: c.BoardWidth,
		Section: game.Section{
			Top:    c.SectionTop,
			Left:   c.SectionLeft,
			Right:  c.SectionRight,
			Bottom: c.SectionBottom,
		},
	}
}

func (c Config) ConfirmDelay() time.Duration {
	return time.Duration(c.ConfirmDelayMs) * time.Millisecond
}

func (c Config) MessageTimeout() time.Duration {
	return time.Duration(c.MessageTimeoutMs) * time.Millisecond
}

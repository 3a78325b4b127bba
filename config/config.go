package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramBotToken     string  `envconfig:"BOT_TOKEN"    required:"true"`
	ChannelID            string  `envconfig:"CHANNEL_ID"   required:"true"`
	ModGroupID           int64   `envconfig:"MOD_GROUP_ID" required:"true"`
	ModeratorIDs         []int64 `envconfig:"MODERATOR_IDS"`
	DatabasePath         string  `envconfig:"DATABASE_PATH"          default:"bazar.db"`
	DefaultLanguage      string  `envconfig:"DEFAULT_LANGUAGE"       default:"en"`
	MaxDescriptionLength int     `envconfig:"MAX_DESCRIPTION_LENGTH" default:"600"`
	PostFooter           string  `envconfig:"POST_FOOTER"            default:"📢 Posted via the classifieds bot"`
	SweepIntervalMinutes int     `envconfig:"SWEEP_INTERVAL_MINUTES" default:"10"`
	SelectionTTLMinutes  int     `envconfig:"SELECTION_TTL_MINUTES"  default:"60"`
	DraftTTLHours        int     `envconfig:"DRAFT_TTL_HOURS"        default:"24"`
	Debug                bool    `envconfig:"DEBUG"                  default:"false"`
}

// LoadConfig reads an optional .env file and then the process environment.
// It returns an error when any required identifier is missing.
func LoadConfig() (Config, error) {
	// A missing .env is normal in containers; the environment still applies.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.TelegramBotToken) == "" {
		return fmt.Errorf("BOT_TOKEN must not be empty")
	}
	if c.MaxDescriptionLength <= 0 {
		return fmt.Errorf("MAX_DESCRIPTION_LENGTH must be positive, got %d", c.MaxDescriptionLength)
	}
	if c.SweepIntervalMinutes <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL_MINUTES must be positive, got %d", c.SweepIntervalMinutes)
	}
	if _, _, err := c.Channel(); err != nil {
		return err
	}
	return nil
}

// Channel resolves CHANNEL_ID, which is either a numeric chat id (-100…) or an @username.
func (c *Config) Channel() (chatID int64, username string, err error) {
	raw := strings.TrimSpace(c.ChannelID)
	if strings.HasPrefix(raw, "@") {
		if len(raw) == 1 {
			return 0, "", fmt.Errorf("CHANNEL_ID %q is not a valid channel username", c.ChannelID)
		}
		return 0, raw, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("CHANNEL_ID must be a number or @username, got %q", c.ChannelID)
	}
	return id, "", nil
}

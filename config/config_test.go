package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("CHANNEL_ID", "-1001234567890")
	t.Setenv("MOD_GROUP_ID", "-1009876543210")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("MODERATOR_IDS", "11,22")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramBotToken)
	assert.Equal(t, int64(-1009876543210), cfg.ModGroupID)
	assert.Equal(t, []int64{11, 22}, cfg.ModeratorIDs)
	assert.Equal(t, 600, cfg.MaxDescriptionLength)
	assert.Equal(t, "bazar.db", cfg.DatabasePath)
	assert.Equal(t, "en", cfg.DefaultLanguage)
}

func TestLoadConfigFailsFastOnMissingIdentifiers(t *testing.T) {
	for _, missing := range []string{"BOT_TOKEN", "CHANNEL_ID", "MOD_GROUP_ID"} {
		t.Run(missing, func(t *testing.T) {
			setRequired(t)
			t.Setenv(missing, "")
			require.NoError(t, os.Unsetenv(missing))

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), missing)
		})
	}
}

func TestChannel(t *testing.T) {
	cfg := Config{ChannelID: "@cars_for_sale"}
	id, username, err := cfg.Channel()
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.Equal(t, "@cars_for_sale", username)

	cfg.ChannelID = "-100555"
	id, username, err = cfg.Channel()
	require.NoError(t, err)
	assert.Equal(t, int64(-100555), id)
	assert.Empty(t, username)

	cfg.ChannelID = "cars"
	_, _, err = cfg.Channel()
	assert.Error(t, err)
}

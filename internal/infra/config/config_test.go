package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/torneo")
	t.Setenv("DISCORD_BOT_TOKEN", "token-123")
	t.Setenv("DISCORD_GUILD_ID", "g-123")
	t.Setenv("ADMIN_ROLE_IDS", " r1, r2 ,,r3 ")
	t.Setenv("RESULTS_WEBHOOK_SECRET", "")
	t.Setenv("HTTP_ADDR", "")

	cfg := Load()

	assert.Equal(t, "postgres://localhost/torneo", cfg.DatabaseURL)
	assert.Equal(t, "token-123", cfg.DiscordToken)
	assert.Equal(t, "g-123", cfg.DiscordGuild)
	assert.Equal(t, []string{"r1", "r2", "r3"}, cfg.AdminRoleIDs)
	assert.Empty(t, cfg.WebhookSecret)
	assert.Equal(t, ":8080", cfg.HTTPAddr, "default cuando HTTP_ADDR no viene")
}

func TestLoadExplicitAddr(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/torneo")
	t.Setenv("DISCORD_BOT_TOKEN", "token-123")
	t.Setenv("DISCORD_GUILD_ID", "g-123")
	t.Setenv("ADMIN_ROLE_IDS", "")
	t.Setenv("HTTP_ADDR", ":9999")

	cfg := Load()
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Empty(t, cfg.AdminRoleIDs)
}

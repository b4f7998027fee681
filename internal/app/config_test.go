package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, ":9090", cfg.MetricsAddr)
	require.Empty(t, cfg.DatabaseDSN)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, "resto.order.events", cfg.KafkaOrderTopic)
	require.Equal(t, 5*time.Second, cfg.MailTimeout)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("RESTO_HTTP_ADDR", ":18080")
	t.Setenv("RESTO_MAIL_TIMEOUT", "2s")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, ":18080", cfg.HTTPAddr)
	require.Equal(t, 2*time.Second, cfg.MailTimeout)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "http_addr: \":28080\"\nsmtp_addr: \"mail.local:25\"\nsmtp_from: \"orders@resto.local\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":28080", cfg.HTTPAddr)
	require.Equal(t, "mail.local:25", cfg.SMTPAddr)
	require.Equal(t, "orders@resto.local", cfg.SMTPFrom)
}

func TestLoadConfig_MissingFileFails(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestConfigValidate_CollectsAllViolations(t *testing.T) {
	cfg := Config{
		HTTPAddr:        "",
		MetricsAddr:     "",
		MailTimeout:     0,
		SMTPAddr:        "mail.local:25",
		SMTPFrom:        "",
		TokenTTL:        0,
		ShutdownTimeout: 0,
	}

	err := cfg.Validate()
	require.Error(t, err)
	require.True(t, domain.IsValidation(err))

	for _, want := range []string{
		"http_addr must not be empty",
		"metrics_addr must not be empty",
		"mail_timeout must be positive",
		"smtp_from must be set when smtp_addr is set",
		"token_ttl must be positive",
		"shutdown_timeout must be positive",
	} {
		require.Contains(t, err.Error(), want)
	}
	require.Equal(t, 5, strings.Count(err.Error(), "; "))
}

func TestConfigValidate_AcceptsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
}

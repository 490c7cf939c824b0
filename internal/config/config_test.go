package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "LOG_LEVEL", "STORAGE_BACKEND", "SQLITE_PATH", "AI_PROVIDER", "GEMINI_API_KEY", "API_KEY",
		"GEMINI_MODEL", "ANTHROPIC_API_KEY", "WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID",
		"META_VERIFY_TOKEN", "WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION", "WHATSAPP_REPORT_RECIPIENT",
		"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID", "REPORT_CRON_SCHEDULE",
		"TIMEZONE", "MONGODB_URI", "MONGODB_DB_NAME",
	} {
		t.Setenv(key, "")
		// godotenv never overrides a variable that is set, even to "".
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, StorageSQLite, cfg.Storage.Backend)
	assert.Equal(t, "capra.db", cfg.Storage.SQLitePath)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.GeminiModel)
	assert.False(t, cfg.WhatsAppEnabled())
	assert.False(t, cfg.SheetsEnabled())
	assert.Equal(t, "", cfg.AIKey())
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("AI_PROVIDER=Anthropic\nANTHROPIC_API_KEY=sk-test\nSTORAGE_BACKEND=memory\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.AI.Provider)
	assert.Equal(t, "sk-test", cfg.AIKey())
	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
}

func TestLoad_GeminiKeyFallsBackToAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "legacy")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.AIKey())
}

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Port: "8080"},
		Storage:   StorageConfig{Backend: StorageMemory},
		AI:        AIConfig{Provider: ProviderGemini},
		WhatsApp:  WhatsAppConfig{BaseURL: "https://graph.facebook.com", APIVersion: "v20.0"},
		Reporting: ReportingConfig{CronSchedule: "0 20 * * 5", Timezone: "UTC"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "APP_PORT"},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "redis" }, wantErr: "STORAGE_BACKEND"},
		{name: "mongodb without uri", mutate: func(c *Config) { c.Storage.Backend = StorageMongoDB }, wantErr: "MONGODB_URI"},
		{name: "unknown provider", mutate: func(c *Config) { c.AI.Provider = "llama" }, wantErr: "AI_PROVIDER"},
		{name: "whatsapp partial", mutate: func(c *Config) { c.WhatsApp.AccessToken = "tok" }, wantErr: "WHATSAPP_PHONE_NUMBER_ID"},
		{name: "whatsapp without verify token", mutate: func(c *Config) {
			c.WhatsApp.AccessToken = "tok"
			c.WhatsApp.PhoneNumberID = "1"
		}, wantErr: "META_VERIFY_TOKEN"},
		{name: "sheets partial", mutate: func(c *Config) { c.Sheets.SpreadsheetID = "abc" }, wantErr: "GOOGLE_SHEETS_CREDENTIALS_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

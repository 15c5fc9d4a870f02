package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "output", cfg.Deck.OutputDir)
	assert.Equal(t, "app", cfg.SharePoint.AuthMethod)
	assert.False(t, cfg.SharePoint.Upload)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maturity.yaml")

	content := `
sheet:
  url: https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms
  range: Responses!A1:Z
llm:
  provider: gemini
  model: gemini-2.0-flash
sharepoint:
  upload: true
  site_url: https://contoso.sharepoint.com/sites/marketing
  tenant: contoso.onmicrosoft.com
  folder: Shared Documents/Assessments
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Responses!A1:Z", cfg.Sheet.Range)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.True(t, cfg.SharePoint.Upload)
	assert.Equal(t, "Shared Documents/Assessments", cfg.SharePoint.Folder)

	// defaults survive a partial file
	assert.Equal(t, "Maturity_Slide_Template.pptx", cfg.Deck.Template)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SHAREPOINT_UPLOAD", "true")
	t.Setenv("SHAREPOINT_AUTH_METHOD", "user")
	t.Setenv("SHAREPOINT_CLIENT_ID", "11111111-2222-3333-4444-555555555555")
	t.Setenv("SHAREPOINT_CLIENT_SECRET", "hush")
	t.Setenv("SHAREPOINT_USERNAME", "svc@contoso.com")
	t.Setenv("SHAREPOINT_PASSWORD", "hunter2")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.True(t, cfg.SharePoint.Upload)
	assert.Equal(t, "user", cfg.SharePoint.AuthMethod)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", cfg.SharePoint.ClientID)
	assert.Equal(t, "hush", cfg.SharePoint.ClientSecret)
	assert.Equal(t, "svc@contoso.com", cfg.SharePoint.Username)
	assert.Equal(t, "hunter2", cfg.SharePoint.Password)
}

func TestGeminiAPIKeyOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maturity.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: gemini\n"), 0600))

	t.Setenv("GEMINI_API_KEY", "g-test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "g-test", cfg.LLM.APIKey)
}

// Package config loads the tool configuration from an optional YAML file,
// with environment variables taking precedence over file values.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all maturity-assessment configuration.
type Config struct {
	Sheet      SheetConfig      `yaml:"sheet"`
	LLM        LLMConfig        `yaml:"llm"`
	Deck       DeckConfig       `yaml:"deck"`
	SharePoint SharePointConfig `yaml:"sharepoint"`
}

// SheetConfig identifies the survey responses worksheet.
type SheetConfig struct {
	URL         string `yaml:"url"`
	Range       string `yaml:"range"`
	Credentials string `yaml:"credentials"`
}

// LLMConfig configures the recommendations provider.
type LLMConfig struct {
	Provider string `yaml:"provider"` // openai, gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// DeckConfig configures the presentation renderer.
type DeckConfig struct {
	Template  string `yaml:"template"`
	OutputDir string `yaml:"output_dir"`
}

// SharePointConfig configures the optional deck upload.
type SharePointConfig struct {
	Upload       bool   `yaml:"upload"`
	AuthMethod   string `yaml:"auth_method"` // app, user
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	SiteURL      string `yaml:"site_url"`
	Tenant       string `yaml:"tenant"`
	Folder       string `yaml:"folder"`
	Authority    string `yaml:"authority"`
}

// NewConfig returns the default configuration.
func NewConfig() Config {
	return Config{
		Sheet: SheetConfig{
			Range: "Form Responses 1!A1:Z",
		},
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
			Timeout:  "60s",
		},
		Deck: DeckConfig{
			Template:  "Maturity_Slide_Template.pptx",
			OutputDir: "output",
		},
		SharePoint: SharePointConfig{
			AuthMethod: "app",
		},
	}
}

// Load reads the configuration file (if it exists) over the defaults and
// then applies the environment overrides.
func Load(path string) (Config, error) {
	cfg := NewConfig()

	if path != "" {
		bytes, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("unable to read configuration file (%v)", err)
		}

		if err == nil {
			if err := yaml.Unmarshal(bytes, &cfg); err != nil {
				return cfg, fmt.Errorf("invalid configuration file (%v)", err)
			}
		}
	}

	cfg.applyEnv()

	return cfg, nil
}

func (cfg *Config) applyEnv() {
	override(&cfg.LLM.APIKey, "OPENAI_API_KEY")
	if cfg.LLM.Provider == "gemini" {
		override(&cfg.LLM.APIKey, "GEMINI_API_KEY")
	}

	if v, ok := os.LookupEnv("SHAREPOINT_UPLOAD"); ok {
		if upload, err := strconv.ParseBool(v); err == nil {
			cfg.SharePoint.Upload = upload
		}
	}

	override(&cfg.SharePoint.AuthMethod, "SHAREPOINT_AUTH_METHOD")
	override(&cfg.SharePoint.ClientID, "SHAREPOINT_CLIENT_ID")
	override(&cfg.SharePoint.ClientSecret, "SHAREPOINT_CLIENT_SECRET")
	override(&cfg.SharePoint.Username, "SHAREPOINT_USERNAME")
	override(&cfg.SharePoint.Password, "SHAREPOINT_PASSWORD")
}

func override(field *string, name string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*field = v
	}
}

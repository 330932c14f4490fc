package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	DataDir  string         `mapstructure:"data_dir"`
	Notion   NotionConfig   `mapstructure:"notion"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Describe DescribeConfig `mapstructure:"describe"`
}

type NotionConfig struct {
	APIBase  string `mapstructure:"api_base"`
	TokenURL string `mapstructure:"token_url"`
	Version  string `mapstructure:"version"`
}

type BrowserConfig struct {
	DebugURL string `mapstructure:"debug_url"`
}

type DescribeConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`
}

func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	defaultDataDir := filepath.Join(homeDir, ".notionclip")

	viper.SetDefault("data_dir", defaultDataDir)
	viper.SetDefault("notion.api_base", "https://api.notion.com/v1/")
	viper.SetDefault("notion.token_url", "https://www.notion.so/api/v3/getBotToken")
	viper.SetDefault("notion.version", "2022-06-28")
	viper.SetDefault("browser.debug_url", "http://localhost:9222")
	viper.SetDefault("describe.enabled", false)
	viper.SetDefault("describe.provider", "anthropic")
	viper.SetDefault("describe.model", "claude-haiku-4-5-20251001")

	// Environment variable overrides
	viper.SetEnvPrefix("NOTIONCLIP")
	viper.AutomaticEnv()
	viper.BindEnv("data_dir", "NOTIONCLIP_DATA_DIR")
	viper.BindEnv("notion.api_base", "NOTIONCLIP_NOTION_API_BASE")
	viper.BindEnv("notion.token_url", "NOTIONCLIP_NOTION_TOKEN_URL")
	viper.BindEnv("browser.debug_url", "NOTIONCLIP_BROWSER_DEBUG_URL")
	viper.BindEnv("describe.provider", "NOTIONCLIP_DESCRIBE_PROVIDER")
	viper.BindEnv("describe.model", "NOTIONCLIP_DESCRIBE_MODEL")

	// Config file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultDataDir)

	// Read config file if exists (ignore error if not found)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "notionclip.db")
}

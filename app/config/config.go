package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log    Log    `yaml:"log"`
	Server Server `yaml:"server"`
	Gemini Gemini `yaml:"gemini"`
	OpenAI OpenAI `yaml:"openai"`
	Safety Safety `yaml:"safety"`
}

type Server struct {
	// Address to bind the HTTP API to
	Addr string `yaml:"addr" example:"0.0.0.0:5000"`
}

type Gemini struct {
	// API key, can also be supplied via the GEMINI_API_KEY environment variable
	Token string `yaml:"token" example:"AIzaSyAbc123456789DEFghi012JKLmno345PQRstu"`
	// Base url of the generative language API
	BaseURL string `yaml:"base_url" example:"https://generativelanguage.googleapis.com"`
	// Model identifiers tried in priority order
	Models []string `yaml:"models"`
}

type OpenAI struct {
	// OpenAI-compatible base url, leave empty to disable the terminal provider
	BaseURL string `yaml:"base_url" example:"https://openrouter.ai/api/v1"`
	// OpenAI token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX"`
	// OpenAI model
	Model string `yaml:"model" example:"deepseek/deepseek-chat-v3-0324:free"`
}

type Safety struct {
	// Response mode: "gemini" or "rules"
	Mode string `yaml:"mode" example:"gemini" validate:"omitempty,oneof=gemini rules"`
	// Location markers that short-circuit the area check as verified trusted zones
	TrustedZones []string `yaml:"trusted_zones"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	result.applyDefaults()

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = "0.0.0.0:5000"
	}
	if c.Gemini.Token == "" {
		c.Gemini.Token = os.Getenv("GEMINI_API_KEY")
	}
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if len(c.Gemini.Models) == 0 {
		c.Gemini.Models = []string{
			"gemini-2.0-flash",
			"gemini-2.0-flash-exp",
			"gemini-2.0-flash-001",
			"gemini-2.5-flash",
			"gemini-2.0-flash-lite",
		}
	}
	if c.Safety.Mode == "" {
		if c.Gemini.Token != "" {
			c.Safety.Mode = "gemini"
		} else {
			c.Safety.Mode = "rules"
		}
	}
	if len(c.Safety.TrustedZones) == 0 {
		c.Safety.TrustedZones = []string{"chandigarh university"}
	}
}

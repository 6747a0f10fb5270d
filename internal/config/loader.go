package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const envPrefix = "ARCHBOT"

// ConfigPath returns the default configuration file path: ~/.archbot/config.yaml.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.yaml")
}

// DataDir returns the archbot data directory: ~/.archbot.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".archbot"
	}
	return filepath.Join(home, ".archbot")
}

// Load reads the config file at path (yaml, json or toml, chosen by
// extension) on top of DefaultConfig, then applies ARCHBOT_* environment
// overrides. A missing file is not an error. If path is empty,
// ConfigPath() is used. Load does not call Validate.
func Load(path string) (*Config, error) {
	return load(path, true)
}

// LoadFile is Load without environment overrides: only DefaultConfig and
// the file itself. Use it when the result is written back to disk so
// exported secrets never end up in the file.
func LoadFile(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, withEnv bool) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	if withEnv {
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
		if err := v.BindEnv("llm.apiKey", envPrefix+"_LLM_APIKEY", "OPENROUTER_API_KEY"); err != nil {
			return nil, fmt.Errorf("bind env: %w", err)
		}
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes cfg to path as YAML with 0600 permissions.
// If path is empty, ConfigPath() is used.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// setDefaults registers every leaf of def with viper so AutomaticEnv can
// resolve overrides for keys absent from the file.
func setDefaults(v *viper.Viper, def Config) {
	v.SetDefault("llm.apiKey", def.LLM.APIKey)
	v.SetDefault("llm.endpoint", def.LLM.Endpoint)
	v.SetDefault("llm.model", def.LLM.Model)
	v.SetDefault("llm.temperature", def.LLM.Temperature)
	v.SetDefault("llm.maxTokens", def.LLM.MaxTokens)
	v.SetDefault("llm.timeout", def.LLM.Timeout)
	v.SetDefault("llm.extraHeaders", map[string]string{})

	v.SetDefault("tools.web.enabled", def.Tools.Web.Enabled)
	v.SetDefault("tools.web.name", def.Tools.Web.Name)
	v.SetDefault("tools.web.baseUrl", def.Tools.Web.BaseURL)
	v.SetDefault("tools.web.timeout", def.Tools.Web.Timeout)
	v.SetDefault("tools.web.maxBytes", def.Tools.Web.MaxBytes)
	v.SetDefault("tools.healthCheckSpec", def.Tools.HealthCheckSpec)

	v.SetDefault("log.level", def.Log.Level)
}

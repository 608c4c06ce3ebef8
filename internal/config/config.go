package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/thenoetrevino/trellis/internal/config/colors"
	"gopkg.in/yaml.v3"
)

// Defaults used when the config file leaves a value unset.
const (
	DefaultAppName            = "trellis"
	DefaultBaseURL            = "https://api.trello.com"
	DefaultAuthorizeURL       = "https://trello.com/1/connect"
	DefaultKey                = "ac61d8974aa86dd25f9597fa651a2ed8"
	DefaultSlugLength         = 26
	MinSlugLength             = 4
	DefaultCommentsLimit      = 5
	DefaultNotificationsLimit = 50
	DefaultMarkdownStyle      = "auto"
)

// Config represents the application configuration
type Config struct {
	API                API                `yaml:"api"`
	AppName            string             `yaml:"app_name"`
	DataDir            string             `yaml:"data_dir"`
	SlugLength         int                `yaml:"slug_length"`
	CommentsLimit      int                `yaml:"comments_limit"`
	NotificationsLimit int                `yaml:"notifications_limit"`
	MarkdownStyle      string             `yaml:"markdown_style"`
	ColorScheme        colors.ColorScheme `yaml:"theme"`

	path string
}

// API holds the remote service settings.
type API struct {
	BaseURL      string `yaml:"base_url"`
	AuthorizeURL string `yaml:"authorize_url"`
	Key          string `yaml:"key"`
}

// Default returns a config with every default applied.
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// loadThemeFile loads and merges theme from TRELLIS_THEME_FILE environment variable
func loadThemeFile(config *Config) {
	themeFile := os.Getenv("TRELLIS_THEME_FILE")
	if themeFile == "" {
		return
	}

	themeData, err := os.ReadFile(themeFile)
	if err != nil {
		return
	}

	var themeConfig struct {
		Theme colors.ColorScheme `yaml:"theme"`
	}

	if yaml.Unmarshal(themeData, &themeConfig) == nil {
		config.ColorScheme.MergeFrom(themeConfig.Theme, true)
	}
}

// applyEnv applies TRELLIS_API_KEY and TRELLIS_API_URL overrides.
func applyEnv(config *Config) {
	if key := os.Getenv("TRELLIS_API_KEY"); key != "" {
		config.API.Key = key
	}
	if baseURL := os.Getenv("TRELLIS_API_URL"); baseURL != "" {
		config.API.BaseURL = baseURL
	}
}

// Load loads config from the user's config directory
// Returns default config if file doesn't exist
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		// Return default config if we can't determine config path
		config := Default()
		loadThemeFile(config)
		applyEnv(config)
		return config, nil
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the config file at configPath, falling back to defaults
// when it does not exist.
func LoadFrom(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		config := Default()
		config.path = configPath
		loadThemeFile(config)
		applyEnv(config)
		return config, nil
	}
	if err != nil {
		return nil, err
	}

	// Parse YAML
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	config.path = configPath

	loadThemeFile(&config)
	applyEnv(&config)

	// Fill in any missing values with defaults
	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Save saves the config to the path it was loaded from, or the user's
// config directory.
func (c *Config) Save() error {
	configPath := c.path
	if configPath == "" {
		var err error
		if configPath, err = getConfigPath(); err != nil {
			return err
		}
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// Path returns the file the config was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}

// AuthorizeLink returns the page where a user grants a never-expiring
// read/write token to this application.
func (c *Config) AuthorizeLink() string {
	query := url.Values{}
	query.Set("key", c.API.Key)
	query.Set("name", c.AppName)
	query.Set("response_type", "token")
	query.Set("expires", "never")
	query.Set("scope", "read,write")
	return c.API.AuthorizeURL + "?" + query.Encode()
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	if explicit := os.Getenv("TRELLIS_CONFIG"); explicit != "" {
		return explicit, nil
	}

	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "trellis", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "trellis", "config.yaml"), nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.AuthorizeURL == "" {
		c.API.AuthorizeURL = DefaultAuthorizeURL
	}
	if c.API.Key == "" {
		c.API.Key = DefaultKey
	}
	if c.AppName == "" {
		c.AppName = DefaultAppName
	}
	if c.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DataDir = filepath.Join(home, "."+c.AppName)
		} else {
			c.DataDir = "." + c.AppName
		}
	}
	if c.SlugLength <= 0 {
		c.SlugLength = DefaultSlugLength
	}
	if c.CommentsLimit <= 0 {
		c.CommentsLimit = DefaultCommentsLimit
	}
	if c.NotificationsLimit <= 0 {
		c.NotificationsLimit = DefaultNotificationsLimit
	}
	if c.MarkdownStyle == "" {
		c.MarkdownStyle = DefaultMarkdownStyle
	}
	c.ColorScheme.ApplyDefaults()
}

func (c *Config) validate() error {
	if c.SlugLength < MinSlugLength {
		return fmt.Errorf("config: slug_length must be at least %d, got %d", MinSlugLength, c.SlugLength)
	}
	return nil
}

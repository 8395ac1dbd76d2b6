package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the effective doctask configuration.
type Config struct {
	Docs   DocsConfig   `mapstructure:"docs" yaml:"docs"`
	NoteDb NoteDbConfig `mapstructure:"notedb" yaml:"notedb"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// DocsConfig drives the documentation build.
type DocsConfig struct {
	HomeEnv      string   `mapstructure:"home_env" yaml:"home_env"`
	FallbackHome string   `mapstructure:"fallback_home" yaml:"fallback_home"`
	ToolSuffix   string   `mapstructure:"tool_suffix" yaml:"tool_suffix"`
	ToolName     string   `mapstructure:"tool_name" yaml:"tool_name"`
	Installer    []string `mapstructure:"installer" yaml:"installer"`
	ToxFile      string   `mapstructure:"tox_file" yaml:"tox_file"`
	// Args, when set, replaces the arguments scraped from ToxFile.
	Args       []string `mapstructure:"args" yaml:"args"`
	OutputDir  string   `mapstructure:"output_dir" yaml:"output_dir"`
	ToolOutput string   `mapstructure:"tool_output" yaml:"tool_output"`
	WorkDir    string   `mapstructure:"workdir" yaml:"workdir"`
}

// NoteDbConfig drives the All-Users maintenance commands.
type NoteDbConfig struct {
	// AllUsers is the All-Users repository url used when --all-users is omitted.
	AllUsers string `mapstructure:"all_users" yaml:"all_users"`
	// CacheDir holds the clones. Empty means ~/.cache/pynotedb.
	CacheDir    string `mapstructure:"cache_dir" yaml:"cache_dir"`
	AuthorName  string `mapstructure:"author_name" yaml:"author_name"`
	AuthorEmail string `mapstructure:"author_email" yaml:"author_email"`
}

// GitEnv returns the git identity overrides for commits made in the clone.
func (n NoteDbConfig) GitEnv() []string {
	var env []string
	if n.AuthorName != "" {
		env = append(env, "GIT_AUTHOR_NAME="+n.AuthorName, "GIT_COMMITTER_NAME="+n.AuthorName)
	}
	if n.AuthorEmail != "" {
		env = append(env, "GIT_AUTHOR_EMAIL="+n.AuthorEmail, "GIT_COMMITTER_EMAIL="+n.AuthorEmail)
	}
	return env
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

const (
	DefaultConfigName = ".doctask"
	DefaultConfigFile = DefaultConfigName + ".yaml"
	EnvPrefix         = "DOCTASK"
	EnvFile           = ".env"

	DefaultHomeEnv      = "HOME"
	DefaultFallbackHome = "/root"
	DefaultToolSuffix   = ".local/bin/pdoc3"
	DefaultToolName     = "pdoc3"
	DefaultToxFile      = "tox.ini"
	DefaultOutputDir    = "build/docs"
	DefaultToolOutput   = "build/html/pynotedb"
	DefaultWorkDir      = "."
	DefaultLogLevel     = "info"
)

// DefaultInstaller installs the documentation tool for the current user.
var DefaultInstaller = []string{"pip3", "install", "--user", "pdoc3"}

var defaults = map[string]any{
	"docs.home_env":       DefaultHomeEnv,
	"docs.fallback_home":  DefaultFallbackHome,
	"docs.tool_suffix":    DefaultToolSuffix,
	"docs.tool_name":      DefaultToolName,
	"docs.installer":      DefaultInstaller,
	"docs.tox_file":       DefaultToxFile,
	"docs.args":           []string{},
	"docs.output_dir":     DefaultOutputDir,
	"docs.tool_output":    DefaultToolOutput,
	"docs.workdir":        DefaultWorkDir,
	"notedb.all_users":    "",
	"notedb.cache_dir":    "",
	"notedb.author_name":  "",
	"notedb.author_email": "",
	"log.level":           DefaultLogLevel,
	"log.pretty":          true,
}

var listKeys = map[string]bool{
	"docs.installer": true,
	"docs.args":      true,
}

// configPath is where SaveConfig writes.
var configPath = DefaultConfigFile

// InitConfig loads an optional .env file, registers defaults and environment
// overrides, and reads cfgFile (or ./.doctask.yaml). A missing file is not an error.
func InitConfig(cfgFile string) error {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", EnvFile, err)
	}

	for key, value := range defaults {
		viper.SetDefault(key, value)
	}
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		configPath = cfgFile
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(DefaultConfigName)
		viper.SetConfigType("yaml")
		configPath = DefaultConfigFile
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read configuration file: %w", err)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		configPath = used
	}
	return nil
}

// GetConfig unmarshals and validates the current configuration.
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"docs.home_env", c.Docs.HomeEnv},
		{"docs.fallback_home", c.Docs.FallbackHome},
		{"docs.tool_suffix", c.Docs.ToolSuffix},
		{"docs.tool_name", c.Docs.ToolName},
		{"docs.output_dir", c.Docs.OutputDir},
		{"docs.tool_output", c.Docs.ToolOutput},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("invalid configuration: %s must not be empty", r.key)
		}
	}
	if len(c.Docs.Args) == 0 && strings.TrimSpace(c.Docs.ToxFile) == "" {
		return errors.New("invalid configuration: either docs.args or docs.tox_file must be set")
	}
	if c.Docs.OutputDir == c.Docs.ToolOutput {
		return errors.New("invalid configuration: docs.output_dir and docs.tool_output must differ")
	}
	return nil
}

// Keys lists every supported configuration key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func IsValidKey(key string) bool {
	_, ok := defaults[key]
	return ok
}

// SetValue parses raw according to the key's type and stores it.
// List keys are split on whitespace.
func SetValue(key, raw string) error {
	if !IsValidKey(key) {
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	switch {
	case listKeys[key]:
		viper.Set(key, strings.Fields(raw))
	case key == "log.pretty":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		viper.Set(key, b)
	default:
		viper.Set(key, raw)
	}
	return nil
}

// ConfigPath returns the file SaveConfig writes to.
func ConfigPath() string {
	return configPath
}

// SaveConfig writes the current configuration with owner-only permissions.
func SaveConfig() error {
	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	if err := os.Chmod(configPath, 0o600); err != nil {
		return fmt.Errorf("failed to set configuration file permissions: %w", err)
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, ".doctask", DefaultConfigName)
	assert.Equal(t, "DOCTASK", EnvPrefix)
	assert.Equal(t, "HOME", DefaultHomeEnv)
	assert.Equal(t, "/root", DefaultFallbackHome)
	assert.Equal(t, ".local/bin/pdoc3", DefaultToolSuffix)
	assert.Equal(t, []string{"pip3", "install", "--user", "pdoc3"}, DefaultInstaller)
}

func TestInitConfig_NoFileUsesDefaults(t *testing.T) {
	resetViper(t)
	chdir(t, t.TempDir())

	require.NoError(t, InitConfig(""))

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultHomeEnv, cfg.Docs.HomeEnv)
	assert.Equal(t, DefaultToxFile, cfg.Docs.ToxFile)
	assert.Equal(t, DefaultInstaller, cfg.Docs.Installer)
	assert.Empty(t, cfg.Docs.Args)
	assert.Equal(t, DefaultOutputDir, cfg.Docs.OutputDir)
	assert.Equal(t, DefaultToolOutput, cfg.Docs.ToolOutput)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)

	assert.NoFileExists(t, DefaultConfigFile)
	assert.Equal(t, DefaultConfigFile, ConfigPath())
}

func TestInitConfig_MissingExplicitFile(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "absent.yaml")
	require.NoError(t, InitConfig(path))
	assert.Equal(t, path, ConfigPath())
}

func TestInitConfig_ExistingConfigFile(t *testing.T) {
	resetViper(t)

	configFile := filepath.Join(t.TempDir(), "doctask.yaml")
	content := `docs:
  tox_file: setup.cfg
  args: ["--html", "-o", "out", "pynotedb"]
  output_dir: public
log:
  level: debug
  pretty: false
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))
	require.NoError(t, InitConfig(configFile))

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "setup.cfg", cfg.Docs.ToxFile)
	assert.Equal(t, []string{"--html", "-o", "out", "pynotedb"}, cfg.Docs.Args)
	assert.Equal(t, "public", cfg.Docs.OutputDir)
	assert.Equal(t, DefaultToolOutput, cfg.Docs.ToolOutput)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestInitConfig_InvalidConfigFile(t *testing.T) {
	resetViper(t)

	configFile := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("docs: [unterminated"), 0o644))

	err := InitConfig(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read configuration file")
}

func TestInitConfig_EnvOverride(t *testing.T) {
	resetViper(t)
	chdir(t, t.TempDir())
	t.Setenv("DOCTASK_DOCS_OUTPUT_DIR", "site")

	require.NoError(t, InitConfig(""))

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "site", cfg.Docs.OutputDir)
}

func TestInitConfig_DotEnv(t *testing.T) {
	resetViper(t)
	chdir(t, t.TempDir())
	t.Setenv("DOCTASK_DOCS_TOOL_NAME", "")
	require.NoError(t, os.Unsetenv("DOCTASK_DOCS_TOOL_NAME"))
	require.NoError(t, os.WriteFile(EnvFile, []byte("DOCTASK_DOCS_TOOL_NAME=pdoc\n"), 0o644))

	require.NoError(t, InitConfig(""))

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "pdoc", cfg.Docs.ToolName)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{Docs: DocsConfig{
			HomeEnv:      DefaultHomeEnv,
			FallbackHome: DefaultFallbackHome,
			ToolSuffix:   DefaultToolSuffix,
			ToolName:     DefaultToolName,
			ToxFile:      DefaultToxFile,
			OutputDir:    DefaultOutputDir,
			ToolOutput:   DefaultToolOutput,
		}}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty home env", func(c *Config) { c.Docs.HomeEnv = "" }, "docs.home_env must not be empty"},
		{"blank tool name", func(c *Config) { c.Docs.ToolName = "  " }, "docs.tool_name must not be empty"},
		{"no args source", func(c *Config) { c.Docs.ToxFile = "" }, "either docs.args or docs.tox_file"},
		{"args without tox file", func(c *Config) { c.Docs.ToxFile = ""; c.Docs.Args = []string{"--html"} }, ""},
		{"same dirs", func(c *Config) { c.Docs.OutputDir = c.Docs.ToolOutput }, "must differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
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

func TestGetConfig_Invalid(t *testing.T) {
	resetViper(t)
	chdir(t, t.TempDir())
	require.NoError(t, InitConfig(""))

	viper.Set("docs.output_dir", "")
	_, err := GetConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docs.output_dir")
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "docs.args")
	assert.Contains(t, keys, "log.level")
	assert.IsIncreasing(t, keys)
	for _, key := range keys {
		assert.True(t, IsValidKey(key), key)
	}
	assert.False(t, IsValidKey("docs.unknown"))
}

func TestSetValue(t *testing.T) {
	resetViper(t)

	require.NoError(t, SetValue("docs.args", "-o build/html  --html pynotedb"))
	assert.Equal(t, []string{"-o", "build/html", "--html", "pynotedb"}, viper.GetStringSlice("docs.args"))

	require.NoError(t, SetValue("docs.output_dir", "public"))
	assert.Equal(t, "public", viper.GetString("docs.output_dir"))

	require.NoError(t, SetValue("log.pretty", "false"))
	assert.False(t, viper.GetBool("log.pretty"))

	err := SetValue("log.pretty", "sometimes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid value for log.pretty")

	err = SetValue("docs.nope", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown configuration key")
}

func TestSaveConfig(t *testing.T) {
	resetViper(t)

	configFile := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, InitConfig(configFile))
	require.NoError(t, SetValue("docs.output_dir", "public"))
	require.NoError(t, SaveConfig())

	require.FileExists(t, configFile)
	if runtime.GOOS != "windows" {
		info, err := os.Stat(configFile)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	viper.Reset()
	require.NoError(t, InitConfig(configFile))
	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "public", cfg.Docs.OutputDir)
}

func TestInitConfig_NoteDbEnvOverride(t *testing.T) {
	resetViper(t)
	chdir(t, t.TempDir())
	t.Setenv("DOCTASK_NOTEDB_ALL_USERS", "ssh://gerrit:29418/All-Users")
	t.Setenv("DOCTASK_NOTEDB_CACHE_DIR", "/var/cache/doctask")

	require.NoError(t, InitConfig(""))

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "ssh://gerrit:29418/All-Users", cfg.NoteDb.AllUsers)
	assert.Equal(t, "/var/cache/doctask", cfg.NoteDb.CacheDir)
	assert.Empty(t, cfg.NoteDb.AuthorName)
}

func TestNoteDbConfig_GitEnv(t *testing.T) {
	assert.Empty(t, NoteDbConfig{}.GitEnv())

	env := NoteDbConfig{AuthorName: "Gerrit Setup", AuthorEmail: "setup@example.com"}.GitEnv()
	assert.Equal(t, []string{
		"GIT_AUTHOR_NAME=Gerrit Setup",
		"GIT_COMMITTER_NAME=Gerrit Setup",
		"GIT_AUTHOR_EMAIL=setup@example.com",
		"GIT_COMMITTER_EMAIL=setup@example.com",
	}, env)

	assert.Equal(t, []string{"GIT_AUTHOR_EMAIL=a@b", "GIT_COMMITTER_EMAIL=a@b"}, NoteDbConfig{AuthorEmail: "a@b"}.GitEnv())
}

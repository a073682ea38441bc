package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/quantmind-br/sdklaunch/internal/security"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Runtime RuntimeConfig `mapstructure:"runtime"`
	Paths   PathsConfig   `mapstructure:"paths"`
	Staging StagingConfig `mapstructure:"staging"`
	Launch  LaunchConfig  `mapstructure:"launch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// RuntimeConfig controls how the runtime binary is discovered and verified
type RuntimeConfig struct {
	Binary           string        `mapstructure:"binary"`
	WindowedBinary   string        `mapstructure:"windowed_binary"`
	HomeEnv          string        `mapstructure:"home_env"`
	PathEnv          string        `mapstructure:"path_env"`
	ListSeparator    string        `mapstructure:"list_separator"`
	RegistryRoot     string        `mapstructure:"registry_root"`
	RegistryFamilies []string      `mapstructure:"registry_families"`
	VersionValue     string        `mapstructure:"version_value"`
	HomeValue        string        `mapstructure:"home_value"`
	InstallSubdir    string        `mapstructure:"install_subdir"`
	InstallGlob      string        `mapstructure:"install_glob"`
	BannerKeywords   []string      `mapstructure:"banner_keywords"`
	RequireVersion   bool          `mapstructure:"require_version"`
	ProbeTimeout     time.Duration `mapstructure:"probe_timeout"`
	Cache            bool          `mapstructure:"cache"`
}

// PathsConfig contains path-related configuration
type PathsConfig struct {
	ToolsDirEnv string `mapstructure:"tools_dir_env"`
	DebugEnv    string `mapstructure:"debug_env"`
	CacheFile   string `mapstructure:"cache_file"`
	LogFile     string `mapstructure:"log_file"`
}

// StagingConfig describes the private working tree and what gets mirrored into it
type StagingConfig struct {
	DirName string         `mapstructure:"dir_name"`
	Dirs    []string       `mapstructure:"dirs"`
	Files   []StagingEntry `mapstructure:"files"`
}

// StagingEntry is one manifest line: a glob relative to the tools dir
type StagingEntry struct {
	Glob     string `mapstructure:"glob"`
	Dest     string `mapstructure:"dest"`
	Optional bool   `mapstructure:"optional"`
}

// LaunchConfig contains the pieces of the final command line
type LaunchConfig struct {
	MainClass     string   `mapstructure:"main_class"`
	ToolsProperty string   `mapstructure:"tools_property"`
	WorkProperty  string   `mapstructure:"work_property"`
	Classpath     []string `mapstructure:"classpath"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Color string `mapstructure:"color"`
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "sdklaunch"))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".config", "sdklaunch"))
	}
	v.AddConfigPath(".")

	setDefaults(v)

	// Environment variable overrides
	v.SetEnvPrefix("SDKLAUNCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return decode(v)
}

// LoadFile loads configuration from an explicit file, still applying defaults
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	return decode(v)
}

// Default returns the built-in configuration without reading files or environment
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		// defaults are static; a decode failure is a programming error
		panic(err)
	}
	return cfg
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Paths.CacheFile = expandPath(cfg.Paths.CacheFile)
	cfg.Paths.LogFile = expandPath(cfg.Paths.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the values other components rely on
func (c *Config) Validate() error {
	if c.Runtime.Binary == "" {
		return fmt.Errorf("runtime.binary must not be empty")
	}
	if c.Staging.DirName == "" || strings.ContainsAny(c.Staging.DirName, `/\`) || c.Staging.DirName == ".." {
		return fmt.Errorf("staging.dir_name must be a single path segment, got %q", c.Staging.DirName)
	}
	if len(c.Runtime.ListSeparator) > 1 {
		return fmt.Errorf("runtime.list_separator must be a single character, got %q", c.Runtime.ListSeparator)
	}

	envNames := map[string]string{
		"runtime.home_env":    c.Runtime.HomeEnv,
		"runtime.path_env":    c.Runtime.PathEnv,
		"paths.tools_dir_env": c.Paths.ToolsDirEnv,
		"paths.debug_env":     c.Paths.DebugEnv,
	}
	for key, name := range envNames {
		if err := security.ValidateEnvironmentVariable(name); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	for i, dir := range c.Staging.Dirs {
		if err := security.ValidateGlob(dir); err != nil {
			return fmt.Errorf("staging.dirs[%d]: %w", i, err)
		}
	}
	for i, entry := range c.Staging.Files {
		if err := security.ValidateGlob(entry.Glob); err != nil {
			return fmt.Errorf("staging.files[%d]: %w", i, err)
		}
	}

	if err := security.ValidateClassName(c.Launch.MainClass); err != nil {
		return fmt.Errorf("launch.main_class: %w", err)
	}
	for key, prop := range map[string]string{
		"launch.tools_property": c.Launch.ToolsProperty,
		"launch.work_property":  c.Launch.WorkProperty,
	} {
		if err := security.ValidateProperty(prop); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	dataDir := defaultDataDir()

	binary, windowed := "java", "javaw"
	if runtime.GOOS == "windows" {
		binary, windowed = "java.exe", "javaw.exe"
	}

	v.SetDefault("runtime.binary", binary)
	v.SetDefault("runtime.windowed_binary", windowed)
	v.SetDefault("runtime.home_env", "JAVA_HOME")
	v.SetDefault("runtime.path_env", "PATH")
	v.SetDefault("runtime.list_separator", string(os.PathListSeparator))
	v.SetDefault("runtime.registry_root", `SOFTWARE\JavaSoft`)
	v.SetDefault("runtime.registry_families", []string{
		"Java Runtime Environment",
		"JRE",
		"Java Development Kit",
		"JDK",
	})
	v.SetDefault("runtime.version_value", "CurrentVersion")
	v.SetDefault("runtime.home_value", "JavaHome")
	v.SetDefault("runtime.install_subdir", "Java")
	v.SetDefault("runtime.install_glob", "j*")
	v.SetDefault("runtime.banner_keywords", []string{"java", "version"})
	v.SetDefault("runtime.require_version", false)
	v.SetDefault("runtime.probe_timeout", time.Duration(0))
	v.SetDefault("runtime.cache", true)

	v.SetDefault("paths.tools_dir_env", "ANDROID_SDKMAN_TOOLS_DIR")
	v.SetDefault("paths.debug_env", "ANDROID_SDKMAN_DEBUG")
	v.SetDefault("paths.cache_file", filepath.Join(dataDir, "runtimes.db"))
	v.SetDefault("paths.log_file", filepath.Join(dataDir, "sdklaunch.log"))

	v.SetDefault("staging.dir_name", "temp-android-tool")
	v.SetDefault("staging.dirs", []string{"lib", "lib/x86", "lib/x86_64"})
	v.SetDefault("staging.files", []map[string]interface{}{
		{"glob": "lib/x86/swt.jar", "optional": true},
		{"glob": "lib/x86_64/swt.jar", "optional": true},
		{"glob": "lib/androidprefs.jar"},
		{"glob": "lib/org.eclipse.*"},
		{"glob": "lib/sdk*"},
		{"glob": "lib/common.jar"},
		{"glob": "lib/commons-compress*"},
		{"glob": "lib/swtmenubar.jar"},
		{"glob": "lib/commons-logging*"},
		{"glob": "lib/commons-codec*"},
		{"glob": "lib/httpclient*"},
		{"glob": "lib/httpcore*"},
		{"glob": "lib/httpmime*"},
	})

	v.SetDefault("launch.main_class", "com.android.sdkmanager.Main")
	v.SetDefault("launch.tools_property", "com.android.sdkmanager.toolsdir")
	v.SetDefault("launch.work_property", "com.android.sdkmanager.workdir")
	v.SetDefault("launch.classpath", []string{
		"lib/sdkmanager.jar",
		"lib/swtmenubar.jar",
		"lib/{arch}/swt.jar",
	})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.color", "auto")
}

// defaultDataDir picks the per-user data directory
func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "sdklaunch")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".local", "share", "sdklaunch")
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	return os.ExpandEnv(path)
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Node    NodeConfig    `mapstructure:"node"`
	Storage StorageConfig `mapstructure:"storage"`
	Player  PlayerConfig  `mapstructure:"player"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// NodeConfig holds the local network node configuration
type NodeConfig struct {
	URL string `mapstructure:"url"` // Base URL of the node HTTP API
}

// StorageConfig holds local storage paths
type StorageConfig struct {
	DataDir        string `mapstructure:"data_dir"`        // Directory for the bbolt database
	DownloadFolder string `mapstructure:"download_folder"` // Directory for cached song files
}

// PlayerConfig holds media player configuration
type PlayerConfig struct {
	Command      string   `mapstructure:"command"` // Player binary, default "mpv"
	Args         []string `mapstructure:"args"`
	Socket       string   `mapstructure:"socket"`        // IPC socket path
	URLStrategy  string   `mapstructure:"url_strategy"`  // "file" or "loopback"
	LoopbackPort int      `mapstructure:"loopback_port"` // Port for the loopback strategy
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Node: NodeConfig{
			URL: "http://127.0.0.1:8650",
		},
		Storage: StorageConfig{
			DataDir:        defaultDataPath(),
			DownloadFolder: defaultDownloadPath(),
		},
		Player: PlayerConfig{
			Command:      "mpv",
			Args:         []string{},
			Socket:       defaultSocketPath(),
			URLStrategy:  "file",
			LoopbackPort: 12345,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "jams", "jams.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "jams", "jams.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "jams")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "jams")
	}
}

// defaultDataPath returns the default database directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "jams")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "jams")
	}
}

// defaultDownloadPath returns the default song cache directory
func defaultDownloadPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "jams", "songs")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "jams", "songs")
	}
}

// defaultSocketPath returns the default player IPC socket path
func defaultSocketPath() string {
	switch runtime.GOOS {
	case "windows":
		return `\\.\pipe\jams-mpv`
	default:
		return filepath.Join(os.TempDir(), "jams-mpv.sock")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("JAMS")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("node.url", cfg.Node.URL)

	viper.Set("storage.data_dir", cfg.Storage.DataDir)
	viper.Set("storage.download_folder", cfg.Storage.DownloadFolder)

	viper.Set("player.command", cfg.Player.Command)
	viper.Set("player.args", cfg.Player.Args)
	viper.Set("player.socket", cfg.Player.Socket)
	viper.Set("player.url_strategy", cfg.Player.URLStrategy)
	viper.Set("player.loopback_port", cfg.Player.LoopbackPort)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

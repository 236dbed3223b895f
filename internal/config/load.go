package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads and parses the configuration file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("configuration file not found at %s", path)
		}
		return nil, err
	}
	return Parse(data)
}

// ConfigDirPath returns /etc/remapd when running as root, or
// $HOME/.config/remapd otherwise — mirrored from original_source's
// fs/config.rs get_config_dir_path.
func ConfigDirPath() (string, error) {
	if os.Geteuid() == 0 {
		return "/etc/remapd", nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "remapd"), nil
}

// DefaultConfigPath returns the default config.yaml path under
// ConfigDirPath.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDirPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

const (
	defaultConfigPath = "~/.config/vid2mp3/config.toml"
	projectConfigName = "vid2mp3.toml"
)

// Load overlays a TOML config file and VID2MP3_* environment variables onto
// cfg. An explicit path that does not exist is an error; when path is empty
// the user config and then ./vid2mp3.toml are tried and silently skipped if
// absent. Returns the file that was read, or "" when none was.
func Load(path string, cfg *Config) (string, error) {
	resolved, err := resolveConfigPath(path)
	if err != nil {
		return "", err
	}

	if resolved != "" {
		file, err := os.Open(resolved)
		if err != nil {
			return "", fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(cfg); err != nil {
			return "", fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return "", fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return "", err
	}
	return resolved, nil
}

func resolveConfigPath(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(expanded); err != nil {
			return "", fmt.Errorf("stat config: %w", err)
		}
		return expanded, nil
	}

	userPath, err := ExpandPath(defaultConfigPath)
	if err != nil {
		return "", err
	}
	for _, candidate := range []string{userPath, projectConfigName} {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat config: %w", err)
		}
	}
	return "", nil
}

// ExpandPath resolves a leading "~" to the user's home directory.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(strings.TrimSpace(path))
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	return expanded, nil
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.InputDir, &c.OutputDir, &c.FfmpegPath, &c.FfprobePath, &c.LogFile} {
		if *p == "" {
			continue
		}
		expanded, err := ExpandPath(*p)
		if err != nil {
			return err
		}
		*p = filepath.Clean(expanded)
	}
	return nil
}

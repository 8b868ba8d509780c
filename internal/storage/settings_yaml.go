package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pomodoro/internal/core/model"
	"pomodoro/internal/logger"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

const maxIdlePauseMinutes = 24 * 60

type yamlSettings struct {
	NotificationsEnabled *bool  `yaml:"notifications_enabled"`
	NotifierBackend      string `yaml:"notifier_backend"`
	StartOnLaunch        bool   `yaml:"start_on_launch"`
	IdlePauseMinutes     int    `yaml:"idle_pause_minutes"`
	LogLevel             string `yaml:"log_level"`
}

// DefaultPath returns the settings path under the user config directory.
func DefaultPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// LoadSettings reads user preferences from the YAML file at path.
// If the file does not exist, default settings are returned.
func LoadSettings(path string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to the YAML file at path.
func SaveSettings(path string, settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	enabled := settings.NotificationsEnabled
	fileData := yamlSettings{
		NotificationsEnabled: &enabled,
		NotifierBackend:      string(settings.NotifierBackend),
		StartOnLaunch:        settings.StartOnLaunch,
		IdlePauseMinutes:     settings.IdlePauseMinutes,
		LogLevel:             settings.LogLevel,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if fileData.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *fileData.NotificationsEnabled
	}
	if backend := model.NotifierBackend(strings.ToLower(fileData.NotifierBackend)); backend.Valid() {
		settings.NotifierBackend = backend
	}
	if fileData.IdlePauseMinutes > 0 && fileData.IdlePauseMinutes <= maxIdlePauseMinutes {
		settings.IdlePauseMinutes = fileData.IdlePauseMinutes
	}
	if name, ok := logger.CanonicalName(fileData.LogLevel); ok {
		settings.LogLevel = name
	}

	settings.StartOnLaunch = fileData.StartOnLaunch
}

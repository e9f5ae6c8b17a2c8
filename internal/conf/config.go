// config.go: This file contains the configuration for the SoundAware application.
// It defines the settings struct and functions to load and save the settings.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configFiles embed.FS

// ModelSettings contains the classification model parameters. These are pure
// parameters read by the pipeline and never mutated by it.
type ModelSettings struct {
	ModelVersion         string  // reported model version string
	Sensitivity          float64 // detection sensitivity, 0.0 to 1.0
	ConfidenceThreshold  float64 // minimum confidence to flag a detection as reliable
	SampleRate           int     // target sample rate for normalized audio, Hz
	MaxDuration          int     // capture chunk length in seconds
	BatchSize            int     // inference batch size hint
	EnablePreprocessing  bool    // enable audio preprocessing before upload
	EnablePostprocessing bool    // enable result postprocessing
}

// CaptureSettings contains limits for audio capture and file uploads.
type CaptureSettings struct {
	Device       string   // capture device name, empty for system default
	MaxFileSize  int64    // maximum accepted upload size in bytes
	AllowedTypes []string // allowed file extensions for uploads
}

// BackendSettings contains the inference backend connection parameters.
type BackendSettings struct {
	URL          string // explicit backend base URL override, empty to auto-resolve
	Port         int    // backend port used when deriving candidates
	Timeout      int    // per-request timeout in seconds
	RetryDelayMs int    // delay before the single same-candidate retry on 5xx
}

// MQTTSettings contains settings for optional detection publishing.
type MQTTSettings struct {
	Enabled  bool   // true to enable MQTT publishing of detections
	Broker   string // MQTT broker URL
	Topic    string // topic to publish detection events to
	Username string // MQTT username
	Password string // MQTT password
	Retain   bool   // true to publish messages with the retained flag
}

// RealtimeSettings contains settings for continuous chunked capture.
type RealtimeSettings struct {
	ChunkSeconds int          // length of each capture chunk in seconds
	MQTT         MQTTSettings // MQTT settings
}

// SQLiteSettings contains settings for the SQLite detection store.
type SQLiteSettings struct {
	Enabled bool   // true to persist detections to SQLite
	Path    string // path to the SQLite database file
}

// OutputSettings contains settings for persisted local state.
type OutputSettings struct {
	SQLite    SQLiteSettings // detection history database
	StatePath string         // directory for JSON state blobs (notifications, settings snapshot)
}

// WebServerSettings contains settings for the local HTTP API.
type WebServerSettings struct {
	Enabled bool   // true to enable the HTTP API
	Port    string // port to listen on
	Debug   bool   // true to enable API debug logging
}

// LogConfig defines the settings for log files.
type LogConfig struct {
	Enabled bool   // true to enable file logging
	Path    string // path to log file
}

// Settings contains all runtime settings for the application.
type Settings struct {
	Debug bool // true to enable debug mode

	Main struct {
		Name string    // name of this node, also used as the MQTT client ID
		Log  LogConfig // main log settings
	}

	Model     ModelSettings     // classification model parameters
	Capture   CaptureSettings   // capture and upload limits
	Backend   BackendSettings   // inference backend connection
	Realtime  RealtimeSettings  // continuous capture settings
	Output    OutputSettings    // persisted state settings
	Webserver WebServerSettings // HTTP API settings
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into a new
// Settings instance. A config file with an incompatible shape degrades to
// defaults instead of failing hard.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		// Incompatible persisted shape: fall back to built-in defaults.
		log.Printf("config did not unmarshal cleanly, using defaults: %v", err)
		settings = defaultSettings()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter,
	// function defined in defaults.go
	setDefaultConfig()

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates a default config file and writes it to the default config path
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")
	defaultConfig := getDefaultConfig()

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	return string(data)
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting returns the current settings instance, initializing it if necessary
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			_, err := Load()
			if err != nil {
				log.Fatalf("Error loading settings: %v", err)
			}
		}
	})
	return GetSettings()
}

// SaveSettings saves the current settings to the configuration file.
func SaveSettings() error {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()

	settingsCopy := *settingsInstance

	configPath, err := FindConfigFile()
	if err != nil {
		return fmt.Errorf("error finding config file: %w", err)
	}

	if err := SaveYAMLConfig(configPath, &settingsCopy); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	log.Printf("Settings saved successfully to %s", configPath)
	return nil
}

// SaveYAMLConfig updates the YAML configuration file with new settings.
// It overwrites the existing file, not preserving comments or structure.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	// Write the YAML data to a temporary file first to keep the write atomic.
	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()

	if _, err := tempFile.Write(yamlData); err != nil {
		tempFile.Close()
		os.Remove(tempFileName)
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempFileName)
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := os.Rename(tempFileName, configPath); err != nil {
		os.Remove(tempFileName)
		return fmt.Errorf("error replacing config file: %w", err)
	}

	return nil
}

// LoadYAMLConfig reads a settings struct back from a YAML file. An unreadable
// or incompatible file yields the built-in defaults.
func LoadYAMLConfig(configPath string) *Settings {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return defaultSettings()
	}
	settings := defaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		log.Printf("config at %s did not unmarshal cleanly, using defaults: %v", configPath, err)
		return defaultSettings()
	}
	return settings
}

// FindConfigFile locates the active config file on disk.
func FindConfigFile() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return "", err
	}
	for _, path := range configPaths {
		candidate := filepath.Join(path, "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("config file not found")
}

// GetDefaultConfigPaths returns the list of directories searched for config.yaml,
// in priority order.
func GetDefaultConfigPaths() ([]string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("error getting user config directory: %w", err)
	}
	return []string{
		filepath.Join(configDir, "soundaware"),
		".",
	}, nil
}

// ValidateSettings checks the loaded settings for values the pipeline cannot
// operate with.
func ValidateSettings(settings *Settings) error {
	if settings.Model.Sensitivity < 0 || settings.Model.Sensitivity > 1 {
		return fmt.Errorf("model sensitivity must be between 0.0 and 1.0, got %v", settings.Model.Sensitivity)
	}
	if settings.Model.ConfidenceThreshold < 0 || settings.Model.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold must be between 0.0 and 1.0, got %v", settings.Model.ConfidenceThreshold)
	}
	if settings.Model.SampleRate <= 0 {
		return fmt.Errorf("model sample rate must be positive, got %d", settings.Model.SampleRate)
	}
	if settings.Model.MaxDuration <= 0 {
		return fmt.Errorf("model max duration must be positive, got %d", settings.Model.MaxDuration)
	}
	if settings.Capture.MaxFileSize <= 0 {
		return fmt.Errorf("capture max file size must be positive, got %d", settings.Capture.MaxFileSize)
	}
	if settings.Realtime.ChunkSeconds <= 0 {
		return fmt.Errorf("realtime chunk seconds must be positive, got %d", settings.Realtime.ChunkSeconds)
	}
	return nil
}

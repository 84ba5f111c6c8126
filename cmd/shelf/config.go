// Config loading for the shelf CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/shelf/internal/paths"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "SHELF"
	dotEnvFile     = ".env"

	cfgKeyDataDir         = "data_dir"
	cfgKeyStoreFile       = "store_file"
	cfgKeyDailyRate       = "daily_rate"
	cfgKeyDefaultLoanDays = "default_loan_days"
	cfgKeyMaxLoanDays     = "max_loan_days"
	cfgKeyAutosave        = "autosave"
	cfgKeyJournal         = "journal"
	cfgKeyLogLevel        = "log_level"

	defaultLogLevel = "info"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# shelf configuration

# Data directory (optional; overridable by --data-dir and SHELF_DATA_DIR)
# data_dir:

# Catalog document inside the data directory
store_file: books.json

# Overdue fee per day
daily_rate: 1.5

# Loan length used by lend and by wait-list hand-over
default_loan_days: 14

# Longest total loan across renewals (0 = unlimited)
max_loan_days: 0

# Save after every change
autosave: true

# Record activity in journal.db
journal: true

# debug, info, warn or error
log_level: info
`

// loadConfig loads .env from the working directory when present, then
// reads config.yaml from configDir, creating the directory and a default
// file on first run. SHELF_* environment variables override file values.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyStoreFile, types.DefaultStoreFile)
	v.SetDefault(cfgKeyDailyRate, types.DefaultDailyRate)
	v.SetDefault(cfgKeyDefaultLoanDays, types.DefaultLoanDays)
	v.SetDefault(cfgKeyMaxLoanDays, types.DefaultMaxLoanDays)
	v.SetDefault(cfgKeyAutosave, true)
	v.SetDefault(cfgKeyJournal, true)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("%w: read config: %w", types.ErrValidation, err)
	}
	return v, nil
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return paths.EnsureDir(configDir)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, paths.ConfigFileName)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// libraryConfig builds the session configuration from the loaded settings.
func (a *app) libraryConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flagDataDir, a.v.GetString(cfgKeyDataDir), a.configDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return types.Config{
		DataDir:         dataDir,
		StoreFile:       a.v.GetString(cfgKeyStoreFile),
		DailyRate:       a.v.GetFloat64(cfgKeyDailyRate),
		DefaultLoanDays: a.v.GetInt(cfgKeyDefaultLoanDays),
		MaxLoanDays:     a.v.GetInt(cfgKeyMaxLoanDays),
		Autosave:        a.v.GetBool(cfgKeyAutosave),
		Journal:         a.v.GetBool(cfgKeyJournal),
	}, nil
}

// persistSetting writes key=value to config.yaml, keeping the other keys
// that are set in the file.
func (a *app) persistSetting(key string, value any) error {
	path := filepath.Join(a.configDir, paths.ConfigFileName)

	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType(configFileType)
	if err := file.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: read config: %w", types.ErrIO, err)
	}
	file.Set(key, value)
	if err := file.WriteConfigAs(path); err != nil {
		return fmt.Errorf("%w: write config: %w", types.ErrIO, err)
	}
	a.v.Set(key, value)
	return nil
}

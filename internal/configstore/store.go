package configstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	settingsPathRequiredMessageConstant  = "settings path must be provided"
	settingsReadFailedMessageConstant    = "settings file could not be read, continuing with defaults"
	settingsParseFailedMessageConstant   = "settings file could not be parsed, continuing with defaults"
	settingsHealedMessageConstant        = "settings file was missing fields and has been repaired"
	settingsCreatedMessageConstant       = "settings file created with default values"
	settingsWriteFailedMessageConstant   = "settings file could not be written"
	logFieldSettingsPathConstant         = "settings_path"
	settingsDirectoryPermissionsConstant = 0o755
	settingsFilePermissionsConstant      = 0o644
	settingsFileIndentConstant           = "  "
	defaultSettingsDirectoryNameConstant = ".config"
	defaultSettingsSubdirectoryConstant  = "repoup"
	defaultSettingsFileNameConstant      = "settings.json"
)

var defaultBranchNames = []string{"master", "main"}

// ErrSettingsPathRequired indicates a Store was constructed without a file path.
var ErrSettingsPathRequired = errors.New(settingsPathRequiredMessageConstant)

// Settings is the durable configuration record driving batch updates.
type Settings struct {
	Repositories  []string `json:"Repositories"`
	RootDirectory string   `json:"RootDirectory"`
	Branches      []string `json:"Branches"`
}

// persistedSettings mirrors Settings with pointer fields so absent keys are distinguishable from empty values.
type persistedSettings struct {
	Repositories  *[]string `json:"Repositories"`
	RootDirectory *string   `json:"RootDirectory"`
	Branches      *[]string `json:"Branches"`
}

// DefaultSettings returns the record synthesized when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		Repositories:  []string{},
		RootDirectory: "",
		Branches:      append([]string{}, defaultBranchNames...),
	}
}

// DefaultSettingsPath resolves the settings file location under the user's profile directory.
func DefaultSettingsPath() (string, error) {
	homeDirectory, homeDirectoryError := os.UserHomeDir()
	if homeDirectoryError != nil {
		return "", homeDirectoryError
	}
	return filepath.Join(homeDirectory, defaultSettingsDirectoryNameConstant, defaultSettingsSubdirectoryConstant, defaultSettingsFileNameConstant), nil
}

// SettingsUpdate describes a partial save. Nil fields keep the current value; non-nil fields replace it.
type SettingsUpdate struct {
	Repositories  *[]string
	RootDirectory *string
	Branches      *[]string
}

// Store loads, repairs, and persists the settings record at a fixed path.
type Store struct {
	settingsPath string
	logger       *zap.Logger
	current      Settings
}

// NewStore constructs a Store bound to the provided settings file path.
func NewStore(settingsPath string, logger *zap.Logger) (*Store, error) {
	if len(settingsPath) == 0 {
		return nil, ErrSettingsPathRequired
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{settingsPath: settingsPath, logger: logger, current: DefaultSettings()}, nil
}

// SettingsPath reports the file path the store reads and writes.
func (store *Store) SettingsPath() string {
	return store.settingsPath
}

// Settings returns a copy of the most recently loaded or saved record.
func (store *Store) Settings() Settings {
	return copySettings(store.current)
}

// Load reads the settings record, synthesizing and repairing it as needed.
// Load never fails: unreadable or corrupt files are logged and replaced in
// memory by an all-defaults record without touching disk.
func (store *Store) Load() Settings {
	fileContents, readError := os.ReadFile(store.settingsPath)
	if readError != nil {
		if os.IsNotExist(readError) {
			store.current = DefaultSettings()
			if writeError := store.writeCurrent(); writeError == nil {
				store.logger.Info(settingsCreatedMessageConstant, zap.String(logFieldSettingsPathConstant, store.settingsPath))
			}
			return store.Settings()
		}

		store.logger.Error(settingsReadFailedMessageConstant, zap.String(logFieldSettingsPathConstant, store.settingsPath), zap.Error(readError))
		store.current = DefaultSettings()
		return store.Settings()
	}

	var persisted persistedSettings
	if parseError := json.Unmarshal(fileContents, &persisted); parseError != nil {
		store.logger.Error(settingsParseFailedMessageConstant, zap.String(logFieldSettingsPathConstant, store.settingsPath), zap.Error(parseError))
		store.current = DefaultSettings()
		return store.Settings()
	}

	healedSettings, fieldsHealed := healSettings(persisted)
	store.current = healedSettings
	if fieldsHealed {
		if writeError := store.writeCurrent(); writeError == nil {
			store.logger.Info(settingsHealedMessageConstant, zap.String(logFieldSettingsPathConstant, store.settingsPath))
		}
	}

	return store.Settings()
}

// Save applies the non-nil fields of the update to the in-memory record and
// rewrites the whole settings file. The write is a full overwrite, never a
// merge. A failed write leaves the in-memory record untouched so later saves
// cannot sneak the rejected values onto disk.
func (store *Store) Save(update SettingsUpdate) error {
	updatedSettings := copySettings(store.current)
	if update.Repositories != nil {
		updatedSettings.Repositories = append([]string{}, (*update.Repositories)...)
	}
	if update.RootDirectory != nil {
		updatedSettings.RootDirectory = *update.RootDirectory
	}
	if update.Branches != nil {
		updatedSettings.Branches = append([]string{}, (*update.Branches)...)
	}

	if writeError := store.writeSettings(updatedSettings); writeError != nil {
		return writeError
	}

	store.current = updatedSettings
	return nil
}

func (store *Store) writeCurrent() error {
	return store.writeSettings(store.current)
}

func (store *Store) writeSettings(settings Settings) error {
	encodedSettings, encodeError := json.MarshalIndent(settings, "", settingsFileIndentConstant)
	if encodeError != nil {
		store.logger.Error(settingsWriteFailedMessageConstant, zap.String(logFieldSettingsPathConstant, store.settingsPath), zap.Error(encodeError))
		return encodeError
	}

	if directoryError := os.MkdirAll(filepath.Dir(store.settingsPath), settingsDirectoryPermissionsConstant); directoryError != nil {
		store.logger.Error(settingsWriteFailedMessageConstant, zap.String(logFieldSettingsPathConstant, store.settingsPath), zap.Error(directoryError))
		return directoryError
	}

	if writeError := os.WriteFile(store.settingsPath, encodedSettings, settingsFilePermissionsConstant); writeError != nil {
		store.logger.Error(settingsWriteFailedMessageConstant, zap.String(logFieldSettingsPathConstant, store.settingsPath), zap.Error(writeError))
		return writeError
	}

	return nil
}

func healSettings(persisted persistedSettings) (Settings, bool) {
	healedSettings := DefaultSettings()
	fieldsHealed := false

	if persisted.Repositories != nil {
		healedSettings.Repositories = append([]string{}, (*persisted.Repositories)...)
	} else {
		fieldsHealed = true
	}

	if persisted.RootDirectory != nil {
		healedSettings.RootDirectory = *persisted.RootDirectory
	} else {
		fieldsHealed = true
	}

	if persisted.Branches != nil {
		healedSettings.Branches = append([]string{}, (*persisted.Branches)...)
	} else {
		fieldsHealed = true
	}

	return healedSettings, fieldsHealed
}

func copySettings(settings Settings) Settings {
	return Settings{
		Repositories:  append([]string{}, settings.Repositories...),
		RootDirectory: settings.RootDirectory,
		Branches:      append([]string{}, settings.Branches...),
	}
}

package configstore_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/repoup/internal/configstore"
)

const (
	testSettingsFileNameConstant = "settings.json"
	testRepositoryNameConstant   = "project-alpha"
)

func newTestStore(t *testing.T) (*configstore.Store, string) {
	t.Helper()
	settingsPath := filepath.Join(t.TempDir(), testSettingsFileNameConstant)
	store, creationError := configstore.NewStore(settingsPath, zap.NewNop())
	require.NoError(t, creationError)
	return store, settingsPath
}

func readPersistedRecord(t *testing.T, settingsPath string) map[string]any {
	t.Helper()
	fileContents, readError := os.ReadFile(settingsPath)
	require.NoError(t, readError)
	var persistedRecord map[string]any
	require.NoError(t, json.Unmarshal(fileContents, &persistedRecord))
	return persistedRecord
}

func TestNewStoreRequiresPath(t *testing.T) {
	store, creationError := configstore.NewStore("", zap.NewNop())
	require.ErrorIs(t, creationError, configstore.ErrSettingsPathRequired)
	require.Nil(t, store)
}

func TestLoadSynthesizesDefaultsWhenFileAbsent(t *testing.T) {
	store, settingsPath := newTestStore(t)

	loadedSettings := store.Load()

	require.Equal(t, configstore.DefaultSettings(), loadedSettings)
	require.Equal(t, []string{"master", "main"}, loadedSettings.Branches)
	require.NotNil(t, loadedSettings.Repositories)

	persistedRecord := readPersistedRecord(t, settingsPath)
	require.Contains(t, persistedRecord, "Repositories")
	require.Contains(t, persistedRecord, "RootDirectory")
	require.Contains(t, persistedRecord, "Branches")
}

func TestLoadHealsPartiallyShapedRecords(t *testing.T) {
	testCases := []struct {
		name                 string
		persistedContent     string
		expectedRoot         string
		expectedRepositories []string
		expectedBranches     []string
	}{
		{
			name:                 "missing_branches",
			persistedContent:     `{"Repositories":["a"],"RootDirectory":"/srv/repos"}`,
			expectedRoot:         "/srv/repos",
			expectedRepositories: []string{"a"},
			expectedBranches:     []string{"master", "main"},
		},
		{
			name:                 "missing_repositories_and_root",
			persistedContent:     `{"Branches":["trunk"]}`,
			expectedRoot:         "",
			expectedRepositories: []string{},
			expectedBranches:     []string{"trunk"},
		},
		{
			name:                 "empty_object",
			persistedContent:     `{}`,
			expectedRoot:         "",
			expectedRepositories: []string{},
			expectedBranches:     []string{"master", "main"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			store, settingsPath := newTestStore(t)
			require.NoError(t, os.WriteFile(settingsPath, []byte(testCase.persistedContent), 0o644))

			loadedSettings := store.Load()

			require.Equal(t, testCase.expectedRoot, loadedSettings.RootDirectory)
			require.Equal(t, testCase.expectedRepositories, loadedSettings.Repositories)
			require.Equal(t, testCase.expectedBranches, loadedSettings.Branches)

			persistedRecord := readPersistedRecord(t, settingsPath)
			require.Contains(t, persistedRecord, "Repositories")
			require.Contains(t, persistedRecord, "RootDirectory")
			require.Contains(t, persistedRecord, "Branches")
		})
	}
}

func TestLoadFailsSoftlyOnCorruptFile(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), testSettingsFileNameConstant)
	require.NoError(t, os.WriteFile(settingsPath, []byte("{not json"), 0o644))

	observerCore, observedLogs := observer.New(zap.ErrorLevel)
	store, creationError := configstore.NewStore(settingsPath, zap.New(observerCore))
	require.NoError(t, creationError)

	loadedSettings := store.Load()

	require.Equal(t, configstore.DefaultSettings(), loadedSettings)
	require.NotEmpty(t, observedLogs.All())

	fileContents, readError := os.ReadFile(settingsPath)
	require.NoError(t, readError)
	require.Equal(t, "{not json", string(fileContents))
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	testCases := []struct {
		name     string
		settings configstore.Settings
	}{
		{
			name: "populated_record",
			settings: configstore.Settings{
				Repositories:  []string{"a", "b"},
				RootDirectory: "/srv/repos",
				Branches:      []string{"master", "main"},
			},
		},
		{
			name: "empty_lists_and_root",
			settings: configstore.Settings{
				Repositories:  []string{},
				RootDirectory: "",
				Branches:      []string{},
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			store, settingsPath := newTestStore(t)
			saveError := store.Save(configstore.SettingsUpdate{
				Repositories:  &testCase.settings.Repositories,
				RootDirectory: &testCase.settings.RootDirectory,
				Branches:      &testCase.settings.Branches,
			})
			require.NoError(t, saveError)

			reloadedStore, creationError := configstore.NewStore(settingsPath, zap.NewNop())
			require.NoError(t, creationError)
			require.Equal(t, testCase.settings, reloadedStore.Load())
		})
	}
}

func TestPartialSaveLeavesOtherFieldsUnchanged(t *testing.T) {
	store, settingsPath := newTestStore(t)
	initialRepositories := []string{"a", "b"}
	initialRoot := "/srv/repos"
	require.NoError(t, store.Save(configstore.SettingsUpdate{
		Repositories:  &initialRepositories,
		RootDirectory: &initialRoot,
	}))

	updatedBranches := []string{"trunk"}
	require.NoError(t, store.Save(configstore.SettingsUpdate{Branches: &updatedBranches}))

	reloadedStore, creationError := configstore.NewStore(settingsPath, zap.NewNop())
	require.NoError(t, creationError)
	reloadedSettings := reloadedStore.Load()
	require.Equal(t, initialRepositories, reloadedSettings.Repositories)
	require.Equal(t, initialRoot, reloadedSettings.RootDirectory)
	require.Equal(t, updatedBranches, reloadedSettings.Branches)
}

func TestSaveReportsWriteFailures(t *testing.T) {
	directoryAsSettingsPath := t.TempDir()
	store, creationError := configstore.NewStore(directoryAsSettingsPath, zap.NewNop())
	require.NoError(t, creationError)

	repositories := []string{testRepositoryNameConstant}
	require.Error(t, store.Save(configstore.SettingsUpdate{Repositories: &repositories}))
}

func TestFailedSaveLeavesInMemoryRecordUntouched(t *testing.T) {
	directoryAsSettingsPath := t.TempDir()
	store, creationError := configstore.NewStore(directoryAsSettingsPath, zap.NewNop())
	require.NoError(t, creationError)
	settingsBeforeSave := store.Settings()

	repositories := []string{testRepositoryNameConstant}
	require.Error(t, store.Save(configstore.SettingsUpdate{Repositories: &repositories}))

	require.Equal(t, settingsBeforeSave, store.Settings())
}
